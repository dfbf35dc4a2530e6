package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceKind distinguishes sales invoices (receivables) from purchase invoices (payables).
type InvoiceKind string

const (
	SalesInvoice    InvoiceKind = "SALES"
	PurchaseInvoice InvoiceKind = "PURCHASE"
)

// Invoice is a sales or purchase document raised against a party.
//
// BalanceAmount starts equal to TotalAmount and decreases as payments are
// allocated to the invoice. Cancelled and deleted invoices are excluded from
// every aggregate sum.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"`     // Primary key (UUID)
	InvoiceNumber string          `json:"invoiceNumber"` // Human-readable document number (e.g. INV-00042)
	Kind          InvoiceKind     `json:"kind"`
	PartyID       string          `json:"partyID"`
	InvoiceDate   time.Time       `json:"invoiceDate"`
	DueDate       time.Time       `json:"dueDate"`
	Subtotal      decimal.Decimal `json:"subtotal"`  // Sum of line totals before tax
	TaxAmount     decimal.Decimal `json:"taxAmount"` // Total GST across lines
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	BalanceAmount decimal.Decimal `json:"balanceAmount"` // Outstanding (unpaid) portion
	Notes         string          `json:"notes"`
	IsCancelled   bool            `json:"isCancelled"`
	IsDeleted     bool            `json:"isDeleted"`
	Items         []InvoiceItem   `json:"items,omitempty"`
	AuditFields
}

// Outstanding reports whether the invoice still carries an unpaid balance.
func (inv Invoice) Outstanding() bool {
	return !inv.IsCancelled && !inv.IsDeleted && inv.BalanceAmount.IsPositive()
}

// InvoiceItem is a single taxable line on an invoice.
type InvoiceItem struct {
	ItemID      string          `json:"itemID"` // Primary key (UUID)
	InvoiceID   string          `json:"invoiceID"`
	Description string          `json:"description"`
	HSNCode     string          `json:"hsnCode"` // Nullable HSN/SAC classification code
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	GSTRate     decimal.Decimal `json:"gstRate"`   // Percent, e.g. 18
	TaxAmount   decimal.Decimal `json:"taxAmount"` // GST for the line
	LineTotal   decimal.Decimal `json:"lineTotal"` // Tax-inclusive line total
}

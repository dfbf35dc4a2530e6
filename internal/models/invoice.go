package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceKind distinguishes sales from purchase invoices.
type InvoiceKind string

const (
	SalesInvoice    InvoiceKind = "SALES"
	PurchaseInvoice InvoiceKind = "PURCHASE"
)

// Invoice is the database representation of a sales/purchase document.
type Invoice struct {
	InvoiceID     string          `db:"invoice_id"`
	InvoiceNumber string          `db:"invoice_number"`
	Kind          InvoiceKind     `db:"kind"`
	PartyID       string          `db:"party_id"`
	InvoiceDate   time.Time       `db:"invoice_date"`
	DueDate       time.Time       `db:"due_date"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	TaxAmount     decimal.Decimal `db:"tax_amount"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	BalanceAmount decimal.Decimal `db:"balance_amount"`
	Notes         string          `db:"notes"`
	IsCancelled   bool            `db:"is_cancelled"`
	IsDeleted     bool            `db:"is_deleted"`
	AuditFields
}

// InvoiceItem is the database representation of a single invoice line.
type InvoiceItem struct {
	ItemID      string          `db:"item_id"`
	InvoiceID   string          `db:"invoice_id"`
	Description string          `db:"description"`
	HSNCode     string          `db:"hsn_code"` // Nullable
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	GSTRate     decimal.Decimal `db:"gst_rate"`
	TaxAmount   decimal.Decimal `db:"tax_amount"`
	LineTotal   decimal.Decimal `db:"line_total"`
}

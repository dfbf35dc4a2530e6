package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType indicates the direction of money movement.
type PaymentType string

const (
	// PaymentIn is money received from a customer against sales invoices.
	PaymentIn PaymentType = "PAYMENT_IN"
	// PaymentOut is money paid to a supplier against purchase invoices.
	PaymentOut PaymentType = "PAYMENT_OUT"
)

// PaymentMethod records how the money moved.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "CASH"
	MethodCheque   PaymentMethod = "CHEQUE"
	MethodTransfer PaymentMethod = "TRANSFER"
	MethodUPI      PaymentMethod = "UPI"
)

// Payment is a single receipt or disbursement against a party, drawn from or
// deposited into an account. Payments are the source of truth the cached
// party and account balances must stay re-derivable from; deleting a payment
// is a soft delete so the audit trail survives.
type Payment struct {
	PaymentID     string              `json:"paymentID"`     // Primary key (UUID)
	PaymentNumber string              `json:"paymentNumber"` // Human-readable document number (e.g. PAY-00017)
	PaymentType   PaymentType         `json:"paymentType"`
	PartyID       string              `json:"partyID"`
	AccountID     string              `json:"accountID"`
	Amount        decimal.Decimal     `json:"amount"` // Always positive
	PaymentDate   time.Time           `json:"paymentDate"`
	Method        PaymentMethod       `json:"method"`
	ReferenceNo   string              `json:"referenceNo"` // Cheque/UTR number, nullable
	Notes         string              `json:"notes"`
	IsDeleted     bool                `json:"isDeleted"`
	Allocations   []PaymentAllocation `json:"allocations,omitempty"`
	AuditFields
}

// PaymentAllocation assigns a portion of a payment to a specific invoice,
// reducing that invoice's outstanding balance.
type PaymentAllocation struct {
	AllocationID string          `json:"allocationID"` // Primary key (UUID)
	PaymentID    string          `json:"paymentID"`
	InvoiceID    string          `json:"invoiceID"`
	Amount       decimal.Decimal `json:"amount"`
	IsDeleted    bool            `json:"isDeleted"`
}

// AllocatedTotal sums the payment's live allocations.
func (p Payment) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Allocations {
		if !a.IsDeleted {
			total = total.Add(a.Amount)
		}
	}
	return total
}

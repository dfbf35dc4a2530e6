package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType indicates the direction of money movement.
type PaymentType string

const (
	PaymentIn  PaymentType = "PAYMENT_IN"
	PaymentOut PaymentType = "PAYMENT_OUT"
)

// Payment is the database representation of a receipt or disbursement.
type Payment struct {
	PaymentID     string          `db:"payment_id"`
	PaymentNumber string          `db:"payment_number"`
	PaymentType   PaymentType     `db:"payment_type"`
	PartyID       string          `db:"party_id"`
	AccountID     string          `db:"account_id"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentDate   time.Time       `db:"payment_date"`
	Method        string          `db:"method"`
	ReferenceNo   string          `db:"reference_no"` // Nullable
	Notes         string          `db:"notes"`
	IsDeleted     bool            `db:"is_deleted"`
	AuditFields
}

// PaymentAllocation is the database representation of a payment-to-invoice allocation.
type PaymentAllocation struct {
	AllocationID string          `db:"allocation_id"`
	PaymentID    string          `db:"payment_id"`
	InvoiceID    string          `db:"invoice_id"`
	Amount       decimal.Decimal `db:"amount"`
	IsDeleted    bool            `db:"is_deleted"`
}

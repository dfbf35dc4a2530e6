package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentTransaction is the audit-trail row on a party ledger.
type PaymentTransaction struct {
	TransactionID   string          `db:"transaction_id"`
	PaymentID       string          `db:"payment_id"`
	PartyID         string          `db:"party_id"`
	PaymentType     PaymentType     `db:"payment_type"`
	Amount          decimal.Decimal `db:"amount"`
	BalanceBefore   decimal.Decimal `db:"balance_before"`
	BalanceAfter    decimal.Decimal `db:"balance_after"`
	TransactionDate time.Time       `db:"transaction_date"`
	IsDeleted       bool            `db:"is_deleted"`
	AuditFields
}

// AccountTransaction is the audit-trail row on a cash/bank account.
type AccountTransaction struct {
	TransactionID   string          `db:"transaction_id"`
	AccountID       string          `db:"account_id"`
	PaymentID       string          `db:"payment_id"` // Nullable, empty for manual adjustments
	Amount          decimal.Decimal `db:"amount"`
	Reason          string          `db:"reason"`
	BalanceBefore   decimal.Decimal `db:"balance_before"`
	BalanceAfter    decimal.Decimal `db:"balance_after"`
	TransactionDate time.Time       `db:"transaction_date"`
	IsDeleted       bool            `db:"is_deleted"`
	AuditFields
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentTransaction is the audit-trail row written alongside every
// balance-affecting payment event on a party ledger. BalanceBefore and
// BalanceAfter snapshot the party's cached balance around the event.
type PaymentTransaction struct {
	TransactionID   string          `json:"transactionID"` // Primary key (UUID)
	PaymentID       string          `json:"paymentID"`
	PartyID         string          `json:"partyID"`
	PaymentType     PaymentType     `json:"paymentType"`
	Amount          decimal.Decimal `json:"amount"` // Always positive
	BalanceBefore   decimal.Decimal `json:"balanceBefore"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	TransactionDate time.Time       `json:"transactionDate"`
	IsDeleted       bool            `json:"isDeleted"`
	AuditFields
}

// AccountTransaction is the audit-trail row for every movement on a cash or
// bank account: payment credits/debits and manual adjustments alike. Amount is
// signed (credit positive, debit negative). An account's balance is always
// opening balance plus the signed sum of its non-deleted transactions.
type AccountTransaction struct {
	TransactionID   string          `json:"transactionID"` // Primary key (UUID)
	AccountID       string          `json:"accountID"`
	PaymentID       string          `json:"paymentID"` // Empty for manual adjustments
	Amount          decimal.Decimal `json:"amount"`    // Signed
	Reason          string          `json:"reason"`
	BalanceBefore   decimal.Decimal `json:"balanceBefore"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	TransactionDate time.Time       `json:"transactionDate"`
	IsDeleted       bool            `json:"isDeleted"`
	AuditFields
}

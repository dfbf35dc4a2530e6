package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType distinguishes physical cash from bank accounts.
type AccountType string

const (
	Cash AccountType = "CASH"
	Bank AccountType = "BANK"
)

// Account represents a cash or bank ledger.
//
// CurrentBalance is a cached running total: opening balance plus the signed sum
// of all non-deleted account transactions recorded against the account.
type Account struct {
	AccountID      string          `json:"accountID"` // Primary key (UUID)
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	AccountNumber  string          `json:"accountNumber"` // Nullable, bank accounts only
	IFSC           string          `json:"ifsc"`          // Nullable, bank accounts only
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"` // Cached, derived
	IsDeleted      bool            `json:"isDeleted"`
	AuditFields
}

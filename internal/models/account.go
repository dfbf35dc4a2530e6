package models

import (
	"github.com/shopspring/decimal"
)

// AccountType distinguishes physical cash from bank accounts.
type AccountType string

const (
	Cash AccountType = "CASH"
	Bank AccountType = "BANK"
)

// Account is the database representation of a cash/bank ledger.
type Account struct {
	AccountID      string          `db:"account_id"`
	Name           string          `db:"name"`
	AccountType    AccountType     `db:"account_type"`
	AccountNumber  string          `db:"account_number"` // Nullable
	IFSC           string          `db:"ifsc"`           // Nullable
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	IsDeleted      bool            `db:"is_deleted"`
	AuditFields
}

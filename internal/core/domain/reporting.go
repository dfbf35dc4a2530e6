package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceivablesPayables summarizes what the business is owed and what it owes,
// derived from cached party balances (positive = receivable, negative = payable).
type ReceivablesPayables struct {
	TotalReceivable decimal.Decimal `json:"totalReceivable"`
	TotalPayable    decimal.Decimal `json:"totalPayable"`
	ReceivableCount int             `json:"receivableCount"` // Parties owing the business
	PayableCount    int             `json:"payableCount"`    // Parties the business owes
}

// OverdueParty is a party whose oldest unpaid invoice is older than the
// party's min_due_days threshold.
type OverdueParty struct {
	PartyID           string          `json:"partyID"`
	Name              string          `json:"name"`
	CurrentBalance    decimal.Decimal `json:"currentBalance"`
	MinDueDays        int             `json:"minDueDays"`
	OldestUnpaidDate  time.Time       `json:"oldestUnpaidDate"`
	DaysSinceOldest   int             `json:"daysSinceOldest"`
	OutstandingAmount decimal.Decimal `json:"outstandingAmount"`
}

// AccountsSummary totals cached balances across cash and bank accounts.
type AccountsSummary struct {
	CashTotal    decimal.Decimal `json:"cashTotal"`
	BankTotal    decimal.Decimal `json:"bankTotal"`
	AccountCount int             `json:"accountCount"`
}

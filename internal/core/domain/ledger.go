package domain

import (
	"github.com/shopspring/decimal"
)

// PartyLedger is the aggregate breakdown a party's balance derives from.
// Every component sums only non-deleted, non-cancelled rows.
type PartyLedger struct {
	PartyID              string          `json:"partyID"`
	OpeningBalance       decimal.Decimal `json:"openingBalance"`
	OutstandingSales     decimal.Decimal `json:"outstandingSales"`     // Unpaid sales invoice balances
	PaymentsIn           decimal.Decimal `json:"paymentsIn"`           // Money received
	OutstandingPurchases decimal.Decimal `json:"outstandingPurchases"` // Unpaid purchase invoice balances
	PaymentsOut          decimal.Decimal `json:"paymentsOut"`          // Money paid
}

// Balance derives the party's current balance from the aggregates:
// opening + outstanding sales - payments in + outstanding purchases - payments out.
// Positive means receivable, negative means payable.
func (l PartyLedger) Balance() decimal.Decimal {
	return l.OpeningBalance.
		Add(l.OutstandingSales).
		Sub(l.PaymentsIn).
		Add(l.OutstandingPurchases).
		Sub(l.PaymentsOut)
}

// AccountLedger is the aggregate breakdown an account's balance derives from.
type AccountLedger struct {
	AccountID      string          `json:"accountID"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	SignedTotal    decimal.Decimal `json:"signedTotal"` // Sum of non-deleted transaction amounts
}

// Balance derives the account's current balance from the aggregates.
func (l AccountLedger) Balance() decimal.Decimal {
	return l.OpeningBalance.Add(l.SignedTotal)
}

package services

import (
	"context"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceSvcFacade is the Balance Calculator: pure, read-only derivation of
// party and account balances from stored transactions. It never mutates
// anything; the cached current_balance columns are the reconciliation
// service's concern.
type BalanceSvcFacade interface {
	// ComputePartyBalance derives a party's balance:
	// opening + outstanding sales - payments in + outstanding purchases - payments out.
	ComputePartyBalance(ctx context.Context, partyID string) (decimal.Decimal, error)

	// ComputeAccountBalance derives an account's balance:
	// opening + signed sum of non-deleted account transactions.
	ComputeAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// GetPartyLedger returns the aggregate breakdown behind ComputePartyBalance.
	GetPartyLedger(ctx context.Context, partyID string) (*domain.PartyLedger, error)
}

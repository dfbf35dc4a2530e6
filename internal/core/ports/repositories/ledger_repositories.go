package repositories

import (
	"context"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
)

// LedgerReader answers the aggregate queries the Balance Calculator derives
// cached balances from. All sums exclude soft-deleted and cancelled rows.
// Implementations return apperrors.ErrNotFound for unknown ids.
type LedgerReader interface {
	// FetchPartyLedger aggregates a party's outstanding invoices and payments.
	FetchPartyLedger(ctx context.Context, partyID string) (*domain.PartyLedger, error)

	// FetchPartyLedgerExcludingPayment aggregates as FetchPartyLedger but
	// ignores one payment and the invoice balance consumed by its allocations,
	// as if that payment had never been recorded. Used by edit and delete to
	// recompute balances from scratch without the old effect.
	FetchPartyLedgerExcludingPayment(ctx context.Context, partyID string, paymentID string) (*domain.PartyLedger, error)

	// FetchAccountLedger aggregates an account's signed transaction total.
	FetchAccountLedger(ctx context.Context, accountID string) (*domain.AccountLedger, error)

	// FetchAccountLedgerExcludingPayment aggregates as FetchAccountLedger but
	// ignores transactions belonging to one payment.
	FetchAccountLedgerExcludingPayment(ctx context.Context, accountID string, paymentID string) (*domain.AccountLedger, error)

	// FetchAccountLedgerExcludingTransaction aggregates as FetchAccountLedger
	// but ignores a single account transaction. Used when reversing a manual
	// adjustment.
	FetchAccountLedgerExcludingTransaction(ctx context.Context, accountID string, transactionID string) (*domain.AccountLedger, error)
}

package repositories

import (
	"context"
	"time"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
)

// ReportingRepository answers read-only summary queries for dashboards.
type ReportingRepository interface {
	// FetchReceivablesPayables totals cached party balances by sign.
	FetchReceivablesPayables(ctx context.Context) (*domain.ReceivablesPayables, error)

	// ListOverdueParties finds parties whose oldest unpaid sales invoice is
	// older than their min_due_days threshold as of the given date.
	ListOverdueParties(ctx context.Context, asOf time.Time) ([]domain.OverdueParty, error)

	// FetchAccountsSummary totals cached account balances by account type.
	FetchAccountsSummary(ctx context.Context) (*domain.AccountsSummary, error)
}

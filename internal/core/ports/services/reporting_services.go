package services

import (
	"context"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
)

// ReportingSvcFacade answers summary queries for dashboard views.
type ReportingSvcFacade interface {
	// GetReceivablesPayables totals what the business is owed and owes.
	GetReceivablesPayables(ctx context.Context) (*domain.ReceivablesPayables, error)

	// ListOverdueParties finds parties past their min_due_days threshold.
	ListOverdueParties(ctx context.Context) ([]domain.OverdueParty, error)

	// GetAccountsSummary totals cash and bank balances.
	GetAccountsSummary(ctx context.Context) (*domain.AccountsSummary, error)
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	portsrepo "github.com/hisab-books/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/hisab-books/ledger_backend/internal/core/ports/services"
	"github.com/hisab-books/ledger_backend/internal/middleware"
)

type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) GetReceivablesPayables(ctx context.Context) (*domain.ReceivablesPayables, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	summary, err := s.reportingRepo.FetchReceivablesPayables(ctx)
	if err != nil {
		logger.Error("Failed to fetch receivables/payables summary", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch receivables/payables: %w", err)
	}
	return summary, nil
}

func (s *reportingService) ListOverdueParties(ctx context.Context) ([]domain.OverdueParty, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	parties, err := s.reportingRepo.ListOverdueParties(ctx, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to list overdue parties", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list overdue parties: %w", err)
	}
	if parties == nil {
		return []domain.OverdueParty{}, nil
	}
	return parties, nil
}

func (s *reportingService) GetAccountsSummary(ctx context.Context) (*domain.AccountsSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	summary, err := s.reportingRepo.FetchAccountsSummary(ctx)
	if err != nil {
		logger.Error("Failed to fetch accounts summary", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch accounts summary: %w", err)
	}
	return summary, nil
}

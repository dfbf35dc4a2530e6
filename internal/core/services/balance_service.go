package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hisab-books/ledger_backend/internal/apperrors"
	"github.com/hisab-books/ledger_backend/internal/core/domain"
	portsrepo "github.com/hisab-books/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/hisab-books/ledger_backend/internal/core/ports/services"
	"github.com/hisab-books/ledger_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// balanceService derives party and account balances from ledger aggregates.
// It is purely read-only; reconciliation writes the results back through the
// payment service.
type balanceService struct {
	ledgerRepo portsrepo.LedgerReader
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(ledgerRepo portsrepo.LedgerReader) portssvc.BalanceSvcFacade {
	return &balanceService{ledgerRepo: ledgerRepo}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

func (s *balanceService) ComputePartyBalance(ctx context.Context, partyID string) (decimal.Decimal, error) {
	ledger, err := s.GetPartyLedger(ctx, partyID)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.Balance(), nil
}

func (s *balanceService) ComputeAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	ledger, err := s.ledgerRepo.FetchAccountLedger(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to fetch account ledger", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return decimal.Zero, err
	}
	return ledger.Balance(), nil
}

func (s *balanceService) GetPartyLedger(ctx context.Context, partyID string) (*domain.PartyLedger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	ledger, err := s.ledgerRepo.FetchPartyLedger(ctx, partyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to fetch party ledger", slog.String("error", err.Error()), slog.String("party_id", partyID))
		}
		return nil, err
	}
	return ledger, nil
}

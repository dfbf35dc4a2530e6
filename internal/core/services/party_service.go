package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hisab-books/ledger_backend/internal/apperrors"
	"github.com/hisab-books/ledger_backend/internal/core/domain"
	portsrepo "github.com/hisab-books/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/hisab-books/ledger_backend/internal/core/ports/services"
	"github.com/hisab-books/ledger_backend/internal/dto"
	"github.com/hisab-books/ledger_backend/internal/middleware"
)

var (
	ErrPartyHasOutstanding = fmt.Errorf("%w: party has outstanding invoices or a non-zero balance", apperrors.ErrConflict)
	ErrPartyDeleted        = fmt.Errorf("%w: party is deleted", apperrors.ErrConflict)
)

type partyService struct {
	partyRepo  portsrepo.PartyRepositoryFacade
	ledgerRepo portsrepo.LedgerReader
}

// NewPartyService creates a new PartyService.
func NewPartyService(partyRepo portsrepo.PartyRepositoryFacade, ledgerRepo portsrepo.LedgerReader) portssvc.PartySvcFacade {
	return &partyService{partyRepo: partyRepo, ledgerRepo: ledgerRepo}
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

func (s *partyService) CreateParty(ctx context.Context, req dto.CreatePartyRequest, userID string) (*domain.Party, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	party := domain.Party{
		PartyID:        uuid.NewString(),
		Name:           req.Name,
		PartyType:      req.PartyType,
		GSTIN:          req.GSTIN,
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
		StateCode:      req.StateCode,
		OpeningBalance: req.OpeningBalance,
		CurrentBalance: req.OpeningBalance, // Cached balance starts at opening
		MinDueDays:     req.MinDueDays,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.partyRepo.SaveParty(ctx, party); err != nil {
		logger.Error("Failed to save party", slog.String("error", err.Error()), slog.String("party_id", party.PartyID))
		return nil, err
	}

	logger.Info("Party created", slog.String("party_id", party.PartyID), slog.String("name", party.Name))
	return &party, nil
}

func (s *partyService) GetPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	party, err := s.partyRepo.FindPartyByID(ctx, partyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find party", slog.String("error", err.Error()), slog.String("party_id", partyID))
		}
		return nil, err
	}
	return party, nil
}

func (s *partyService) ListParties(ctx context.Context, params dto.ListPartiesParams) ([]domain.Party, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	parties, err := s.partyRepo.ListParties(ctx, params.Search, params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list parties", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}
	if parties == nil {
		return []domain.Party{}, nil
	}
	return parties, nil
}

func (s *partyService) UpdateParty(ctx context.Context, partyID string, req dto.UpdatePartyRequest, userID string) (*domain.Party, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	party, err := s.partyRepo.FindPartyByID(ctx, partyID)
	if err != nil {
		return nil, err
	}
	if party.IsDeleted {
		return nil, ErrPartyDeleted
	}

	if req.Name != nil {
		party.Name = *req.Name
	}
	if req.GSTIN != nil {
		party.GSTIN = *req.GSTIN
	}
	if req.Phone != nil {
		party.Phone = *req.Phone
	}
	if req.Email != nil {
		party.Email = *req.Email
	}
	if req.Address != nil {
		party.Address = *req.Address
	}
	if req.StateCode != nil {
		party.StateCode = *req.StateCode
	}
	if req.MinDueDays != nil {
		party.MinDueDays = *req.MinDueDays
	}
	party.LastUpdatedAt = time.Now().UTC()
	party.LastUpdatedBy = userID

	if err := s.partyRepo.UpdateParty(ctx, *party); err != nil {
		logger.Error("Failed to update party", slog.String("error", err.Error()), slog.String("party_id", partyID))
		return nil, err
	}

	logger.Info("Party updated", slog.String("party_id", partyID))
	return party, nil
}

// DeleteParty soft-deletes a party. Parties that still carry outstanding
// invoices or a non-zero derived balance are rejected, because deleting them
// would silently drop receivables/payables from every report.
func (s *partyService) DeleteParty(ctx context.Context, partyID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	party, err := s.partyRepo.FindPartyByID(ctx, partyID)
	if err != nil {
		return err
	}
	if party.IsDeleted {
		return ErrPartyDeleted
	}

	ledger, err := s.ledgerRepo.FetchPartyLedger(ctx, partyID)
	if err != nil {
		return err
	}
	if !ledger.OutstandingSales.IsZero() || !ledger.OutstandingPurchases.IsZero() || !ledger.Balance().IsZero() {
		return ErrPartyHasOutstanding
	}

	if err := s.partyRepo.SoftDeleteParty(ctx, partyID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to delete party", slog.String("error", err.Error()), slog.String("party_id", partyID))
		return err
	}

	logger.Info("Party deleted", slog.String("party_id", partyID))
	return nil
}

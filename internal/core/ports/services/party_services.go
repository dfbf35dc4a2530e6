package services

import (
	"context"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/hisab-books/ledger_backend/internal/dto"
)

// PartySvcFacade defines operations on customers/suppliers.
type PartySvcFacade interface {
	// CreateParty persists a new party; its opening balance seeds the cached balance.
	CreateParty(ctx context.Context, req dto.CreatePartyRequest, userID string) (*domain.Party, error)

	// GetPartyByID retrieves a party.
	GetPartyByID(ctx context.Context, partyID string) (*domain.Party, error)

	// ListParties retrieves a paginated, searchable party list.
	ListParties(ctx context.Context, params dto.ListPartiesParams) ([]domain.Party, error)

	// UpdateParty updates a party's details.
	UpdateParty(ctx context.Context, partyID string, req dto.UpdatePartyRequest, userID string) (*domain.Party, error)

	// DeleteParty soft-deletes a party. Parties with outstanding invoices or a
	// non-zero derived balance are rejected with a conflict error.
	DeleteParty(ctx context.Context, partyID string, userID string) error
}

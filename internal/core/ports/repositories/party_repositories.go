package repositories

import (
	"context"
	"time"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PartyReader defines read operations for party data.
type PartyReader interface {
	// FindPartyByID retrieves a party by its unique identifier.
	// Soft-deleted parties are still returned so audit views keep working;
	// callers decide whether a deleted party is acceptable.
	FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error)

	// ListParties retrieves a paginated list of non-deleted parties,
	// optionally filtered by a case-insensitive name search.
	ListParties(ctx context.Context, search string, limit int, offset int) ([]domain.Party, error)
}

// PartyWriter defines write operations for party data.
type PartyWriter interface {
	// SaveParty persists a new party.
	SaveParty(ctx context.Context, party domain.Party) error

	// UpdateParty updates an existing party's details (not its cached balance).
	UpdateParty(ctx context.Context, party domain.Party) error

	// UpdatePartyBalance overwrites the cached current_balance.
	UpdatePartyBalance(ctx context.Context, partyID string, balance decimal.Decimal, userID string, now time.Time) error

	// SoftDeleteParty marks a party deleted.
	SoftDeleteParty(ctx context.Context, partyID string, userID string, now time.Time) error
}

// PartyRepositoryFacade combines all party repository interfaces.
type PartyRepositoryFacade interface {
	PartyReader
	PartyWriter
}

package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hisab-books/ledger_backend/internal/apperrors"
	"github.com/hisab-books/ledger_backend/internal/core/domain"
	portsrepo "github.com/hisab-books/ledger_backend/internal/core/ports/repositories"
	"github.com/hisab-books/ledger_backend/internal/models"
	"github.com/hisab-books/ledger_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const partyColumns = `party_id, name, party_type, gstin, phone, email, address, state_code,
	opening_balance, current_balance, min_due_days, is_deleted,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxPartyRepository struct {
	pool *pgxpool.Pool
}

// newPgxPartyRepository creates a new repository for party data.
func newPgxPartyRepository(pool *pgxpool.Pool) portsrepo.PartyRepositoryFacade {
	return &PgxPartyRepository{pool: pool}
}

var _ portsrepo.PartyRepositoryFacade = (*PgxPartyRepository)(nil)

func scanParty(row pgx.Row) (models.Party, error) {
	var m models.Party
	err := row.Scan(
		&m.PartyID, &m.Name, &m.PartyType, &m.GSTIN, &m.Phone, &m.Email, &m.Address, &m.StateCode,
		&m.OpeningBalance, &m.CurrentBalance, &m.MinDueDays, &m.IsDeleted,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPartyRepository) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE party_id = $1;`

	m, err := scanParty(r.pool.QueryRow(ctx, query, partyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: party %s", apperrors.ErrNotFound, partyID)
		}
		return nil, fmt.Errorf("failed to find party %s: %w", partyID, err)
	}
	party := mapping.ToDomainParty(m)
	return &party, nil
}

func (r *PgxPartyRepository) ListParties(ctx context.Context, search string, limit int, offset int) ([]domain.Party, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + partyColumns + `
		FROM parties
		WHERE is_deleted = FALSE AND ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name ASC
		LIMIT $2 OFFSET $3;`

	rows, err := r.pool.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}
	defer rows.Close()

	parties := make([]domain.Party, 0, limit)
	for rows.Next() {
		m, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan party row: %w", err)
		}
		parties = append(parties, mapping.ToDomainParty(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating party rows: %w", err)
	}
	return parties, nil
}

func (r *PgxPartyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	m := mapping.ToModelParty(party)
	query := `
		INSERT INTO parties (` + partyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`

	_, err := r.pool.Exec(ctx, query,
		m.PartyID, m.Name, m.PartyType, m.GSTIN, m.Phone, m.Email, m.Address, m.StateCode,
		m.OpeningBalance, m.CurrentBalance, m.MinDueDays, m.IsDeleted,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: party %s already exists", apperrors.ErrDuplicate, m.PartyID)
		}
		return fmt.Errorf("failed to save party %s: %w", m.PartyID, err)
	}
	return nil
}

func (r *PgxPartyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	m := mapping.ToModelParty(party)
	query := `
		UPDATE parties
		SET name = $2, party_type = $3, gstin = $4, phone = $5, email = $6, address = $7,
			state_code = $8, min_due_days = $9, last_updated_at = $10, last_updated_by = $11
		WHERE party_id = $1 AND is_deleted = FALSE;`

	tag, err := r.pool.Exec(ctx, query,
		m.PartyID, m.Name, m.PartyType, m.GSTIN, m.Phone, m.Email, m.Address,
		m.StateCode, m.MinDueDays, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update party %s: %w", m.PartyID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: party %s", apperrors.ErrNotFound, m.PartyID)
	}
	return nil
}

func (r *PgxPartyRepository) UpdatePartyBalance(ctx context.Context, partyID string, balance decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE parties
		SET current_balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE party_id = $1;`

	tag, err := r.pool.Exec(ctx, query, partyID, balance, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance for party %s: %w", partyID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: party %s", apperrors.ErrNotFound, partyID)
	}
	return nil
}

// lockPartyRow takes a FOR UPDATE lock on the party row so concurrent
// reconciliations serialize on it.
func lockPartyRow(ctx context.Context, tx pgx.Tx, partyID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT party_id FROM parties WHERE party_id = $1 FOR UPDATE;`, partyID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: party %s", apperrors.ErrNotFound, partyID)
		}
		return fmt.Errorf("failed to lock party %s: %w", partyID, err)
	}
	return nil
}

// updatePartyBalanceInTx overwrites the cached party balance inside the
// caller's transaction.
func updatePartyBalanceInTx(ctx context.Context, tx pgx.Tx, partyID string, balance decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE parties
		SET current_balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE party_id = $1;`
	if _, err := tx.Exec(ctx, query, partyID, balance, now, userID); err != nil {
		return fmt.Errorf("failed to update balance for party %s: %w", partyID, err)
	}
	return nil
}

func (r *PgxPartyRepository) SoftDeleteParty(ctx context.Context, partyID string, userID string, now time.Time) error {
	query := `
		UPDATE parties
		SET is_deleted = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE party_id = $1 AND is_deleted = FALSE;`

	tag, err := r.pool.Exec(ctx, query, partyID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to delete party %s: %w", partyID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: party %s", apperrors.ErrNotFound, partyID)
	}
	return nil
}

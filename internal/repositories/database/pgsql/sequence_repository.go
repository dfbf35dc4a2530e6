package pgsql

import (
	"context"
	"fmt"

	portsrepo "github.com/hisab-books/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSequenceRepository struct {
	BaseRepository
}

// newPgxSequenceRepository creates a new repository for document numbering.
func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// NextDocumentNumber increments the named counter and formats the result as
// NAME-00042. The upsert takes a row lock on the sequence, so concurrent
// callers serialize and never see the same value.
func (r *PgxSequenceRepository) NextDocumentNumber(ctx context.Context, name string) (string, error) {
	query := `
		INSERT INTO sequences (name, value)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
		RETURNING value;`

	var value int64
	if err := r.Pool.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return "", fmt.Errorf("failed to advance sequence %s: %w", name, err)
	}
	return fmt.Sprintf("%s-%05d", name, value), nil
}

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
	"github.com/hisab-books/ledger_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const invoiceColumns = `invoice_id, invoice_number, kind, party_id, invoice_date, due_date,
	subtotal, tax_amount, total_amount, balance_amount, notes, is_cancelled, is_deleted,
	created_at, created_by, last_updated_at, last_updated_by`

const invoiceItemColumns = `item_id, invoice_id, description, hsn_code,
	quantity, unit_price, gst_rate, tax_amount, line_total`

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoice data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID, &m.InvoiceNumber, &m.Kind, &m.PartyID, &m.InvoiceDate, &m.DueDate,
		&m.Subtotal, &m.TaxAmount, &m.TotalAmount, &m.BalanceAmount, &m.Notes, &m.IsCancelled, &m.IsDeleted,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func scanInvoiceItem(row pgx.Row) (models.InvoiceItem, error) {
	var m models.InvoiceItem
	err := row.Scan(
		&m.ItemID, &m.InvoiceID, &m.Description, &m.HSNCode,
		&m.Quantity, &m.UnitPrice, &m.GSTRate, &m.TaxAmount, &m.LineTotal,
	)
	return m, err
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`

	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	invoice := mapping.ToDomainInvoice(m)

	itemQuery := `SELECT ` + invoiceItemColumns + ` FROM invoice_items WHERE invoice_id = $1 ORDER BY item_id;`
	rows, err := r.Pool.Query(ctx, itemQuery, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanInvoiceItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice item row: %w", err)
		}
		invoice.Items = append(invoice.Items, mapping.ToDomainInvoiceItem(item))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice item rows: %w", err)
	}
	return &invoice, nil
}

func (r *PgxInvoiceRepository) FindInvoicesByIDs(ctx context.Context, invoiceIDs []string) (map[string]domain.Invoice, error) {
	result := make(map[string]domain.Invoice, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoices by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		result[m.InvoiceID] = mapping.ToDomainInvoice(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	return result, nil
}

func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, params portsrepo.ListInvoicesParams) ([]domain.Invoice, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE is_deleted = FALSE AND kind = $1`
	args := []interface{}{string(params.Kind)}
	argPos := 2

	if params.PartyID != "" {
		query += fmt.Sprintf(` AND party_id = $%d`, argPos)
		args = append(args, params.PartyID)
		argPos++
	}
	if params.OutstandingOnly {
		query += ` AND is_cancelled = FALSE AND balance_amount > 0`
	}
	if params.NextToken != nil && *params.NextToken != "" {
		lastDate, lastCreatedAt, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += fmt.Sprintf(` AND (invoice_date, created_at) < ($%d, $%d)`, argPos, argPos+1)
		args = append(args, lastDate, lastCreatedAt)
	}
	query += fmt.Sprintf(` ORDER BY invoice_date DESC, created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}

	var nextToken *string
	if len(invoices) > limit {
		invoices = invoices[:limit]
		last := invoices[limit-1]
		token := pagination.EncodeToken(last.InvoiceDate, last.CreatedAt)
		nextToken = &token
	}
	return invoices, nextToken, nil
}

func (r *PgxInvoiceRepository) ListOutstandingInvoices(ctx context.Context, partyID string, kind domain.InvoiceKind) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE party_id = $1 AND kind = $2
			AND is_deleted = FALSE AND is_cancelled = FALSE AND balance_amount > 0
		ORDER BY invoice_date ASC, created_at ASC;`

	rows, err := r.Pool.Query(ctx, query, partyID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding invoices for party %s: %w", partyID, err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	return invoices, nil
}

// SaveInvoice inserts the invoice and its items and overwrites the cached
// party balance, all in one database transaction.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, items []domain.InvoiceItem, partyBalance decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelInvoice(invoice)
	if err := lockPartyRow(ctx, tx, m.PartyID); err != nil {
		return err
	}
	invoiceQuery := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`
	_, err = tx.Exec(ctx, invoiceQuery,
		m.InvoiceID, m.InvoiceNumber, m.Kind, m.PartyID, m.InvoiceDate, m.DueDate,
		m.Subtotal, m.TaxAmount, m.TotalAmount, m.BalanceAmount, m.Notes, m.IsCancelled, m.IsDeleted,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: invoice %s already exists", apperrors.ErrDuplicate, m.InvoiceID)
		}
		return fmt.Errorf("failed to save invoice %s: %w", m.InvoiceID, err)
	}

	if len(items) > 0 {
		itemQuery := `
			INSERT INTO invoice_items (` + invoiceItemColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
		batch := &pgx.Batch{}
		for _, item := range items {
			im := mapping.ToModelInvoiceItem(item)
			batch.Queue(itemQuery,
				im.ItemID, im.InvoiceID, im.Description, im.HSNCode,
				im.Quantity, im.UnitPrice, im.GSTRate, im.TaxAmount, im.LineTotal,
			)
		}
		br := tx.SendBatch(ctx, batch)
		for range items {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("failed to save items for invoice %s: %w", m.InvoiceID, err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to close item batch for invoice %s: %w", m.InvoiceID, err)
		}
	}

	if err := updatePartyBalanceInTx(ctx, tx, m.PartyID, partyBalance, m.LastUpdatedBy, m.LastUpdatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// CancelInvoice flags the invoice cancelled and overwrites the cached party
// balance in the same transaction.
func (r *PgxInvoiceRepository) CancelInvoice(ctx context.Context, invoiceID string, partyID string, partyBalance decimal.Decimal, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockPartyRow(ctx, tx, partyID); err != nil {
		return err
	}

	query := `
		UPDATE invoices
		SET is_cancelled = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE invoice_id = $1 AND is_deleted = FALSE AND is_cancelled = FALSE;`

	tag, err := tx.Exec(ctx, query, invoiceID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to cancel invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
	}

	if err := updatePartyBalanceInTx(ctx, tx, partyID, partyBalance, userID, now); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SoftDeleteInvoice flags the invoice deleted and overwrites the cached party
// balance in the same transaction.
func (r *PgxInvoiceRepository) SoftDeleteInvoice(ctx context.Context, invoiceID string, partyID string, partyBalance decimal.Decimal, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockPartyRow(ctx, tx, partyID); err != nil {
		return err
	}

	query := `
		UPDATE invoices
		SET is_deleted = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE invoice_id = $1 AND is_deleted = FALSE;`

	tag, err := tx.Exec(ctx, query, invoiceID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
	}

	if err := updatePartyBalanceInTx(ctx, tx, partyID, partyBalance, userID, now); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

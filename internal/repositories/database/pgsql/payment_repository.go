package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
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

const paymentColumns = `payment_id, payment_number, payment_type, party_id, account_id,
	amount, payment_date, method, reference_no, notes, is_deleted,
	created_at, created_by, last_updated_at, last_updated_by`

const allocationColumns = `allocation_id, payment_id, invoice_id, amount, is_deleted`

const paymentTxnColumns = `transaction_id, payment_id, party_id, payment_type, amount,
	balance_before, balance_after, transaction_date, is_deleted,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID, &m.PaymentNumber, &m.PaymentType, &m.PartyID, &m.AccountID,
		&m.Amount, &m.PaymentDate, &m.Method, &m.ReferenceNo, &m.Notes, &m.IsDeleted,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func scanAllocation(row pgx.Row) (models.PaymentAllocation, error) {
	var m models.PaymentAllocation
	err := row.Scan(&m.AllocationID, &m.PaymentID, &m.InvoiceID, &m.Amount, &m.IsDeleted)
	return m, err
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`

	m, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, paymentID)
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	payment := mapping.ToDomainPayment(m)

	allocQuery := `SELECT ` + allocationColumns + ` FROM payment_allocations
		WHERE payment_id = $1 AND is_deleted = FALSE;`
	rows, err := r.Pool.Query(ctx, allocQuery, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch allocations for payment %s: %w", paymentID, err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation row: %w", err)
		}
		payment.Allocations = append(payment.Allocations, mapping.ToDomainAllocation(a))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocation rows: %w", err)
	}
	return &payment, nil
}

func (r *PgxPaymentRepository) ListPayments(ctx context.Context, params portsrepo.ListPaymentsParams) ([]domain.Payment, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE is_deleted = FALSE`
	var args []interface{}
	argPos := 1

	if params.PartyID != "" {
		query += fmt.Sprintf(` AND party_id = $%d`, argPos)
		args = append(args, params.PartyID)
		argPos++
	}
	if params.AccountID != "" {
		query += fmt.Sprintf(` AND account_id = $%d`, argPos)
		args = append(args, params.AccountID)
		argPos++
	}
	if params.NextToken != nil && *params.NextToken != "" {
		lastDate, lastCreatedAt, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += fmt.Sprintf(` AND (payment_date, created_at) < ($%d, $%d)`, argPos, argPos+1)
		args = append(args, lastDate, lastCreatedAt)
	}
	query += fmt.Sprintf(` ORDER BY payment_date DESC, created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, mapping.ToDomainPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating payment rows: %w", err)
	}

	var nextToken *string
	if len(payments) > limit {
		payments = payments[:limit]
		last := payments[limit-1]
		token := pagination.EncodeToken(last.PaymentDate, last.CreatedAt)
		nextToken = &token
	}
	return payments, nextToken, nil
}

func (r *PgxPaymentRepository) FindAllocationsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.PaymentAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM payment_allocations
		WHERE invoice_id = $1 AND is_deleted = FALSE;`

	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch allocations for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	var allocations []domain.PaymentAllocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation row: %w", err)
		}
		allocations = append(allocations, mapping.ToDomainAllocation(a))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocation rows: %w", err)
	}
	return allocations, nil
}

// SavePaymentAndReconcile inserts the payment, its allocations and audit rows,
// applies the invoice balance deltas and overwrites the cached party and
// account balances, all in one database transaction.
func (r *PgxPaymentRepository) SavePaymentAndReconcile(ctx context.Context, rec portsrepo.PaymentReconciliationRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockReconciliationRows(ctx, tx, rec); err != nil {
		return err
	}

	m := mapping.ToModelPayment(rec.Payment)
	insertQuery := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`
	_, err = tx.Exec(ctx, insertQuery,
		m.PaymentID, m.PaymentNumber, m.PaymentType, m.PartyID, m.AccountID,
		m.Amount, m.PaymentDate, m.Method, m.ReferenceNo, m.Notes, m.IsDeleted,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: payment %s already exists", apperrors.ErrDuplicate, m.PaymentID)
		}
		return fmt.Errorf("failed to save payment %s: %w", m.PaymentID, err)
	}

	if err := applyReconciliationRecord(ctx, tx, rec); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdatePaymentAndReconcile rewrites the payment row, retires the previous
// allocations and audit rows, and applies the record's new allocations, audit
// rows and balances, all in one database transaction. The record's deltas and
// balances are computed against the state with the old payment removed, so
// the result is a from-scratch recomputation.
func (r *PgxPaymentRepository) UpdatePaymentAndReconcile(ctx context.Context, rec portsrepo.PaymentReconciliationRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockReconciliationRows(ctx, tx, rec); err != nil {
		return err
	}

	m := mapping.ToModelPayment(rec.Payment)
	updateQuery := `
		UPDATE payments
		SET account_id = $2, amount = $3, payment_date = $4, method = $5,
			reference_no = $6, notes = $7, last_updated_at = $8, last_updated_by = $9
		WHERE payment_id = $1 AND is_deleted = FALSE;`
	tag, err := tx.Exec(ctx, updateQuery,
		m.PaymentID, m.AccountID, m.Amount, m.PaymentDate, m.Method,
		m.ReferenceNo, m.Notes, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment %s: %w", m.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, m.PaymentID)
	}

	if err := retirePaymentRows(ctx, tx, m.PaymentID, m.LastUpdatedBy, m.LastUpdatedAt); err != nil {
		return err
	}
	if err := applyReconciliationRecord(ctx, tx, rec); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SoftDeletePaymentAndReconcile marks the payment, its allocations and audit
// rows deleted, restores the invoice balances its allocations had consumed and
// overwrites the cached balances, all in one database transaction.
func (r *PgxPaymentRepository) SoftDeletePaymentAndReconcile(ctx context.Context, rec portsrepo.PaymentReconciliationRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockReconciliationRows(ctx, tx, rec); err != nil {
		return err
	}

	m := mapping.ToModelPayment(rec.Payment)
	deleteQuery := `
		UPDATE payments
		SET is_deleted = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE payment_id = $1 AND is_deleted = FALSE;`
	tag, err := tx.Exec(ctx, deleteQuery, m.PaymentID, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to delete payment %s: %w", m.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, m.PaymentID)
	}

	if err := retirePaymentRows(ctx, tx, m.PaymentID, m.LastUpdatedBy, m.LastUpdatedAt); err != nil {
		return err
	}
	if err := applyReconciliationRecord(ctx, tx, rec); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// lockReconciliationRows takes FOR UPDATE locks on every row the record
// touches, in sorted key order so concurrent reconciliations cannot deadlock.
func lockReconciliationRows(ctx context.Context, tx pgx.Tx, rec portsrepo.PaymentReconciliationRecord) error {
	if err := lockPartyRow(ctx, tx, rec.Payment.PartyID); err != nil {
		return err
	}

	for _, accountID := range sortedKeys(rec.AccountBalances) {
		if err := lockAccountRow(ctx, tx, accountID); err != nil {
			return err
		}
	}

	invoiceIDs := sortedKeys(rec.InvoiceDeltas)
	if len(invoiceIDs) == 0 {
		return nil
	}
	rows, err := tx.Query(ctx, `SELECT invoice_id FROM invoices WHERE invoice_id = ANY($1) ORDER BY invoice_id FOR UPDATE;`, invoiceIDs)
	if err != nil {
		return fmt.Errorf("failed to lock invoices: %w", err)
	}
	defer rows.Close()
	locked := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan locked invoice id: %w", err)
		}
		locked++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error locking invoices: %w", err)
	}
	if locked != len(invoiceIDs) {
		return fmt.Errorf("%w: one or more invoices in %v", apperrors.ErrNotFound, invoiceIDs)
	}
	return nil
}

// applyReconciliationRecord writes the record's allocations, audit rows,
// invoice deltas and cached balances inside the caller's transaction.
func applyReconciliationRecord(ctx context.Context, tx pgx.Tx, rec portsrepo.PaymentReconciliationRecord) error {
	if len(rec.Allocations) > 0 {
		allocQuery := `
			INSERT INTO payment_allocations (` + allocationColumns + `)
			VALUES ($1, $2, $3, $4, $5);`
		batch := &pgx.Batch{}
		for _, a := range rec.Allocations {
			am := mapping.ToModelAllocation(a)
			batch.Queue(allocQuery, am.AllocationID, am.PaymentID, am.InvoiceID, am.Amount, am.IsDeleted)
		}
		br := tx.SendBatch(ctx, batch)
		for range rec.Allocations {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("failed to save allocations for payment %s: %w", rec.Payment.PaymentID, err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to close allocation batch for payment %s: %w", rec.Payment.PaymentID, err)
		}
	}

	// Delete records carry a zero-value party transaction; nothing to insert.
	if rec.PartyTransaction.TransactionID != "" {
		pt := mapping.ToModelPaymentTransaction(rec.PartyTransaction)
		ptQuery := `
			INSERT INTO payment_transactions (` + paymentTxnColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
		_, err := tx.Exec(ctx, ptQuery,
			pt.TransactionID, pt.PaymentID, pt.PartyID, pt.PaymentType, pt.Amount,
			pt.BalanceBefore, pt.BalanceAfter, pt.TransactionDate, pt.IsDeleted,
			pt.CreatedAt, pt.CreatedBy, pt.LastUpdatedAt, pt.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment transaction %s: %w", pt.TransactionID, err)
		}
	}

	for _, txn := range rec.AccountTransactions {
		at := mapping.ToModelAccountTransaction(txn)
		atQuery := `
			INSERT INTO account_transactions (` + accountTxnColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
		_, err := tx.Exec(ctx, atQuery,
			at.TransactionID, at.AccountID, nullablePaymentID(at.PaymentID), at.Amount, at.Reason,
			at.BalanceBefore, at.BalanceAfter, at.TransactionDate, at.IsDeleted,
			at.CreatedAt, at.CreatedBy, at.LastUpdatedAt, at.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert account transaction %s: %w", at.TransactionID, err)
		}
	}

	for _, invoiceID := range sortedKeys(rec.InvoiceDeltas) {
		delta := rec.InvoiceDeltas[invoiceID]
		deltaQuery := `
			UPDATE invoices
			SET balance_amount = balance_amount + $2, last_updated_at = $3, last_updated_by = $4
			WHERE invoice_id = $1;`
		if _, err := tx.Exec(ctx, deltaQuery, invoiceID, delta, rec.Payment.LastUpdatedAt, rec.Payment.LastUpdatedBy); err != nil {
			return fmt.Errorf("failed to apply balance delta to invoice %s: %w", invoiceID, err)
		}
	}

	if err := updatePartyBalanceInTx(ctx, tx, rec.Payment.PartyID, rec.PartyBalance, rec.Payment.LastUpdatedBy, rec.Payment.LastUpdatedAt); err != nil {
		return err
	}

	for _, accountID := range sortedKeys(rec.AccountBalances) {
		if err := updateAccountBalanceInTx(ctx, tx, accountID, rec.AccountBalances[accountID], rec.Payment.LastUpdatedBy, rec.Payment.LastUpdatedAt); err != nil {
			return err
		}
	}
	return nil
}

// retirePaymentRows soft-deletes a payment's live allocations and audit rows.
func retirePaymentRows(ctx context.Context, tx pgx.Tx, paymentID string, userID string, now time.Time) error {
	allocQuery := `
		UPDATE payment_allocations
		SET is_deleted = TRUE
		WHERE payment_id = $1 AND is_deleted = FALSE;`
	if _, err := tx.Exec(ctx, allocQuery, paymentID); err != nil {
		return fmt.Errorf("failed to retire allocations for payment %s: %w", paymentID, err)
	}

	ptQuery := `
		UPDATE payment_transactions
		SET is_deleted = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE payment_id = $1 AND is_deleted = FALSE;`
	if _, err := tx.Exec(ctx, ptQuery, paymentID, now, userID); err != nil {
		return fmt.Errorf("failed to retire payment transactions for payment %s: %w", paymentID, err)
	}

	atQuery := `
		UPDATE account_transactions
		SET is_deleted = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE payment_id = $1 AND is_deleted = FALSE;`
	if _, err := tx.Exec(ctx, atQuery, paymentID, now, userID); err != nil {
		return fmt.Errorf("failed to retire account transactions for payment %s: %w", paymentID, err)
	}
	return nil
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

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

const accountColumns = `account_id, name, account_type, account_number, ifsc,
	opening_balance, current_balance, is_deleted,
	created_at, created_by, last_updated_at, last_updated_by`

const accountTxnColumns = `transaction_id, account_id, payment_id, amount, reason,
	balance_before, balance_after, transaction_date, is_deleted,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID, &m.Name, &m.AccountType, &m.AccountNumber, &m.IFSC,
		&m.OpeningBalance, &m.CurrentBalance, &m.IsDeleted,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func scanAccountTransaction(row pgx.Row) (models.AccountTransaction, error) {
	var m models.AccountTransaction
	var paymentID *string
	err := row.Scan(
		&m.TransactionID, &m.AccountID, &paymentID, &m.Amount, &m.Reason,
		&m.BalanceBefore, &m.BalanceAfter, &m.TransactionDate, &m.IsDeleted,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if paymentID != nil {
		m.PaymentID = *paymentID
	}
	return m, err
}

// nullablePaymentID maps an empty payment id to NULL for manual adjustments.
func nullablePaymentID(paymentID string) *string {
	if paymentID == "" {
		return nil
	}
	return &paymentID
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE is_deleted = FALSE ORDER BY name ASC;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) ListAccountTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountTransaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + accountTxnColumns + `
		FROM account_transactions
		WHERE account_id = $1 AND is_deleted = FALSE`
	args := []interface{}{accountID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, err := pagination.DecodeDateBasedToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND created_at < $2`
		args = append(args, lastCreatedAt)
	}
	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list account transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.AccountTransaction
	for rows.Next() {
		m, err := scanAccountTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan account transaction row: %w", err)
		}
		transactions = append(transactions, mapping.ToDomainAccountTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating account transaction rows: %w", err)
	}

	var newNextToken *string
	if len(transactions) > limit {
		transactions = transactions[:limit]
		token := pagination.EncodeDateBasedToken(transactions[limit-1].CreatedAt)
		newNextToken = &token
	}
	return transactions, newNextToken, nil
}

func (r *PgxAccountRepository) FindAccountTransactionByID(ctx context.Context, transactionID string) (*domain.AccountTransaction, error) {
	query := `SELECT ` + accountTxnColumns + ` FROM account_transactions WHERE transaction_id = $1;`

	m, err := scanAccountTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to find account transaction %s: %w", transactionID, err)
	}
	txn := mapping.ToDomainAccountTransaction(m)
	return &txn, nil
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	_, err := r.Pool.Exec(ctx, query,
		m.AccountID, m.Name, m.AccountType, m.AccountNumber, m.IFSC,
		m.OpeningBalance, m.CurrentBalance, m.IsDeleted,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $2, account_number = $3, ifsc = $4, last_updated_at = $5, last_updated_by = $6
		WHERE account_id = $1 AND is_deleted = FALSE;`

	tag, err := r.Pool.Exec(ctx, query,
		m.AccountID, m.Name, m.AccountNumber, m.IFSC, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", m.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, m.AccountID)
	}
	return nil
}

func (r *PgxAccountRepository) UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET current_balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;`

	tag, err := r.Pool.Exec(ctx, query, accountID, balance, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

func (r *PgxAccountRepository) SoftDeleteAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_deleted = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND is_deleted = FALSE;`

	tag, err := r.Pool.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// SaveAdjustmentAndReconcile appends a manual account transaction and
// overwrites the account's cached balance in a single database transaction.
func (r *PgxAccountRepository) SaveAdjustmentAndReconcile(ctx context.Context, txn domain.AccountTransaction, newBalance decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockAccountRow(ctx, tx, txn.AccountID); err != nil {
		return err
	}

	m := mapping.ToModelAccountTransaction(txn)
	insertQuery := `
		INSERT INTO account_transactions (` + accountTxnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
	_, err = tx.Exec(ctx, insertQuery,
		m.TransactionID, m.AccountID, nullablePaymentID(m.PaymentID), m.Amount, m.Reason,
		m.BalanceBefore, m.BalanceAfter, m.TransactionDate, m.IsDeleted,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account transaction %s: %w", m.TransactionID, err)
	}

	if err := updateAccountBalanceInTx(ctx, tx, txn.AccountID, newBalance, txn.CreatedBy, txn.CreatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// ReverseAdjustmentAndReconcile soft-deletes a manual account transaction and
// overwrites the account's cached balance in a single database transaction.
func (r *PgxAccountRepository) ReverseAdjustmentAndReconcile(ctx context.Context, transactionID string, accountID string, newBalance decimal.Decimal, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockAccountRow(ctx, tx, accountID); err != nil {
		return err
	}

	deleteQuery := `
		UPDATE account_transactions
		SET is_deleted = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $1 AND is_deleted = FALSE;`
	tag, err := tx.Exec(ctx, deleteQuery, transactionID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to delete account transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account transaction %s", apperrors.ErrNotFound, transactionID)
	}

	if err := updateAccountBalanceInTx(ctx, tx, accountID, newBalance, userID, now); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// lockAccountRow takes a row lock so balance updates serialize per account.
func lockAccountRow(ctx context.Context, tx pgx.Tx, accountID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT account_id FROM accounts WHERE account_id = $1 FOR UPDATE;`, accountID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}
	return nil
}

func updateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET current_balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;`
	if _, err := tx.Exec(ctx, query, accountID, balance, now, userID); err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
	}
	return nil
}

package repositories

import (
	"context"
	"time"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for cash/bank account data.
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves all non-deleted accounts.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// ListAccountTransactions retrieves an account's non-deleted transactions,
	// newest first, paginated via a date-based token.
	ListAccountTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountTransaction, *string, error)

	// FindAccountTransactionByID retrieves a single audit row.
	FindAccountTransactionByID(ctx context.Context, transactionID string) (*domain.AccountTransaction, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details (not its cached balance).
	UpdateAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountBalance overwrites the cached current_balance.
	UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error

	// SoftDeleteAccount marks an account deleted.
	SoftDeleteAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountAdjustmentSupport defines the atomic units for manual adjustments.
// Each call runs as a single database transaction.
type AccountAdjustmentSupport interface {
	// SaveAdjustmentAndReconcile appends an account transaction and overwrites
	// the account's cached balance in the same transaction.
	SaveAdjustmentAndReconcile(ctx context.Context, txn domain.AccountTransaction, newBalance decimal.Decimal) error

	// ReverseAdjustmentAndReconcile soft-deletes an account transaction and
	// overwrites the account's cached balance in the same transaction.
	ReverseAdjustmentAndReconcile(ctx context.Context, transactionID string, accountID string, newBalance decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountAdjustmentSupport
}

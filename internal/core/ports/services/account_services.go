package services

import (
	"context"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/hisab-books/ledger_backend/internal/dto"
)

// AccountSvcFacade defines operations on cash/bank accounts.
type AccountSvcFacade interface {
	// CreateAccount persists a new account; its opening balance seeds the cached balance.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// GetAccountByID retrieves an account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves all non-deleted accounts.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// UpdateAccount updates an account's details.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount soft-deletes an account; accounts with live transactions
	// are rejected with a conflict error.
	DeleteAccount(ctx context.Context, accountID string, userID string) error

	// ListAccountTransactions retrieves the account's audit trail, paginated.
	ListAccountTransactions(ctx context.Context, accountID string, params dto.ListAccountTransactionsParams) (*dto.ListAccountTransactionsResponse, error)
}

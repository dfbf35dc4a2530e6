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
	ErrAccountHasActivity = fmt.Errorf("%w: account has recorded transactions", apperrors.ErrConflict)
	ErrAccountDeleted     = fmt.Errorf("%w: account is deleted", apperrors.ErrConflict)
)

type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerReader
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerReader) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo, ledgerRepo: ledgerRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		Name:           req.Name,
		AccountType:    req.AccountType,
		AccountNumber:  req.AccountNumber,
		IFSC:           req.IFSC,
		OpeningBalance: req.OpeningBalance,
		CurrentBalance: req.OpeningBalance, // Cached balance starts at opening
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("name", account.Name))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.IsDeleted {
		return nil, ErrAccountDeleted
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.AccountNumber != nil {
		account.AccountNumber = *req.AccountNumber
	}
	if req.IFSC != nil {
		account.IFSC = *req.IFSC
	}
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

// DeleteAccount soft-deletes an account. Accounts with live transactions are
// rejected; the audit trail must keep resolving to a visible account.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.IsDeleted {
		return ErrAccountDeleted
	}

	ledger, err := s.ledgerRepo.FetchAccountLedger(ctx, accountID)
	if err != nil {
		return err
	}
	if !ledger.SignedTotal.IsZero() {
		return ErrAccountHasActivity
	}

	if err := s.accountRepo.SoftDeleteAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to delete account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return err
	}

	logger.Info("Account deleted", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) ListAccountTransactions(ctx context.Context, accountID string, params dto.ListAccountTransactionsParams) (*dto.ListAccountTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	transactions, nextToken, err := s.accountRepo.ListAccountTransactions(ctx, accountID, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list account transactions", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list account transactions: %w", err)
	}

	res := make([]dto.AccountTransactionResponse, len(transactions))
	for i := range transactions {
		res[i] = dto.ToAccountTransactionResponse(&transactions[i])
	}
	return &dto.ListAccountTransactionsResponse{Transactions: res, NextToken: nextToken}, nil
}

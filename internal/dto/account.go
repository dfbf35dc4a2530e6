package dto

import (
	"time"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a cash/bank account.
type CreateAccountRequest struct {
	Name           string             `json:"name" binding:"required"`
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=CASH BANK"`
	AccountNumber  string             `json:"accountNumber"`
	IFSC           string             `json:"ifsc"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
type UpdateAccountRequest struct {
	Name          *string `json:"name"`
	AccountNumber *string `json:"accountNumber"`
	IFSC          *string `json:"ifsc"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string             `json:"accountID"`
	Name           string             `json:"name"`
	AccountType    domain.AccountType `json:"accountType"`
	AccountNumber  string             `json:"accountNumber"`
	IFSC           string             `json:"ifsc"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"`
	CurrentBalance decimal.Decimal    `json:"currentBalance"`
	CreatedAt      time.Time          `json:"createdAt"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      a.AccountID,
		Name:           a.Name,
		AccountType:    a.AccountType,
		AccountNumber:  a.AccountNumber,
		IFSC:           a.IFSC,
		OpeningBalance: a.OpeningBalance,
		CurrentBalance: a.CurrentBalance,
		CreatedAt:      a.CreatedAt,
		LastUpdatedAt:  a.LastUpdatedAt,
	}
}

// ToListAccountsResponse converts a slice of domain.Account.
func ToListAccountsResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// AccountBalanceResponse returns an account's derived balance.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
}

// AccountTransactionResponse defines the data returned for an account audit row.
type AccountTransactionResponse struct {
	TransactionID   string          `json:"transactionID"`
	AccountID       string          `json:"accountID"`
	PaymentID       string          `json:"paymentID,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Reason          string          `json:"reason"`
	BalanceBefore   decimal.Decimal `json:"balanceBefore"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	TransactionDate time.Time       `json:"transactionDate"`
}

// ToAccountTransactionResponse converts a domain.AccountTransaction.
func ToAccountTransactionResponse(t *domain.AccountTransaction) AccountTransactionResponse {
	return AccountTransactionResponse{
		TransactionID:   t.TransactionID,
		AccountID:       t.AccountID,
		PaymentID:       t.PaymentID,
		Amount:          t.Amount,
		Reason:          t.Reason,
		BalanceBefore:   t.BalanceBefore,
		BalanceAfter:    t.BalanceAfter,
		TransactionDate: t.TransactionDate,
	}
}

// ListAccountTransactionsParams defines query parameters for the transaction listing.
type ListAccountTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListAccountTransactionsResponse wraps the paginated transaction listing.
type ListAccountTransactionsResponse struct {
	Transactions []AccountTransactionResponse `json:"transactions"`
	NextToken    *string                      `json:"nextToken,omitempty"`
}

// AccountAdjustmentRequest records a manual credit (positive) or debit
// (negative) against an account, outside of any payment.
type AccountAdjustmentRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reason    string          `json:"reason" binding:"required"`
	Date      time.Time       `json:"date" binding:"required"`
}

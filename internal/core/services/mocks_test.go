package services_test

import (
	"context"
	"time"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	portsrepo "github.com/hisab-books/ledger_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock PartyRepository ---

type MockPartyRepository struct {
	mock.Mock
}

var _ portsrepo.PartyRepositoryFacade = (*MockPartyRepository)(nil)

func (m *MockPartyRepository) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyRepository) ListParties(ctx context.Context, search string, limit int, offset int) ([]domain.Party, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Party), args.Error(1)
}

func (m *MockPartyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}

func (m *MockPartyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}

func (m *MockPartyRepository) UpdatePartyBalance(ctx context.Context, partyID string, balance decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, partyID, balance, userID, now)
	return args.Error(0)
}

func (m *MockPartyRepository) SoftDeleteParty(ctx context.Context, partyID string, userID string, now time.Time) error {
	args := m.Called(ctx, partyID, userID, now)
	return args.Error(0)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountTransaction, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.AccountTransaction), returnedNextToken, args.Error(2)
}

func (m *MockAccountRepository) FindAccountTransactionByID(ctx context.Context, transactionID string) (*domain.AccountTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountTransaction), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, balance, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) SoftDeleteAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveAdjustmentAndReconcile(ctx context.Context, txn domain.AccountTransaction, newBalance decimal.Decimal) error {
	args := m.Called(ctx, txn, newBalance)
	return args.Error(0)
}

func (m *MockAccountRepository) ReverseAdjustmentAndReconcile(ctx context.Context, transactionID string, accountID string, newBalance decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, transactionID, accountID, newBalance, userID, now)
	return args.Error(0)
}

// --- Mock InvoiceRepository ---

type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoicesByIDs(ctx context.Context, invoiceIDs []string) (map[string]domain.Invoice, error) {
	args := m.Called(ctx, invoiceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, params portsrepo.ListInvoicesParams) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Invoice), returnedNextToken, args.Error(2)
}

func (m *MockInvoiceRepository) ListOutstandingInvoices(ctx context.Context, partyID string, kind domain.InvoiceKind) ([]domain.Invoice, error) {
	args := m.Called(ctx, partyID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, items []domain.InvoiceItem, partyBalance decimal.Decimal) error {
	args := m.Called(ctx, invoice, items, partyBalance)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CancelInvoice(ctx context.Context, invoiceID string, partyID string, partyBalance decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, invoiceID, partyID, partyBalance, userID, now)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SoftDeleteInvoice(ctx context.Context, invoiceID string, partyID string, partyBalance decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, invoiceID, partyID, partyBalance, userID, now)
	return args.Error(0)
}

// --- Mock PaymentRepository ---

type MockPaymentRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentRepositoryFacade = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPayments(ctx context.Context, params portsrepo.ListPaymentsParams) ([]domain.Payment, *string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Payment), returnedNextToken, args.Error(2)
}

func (m *MockPaymentRepository) FindAllocationsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.PaymentAllocation, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentAllocation), args.Error(1)
}

func (m *MockPaymentRepository) SavePaymentAndReconcile(ctx context.Context, rec portsrepo.PaymentReconciliationRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockPaymentRepository) UpdatePaymentAndReconcile(ctx context.Context, rec portsrepo.PaymentReconciliationRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockPaymentRepository) SoftDeletePaymentAndReconcile(ctx context.Context, rec portsrepo.PaymentReconciliationRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerReader = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) FetchPartyLedger(ctx context.Context, partyID string) (*domain.PartyLedger, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartyLedger), args.Error(1)
}

func (m *MockLedgerRepository) FetchPartyLedgerExcludingPayment(ctx context.Context, partyID string, paymentID string) (*domain.PartyLedger, error) {
	args := m.Called(ctx, partyID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartyLedger), args.Error(1)
}

func (m *MockLedgerRepository) FetchAccountLedger(ctx context.Context, accountID string) (*domain.AccountLedger, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountLedger), args.Error(1)
}

func (m *MockLedgerRepository) FetchAccountLedgerExcludingPayment(ctx context.Context, accountID string, paymentID string) (*domain.AccountLedger, error) {
	args := m.Called(ctx, accountID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountLedger), args.Error(1)
}

func (m *MockLedgerRepository) FetchAccountLedgerExcludingTransaction(ctx context.Context, accountID string, transactionID string) (*domain.AccountLedger, error) {
	args := m.Called(ctx, accountID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountLedger), args.Error(1)
}

// --- Mock SequenceRepository ---

type MockSequenceRepository struct {
	mock.Mock
}

var _ portsrepo.SequenceRepository = (*MockSequenceRepository)(nil)

func (m *MockSequenceRepository) NextDocumentNumber(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

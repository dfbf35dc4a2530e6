package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	portssvc "github.com/hisab-books/ledger_backend/internal/core/ports/services"
	"github.com/hisab-books/ledger_backend/internal/core/services"
	"github.com/hisab-books/ledger_backend/internal/dto"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo  *MockInvoiceRepository
	mockPartyRepo    *MockPartyRepository
	mockPaymentRepo  *MockPaymentRepository
	mockLedgerRepo   *MockLedgerRepository
	mockSequenceRepo *MockSequenceRepository
	service          portssvc.InvoiceSvcFacade

	party  domain.Party
	userID string
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockPartyRepo = new(MockPartyRepository)
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockSequenceRepo = new(MockSequenceRepository)
	// Business registered in Karnataka (29).
	suite.service = services.NewInvoiceService(suite.mockInvoiceRepo, suite.mockPartyRepo, suite.mockPaymentRepo, suite.mockLedgerRepo, suite.mockSequenceRepo, "29")

	suite.userID = uuid.NewString()
	suite.party = domain.Party{
		PartyID:    uuid.NewString(),
		Name:       "Sharma Traders",
		PartyType:  domain.Customer,
		StateCode:  "29",
		MinDueDays: 30,
	}
}

func (suite *InvoiceServiceTestSuite) expectPartyLedger(ctx context.Context, partyID string, opening string, outstandingSales string) {
	suite.mockLedgerRepo.On("FetchPartyLedger", ctx, partyID).
		Return(&domain.PartyLedger{
			PartyID:          partyID,
			OpeningBalance:   dec(opening),
			OutstandingSales: dec(outstandingSales),
		}, nil).Once()
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_IntraStateGST() {
	ctx := context.Background()

	suite.mockPartyRepo.On("FindPartyByID", ctx, suite.party.PartyID).Return(&suite.party, nil).Once()
	suite.mockSequenceRepo.On("NextDocumentNumber", ctx, "INV").Return("INV-00042", nil).Once()
	suite.expectPartyLedger(ctx, suite.party.PartyID, "0", "0")

	var saved domain.Invoice
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Invoice)
		}).Return(nil).Once()

	req := dto.CreateInvoiceRequest{
		Kind:        domain.SalesInvoice,
		PartyID:     suite.party.PartyID,
		InvoiceDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Items: []dto.InvoiceItemRequest{
			{Description: "Steel pipes", HSNCode: "7306", Quantity: dec("10"), UnitPrice: dec("100"), GSTRate: dec("18")},
		},
	}

	invoice, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("INV-00042", invoice.InvoiceNumber)
	suite.True(saved.Subtotal.Equal(dec("1000")))
	suite.True(saved.TaxAmount.Equal(dec("180")))
	suite.True(saved.TotalAmount.Equal(dec("1180")))
	// The whole amount is outstanding at creation.
	suite.True(saved.BalanceAmount.Equal(saved.TotalAmount))
	// Due date derived from the party's threshold when not provided.
	suite.Equal(req.InvoiceDate.AddDate(0, 0, 30), saved.DueDate)
	suite.Require().Len(saved.Items, 1)
	suite.True(saved.Items[0].TaxAmount.Equal(dec("180")))
	suite.True(saved.Items[0].LineTotal.Equal(dec("1180")))
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_TaxInclusive() {
	ctx := context.Background()

	suite.mockPartyRepo.On("FindPartyByID", ctx, suite.party.PartyID).Return(&suite.party, nil).Once()
	suite.mockSequenceRepo.On("NextDocumentNumber", ctx, "INV").Return("INV-00043", nil).Once()
	suite.expectPartyLedger(ctx, suite.party.PartyID, "0", "0")

	var saved domain.Invoice
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Invoice)
		}).Return(nil).Once()

	req := dto.CreateInvoiceRequest{
		Kind:         domain.SalesInvoice,
		PartyID:      suite.party.PartyID,
		InvoiceDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		TaxInclusive: true,
		Items: []dto.InvoiceItemRequest{
			{Description: "Labour charges", Quantity: dec("1"), UnitPrice: dec("1180"), GSTRate: dec("18")},
		},
	}

	_, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(saved.Subtotal.Equal(dec("1000")), "subtotal: %s", saved.Subtotal)
	suite.True(saved.TaxAmount.Equal(dec("180")))
	suite.True(saved.TotalAmount.Equal(dec("1180")))
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_PurchaseSequence() {
	ctx := context.Background()

	supplier := suite.party
	supplier.PartyType = domain.Supplier
	suite.mockPartyRepo.On("FindPartyByID", ctx, supplier.PartyID).Return(&supplier, nil).Once()
	suite.mockSequenceRepo.On("NextDocumentNumber", ctx, "PUR").Return("PUR-00007", nil).Once()
	suite.expectPartyLedger(ctx, supplier.PartyID, "0", "0")
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	req := dto.CreateInvoiceRequest{
		Kind:        domain.PurchaseInvoice,
		PartyID:     supplier.PartyID,
		InvoiceDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Items: []dto.InvoiceItemRequest{
			{Description: "Raw material", Quantity: dec("5"), UnitPrice: dec("200"), GSTRate: dec("12")},
		},
	}

	invoice, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("PUR-00007", invoice.InvoiceNumber)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_KindMismatch() {
	ctx := context.Background()

	supplier := suite.party
	supplier.PartyType = domain.Supplier
	suite.mockPartyRepo.On("FindPartyByID", ctx, supplier.PartyID).Return(&supplier, nil).Once()

	req := dto.CreateInvoiceRequest{
		Kind:        domain.SalesInvoice,
		PartyID:     supplier.PartyID,
		InvoiceDate: time.Now(),
		Items: []dto.InvoiceItemRequest{
			{Description: "x", Quantity: dec("1"), UnitPrice: dec("10")},
		},
	}

	_, err := suite.service.CreateInvoice(ctx, req, suite.userID)
	suite.ErrorIs(err, services.ErrInvoicePartyMismatch)
	suite.mockSequenceRepo.AssertNotCalled(suite.T(), "NextDocumentNumber", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_WritesPartyBalance() {
	ctx := context.Background()

	suite.mockPartyRepo.On("FindPartyByID", ctx, suite.party.PartyID).Return(&suite.party, nil).Once()
	suite.mockSequenceRepo.On("NextDocumentNumber", ctx, "INV").Return("INV-00044", nil).Once()
	suite.expectPartyLedger(ctx, suite.party.PartyID, "1000", "0")

	var newBalance decimal.Decimal
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			newBalance = args.Get(3).(decimal.Decimal)
		}).Return(nil).Once()

	req := dto.CreateInvoiceRequest{
		Kind:        domain.SalesInvoice,
		PartyID:     suite.party.PartyID,
		InvoiceDate: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		Items: []dto.InvoiceItemRequest{
			{Description: "Cement bags", Quantity: dec("5"), UnitPrice: dec("100"), GSTRate: dec("0")},
		},
	}

	_, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().NoError(err)
	// Opening balance 1000 plus the new 500 outstanding, written alongside
	// the invoice so the cached balance cannot drift.
	suite.True(newBalance.Equal(dec("1500")), "party balance: %s", newBalance)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCancelInvoice_WithLiveAllocations() {
	ctx := context.Background()
	invoiceID := uuid.NewString()

	invoice := &domain.Invoice{InvoiceID: invoiceID, Kind: domain.SalesInvoice, PartyID: suite.party.PartyID, BalanceAmount: dec("100")}
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(invoice, nil).Once()
	suite.mockPaymentRepo.On("FindAllocationsByInvoiceID", ctx, invoiceID).
		Return([]domain.PaymentAllocation{{AllocationID: uuid.NewString(), InvoiceID: invoiceID, Amount: dec("400")}}, nil).Once()

	err := suite.service.CancelInvoice(ctx, invoiceID, suite.userID)

	suite.ErrorIs(err, services.ErrInvoiceHasPayments)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CancelInvoice",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCancelInvoice_DeletedAllocationsIgnored() {
	ctx := context.Background()
	invoiceID := uuid.NewString()

	invoice := &domain.Invoice{InvoiceID: invoiceID, Kind: domain.SalesInvoice, PartyID: suite.party.PartyID, BalanceAmount: dec("500")}
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(invoice, nil).Once()
	suite.mockPaymentRepo.On("FindAllocationsByInvoiceID", ctx, invoiceID).
		Return([]domain.PaymentAllocation{{AllocationID: uuid.NewString(), InvoiceID: invoiceID, Amount: dec("400"), IsDeleted: true}}, nil).Once()
	suite.expectPartyLedger(ctx, suite.party.PartyID, "0", "500")
	suite.mockInvoiceRepo.On("CancelInvoice", ctx, invoiceID, suite.party.PartyID, mock.Anything, suite.userID, mock.Anything).Return(nil).Once()

	err := suite.service.CancelInvoice(ctx, invoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCancelInvoice_WritesPartyBalance() {
	ctx := context.Background()
	invoiceID := uuid.NewString()

	// Opening 1000 with this invoice's 500 still outstanding; cancelling
	// takes the unpaid remainder back out of the balance.
	invoice := &domain.Invoice{InvoiceID: invoiceID, Kind: domain.SalesInvoice, PartyID: suite.party.PartyID, BalanceAmount: dec("500")}
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(invoice, nil).Once()
	suite.mockPaymentRepo.On("FindAllocationsByInvoiceID", ctx, invoiceID).
		Return([]domain.PaymentAllocation{}, nil).Once()
	suite.expectPartyLedger(ctx, suite.party.PartyID, "1000", "500")

	var newBalance decimal.Decimal
	suite.mockInvoiceRepo.On("CancelInvoice", ctx, invoiceID, suite.party.PartyID, mock.Anything, suite.userID, mock.Anything).
		Run(func(args mock.Arguments) {
			newBalance = args.Get(3).(decimal.Decimal)
		}).Return(nil).Once()

	err := suite.service.CancelInvoice(ctx, invoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.True(newBalance.Equal(dec("1000")), "party balance: %s", newBalance)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestDeleteInvoice_WritesPartyBalance() {
	ctx := context.Background()
	invoiceID := uuid.NewString()

	invoice := &domain.Invoice{InvoiceID: invoiceID, Kind: domain.SalesInvoice, PartyID: suite.party.PartyID, BalanceAmount: dec("500")}
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(invoice, nil).Once()
	suite.mockPaymentRepo.On("FindAllocationsByInvoiceID", ctx, invoiceID).
		Return([]domain.PaymentAllocation{}, nil).Once()
	suite.expectPartyLedger(ctx, suite.party.PartyID, "1000", "500")

	var newBalance decimal.Decimal
	suite.mockInvoiceRepo.On("SoftDeleteInvoice", ctx, invoiceID, suite.party.PartyID, mock.Anything, suite.userID, mock.Anything).
		Run(func(args mock.Arguments) {
			newBalance = args.Get(3).(decimal.Decimal)
		}).Return(nil).Once()

	err := suite.service.DeleteInvoice(ctx, invoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.True(newBalance.Equal(dec("1000")), "party balance: %s", newBalance)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestDeleteInvoice_AlreadyCancelled() {
	ctx := context.Background()
	invoiceID := uuid.NewString()

	invoice := &domain.Invoice{InvoiceID: invoiceID, IsCancelled: true}
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(invoice, nil).Once()

	err := suite.service.DeleteInvoice(ctx, invoiceID, suite.userID)
	suite.ErrorIs(err, services.ErrInvoiceClosed)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}

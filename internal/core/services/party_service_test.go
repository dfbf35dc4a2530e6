package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	portssvc "github.com/hisab-books/ledger_backend/internal/core/ports/services"
	"github.com/hisab-books/ledger_backend/internal/core/services"
	"github.com/hisab-books/ledger_backend/internal/dto"
)

type PartyServiceTestSuite struct {
	suite.Suite
	mockPartyRepo  *MockPartyRepository
	mockLedgerRepo *MockLedgerRepository
	service        portssvc.PartySvcFacade
	userID         string
}

func (suite *PartyServiceTestSuite) SetupTest() {
	suite.mockPartyRepo = new(MockPartyRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewPartyService(suite.mockPartyRepo, suite.mockLedgerRepo)
	suite.userID = uuid.NewString()
}

func (suite *PartyServiceTestSuite) TestCreateParty_SeedsCachedBalance() {
	ctx := context.Background()

	var saved domain.Party
	suite.mockPartyRepo.On("SaveParty", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Party)
		}).Return(nil).Once()

	req := dto.CreatePartyRequest{
		Name:           "Gupta & Sons",
		PartyType:      domain.Both,
		GSTIN:          "29ABCDE1234F1Z5",
		StateCode:      "29",
		OpeningBalance: dec("1000"),
		MinDueDays:     45,
	}
	party, err := suite.service.CreateParty(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(party.PartyID)
	suite.True(saved.CurrentBalance.Equal(dec("1000")))
	suite.Equal(suite.userID, saved.CreatedBy)
	suite.Equal(45, saved.MinDueDays)
}

func (suite *PartyServiceTestSuite) TestUpdateParty_PartialFields() {
	ctx := context.Background()
	partyID := uuid.NewString()

	existing := &domain.Party{
		PartyID:   partyID,
		Name:      "Old Name",
		PartyType: domain.Customer,
		Phone:     "9000000000",
	}
	suite.mockPartyRepo.On("FindPartyByID", ctx, partyID).Return(existing, nil).Once()

	var updated domain.Party
	suite.mockPartyRepo.On("UpdateParty", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.Party)
		}).Return(nil).Once()

	newName := "New Name"
	party, err := suite.service.UpdateParty(ctx, partyID, dto.UpdatePartyRequest{Name: &newName}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("New Name", party.Name)
	suite.Equal("9000000000", updated.Phone) // Untouched field preserved
	suite.Equal(suite.userID, updated.LastUpdatedBy)
}

func (suite *PartyServiceTestSuite) TestDeleteParty_Clean() {
	ctx := context.Background()
	partyID := uuid.NewString()

	suite.mockPartyRepo.On("FindPartyByID", ctx, partyID).Return(&domain.Party{PartyID: partyID}, nil).Once()
	suite.mockLedgerRepo.On("FetchPartyLedger", ctx, partyID).
		Return(&domain.PartyLedger{PartyID: partyID}, nil).Once()
	suite.mockPartyRepo.On("SoftDeleteParty", ctx, partyID, suite.userID, mock.Anything).Return(nil).Once()

	err := suite.service.DeleteParty(ctx, partyID, suite.userID)

	suite.Require().NoError(err)
	suite.mockPartyRepo.AssertExpectations(suite.T())
}

func (suite *PartyServiceTestSuite) TestDeleteParty_OutstandingRejected() {
	ctx := context.Background()
	partyID := uuid.NewString()

	suite.mockPartyRepo.On("FindPartyByID", ctx, partyID).Return(&domain.Party{PartyID: partyID}, nil).Once()
	suite.mockLedgerRepo.On("FetchPartyLedger", ctx, partyID).
		Return(&domain.PartyLedger{PartyID: partyID, OutstandingSales: dec("250")}, nil).Once()

	err := suite.service.DeleteParty(ctx, partyID, suite.userID)

	suite.ErrorIs(err, services.ErrPartyHasOutstanding)
	suite.mockPartyRepo.AssertNotCalled(suite.T(), "SoftDeleteParty", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPartyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PartyServiceTestSuite))
}

package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/hisab-books/ledger_backend/internal/apperrors"
	"github.com/hisab-books/ledger_backend/internal/core/domain"
	portssvc "github.com/hisab-books/ledger_backend/internal/core/ports/services"
	"github.com/hisab-books/ledger_backend/internal/core/services"
	"github.com/hisab-books/ledger_backend/internal/dto"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

func (suite *UserServiceTestSuite) TestRegisterUser() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByUsername", ctx, "owner").Return(nil, apperrors.ErrNotFound).Once()

	var saved domain.User
	suite.mockUserRepo.On("SaveUser", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.User)
		}).Return(nil).Once()

	req := dto.RegisterUserRequest{Username: "owner", Name: "Shop Owner", Password: "s3cret-pass"}
	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.NotEqual("s3cret-pass", saved.PasswordHash)
	suite.NoError(bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("s3cret-pass")))
}

func (suite *UserServiceTestSuite) TestRegisterUser_UsernameTaken() {
	ctx := context.Background()

	existing := &domain.User{UserID: uuid.NewString(), Username: "owner"}
	suite.mockUserRepo.On("FindUserByUsername", ctx, "owner").Return(existing, nil).Once()

	_, err := suite.service.RegisterUser(ctx, dto.RegisterUserRequest{Username: "owner", Name: "x", Password: "password1"})

	suite.ErrorIs(err, services.ErrUsernameTaken)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser() {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Username: "owner", PasswordHash: string(hash)}
	suite.mockUserRepo.On("FindUserByUsername", ctx, "owner").Return(user, nil).Twice()

	got, err := suite.service.AuthenticateUser(ctx, "owner", "correct-horse")
	suite.Require().NoError(err)
	suite.Equal(user.UserID, got.UserID)

	_, err = suite.service.AuthenticateUser(ctx, "owner", "wrong-pass")
	suite.ErrorIs(err, services.ErrInvalidCredentials)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownUsername() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthenticateUser(ctx, "ghost", "whatever")

	// Unknown usernames and bad passwords are indistinguishable to callers.
	suite.ErrorIs(err, services.ErrInvalidCredentials)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

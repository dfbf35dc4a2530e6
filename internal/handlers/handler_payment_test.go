package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hisab-books/ledger_backend/internal/apperrors"
	"github.com/hisab-books/ledger_backend/internal/core/domain"
	portssvc "github.com/hisab-books/ledger_backend/internal/core/ports/services"
	"github.com/hisab-books/ledger_backend/internal/dto"
	"github.com/hisab-books/ledger_backend/internal/handlers"
	"github.com/hisab-books/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, userID string) (*domain.Payment, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) RecordAccountAdjustment(ctx context.Context, req dto.AccountAdjustmentRequest, userID string) (*domain.AccountTransaction, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountTransaction), args.Error(1)
}
func (m *MockPaymentService) ReverseAdjustment(ctx context.Context, transactionID string, userID string) error {
	args := m.Called(ctx, transactionID, userID)
	return args.Error(0)
}
func (m *MockPaymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListPaymentsResponse), args.Error(1)
}
func (m *MockPaymentService) EditPayment(ctx context.Context, paymentID string, req dto.EditPaymentRequest, userID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) DeletePayment(ctx context.Context, paymentID string, userID string) error {
	args := m.Called(ctx, paymentID, userID)
	return args.Error(0)
}
func (m *MockPaymentService) RecalculateParty(ctx context.Context, partyID string, userID string) (decimal.Decimal, error) {
	args := m.Called(ctx, partyID, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockPaymentService) RecalculateAccount(ctx context.Context, accountID string, userID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// --- Test Suite ---
type PaymentHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockPaymentService *MockPaymentService
	jwtSecret          string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *PaymentHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "ledger-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockPaymentService = new(MockPaymentService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterPaymentRoutes(v1, suite.mockPaymentService)
}

func (suite *PaymentHandlerTestSuite) authedRequest(method, url string, body any, userID string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, url, reqBody)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *PaymentHandlerTestSuite) TestRecordPayment_Success() {
	userID := uuid.NewString()
	partyID := uuid.NewString()
	accountID := uuid.NewString()
	paymentDate := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	reqBody := dto.RecordPaymentRequest{
		PaymentType: domain.PaymentIn,
		PartyID:     partyID,
		AccountID:   accountID,
		Amount:      decimal.NewFromInt(500),
		PaymentDate: paymentDate,
		Method:      domain.MethodUPI,
	}

	expected := &domain.Payment{
		PaymentID:     uuid.NewString(),
		PaymentNumber: "PAY-00042",
		PaymentType:   domain.PaymentIn,
		PartyID:       partyID,
		AccountID:     accountID,
		Amount:        decimal.NewFromInt(500),
		PaymentDate:   paymentDate,
		Method:        domain.MethodUPI,
	}

	suite.mockPaymentService.On("RecordPayment",
		mock.Anything,
		mock.MatchedBy(func(r dto.RecordPaymentRequest) bool {
			return r.PartyID == partyID && r.Amount.Equal(decimal.NewFromInt(500))
		}),
		userID,
	).Return(expected, nil).Once()

	w := suite.authedRequest(http.MethodPost, "/api/v1/payments", reqBody, userID)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.PaymentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.PaymentID, resp.PaymentID)
	suite.Equal("PAY-00042", resp.PaymentNumber)
	suite.True(resp.Amount.Equal(decimal.NewFromInt(500)))

	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestRecordPayment_ValidationErrorReturns400() {
	userID := uuid.NewString()
	reqBody := dto.RecordPaymentRequest{
		PaymentType: domain.PaymentIn,
		PartyID:     uuid.NewString(),
		AccountID:   uuid.NewString(),
		Amount:      decimal.NewFromInt(9999),
		PaymentDate: time.Now().UTC(),
	}

	suite.mockPaymentService.On("RecordPayment", mock.Anything, mock.Anything, userID).
		Return(nil, fmt.Errorf("%w: amount exceeds outstanding balance", apperrors.ErrValidation)).Once()

	w := suite.authedRequest(http.MethodPost, "/api/v1/payments", reqBody, userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "exceeds outstanding")
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestRecordPayment_UnknownPartyReturns400() {
	userID := uuid.NewString()
	partyID := uuid.NewString()
	reqBody := dto.RecordPaymentRequest{
		PaymentType: domain.PaymentIn,
		PartyID:     partyID,
		AccountID:   uuid.NewString(),
		Amount:      decimal.NewFromInt(100),
		PaymentDate: time.Now().UTC(),
	}

	// The payment URL names no party; a dangling party reference in the body
	// is the client's mistake, not a 404.
	suite.mockPaymentService.On("RecordPayment", mock.Anything, mock.Anything, userID).
		Return(nil, fmt.Errorf("%w: party %s", apperrors.ErrNotFound, partyID)).Once()

	w := suite.authedRequest(http.MethodPost, "/api/v1/payments", reqBody, userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), partyID)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestRecordPayment_MissingTokenReturns401() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewBufferString("{}"))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockPaymentService.AssertNotCalled(suite.T(), "RecordPayment")
}

func (suite *PaymentHandlerTestSuite) TestGetPayment_NotFoundReturns404() {
	userID := uuid.NewString()
	paymentID := uuid.NewString()

	suite.mockPaymentService.On("GetPaymentByID", mock.Anything, paymentID).
		Return(nil, fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, paymentID)).Once()

	w := suite.authedRequest(http.MethodGet, "/api/v1/payments/"+paymentID, nil, userID)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestDeletePayment_ConflictReturns409() {
	userID := uuid.NewString()
	paymentID := uuid.NewString()

	suite.mockPaymentService.On("DeletePayment", mock.Anything, paymentID, userID).
		Return(fmt.Errorf("%w: payment already deleted", apperrors.ErrConflict)).Once()

	w := suite.authedRequest(http.MethodDelete, "/api/v1/payments/"+paymentID, nil, userID)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestListPayments_PassesFilters() {
	userID := uuid.NewString()
	partyID := uuid.NewString()

	expected := &dto.ListPaymentsResponse{Payments: []dto.PaymentResponse{}}
	suite.mockPaymentService.On("ListPayments",
		mock.Anything,
		mock.MatchedBy(func(p dto.ListPaymentsParams) bool {
			return p.PartyID == partyID && p.Limit == 10
		}),
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/payments?partyID=%s&limit=10", partyID)
	w := suite.authedRequest(http.MethodGet, url, nil, userID)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestPaymentHandler(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

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

	"github.com/coursepay/lms_payments_backend/internal/apperrors"
	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	portssvc "github.com/coursepay/lms_payments_backend/internal/core/ports/services"
	"github.com/coursepay/lms_payments_backend/internal/dto"
	"github.com/coursepay/lms_payments_backend/internal/handlers"
	"github.com/coursepay/lms_payments_backend/internal/utils"
	"github.com/coursepay/lms_payments_backend/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock WalletService ---
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetWalletByID(ctx context.Context, walletID string, actor domain.Actor) (*domain.Wallet, error) {
	args := m.Called(ctx, walletID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletService) GetWalletByStudentID(ctx context.Context, studentID string, actor domain.Actor) (*domain.Wallet, error) {
	args := m.Called(ctx, studentID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletService) GetBalance(ctx context.Context, walletID string, actor domain.Actor) (int64, error) {
	args := m.Called(ctx, walletID, actor)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockWalletService) HasSufficientFunds(ctx context.Context, walletID string, amount int64, actor domain.Actor) (bool, error) {
	args := m.Called(ctx, walletID, amount, actor)
	return args.Bool(0), args.Error(1)
}
func (m *MockWalletService) ListTransactions(ctx context.Context, walletID string, actor domain.Actor, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, walletID, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}
func (m *MockWalletService) CreateWallet(ctx context.Context, req dto.CreateWalletRequest, actor domain.Actor) (*domain.Wallet, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletService) Deposit(ctx context.Context, walletID string, req dto.DepositRequest, actor domain.Actor) (*dto.TransactionResult, error) {
	args := m.Called(ctx, walletID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransactionResult), args.Error(1)
}
func (m *MockWalletService) Withdraw(ctx context.Context, walletID string, req dto.WithdrawRequest, actor domain.Actor) (*dto.TransactionResult, error) {
	args := m.Called(ctx, walletID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransactionResult), args.Error(1)
}
func (m *MockWalletService) ManualDeposit(ctx context.Context, walletID string, req dto.ManualDepositRequest, actor domain.Actor) (*dto.TransactionResult, error) {
	args := m.Called(ctx, walletID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransactionResult), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.WalletSvcFacade = (*MockWalletService)(nil)

// --- Test Suite ---
type WalletHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockWalletService *MockWalletService
	jwtSecret         string
}

func (suite *WalletHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockWalletService = new(MockWalletService)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		IsProduction: true, // keeps swagger out of the test router
	}
	container := &portssvc.ServiceContainer{Wallet: suite.mockWalletService}
	handlers.RegisterRoutes(suite.router, cfg, container)
}

// generateTestToken creates a signed JWT carrying the given role.
func (suite *WalletHandlerTestSuite) generateTestToken(userID string, role domain.UserRole) string {
	token, err := utils.GenerateJWT(userID, string(role), suite.jwtSecret, time.Hour, "lms-payments-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

// --- Test Cases ---

func (suite *WalletHandlerTestSuite) TestGetWallet_Success() {
	walletID := uuid.NewString()
	studentID := uuid.NewString()
	wallet := &domain.Wallet{
		WalletID:     walletID,
		StudentID:    studentID,
		CurrencyCode: "EGP",
	}

	suite.mockWalletService.On("GetWalletByID", mock.Anything, walletID, mock.MatchedBy(func(a domain.Actor) bool {
		return a.UserID == studentID && a.Role == domain.RoleStudent
	})).Return(wallet, nil).Once()
	suite.mockWalletService.On("GetBalance", mock.Anything, walletID, mock.Anything).Return(int64(12345), nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/wallets/"+walletID, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(studentID, domain.RoleStudent))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var body dto.WalletResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(walletID, body.WalletID)
	suite.Equal(int64(12345), body.Balance)
	suite.Equal("123.45", body.BalanceFormatted)
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestGetWallet_MissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/wallets/"+uuid.NewString(), nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockWalletService.AssertNotCalled(suite.T(), "GetWalletByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WalletHandlerTestSuite) TestWithdraw_InsufficientFundsMapsTo402() {
	walletID := uuid.NewString()
	studentID := uuid.NewString()

	suite.mockWalletService.On("Withdraw", mock.Anything, walletID, mock.MatchedBy(func(r dto.WithdrawRequest) bool {
		return r.Amount == 99999
	}), mock.Anything).Return(nil, apperrors.ErrInsufficientFunds).Once()

	payload := bytes.NewBufferString(`{"amount": 99999}`)
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/wallets/%s/withdraw", walletID), payload)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(studentID, domain.RoleStudent))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusPaymentRequired, w.Code)
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestManualDeposit_ForbiddenMapsTo403() {
	walletID := uuid.NewString()
	studentID := uuid.NewString()

	suite.mockWalletService.On("ManualDeposit", mock.Anything, walletID, mock.Anything, mock.Anything).Return(nil, apperrors.ErrForbidden).Once()

	payload := bytes.NewBufferString(`{"amount": 1000, "reason": "adjustment"}`)
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/wallets/%s/manual-deposit", walletID), payload)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(studentID, domain.RoleStudent))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestCreateWallet_InvalidCurrencyRejected() {
	studentID := uuid.NewString()

	payload := bytes.NewBufferString(fmt.Sprintf(`{"studentID": %q, "currencyCode": "XXX"}`, studentID))
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/wallets", payload)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(studentID, domain.RoleStudent))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockWalletService.AssertNotCalled(suite.T(), "CreateWallet", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WalletHandlerTestSuite) TestCheckSufficiency_Success() {
	walletID := uuid.NewString()
	studentID := uuid.NewString()

	suite.mockWalletService.On("HasSufficientFunds", mock.Anything, walletID, int64(25000), mock.MatchedBy(func(a domain.Actor) bool {
		return a.UserID == studentID
	})).Return(false, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/wallets/%s/sufficiency?amount=25000", walletID), nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(studentID, domain.RoleStudent))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var body dto.SufficiencyResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(walletID, body.WalletID)
	suite.Equal(int64(25000), body.Amount)
	suite.False(body.Sufficient)
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestCheckSufficiency_MissingAmountRejected() {
	walletID := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/wallets/%s/sufficiency", walletID), nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(uuid.NewString(), domain.RoleStudent))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockWalletService.AssertNotCalled(suite.T(), "HasSufficientFunds", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestWalletHandler(t *testing.T) {
	suite.Run(t, new(WalletHandlerTestSuite))
}

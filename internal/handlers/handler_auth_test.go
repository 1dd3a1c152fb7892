package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
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

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

func (m *MockUserService) Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest, actor domain.Actor) (*domain.User, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Test Suite ---
type AuthHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockUserService *MockUserService
	jwtSecret       string
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockUserService = new(MockUserService)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		IsProduction: true,
	}
	container := &portssvc.ServiceContainer{User: suite.mockUserService}
	handlers.RegisterRoutes(suite.router, cfg, container)
}

func (suite *AuthHandlerTestSuite) generateTestToken(userID string, role domain.UserRole) string {
	token, err := utils.GenerateJWT(userID, string(role), suite.jwtSecret, time.Hour, "lms-payments-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

// --- Test Cases ---

// An anonymous registration payload must not be able to pick its own role,
// whatever extra fields the caller sends.
func (suite *AuthHandlerTestSuite) TestRegister_CallerSuppliedRoleIgnored() {
	var captured dto.RegisterUserRequest
	suite.mockUserService.On("Register", mock.Anything, mock.MatchedBy(func(r dto.RegisterUserRequest) bool {
		captured = r
		return true
	})).Return(&domain.User{
		UserID: uuid.NewString(),
		Email:  "mallory@example.com",
		Name:   "Mallory",
		Role:   domain.RoleStudent,
	}, nil).Once()

	payload := bytes.NewBufferString(`{"name": "Mallory", "email": "mallory@example.com", "password": "s3cret-pass", "role": "admin"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/register", payload)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var body dto.UserResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(string(domain.RoleStudent), body.Role)
	suite.Equal("mallory@example.com", captured.Email)
	suite.mockUserService.AssertNotCalled(suite.T(), "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestCreateUser_MissingToken() {
	payload := bytes.NewBufferString(`{"name": "Omar", "email": "omar@example.com", "password": "s3cret-pass", "role": "teacher"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users", payload)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockUserService.AssertNotCalled(suite.T(), "CreateUser", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthHandlerTestSuite) TestCreateUser_NonAdminMapsTo403() {
	suite.mockUserService.On("CreateUser", mock.Anything, mock.Anything, mock.MatchedBy(func(a domain.Actor) bool {
		return a.Role == domain.RoleTeacher
	})).Return(nil, apperrors.ErrForbidden).Once()

	payload := bytes.NewBufferString(`{"name": "Omar", "email": "omar@example.com", "password": "s3cret-pass", "role": "admin"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users", payload)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(uuid.NewString(), domain.RoleTeacher))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestCreateUser_AdminSuccess() {
	adminID := uuid.NewString()
	created := &domain.User{
		UserID: uuid.NewString(),
		Email:  "omar@example.com",
		Name:   "Omar",
		Role:   domain.RoleTeacher,
	}

	suite.mockUserService.On("CreateUser", mock.Anything, mock.MatchedBy(func(r dto.CreateUserRequest) bool {
		return r.Role == "teacher"
	}), mock.MatchedBy(func(a domain.Actor) bool {
		return a.UserID == adminID && a.Role == domain.RoleAdmin
	})).Return(created, nil).Once()

	payload := bytes.NewBufferString(`{"name": "Omar", "email": "omar@example.com", "password": "s3cret-pass", "role": "teacher"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users", payload)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(adminID, domain.RoleAdmin))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var body dto.UserResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(string(domain.RoleTeacher), body.Role)
	suite.mockUserService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestAuthHandler(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

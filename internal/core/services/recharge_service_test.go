package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/coursepay/lms_payments_backend/internal/apperrors"
	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	portsrepo "github.com/coursepay/lms_payments_backend/internal/core/ports/repositories"
	portssvc "github.com/coursepay/lms_payments_backend/internal/core/ports/services"
	"github.com/coursepay/lms_payments_backend/internal/core/services"
	"github.com/coursepay/lms_payments_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RechargeCodeRepository ---
type MockRechargeCodeRepository struct {
	mock.Mock
}

// Ensure MockRechargeCodeRepository implements portsrepo.RechargeCodeRepositoryFacade
var _ portsrepo.RechargeCodeRepositoryFacade = (*MockRechargeCodeRepository)(nil)

func (m *MockRechargeCodeRepository) SaveCodes(ctx context.Context, codes []domain.RechargeCode) error {
	args := m.Called(ctx, codes)
	return args.Error(0)
}

func (m *MockRechargeCodeRepository) FindByCode(ctx context.Context, code string) (*domain.RechargeCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RechargeCode), args.Error(1)
}

func (m *MockRechargeCodeRepository) ListCodes(ctx context.Context, onlyUnused bool, limit int, nextToken *string) ([]domain.RechargeCode, *string, error) {
	args := m.Called(ctx, onlyUnused, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.RechargeCode), returnedNextToken, args.Error(2)
}

func (m *MockRechargeCodeRepository) RedeemCode(ctx context.Context, params portsrepo.RedeemCodeParams) (*domain.Transaction, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// --- Test Suite Setup ---
type RechargeServiceTestSuite struct {
	suite.Suite
	mockRechargeRepo *MockRechargeCodeRepository
	mockWalletRepo   *MockWalletRepository
	mockAuditSvc     *MockAuditService
	service          portssvc.RechargeCodeSvcFacade
	student          domain.Actor
	teacher          domain.Actor
	wallet           domain.Wallet
}

func (suite *RechargeServiceTestSuite) SetupTest() {
	suite.mockRechargeRepo = new(MockRechargeCodeRepository)
	suite.mockWalletRepo = new(MockWalletRepository)
	suite.mockAuditSvc = new(MockAuditService)
	suite.service = services.NewRechargeService(suite.mockRechargeRepo, suite.mockWalletRepo, suite.mockAuditSvc)

	studentID := uuid.NewString()
	suite.student = domain.Actor{UserID: studentID, Role: domain.RoleStudent}
	suite.teacher = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleTeacher}

	suite.wallet = domain.Wallet{
		WalletID:     uuid.NewString(),
		StudentID:    studentID,
		CurrencyCode: "EGP",
	}
}

// --- Test Cases ---

func (suite *RechargeServiceTestSuite) TestGenerateCodes_NonStaffForbidden() {
	ctx := context.Background()
	req := dto.GenerateCodesRequest{Count: 5, Amount: 10000, CurrencyCode: "EGP"}

	_, err := suite.service.GenerateCodes(ctx, req, suite.student)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRechargeRepo.AssertNotCalled(suite.T(), "SaveCodes", mock.Anything, mock.Anything)
}

func (suite *RechargeServiceTestSuite) TestGenerateCodes_Success() {
	ctx := context.Background()
	req := dto.GenerateCodesRequest{Count: 3, Amount: 10000, CurrencyCode: "EGP"}

	var saved []domain.RechargeCode
	suite.mockRechargeRepo.On("SaveCodes", ctx, mock.MatchedBy(func(codes []domain.RechargeCode) bool {
		saved = codes
		return len(codes) == 3
	})).Return(nil).Once()
	suite.mockAuditSvc.On("Record", ctx, suite.teacher.UserID, domain.AuditActionCodesGenerated, "recharge_code", "batch", mock.Anything, mock.Anything).Return(nil).Once()

	resp, err := suite.service.GenerateCodes(ctx, req, suite.teacher)

	suite.Require().NoError(err)
	suite.Len(resp.Codes, 3)
	seen := make(map[string]bool)
	for _, c := range saved {
		suite.Equal(int64(10000), c.Amount)
		suite.Equal("EGP", c.CurrencyCode)
		suite.False(c.IsUsed)
		suite.True(strings.HasPrefix(c.Code, "RC-"))
		suite.False(seen[c.Code], "codes must be unique within a batch")
		seen[c.Code] = true
	}
	suite.mockRechargeRepo.AssertExpectations(suite.T())
	suite.mockAuditSvc.AssertExpectations(suite.T())
}

func (suite *RechargeServiceTestSuite) TestGenerateCodes_ExpiryInPast() {
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)
	req := dto.GenerateCodesRequest{Count: 1, Amount: 10000, CurrencyCode: "EGP", ExpiresAt: &past}

	_, err := suite.service.GenerateCodes(ctx, req, suite.teacher)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRechargeRepo.AssertNotCalled(suite.T(), "SaveCodes", mock.Anything, mock.Anything)
}

func (suite *RechargeServiceTestSuite) TestRedeemCode_Success() {
	ctx := context.Background()
	req := dto.RedeemCodeRequest{Code: "RC-ABCDE12345"}

	code := &domain.RechargeCode{
		CodeID:       uuid.NewString(),
		Code:         req.Code,
		Amount:       10000,
		CurrencyCode: "EGP",
	}
	credit := &domain.Transaction{
		TransactionID: uuid.NewString(),
		WalletID:      suite.wallet.WalletID,
		Amount:        10000,
		Kind:          domain.KindRechargeCode,
	}
	suite.mockWalletRepo.On("FindWalletByStudentID", ctx, suite.student.UserID).Return(&suite.wallet, nil).Once()
	suite.mockRechargeRepo.On("FindByCode", ctx, req.Code).Return(code, nil).Once()
	suite.mockRechargeRepo.On("RedeemCode", ctx, mock.MatchedBy(func(p portsrepo.RedeemCodeParams) bool {
		return p.Code == req.Code && p.WalletID == suite.wallet.WalletID && p.StudentID == suite.student.UserID
	})).Return(credit, nil).Once()
	suite.mockWalletRepo.On("GetBalance", ctx, suite.wallet.WalletID).Return(int64(10000), nil).Once()
	suite.mockAuditSvc.On("Record", ctx, suite.student.UserID, domain.AuditActionRechargeUsed, "recharge_code", code.CodeID, mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.RedeemCode(ctx, req, suite.student)

	suite.Require().NoError(err)
	suite.Equal(int64(10000), result.Transaction.Amount)
	suite.Equal(int64(10000), result.NewBalance)
	suite.mockRechargeRepo.AssertExpectations(suite.T())
	suite.mockAuditSvc.AssertExpectations(suite.T())
}

func (suite *RechargeServiceTestSuite) TestRedeemCode_CreatesWalletOnFirstAccess() {
	ctx := context.Background()
	req := dto.RedeemCodeRequest{Code: "RC-FIRSTWALLET"}

	code := &domain.RechargeCode{
		CodeID:       uuid.NewString(),
		Code:         req.Code,
		Amount:       5000,
		CurrencyCode: "EGP",
	}
	suite.mockWalletRepo.On("FindWalletByStudentID", ctx, suite.student.UserID).Return(nil, apperrors.ErrWalletNotFound).Once()

	var created domain.Wallet
	suite.mockWalletRepo.On("SaveWallet", ctx, mock.MatchedBy(func(w domain.Wallet) bool {
		created = w
		return w.StudentID == suite.student.UserID && w.CurrencyCode == "EGP"
	})).Return(nil).Once()

	suite.mockRechargeRepo.On("FindByCode", ctx, req.Code).Return(code, nil).Once()
	suite.mockRechargeRepo.On("RedeemCode", ctx, mock.MatchedBy(func(p portsrepo.RedeemCodeParams) bool {
		return p.WalletID == created.WalletID && p.StudentID == suite.student.UserID
	})).Return(&domain.Transaction{
		TransactionID: uuid.NewString(),
		Amount:        5000,
		Kind:          domain.KindRechargeCode,
	}, nil).Once()
	suite.mockWalletRepo.On("GetBalance", ctx, mock.AnythingOfType("string")).Return(int64(5000), nil).Once()
	suite.mockAuditSvc.On("Record", ctx, suite.student.UserID, domain.AuditActionRechargeUsed, "recharge_code", code.CodeID, mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.RedeemCode(ctx, req, suite.student)

	suite.Require().NoError(err)
	suite.Equal(int64(5000), result.NewBalance)
	suite.mockWalletRepo.AssertExpectations(suite.T())
	suite.mockRechargeRepo.AssertExpectations(suite.T())
}

func (suite *RechargeServiceTestSuite) TestRedeemCode_NonStudentForbidden() {
	ctx := context.Background()

	_, err := suite.service.RedeemCode(ctx, dto.RedeemCodeRequest{Code: "RC-ABCDE12345"}, suite.teacher)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRechargeRepo.AssertNotCalled(suite.T(), "RedeemCode", mock.Anything, mock.Anything)
}

func (suite *RechargeServiceTestSuite) TestRedeemCode_CurrencyMismatch() {
	ctx := context.Background()
	req := dto.RedeemCodeRequest{Code: "RC-ABCDE12345"}

	code := &domain.RechargeCode{
		CodeID:       uuid.NewString(),
		Code:         req.Code,
		Amount:       10000,
		CurrencyCode: "USD",
	}
	suite.mockWalletRepo.On("FindWalletByStudentID", ctx, suite.student.UserID).Return(&suite.wallet, nil).Once()
	suite.mockRechargeRepo.On("FindByCode", ctx, req.Code).Return(code, nil).Once()

	_, err := suite.service.RedeemCode(ctx, req, suite.student)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRechargeRepo.AssertNotCalled(suite.T(), "RedeemCode", mock.Anything, mock.Anything)
}

func (suite *RechargeServiceTestSuite) TestRedeemCode_AlreadyUsed() {
	ctx := context.Background()
	req := dto.RedeemCodeRequest{Code: "RC-ABCDE12345"}

	code := &domain.RechargeCode{
		CodeID:       uuid.NewString(),
		Code:         req.Code,
		Amount:       10000,
		CurrencyCode: "EGP",
		IsUsed:       true,
	}
	suite.mockWalletRepo.On("FindWalletByStudentID", ctx, suite.student.UserID).Return(&suite.wallet, nil).Once()
	suite.mockRechargeRepo.On("FindByCode", ctx, req.Code).Return(code, nil).Once()
	suite.mockRechargeRepo.On("RedeemCode", ctx, mock.Anything).Return(nil, apperrors.ErrCodeAlreadyUsed).Once()

	_, err := suite.service.RedeemCode(ctx, req, suite.student)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrCodeAlreadyUsed)
	suite.mockAuditSvc.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RechargeServiceTestSuite) TestListCodes_NonStaffForbidden() {
	ctx := context.Background()

	_, err := suite.service.ListCodes(ctx, suite.student, dto.ListCodesParams{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *RechargeServiceTestSuite) TestExportCodesCSV_PagesThroughAllCodes() {
	ctx := context.Background()
	expires := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	pageOne := []domain.RechargeCode{{
		CodeID:       uuid.NewString(),
		Code:         "RC-AAAAA11111",
		Amount:       10000,
		CurrencyCode: "EGP",
		ExpiresAt:    &expires,
	}}
	pageTwo := []domain.RechargeCode{{
		CodeID:       uuid.NewString(),
		Code:         "RC-BBBBB22222",
		Amount:       5000,
		CurrencyCode: "EGP",
	}}
	token := "page-2"
	suite.mockRechargeRepo.On("ListCodes", ctx, true, 100, (*string)(nil)).Return(pageOne, token, nil).Once()
	suite.mockRechargeRepo.On("ListCodes", ctx, true, 100, &token).Return(pageTwo, nil, nil).Once()

	out, err := suite.service.ExportCodesCSV(ctx, suite.teacher)

	suite.Require().NoError(err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	suite.Require().Len(lines, 3)
	suite.Equal("code,amount,currency,expires_at", lines[0])
	suite.Contains(lines[1], "RC-AAAAA11111")
	suite.Contains(lines[1], "2026-12-31T00:00:00Z")
	suite.Contains(lines[2], "RC-BBBBB22222")
	suite.mockRechargeRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestRechargeService(t *testing.T) {
	suite.Run(t, new(RechargeServiceTestSuite))
}

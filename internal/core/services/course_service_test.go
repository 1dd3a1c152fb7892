package services_test

import (
	"context"
	"testing"

	"github.com/coursepay/lms_payments_backend/internal/apperrors"
	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	portssvc "github.com/coursepay/lms_payments_backend/internal/core/ports/services"
	"github.com/coursepay/lms_payments_backend/internal/core/services"
	"github.com/coursepay/lms_payments_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---
type CourseServiceTestSuite struct {
	suite.Suite
	mockCourseRepo   *MockCourseRepository
	mockPurchaseRepo *MockPurchaseRepository
	mockAuditSvc     *MockAuditService
	service          portssvc.CourseSvcFacade
	student          domain.Actor
	teacher          domain.Actor
	course           domain.Course
}

func (suite *CourseServiceTestSuite) SetupTest() {
	suite.mockCourseRepo = new(MockCourseRepository)
	suite.mockPurchaseRepo = new(MockPurchaseRepository)
	suite.mockAuditSvc = new(MockAuditService)
	suite.service = services.NewCourseService(suite.mockCourseRepo, suite.mockPurchaseRepo, suite.mockAuditSvc)

	suite.student = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleStudent}
	suite.teacher = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleTeacher}
	suite.course = domain.Course{
		CourseID:    uuid.NewString(),
		Title:       "Organic Chemistry",
		Price:       30000,
		IsPublished: true,
	}
}

// --- Test Cases ---

func (suite *CourseServiceTestSuite) TestCreateCourse_StudentForbidden() {
	ctx := context.Background()
	req := dto.CreateCourseRequest{Title: "Algebra", Price: 10000}

	_, err := suite.service.CreateCourse(ctx, req, suite.student)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockCourseRepo.AssertNotCalled(suite.T(), "SaveCourse", mock.Anything, mock.Anything)
}

func (suite *CourseServiceTestSuite) TestCreateCourse_Success() {
	ctx := context.Background()
	req := dto.CreateCourseRequest{Title: "Algebra", Price: 10000, IsPublished: true}

	suite.mockCourseRepo.On("SaveCourse", ctx, mock.MatchedBy(func(c domain.Course) bool {
		return c.Title == "Algebra" && c.Price == 10000 && c.IsPublished && !c.PriceLocked
	})).Return(nil).Once()

	course, err := suite.service.CreateCourse(ctx, req, suite.teacher)

	suite.Require().NoError(err)
	suite.NotEmpty(course.CourseID)
	suite.Equal(suite.teacher.UserID, course.CreatedBy)
	suite.mockCourseRepo.AssertExpectations(suite.T())
}

func (suite *CourseServiceTestSuite) TestUpdatePrice_Success() {
	ctx := context.Background()
	req := dto.UpdatePriceRequest{NewPrice: 35000, Reason: "Market adjustment"}

	updated := suite.course
	updated.Price = 35000
	suite.mockCourseRepo.On("UpdatePrice", ctx, suite.course.CourseID, int64(35000), "Market adjustment", mock.AnythingOfType("string"), suite.teacher.UserID, mock.AnythingOfType("time.Time")).Return(&updated, nil).Once()
	suite.mockAuditSvc.On("Record", ctx, suite.teacher.UserID, domain.AuditActionPriceChange, "course", suite.course.CourseID, mock.Anything, mock.Anything).Return(nil).Once()

	course, err := suite.service.UpdatePrice(ctx, suite.course.CourseID, req, suite.teacher)

	suite.Require().NoError(err)
	suite.Equal(int64(35000), course.Price)
	suite.mockCourseRepo.AssertExpectations(suite.T())
	suite.mockAuditSvc.AssertExpectations(suite.T())
}

func (suite *CourseServiceTestSuite) TestUpdatePrice_LockedPriceRejected() {
	ctx := context.Background()
	req := dto.UpdatePriceRequest{NewPrice: 35000, Reason: "Market adjustment"}

	suite.mockCourseRepo.On("UpdatePrice", ctx, suite.course.CourseID, int64(35000), "Market adjustment", mock.AnythingOfType("string"), suite.teacher.UserID, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrConflict).Once()

	_, err := suite.service.UpdatePrice(ctx, suite.course.CourseID, req, suite.teacher)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAuditSvc.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CourseServiceTestSuite) TestGetCourseStats_StudentForbidden() {
	ctx := context.Background()

	_, err := suite.service.GetCourseStats(ctx, suite.course.CourseID, suite.student)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockPurchaseRepo.AssertNotCalled(suite.T(), "CourseStats", mock.Anything, mock.Anything)
}

func (suite *CourseServiceTestSuite) TestGetCourseStats_Success() {
	ctx := context.Background()
	stats := &domain.CourseStats{
		CourseID:       suite.course.CourseID,
		TotalPurchases: 12,
		ActiveStudents: 12,
		TotalRevenue:   360000,
	}
	suite.mockCourseRepo.On("FindCourseByID", ctx, suite.course.CourseID).Return(&suite.course, nil).Once()
	suite.mockPurchaseRepo.On("CourseStats", ctx, suite.course.CourseID).Return(stats, nil).Once()

	resp, err := suite.service.GetCourseStats(ctx, suite.course.CourseID, suite.teacher)

	suite.Require().NoError(err)
	suite.Equal(12, resp.TotalPurchases)
	suite.Equal(int64(360000), resp.TotalRevenue)
	suite.mockPurchaseRepo.AssertExpectations(suite.T())
}

func (suite *CourseServiceTestSuite) TestGetCourseStats_UnknownCourse() {
	ctx := context.Background()
	courseID := uuid.NewString()
	suite.mockCourseRepo.On("FindCourseByID", ctx, courseID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetCourseStats(ctx, courseID, suite.teacher)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockPurchaseRepo.AssertNotCalled(suite.T(), "CourseStats", mock.Anything, mock.Anything)
}

func (suite *CourseServiceTestSuite) TestListPriceHistory_StudentForbidden() {
	ctx := context.Background()

	_, err := suite.service.ListPriceHistory(ctx, suite.course.CourseID, suite.student)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- Run Test Suite ---
func TestCourseService(t *testing.T) {
	suite.Run(t, new(CourseServiceTestSuite))
}

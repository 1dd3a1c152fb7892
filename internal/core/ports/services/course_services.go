package services

import (
	"context"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	"github.com/coursepay/lms_payments_backend/internal/dto"
)

// CourseReaderSvc defines read operations for course data
type CourseReaderSvc interface {
	// GetCourseByID retrieves a course.
	GetCourseByID(ctx context.Context, courseID string) (*domain.Course, error)

	// ListCourses retrieves a paginated list of courses.
	ListCourses(ctx context.Context, params dto.ListCoursesParams) (*dto.ListCoursesResponse, error)

	// ListPriceHistory retrieves the recorded price changes of a course.
	ListPriceHistory(ctx context.Context, courseID string, actor domain.Actor) ([]dto.PriceChangeResponse, error)

	// GetCourseStats computes sales figures for a course from the ledger.
	GetCourseStats(ctx context.Context, courseID string, actor domain.Actor) (*dto.CourseStatsResponse, error)
}

// CourseWriterSvc defines write operations for course data
type CourseWriterSvc interface {
	// CreateCourse registers a new purchasable course. Staff only.
	CreateCourse(ctx context.Context, req dto.CreateCourseRequest, actor domain.Actor) (*domain.Course, error)

	// UpdatePrice changes the listed price, recording the change in the
	// price history. Fails once the price is locked by a purchase.
	UpdatePrice(ctx context.Context, courseID string, req dto.UpdatePriceRequest, actor domain.Actor) (*domain.Course, error)
}

// CourseSvcFacade combines all course-related service interfaces
type CourseSvcFacade interface {
	CourseReaderSvc
	CourseWriterSvc
}

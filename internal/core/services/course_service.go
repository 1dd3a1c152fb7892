package services

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/coursepay/lms_payments_backend/internal/apperrors"
	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	portsrepo "github.com/coursepay/lms_payments_backend/internal/core/ports/repositories"
	portssvc "github.com/coursepay/lms_payments_backend/internal/core/ports/services"
	"github.com/coursepay/lms_payments_backend/internal/dto"
	"github.com/coursepay/lms_payments_backend/internal/middleware"
)

// courseService manages the purchasable course records and their pricing.
type courseService struct {
	courseRepo   portsrepo.CourseRepositoryFacade
	purchaseRepo portsrepo.PurchaseRepositoryFacade
	auditSvc     portssvc.AuditSvcFacade
}

// NewCourseService creates a new CourseService.
func NewCourseService(courseRepo portsrepo.CourseRepositoryFacade, purchaseRepo portsrepo.PurchaseRepositoryFacade, auditSvc portssvc.AuditSvcFacade) portssvc.CourseSvcFacade {
	return &courseService{
		courseRepo:   courseRepo,
		purchaseRepo: purchaseRepo,
		auditSvc:     auditSvc,
	}
}

// Ensure courseService implements the portssvc.CourseSvcFacade interface
var _ portssvc.CourseSvcFacade = (*courseService)(nil)

func (s *courseService) GetCourseByID(ctx context.Context, courseID string) (*domain.Course, error) {
	return s.courseRepo.FindCourseByID(ctx, courseID)
}

func (s *courseService) ListCourses(ctx context.Context, params dto.ListCoursesParams) (*dto.ListCoursesResponse, error) {
	limit := normalizeLimit(params.Limit)
	courses, nextToken, err := s.courseRepo.ListCourses(ctx, limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, dto.ToCourseResponse(c))
	}
	return &dto.ListCoursesResponse{Courses: out, NextToken: nextToken}, nil
}

func (s *courseService) ListPriceHistory(ctx context.Context, courseID string, actor domain.Actor) ([]dto.PriceChangeResponse, error) {
	if !isStaff(actor) {
		return nil, apperrors.ErrForbidden
	}
	if _, err := s.courseRepo.FindCourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	changes, err := s.courseRepo.ListPriceHistory(ctx, courseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PriceChangeResponse, 0, len(changes))
	for _, c := range changes {
		out = append(out, dto.ToPriceChangeResponse(c))
	}
	return out, nil
}

// GetCourseStats computes sales figures from non-refunded purchases at read
// time. Staff only; the figures expose revenue.
func (s *courseService) GetCourseStats(ctx context.Context, courseID string, actor domain.Actor) (*dto.CourseStatsResponse, error) {
	if !isStaff(actor) {
		return nil, apperrors.ErrForbidden
	}
	if _, err := s.courseRepo.FindCourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	stats, err := s.purchaseRepo.CourseStats(ctx, courseID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToCourseStatsResponse(courseID, *stats, platformCurrency)
	return &resp, nil
}

// platformCurrency is the currency course prices are listed in.
const platformCurrency = "EGP"

func (s *courseService) CreateCourse(ctx context.Context, req dto.CreateCourseRequest, actor domain.Actor) (*domain.Course, error) {
	if !isStaff(actor) {
		return nil, apperrors.ErrForbidden
	}

	now := time.Now()
	course := domain.Course{
		CourseID:    uuid.NewString(),
		Title:       req.Title,
		Price:       req.Price,
		IsPublished: req.IsPublished,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.courseRepo.SaveCourse(ctx, course); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Course created",
		slog.String("course_id", course.CourseID),
		slog.Int64("price", course.Price),
	)
	return &course, nil
}

// UpdatePrice changes the listed price. The repository rejects the change once
// a purchase has locked the price.
func (s *courseService) UpdatePrice(ctx context.Context, courseID string, req dto.UpdatePriceRequest, actor domain.Actor) (*domain.Course, error) {
	if !isStaff(actor) {
		return nil, apperrors.ErrForbidden
	}

	course, err := s.courseRepo.UpdatePrice(ctx, courseID, req.NewPrice, req.Reason, uuid.NewString(), actor.UserID, time.Now())
	if err != nil {
		return nil, err
	}

	newPrice := req.NewPrice
	if warn := s.auditSvc.Record(ctx, actor.UserID, domain.AuditActionPriceChange, "course", courseID, &newPrice, map[string]string{
		"reason":    req.Reason,
		"new_price": strconv.FormatInt(req.NewPrice, 10),
	}); warn != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Price changed without audit entry", slog.String("course_id", courseID))
	}

	middleware.GetLoggerFromCtx(ctx).Info("Course price updated",
		slog.String("course_id", courseID),
		slog.Int64("new_price", req.NewPrice),
	)
	return course, nil
}

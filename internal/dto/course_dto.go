package dto

import (
	"time"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	"github.com/coursepay/lms_payments_backend/internal/utils"
)

// CreateCourseRequest registers a new purchasable course. Price is in minor
// units of the platform currency.
type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Price       int64  `json:"price" binding:"required,gt=0"`
	IsPublished bool   `json:"isPublished"`
}

// UpdatePriceRequest changes the listed price of a course. Rejected once the
// price has been locked by a first purchase.
type UpdatePriceRequest struct {
	NewPrice int64  `json:"newPrice" binding:"required,gt=0"`
	Reason   string `json:"reason" binding:"required,max=255"`
}

// CourseResponse is the API shape of a course.
type CourseResponse struct {
	CourseID    string    `json:"courseID"`
	Title       string    `json:"title"`
	Price       int64     `json:"price"`
	PriceLocked bool      `json:"priceLocked"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToCourseResponse maps a domain course.
func ToCourseResponse(c domain.Course) CourseResponse {
	return CourseResponse{
		CourseID:    c.CourseID,
		Title:       c.Title,
		Price:       c.Price,
		PriceLocked: c.PriceLocked,
		IsPublished: c.IsPublished,
		CreatedAt:   c.CreatedAt,
	}
}

// ListCoursesParams carries cursor pagination input for course listings.
type ListCoursesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListCoursesResponse is a page of courses ordered newest first.
type ListCoursesResponse struct {
	Courses   []CourseResponse `json:"courses"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// PriceChangeResponse is one entry of a course's price history.
type PriceChangeResponse struct {
	HistoryID string    `json:"historyID"`
	CourseID  string    `json:"courseID"`
	OldPrice  int64     `json:"oldPrice"`
	NewPrice  int64     `json:"newPrice"`
	Reason    string    `json:"reason"`
	ChangedBy string    `json:"changedBy"`
	ChangedAt time.Time `json:"changedAt"`
}

// ToPriceChangeResponse maps a domain price change.
func ToPriceChangeResponse(p domain.PriceChange) PriceChangeResponse {
	return PriceChangeResponse{
		HistoryID: p.HistoryID,
		CourseID:  p.CourseID,
		OldPrice:  p.OldPrice,
		NewPrice:  p.NewPrice,
		Reason:    p.Reason,
		ChangedBy: p.CreatedBy,
		ChangedAt: p.CreatedAt,
	}
}

// CourseStatsResponse reports per-course sales figures computed from the
// ledger at read time.
type CourseStatsResponse struct {
	CourseID              string `json:"courseID"`
	TotalPurchases        int    `json:"totalPurchases"`
	ActiveStudents        int    `json:"activeStudents"`
	TotalRevenue          int64  `json:"totalRevenue"`
	TotalRevenueFormatted string `json:"totalRevenueFormatted"`
}

// ToCourseStatsResponse maps domain stats, formatting revenue in the given
// currency.
func ToCourseStatsResponse(courseID string, s domain.CourseStats, currencyCode string) CourseStatsResponse {
	return CourseStatsResponse{
		CourseID:              courseID,
		TotalPurchases:        s.TotalPurchases,
		ActiveStudents:        s.ActiveStudents,
		TotalRevenue:          s.TotalRevenue,
		TotalRevenueFormatted: utils.FormatMinorUnits(s.TotalRevenue, currencyCode),
	}
}

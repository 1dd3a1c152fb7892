package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/coursepay/lms_payments_backend/internal/core/ports/services"
	"github.com/coursepay/lms_payments_backend/internal/dto"
	"github.com/coursepay/lms_payments_backend/internal/middleware"
)

// courseHandler handles HTTP requests for courses and pricing.
type courseHandler struct {
	courseSvc portssvc.CourseSvcFacade
}

func newCourseHandler(courseSvc portssvc.CourseSvcFacade) *courseHandler {
	return &courseHandler{courseSvc: courseSvc}
}

// createCourse godoc
// @Summary Create a course
// @Description Registers a purchasable course. Staff only.
// @Tags courses
// @Accept json
// @Produce json
// @Param course body dto.CreateCourseRequest true "Course details"
// @Success 201 {object} dto.CourseResponse
// @Failure 403 {object} map[string]string "Staff only"
// @Router /courses [post]
func (h *courseHandler) createCourse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createCourse", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	course, err := h.courseSvc.CreateCourse(c.Request.Context(), req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create course")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCourseResponse(*course))
}

// getCourse godoc
// @Summary Get a course
// @Tags courses
// @Produce json
// @Param courseID path string true "Course ID"
// @Success 200 {object} dto.CourseResponse
// @Failure 404 {object} map[string]string "Course not found"
// @Router /courses/{courseID} [get]
func (h *courseHandler) getCourse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	course, err := h.courseSvc.GetCourseByID(c.Request.Context(), c.Param("courseID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve course")
		return
	}

	c.JSON(http.StatusOK, dto.ToCourseResponse(*course))
}

// listCourses godoc
// @Summary List courses
// @Tags courses
// @Produce json
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListCoursesResponse
// @Router /courses [get]
func (h *courseHandler) listCourses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListCoursesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.courseSvc.ListCourses(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list courses")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updatePrice godoc
// @Summary Update a course price
// @Description Rejected once the price has been locked by a first purchase.
// @Tags courses
// @Accept json
// @Produce json
// @Param courseID path string true "Course ID"
// @Param price body dto.UpdatePriceRequest true "New price and reason"
// @Success 200 {object} dto.CourseResponse
// @Failure 409 {object} map[string]string "Price is locked"
// @Router /courses/{courseID}/price [put]
func (h *courseHandler) updatePrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updatePrice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	course, err := h.courseSvc.UpdatePrice(c.Request.Context(), c.Param("courseID"), req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update price")
		return
	}

	c.JSON(http.StatusOK, dto.ToCourseResponse(*course))
}

// listPriceHistory godoc
// @Summary List the price history of a course
// @Tags courses
// @Produce json
// @Param courseID path string true "Course ID"
// @Success 200 {array} dto.PriceChangeResponse
// @Failure 403 {object} map[string]string "Staff only"
// @Router /courses/{courseID}/price-history [get]
func (h *courseHandler) listPriceHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	changes, err := h.courseSvc.ListPriceHistory(c.Request.Context(), c.Param("courseID"), actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list price history")
		return
	}

	c.JSON(http.StatusOK, changes)
}

// getCourseStats godoc
// @Summary Get sales stats for a course
// @Description Figures are computed from non-refunded purchases at read time. Staff only.
// @Tags courses
// @Produce json
// @Param courseID path string true "Course ID"
// @Success 200 {object} dto.CourseStatsResponse
// @Failure 403 {object} map[string]string "Staff only"
// @Router /courses/{courseID}/stats [get]
func (h *courseHandler) getCourseStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	stats, err := h.courseSvc.GetCourseStats(c.Request.Context(), c.Param("courseID"), actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute course stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// registerCourseRoutes sets up the course routes.
func registerCourseRoutes(rg *gin.RouterGroup, courseSvc portssvc.CourseSvcFacade) {
	h := newCourseHandler(courseSvc)

	courses := rg.Group("/courses")
	courses.POST("", h.createCourse)
	courses.GET("", h.listCourses)
	courses.GET("/:courseID", h.getCourse)
	courses.PUT("/:courseID/price", h.updatePrice)
	courses.GET("/:courseID/price-history", h.listPriceHistory)
	courses.GET("/:courseID/stats", h.getCourseStats)
}

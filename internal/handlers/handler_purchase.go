package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/coursepay/lms_payments_backend/internal/core/ports/services"
	"github.com/coursepay/lms_payments_backend/internal/dto"
	"github.com/coursepay/lms_payments_backend/internal/middleware"
)

// purchaseHandler handles HTTP requests for purchases and refunds.
type purchaseHandler struct {
	purchaseSvc portssvc.PurchaseSvcFacade
}

func newPurchaseHandler(purchaseSvc portssvc.PurchaseSvcFacade) *purchaseHandler {
	return &purchaseHandler{purchaseSvc: purchaseSvc}
}

// purchaseCourse godoc
// @Summary Purchase a course
// @Description Debits the student's wallet and records the purchase atomically.
// @Tags purchases
// @Accept json
// @Produce json
// @Param purchase body dto.PurchaseCourseRequest true "Course to purchase"
// @Success 201 {object} dto.PurchaseResult
// @Failure 402 {object} map[string]string "Insufficient funds"
// @Failure 409 {object} map[string]string "Course already purchased"
// @Router /purchases [post]
func (h *purchaseHandler) purchaseCourse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.PurchaseCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for purchaseCourse", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.purchaseSvc.PurchaseCourse(c.Request.Context(), req.CourseID, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to purchase course")
		return
	}

	c.JSON(http.StatusCreated, result)
}

// getPurchase godoc
// @Summary Get a purchase
// @Tags purchases
// @Produce json
// @Param purchaseID path string true "Purchase ID"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 404 {object} map[string]string "Purchase not found"
// @Router /purchases/{purchaseID} [get]
func (h *purchaseHandler) getPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	purchase, err := h.purchaseSvc.GetPurchaseByID(c.Request.Context(), c.Param("purchaseID"), actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve purchase")
		return
	}

	c.JSON(http.StatusOK, dto.ToPurchaseResponse(*purchase))
}

// refundPurchase godoc
// @Summary Refund a purchase
// @Description Credits the wallet at the recorded purchase price. Admin only.
// @Tags purchases
// @Accept json
// @Produce json
// @Param purchaseID path string true "Purchase ID"
// @Param refund body dto.RefundPurchaseRequest false "Optional reason"
// @Success 200 {object} dto.RefundResult
// @Failure 409 {object} map[string]string "Purchase already refunded"
// @Router /purchases/{purchaseID}/refund [post]
func (h *purchaseHandler) refundPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.RefundPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for refundPurchase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.purchaseSvc.RefundPurchase(c.Request.Context(), c.Param("purchaseID"), req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to refund purchase")
		return
	}

	c.JSON(http.StatusOK, result)
}

// listStudentPurchases godoc
// @Summary List a student's purchases
// @Tags purchases
// @Produce json
// @Param studentID path string true "Student ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListPurchasesResponse
// @Router /students/{studentID}/purchases [get]
func (h *purchaseHandler) listStudentPurchases(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListPurchasesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.purchaseSvc.ListPurchasesByStudent(c.Request.Context(), c.Param("studentID"), actor, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list purchases")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// registerPurchaseRoutes sets up the purchase and refund routes.
func registerPurchaseRoutes(rg *gin.RouterGroup, purchaseSvc portssvc.PurchaseSvcFacade) {
	h := newPurchaseHandler(purchaseSvc)

	purchases := rg.Group("/purchases")
	purchases.POST("", moneyMovementRateLimit(), h.purchaseCourse)
	purchases.GET("/:purchaseID", h.getPurchase)
	purchases.POST("/:purchaseID/refund", h.refundPurchase)

	rg.GET("/students/:studentID/purchases", h.listStudentPurchases)
}

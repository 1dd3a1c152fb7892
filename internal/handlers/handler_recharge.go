package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/coursepay/lms_payments_backend/internal/core/ports/services"
	"github.com/coursepay/lms_payments_backend/internal/dto"
	"github.com/coursepay/lms_payments_backend/internal/middleware"
)

// rechargeHandler handles HTTP requests for recharge codes.
type rechargeHandler struct {
	rechargeSvc portssvc.RechargeCodeSvcFacade
}

func newRechargeHandler(rechargeSvc portssvc.RechargeCodeSvcFacade) *rechargeHandler {
	return &rechargeHandler{rechargeSvc: rechargeSvc}
}

// generateCodes godoc
// @Summary Generate recharge codes
// @Description Issues a batch of single-use codes of equal value. Staff only.
// @Tags recharge-codes
// @Accept json
// @Produce json
// @Param batch body dto.GenerateCodesRequest true "Batch details"
// @Success 201 {object} dto.GenerateCodesResponse
// @Failure 403 {object} map[string]string "Staff only"
// @Router /recharge-codes [post]
func (h *rechargeHandler) generateCodes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.GenerateCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for generateCodes", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	resp, err := h.rechargeSvc.GenerateCodes(c.Request.Context(), req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate codes")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// listCodes godoc
// @Summary List recharge codes
// @Tags recharge-codes
// @Produce json
// @Param onlyUnused query bool false "Only codes not yet redeemed"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListCodesResponse
// @Failure 403 {object} map[string]string "Staff only"
// @Router /recharge-codes [get]
func (h *rechargeHandler) listCodes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListCodesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.rechargeSvc.ListCodes(c.Request.Context(), actor, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list codes")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// exportCodes godoc
// @Summary Export unused codes as CSV
// @Tags recharge-codes
// @Produce text/csv
// @Success 200 {string} string "CSV content"
// @Failure 403 {object} map[string]string "Staff only"
// @Router /recharge-codes/export [get]
func (h *rechargeHandler) exportCodes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	csvBytes, err := h.rechargeSvc.ExportCodesCSV(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to export codes")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="recharge_codes.csv"`)
	c.Data(http.StatusOK, "text/csv", csvBytes)
}

// redeemCode godoc
// @Summary Redeem a recharge code
// @Description Credits the acting student's wallet. A code works exactly once.
// @Tags recharge-codes
// @Accept json
// @Produce json
// @Param code body dto.RedeemCodeRequest true "Code to redeem"
// @Success 200 {object} dto.RedeemResult
// @Failure 404 {object} map[string]string "Code not found"
// @Failure 409 {object} map[string]string "Code already used"
// @Router /recharge-codes/redeem [post]
func (h *rechargeHandler) redeemCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.RedeemCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for redeemCode", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.rechargeSvc.RedeemCode(c.Request.Context(), req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to redeem code")
		return
	}

	c.JSON(http.StatusOK, result)
}

// registerRechargeRoutes sets up the recharge code routes.
func registerRechargeRoutes(rg *gin.RouterGroup, rechargeSvc portssvc.RechargeCodeSvcFacade) {
	h := newRechargeHandler(rechargeSvc)

	codes := rg.Group("/recharge-codes")
	codes.POST("", h.generateCodes)
	codes.GET("", h.listCodes)
	codes.GET("/export", h.exportCodes)
	codes.POST("/redeem", moneyMovementRateLimit(), h.redeemCode)
}

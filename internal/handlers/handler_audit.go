package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/coursepay/lms_payments_backend/internal/core/ports/services"
	"github.com/coursepay/lms_payments_backend/internal/dto"
	"github.com/coursepay/lms_payments_backend/internal/middleware"
)

// auditHandler exposes the audit trail to staff.
type auditHandler struct {
	auditSvc portssvc.AuditSvcFacade
}

func newAuditHandler(auditSvc portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{auditSvc: auditSvc}
}

// listAuditEntries godoc
// @Summary List audit entries
// @Description Returns a filtered page of the append-only audit trail. Staff only.
// @Tags audit
// @Produce json
// @Param actorID query string false "Filter by acting user"
// @Param action query string false "Filter by action"
// @Param targetType query string false "Filter by target type"
// @Param targetID query string false "Filter by target ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListAuditEntriesResponse
// @Failure 403 {object} map[string]string "Staff only"
// @Router /audit [get]
func (h *auditHandler) listAuditEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListAuditEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.auditSvc.ListEntries(c.Request.Context(), actor, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list audit entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// registerAuditRoutes sets up the audit trail routes.
func registerAuditRoutes(rg *gin.RouterGroup, auditSvc portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditSvc)
	rg.GET("/audit", h.listAuditEntries)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ordertrack/internal/server/http/dto"
)

// AuditHandler serves audit trails and reports.
type AuditHandler struct {
	facade AuditFacade
}

// NewAuditHandler constructs AuditHandler.
func NewAuditHandler(facade AuditFacade) *AuditHandler {
	return &AuditHandler{facade: facade}
}

// Trail handles GET /api/admin/orders/:id/audit.
func (h *AuditHandler) Trail(c *gin.Context) {
	trail, err := h.facade.AuditTrail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAuditTrailResponse(*trail))
}

// Trails handles GET /api/admin/audit?from=&to=.
func (h *AuditHandler) Trails(c *gin.Context) {
	from, to, err := requiredDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	trails, err := h.facade.AuditTrails(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.AuditTrailResponse, 0, len(trails))
	for _, trail := range trails {
		response = append(response, toAuditTrailResponse(trail))
	}
	c.JSON(http.StatusOK, response)
}

// Report handles GET /api/admin/reports?from=&to=.
func (h *AuditHandler) Report(c *gin.Context) {
	from, to, err := requiredDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.facade.Report(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReportResponse(*report))
}

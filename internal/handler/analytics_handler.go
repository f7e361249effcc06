package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/gradebook-api/internal/service"
	"github.com/classtrack/gradebook-api/pkg/response"
)

// AnalyticsHandler exposes class-wide gradebook reports.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Class godoc
// @Summary Get class-wide gradebook analytics
// @Tags Analytics
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/analytics [get]
func (h *AnalyticsHandler) Class(c *gin.Context) {
	report, err := h.analytics.ClassAnalytics(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// System godoc
// @Summary Get instrumentation snapshot
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/system [get]
func (h *AnalyticsHandler) System(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.analytics.SystemMetrics(), nil)
}

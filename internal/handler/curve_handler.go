package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/gradebook-api/internal/service"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
	"github.com/classtrack/gradebook-api/pkg/response"
)

// CurveHandler exposes bulk curve application.
type CurveHandler struct {
	curves  *service.CurveService
	reports *service.ReportService
}

// NewCurveHandler constructs handler.
func NewCurveHandler(curves *service.CurveService, reports *service.ReportService) *CurveHandler {
	return &CurveHandler{curves: curves, reports: reports}
}

// Apply godoc
// @Summary Apply a grade curve to a class or category
// @Tags Curves
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param payload body service.ApplyCurveRequest true "Curve payload"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/curves [post]
func (h *CurveHandler) Apply(c *gin.Context) {
	var req service.ApplyCurveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.ClassID = c.Param("classId")
	result, err := h.curves.Apply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Optionally render the audit trail in the same request.
	if format := c.Query("audit"); format != "" && h.reports != nil {
		audit, err := h.reports.CurveAudit(c.Request.Context(), result, format)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, result, nil, map[string]interface{}{"audit": audit})
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/gradebook-api/internal/service"
	"github.com/classtrack/gradebook-api/pkg/response"
)

// ReportHandler exposes report rendering and signed downloads.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// ClassReport godoc
// @Summary Render the class gradebook report
// @Tags Reports
// @Produce json
// @Param classId path string true "Class ID"
// @Param format query string false "Export format (csv or pdf)"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/reports [post]
func (h *ReportHandler) ClassReport(c *gin.Context) {
	result, err := h.reports.ClassReport(c.Request.Context(), c.Param("classId"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Download godoc
// @Summary Download a rendered report by signed token
// @Tags Reports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200
// @Router /reports/download [get]
func (h *ReportHandler) Download(c *gin.Context) {
	file, name, err := h.reports.Download(c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/gradebook-api/internal/service"
	"github.com/classtrack/gradebook-api/pkg/response"
)

// SummaryHandler exposes computed gradebook summaries.
type SummaryHandler struct {
	summaries *service.SummaryService
}

// NewSummaryHandler constructs handler.
func NewSummaryHandler(summaries *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaries: summaries}
}

// Student godoc
// @Summary Get one student's grade summary
// @Tags Summaries
// @Produce json
// @Param classId path string true "Class ID"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/students/{studentId}/summary [get]
func (h *SummaryHandler) Student(c *gin.Context) {
	summary, err := h.summaries.StudentSummary(c.Request.Context(), c.Param("classId"), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Class godoc
// @Summary Get grade summaries for the whole roster
// @Tags Summaries
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/summaries [get]
func (h *SummaryHandler) Class(c *gin.Context) {
	summaries, err := h.summaries.ClassSummaries(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, nil)
}

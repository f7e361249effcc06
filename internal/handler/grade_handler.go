package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/gradebook-api/internal/models"
	"github.com/classtrack/gradebook-api/internal/service"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
	"github.com/classtrack/gradebook-api/pkg/response"
)

// GradeHandler exposes grade entry endpoints.
type GradeHandler struct {
	grades *service.GradeService
}

// NewGradeHandler constructs handler.
func NewGradeHandler(grades *service.GradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// List godoc
// @Summary List grades in a class
// @Tags Grades
// @Produce json
// @Param classId path string true "Class ID"
// @Param studentId query string false "Filter by student"
// @Param categoryId query string false "Filter by category"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	filter := models.GradeFilter{
		ClassID:    c.Param("classId"),
		StudentID:  c.Query("studentId"),
		CategoryID: c.Query("categoryId"),
	}
	grades, err := h.grades.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}

// Upsert godoc
// @Summary Record or replace a grade
// @Tags Grades
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param payload body service.UpsertGradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/grades [post]
func (h *GradeHandler) Upsert(c *gin.Context) {
	var req service.UpsertGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.ClassID = c.Param("classId")
	grade, err := h.grades.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// Delete godoc
// @Summary Delete a grade record
// @Tags Grades
// @Produce json
// @Param classId path string true "Class ID"
// @Param gradeId path string true "Grade ID"
// @Success 204
// @Router /classes/{classId}/grades/{gradeId} [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
	if err := h.grades.Delete(c.Request.Context(), c.Param("classId"), c.Param("gradeId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

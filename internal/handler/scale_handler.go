package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/gradebook-api/internal/service"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
	"github.com/classtrack/gradebook-api/pkg/response"
)

// ScaleHandler exposes grading scale and settings management.
type ScaleHandler struct {
	scales *service.ScaleService
}

// NewScaleHandler constructs handler.
func NewScaleHandler(scales *service.ScaleService) *ScaleHandler {
	return &ScaleHandler{scales: scales}
}

// Get godoc
// @Summary Get the class's grading scale
// @Tags Scales
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/scale [get]
func (h *ScaleHandler) Get(c *gin.Context) {
	scale, err := h.scales.Get(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scale, nil)
}

// Replace godoc
// @Summary Replace the class's grading scale
// @Tags Scales
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param payload body service.ReplaceScaleRequest true "Scale payload"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/scale [put]
func (h *ScaleHandler) Replace(c *gin.Context) {
	var req service.ReplaceScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.ClassID = c.Param("classId")
	scale, err := h.scales.Replace(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scale, nil)
}

// UpdateSettings godoc
// @Summary Update the class's grading policy settings
// @Tags Scales
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param payload body service.UpdateSettingsRequest true "Settings payload"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/settings [put]
func (h *ScaleHandler) UpdateSettings(c *gin.Context) {
	var req service.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.ClassID = c.Param("classId")
	if err := h.scales.UpdateSettings(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "updated"}, nil)
}

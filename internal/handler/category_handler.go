package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/gradebook-api/internal/service"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
	"github.com/classtrack/gradebook-api/pkg/response"
)

// CategoryHandler exposes weighted category management.
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler constructs handler.
func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List godoc
// @Summary List categories for a class
// @Tags Categories
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}

// Create godoc
// @Summary Create a weighted category
// @Tags Categories
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param payload body service.UpsertCategoryRequest true "Category payload"
// @Success 201 {object} response.Envelope
// @Router /classes/{classId}/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req service.UpsertCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.ClassID = c.Param("classId")
	category, err := h.categories.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, category)
}

// Update godoc
// @Summary Update a category's weight or drop policy
// @Tags Categories
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param categoryId path string true "Category ID"
// @Param payload body service.UpsertCategoryRequest true "Category payload"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/categories/{categoryId} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	var req service.UpsertCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.ClassID = c.Param("classId")
	category, err := h.categories.Update(c.Request.Context(), c.Param("categoryId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, category, nil)
}

// Delete godoc
// @Summary Delete a category
// @Tags Categories
// @Produce json
// @Param classId path string true "Class ID"
// @Param categoryId path string true "Category ID"
// @Success 204
// @Router /classes/{classId}/categories/{categoryId} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("categoryId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classtrack/gradebook-api/internal/models"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
)

type categoryRepo interface {
	ListByClass(ctx context.Context, classID string) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
}

// UpsertCategoryRequest carries category create/update payloads. Weights are
// percentage points; the set for a class need not sum to 100.
type UpsertCategoryRequest struct {
	ClassID    string  `json:"class_id" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Weight     float64 `json:"weight" validate:"gte=0"`
	DropLowest int     `json:"drop_lowest" validate:"gte=0"`
}

// CategoryService manages weighted categories and keeps derived caches
// consistent when the grading policy changes.
type CategoryService struct {
	categories categoryRepo
	summaries  summaryInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewCategoryService constructs CategoryService.
func NewCategoryService(categories categoryRepo, summaries summaryInvalidator, validate *validator.Validate, logger *zap.Logger) *CategoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{categories: categories, summaries: summaries, validator: validate, logger: logger}
}

// List returns the class's categories.
func (s *CategoryService) List(ctx context.Context, classID string) ([]models.Category, error) {
	if classID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class required")
	}
	categories, err := s.categories.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return categories, nil
}

// Create adds a category to a class.
func (s *CategoryService) Create(ctx context.Context, req UpsertCategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid category payload")
	}
	category := &models.Category{
		ClassID:    req.ClassID,
		Name:       req.Name,
		Weight:     req.Weight,
		DropLowest: req.DropLowest,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create category")
	}
	s.summaries.InvalidateClass(ctx, req.ClassID)
	return category, nil
}

// Update rewrites a category's weight and drop policy.
func (s *CategoryService) Update(ctx context.Context, id string, req UpsertCategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid category payload")
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = req.Name
	category.Weight = req.Weight
	category.DropLowest = req.DropLowest
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	s.summaries.InvalidateClass(ctx, category.ClassID)
	return category, nil
}

// Delete removes a category and drops derived caches for its class.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.summaries.InvalidateClass(ctx, category.ClassID)
	return nil
}

package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classtrack/gradebook-api/internal/gradebook"
	"github.com/classtrack/gradebook-api/internal/models"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
)

type scaleRepo interface {
	GetByClass(ctx context.Context, classID string) (*models.GradingScale, error)
	Replace(ctx context.Context, scale *models.GradingScale) error
}

type settingsRepo interface {
	Get(ctx context.Context, classID string) (atRiskThreshold float64, recentWindow int, err error)
	Upsert(ctx context.Context, classID string, atRiskThreshold float64, recentWindow int) error
}

// ScaleRangeRequest is one letter band in a replace payload.
type ScaleRangeRequest struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Letter string  `json:"letter" validate:"required"`
	GPA    float64 `json:"gpa" validate:"gte=0"`
	Color  string  `json:"color"`
}

// ReplaceScaleRequest swaps a class's grading scale wholesale. Ranges are
// given highest band first.
type ReplaceScaleRequest struct {
	ClassID string              `json:"class_id" validate:"required"`
	Name    string              `json:"name" validate:"required"`
	Ranges  []ScaleRangeRequest `json:"ranges" validate:"required,dive"`
}

// UpdateSettingsRequest tunes the per-class grading policy knobs.
type UpdateSettingsRequest struct {
	ClassID         string  `json:"class_id" validate:"required"`
	AtRiskThreshold float64 `json:"at_risk_threshold" validate:"gte=0,lte=100"`
	RecentWindow    int     `json:"recent_window" validate:"gte=1"`
}

// ScaleService manages grading scales and policy settings. Every write is
// validated against the structural rules before touching storage.
type ScaleService struct {
	scales    scaleRepo
	settings  settingsRepo
	summaries summaryInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScaleService constructs ScaleService.
func NewScaleService(scales scaleRepo, settings settingsRepo, summaries summaryInvalidator, validate *validator.Validate, logger *zap.Logger) *ScaleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScaleService{scales: scales, settings: settings, summaries: summaries, validator: validate, logger: logger}
}

// Get returns the class's scale, falling back to the standard ten-point
// table when none is stored.
func (s *ScaleService) Get(ctx context.Context, classID string) (*models.GradingScale, error) {
	if classID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class required")
	}
	scale, err := s.scales.GetByClass(ctx, classID)
	if err != nil {
		if appErrors.HasCode(err, appErrors.ErrNotFound) {
			fallback := gradebook.DefaultSettings(classID).Scale
			return &fallback, nil
		}
		return nil, err
	}
	return scale, nil
}

// Replace validates and stores a new scale for the class.
func (s *ScaleService) Replace(ctx context.Context, req ReplaceScaleRequest) (*models.GradingScale, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scale payload")
	}
	scale := &models.GradingScale{ClassID: req.ClassID, Name: req.Name}
	for _, r := range req.Ranges {
		scale.Ranges = append(scale.Ranges, models.GradeRange{
			Min:    r.Min,
			Max:    r.Max,
			Letter: r.Letter,
			GPA:    r.GPA,
			Color:  r.Color,
		})
	}
	if err := gradebook.ValidateScale(*scale); err != nil {
		return nil, err
	}
	if err := s.scales.Replace(ctx, scale); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store grading scale")
	}
	s.summaries.InvalidateClass(ctx, req.ClassID)
	s.logger.Info("grading scale replaced", zap.String("class_id", req.ClassID), zap.Int("ranges", len(scale.Ranges)))
	return scale, nil
}

// UpdateSettings stores the at-risk threshold and recent window for a class.
func (s *ScaleService) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}
	if err := s.settings.Upsert(ctx, req.ClassID, req.AtRiskThreshold, req.RecentWindow); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store gradebook settings")
	}
	s.summaries.InvalidateClass(ctx, req.ClassID)
	return nil
}

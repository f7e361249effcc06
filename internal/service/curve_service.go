package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/classtrack/gradebook-api/internal/gradebook"
	"github.com/classtrack/gradebook-api/internal/models"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
	"github.com/classtrack/gradebook-api/pkg/jobs"
)

type gradeWriter interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error)
	BulkUpdatePoints(ctx context.Context, grades []models.Grade) error
}

type summaryInvalidator interface {
	InvalidateClass(ctx context.Context, classID string)
}

// JobWarmupClass is the queue job type for post-curve cache warmup.
const JobWarmupClass = "warmup_class"

// ApplyCurveRequest describes one bulk curve application.
type ApplyCurveRequest struct {
	ClassID    string           `json:"class_id" validate:"required"`
	CategoryID string           `json:"category_id"`
	Type       models.CurveType `json:"type" validate:"required,oneof=flat percentage bell"`
	Amount     float64          `json:"amount"`
	MaxGrade   *float64         `json:"max_grade"`
	Mode       string           `json:"mode" validate:"omitempty,oneof=atomic partialOnError"`
}

// CurveService applies bulk grade curves. The transformation is destructive:
// new points overwrite the stored values, and the returned adjustments are
// the only record of what changed.
type CurveService struct {
	grades    gradeWriter
	summaries summaryInvalidator
	warmups   *jobs.Queue
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCurveService constructs CurveService.
func NewCurveService(grades gradeWriter, summaries summaryInvalidator, warmups *jobs.Queue, validate *validator.Validate, logger *zap.Logger) *CurveService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurveService{grades: grades, summaries: summaries, warmups: warmups, validator: validate, logger: logger}
}

// Apply curves every grade in scope. Atomic mode (the default) rejects the
// whole request on the first bad grade; partialOnError records failures and
// curves the rest.
func (s *CurveService) Apply(ctx context.Context, req ApplyCurveRequest) (*models.CurveResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid curve payload")
	}

	grades, err := s.grades.List(ctx, models.GradeFilter{ClassID: req.ClassID, CategoryID: req.CategoryID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}

	result := &models.CurveResult{
		ClassID:      req.ClassID,
		CategoryID:   req.CategoryID,
		Type:         req.Type,
		Amount:       req.Amount,
		ClassAverage: gradebook.ClassAveragePercentage(grades),
		AppliedAt:    time.Now().UTC(),
	}
	if len(grades) == 0 {
		return result, nil
	}

	atomic := req.Mode == "" || req.Mode == "atomic"
	in := gradebook.CurveInput{
		Type:         req.Type,
		Amount:       req.Amount,
		MaxGrade:     req.MaxGrade,
		ClassAverage: result.ClassAverage,
	}

	updates := make([]models.Grade, 0, len(grades))
	for _, g := range grades {
		previous := g
		curved, err := gradebook.CurvedPercentage(g.Percentage, in)
		if err != nil {
			if atomic {
				return nil, err
			}
			result.Failures = append(result.Failures, models.CurveFailure{
				StudentID:    g.StudentID,
				AssignmentID: g.AssignmentID,
				Reason:       err.Error(),
			})
			continue
		}
		g.Percentage = curved
		g.Points = gradebook.PointsForPercentage(curved, g.MaxPoints)
		updates = append(updates, g)
		result.Adjustments = append(result.Adjustments, models.CurveAdjustment{
			StudentID:          g.StudentID,
			AssignmentID:       g.AssignmentID,
			PreviousPoints:     previous.Points,
			NewPoints:          g.Points,
			PreviousPercentage: previous.Percentage,
			NewPercentage:      g.Percentage,
		})
	}

	if len(updates) > 0 {
		if err := s.grades.BulkUpdatePoints(ctx, updates); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist curved grades")
		}
	}
	result.Applied = len(updates)

	s.summaries.InvalidateClass(ctx, req.ClassID)
	s.enqueueWarmup(req.ClassID)

	s.logger.Info("curve applied",
		zap.String("class_id", req.ClassID),
		zap.String("category_id", req.CategoryID),
		zap.String("type", string(req.Type)),
		zap.Float64("amount", req.Amount),
		zap.Int("applied", result.Applied),
		zap.Int("failed", len(result.Failures)))
	return result, nil
}

func (s *CurveService) enqueueWarmup(classID string) {
	if s.warmups == nil {
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: JobWarmupClass, Payload: classID}
	if err := s.warmups.Enqueue(job); err != nil {
		s.logger.Warn("warmup enqueue failed", zap.String("class_id", classID), zap.Error(err))
	}
}

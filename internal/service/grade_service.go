package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classtrack/gradebook-api/internal/models"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
)

type gradeStore interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error)
	Upsert(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id string) error
}

type assignmentStore interface {
	ListByClass(ctx context.Context, classID string) ([]models.Assignment, error)
}

// UpsertGradeRequest records (or replaces) one student's score on an
// assignment.
type UpsertGradeRequest struct {
	ClassID      string     `json:"class_id" validate:"required"`
	StudentID    string     `json:"student_id" validate:"required"`
	AssignmentID string     `json:"assignment_id" validate:"required"`
	Points       float64    `json:"points" validate:"gte=0"`
	IsLate       bool       `json:"is_late"`
	GradedAt     *time.Time `json:"graded_at"`
}

// GradeService handles grade entry. Each write resolves the assignment's
// category and max points so stored rows are self-contained for the
// calculators downstream.
type GradeService struct {
	grades      gradeStore
	assignments assignmentStore
	summaries   summaryInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewGradeService constructs GradeService.
func NewGradeService(grades gradeStore, assignments assignmentStore, summaries summaryInvalidator, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{grades: grades, assignments: assignments, summaries: summaries, validator: validate, logger: logger}
}

// List returns grades matching the filter.
func (s *GradeService) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	if filter.ClassID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class required")
	}
	grades, err := s.grades.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return grades, nil
}

// Upsert stores a grade, replacing any prior value for the same
// (student, assignment) pair.
func (s *GradeService) Upsert(ctx context.Context, req UpsertGradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	assignment, err := s.findAssignment(ctx, req.ClassID, req.AssignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.MaxPoints <= 0 {
		return nil, appErrors.Clone(appErrors.ErrConfiguration, "assignment has no positive max points")
	}

	grade := &models.Grade{
		StudentID:    req.StudentID,
		AssignmentID: assignment.ID,
		ClassID:      req.ClassID,
		CategoryID:   assignment.CategoryID,
		Points:       req.Points,
		MaxPoints:    assignment.MaxPoints,
		Percentage:   req.Points / assignment.MaxPoints * 100,
		IsLate:       req.IsLate,
	}
	if req.GradedAt != nil {
		grade.GradedAt = req.GradedAt.UTC()
	}
	if err := s.grades.Upsert(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert grade")
	}
	s.summaries.InvalidateClass(ctx, req.ClassID)
	return grade, nil
}

// Delete removes a grade record and invalidates derived caches.
func (s *GradeService) Delete(ctx context.Context, classID, gradeID string) error {
	if classID == "" || gradeID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "class and grade required")
	}
	if err := s.grades.Delete(ctx, gradeID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grade")
	}
	s.summaries.InvalidateClass(ctx, classID)
	return nil
}

func (s *GradeService) findAssignment(ctx context.Context, classID, assignmentID string) (*models.Assignment, error) {
	assignments, err := s.assignments.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	for i := range assignments {
		if assignments[i].ID == assignmentID {
			return &assignments[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found in class")
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/classtrack/gradebook-api/internal/gradebook"
	"github.com/classtrack/gradebook-api/internal/models"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
)

type classSummarizer interface {
	ClassSummaries(ctx context.Context, classID string) ([]models.StudentGradeSummary, error)
	Settings(ctx context.Context, classID string) (models.GradebookSettings, error)
}

// AnalyticsService builds class-wide gradebook reports and exposes an
// instrumentation snapshot.
type AnalyticsService struct {
	summaries   classSummarizer
	grades      gradeReader
	assignments assignmentReader
	cache       *CacheService
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewAnalyticsService constructs AnalyticsService.
func NewAnalyticsService(summaries classSummarizer, grades gradeReader, assignments assignmentReader, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{summaries: summaries, grades: grades, assignments: assignments, cache: cache, metrics: metrics, logger: logger}
}

// ClassAnalytics computes the class-wide report, served from cache when
// fresh.
func (s *AnalyticsService) ClassAnalytics(ctx context.Context, classID string) (*models.GradebookAnalytics, error) {
	if classID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class required")
	}
	key := analyticsCacheKey(classID)
	var cached models.GradebookAnalytics
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	settings, err := s.summaries.Settings(ctx, classID)
	if err != nil {
		return nil, err
	}
	summaries, err := s.summaries.ClassSummaries(ctx, classID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	grades, err := s.grades.List(ctx, models.GradeFilter{ClassID: classID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}

	report := gradebook.BuildAnalytics(settings, summaries, assignments, grades)
	if err := s.cache.Set(ctx, key, report, 0); err != nil {
		s.logger.Warn("analytics cache write failed", zap.String("class_id", classID), zap.Error(err))
	}
	return &report, nil
}

// SystemMetrics returns the current instrumentation snapshot.
func (s *AnalyticsService) SystemMetrics() models.AnalyticsSystemMetrics {
	if s.metrics == nil {
		return models.AnalyticsSystemMetrics{}
	}
	return s.metrics.Snapshot()
}

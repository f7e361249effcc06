package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/classtrack/gradebook-api/internal/gradebook"
	"github.com/classtrack/gradebook-api/internal/models"
	"github.com/classtrack/gradebook-api/pkg/config"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
)

type gradeReader interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error)
	FetchByStudents(ctx context.Context, classID string) (map[string][]models.Grade, error)
}

type categoryReader interface {
	ListByClass(ctx context.Context, classID string) ([]models.Category, error)
}

type scaleReader interface {
	GetByClass(ctx context.Context, classID string) (*models.GradingScale, error)
}

type settingsReader interface {
	Get(ctx context.Context, classID string) (atRiskThreshold float64, recentWindow int, err error)
}

type assignmentReader interface {
	ListByClass(ctx context.Context, classID string) ([]models.Assignment, error)
}

type rosterReader interface {
	ListByClass(ctx context.Context, classID string) ([]models.Student, error)
	GetByID(ctx context.Context, id string) (*models.Student, error)
	GetClass(ctx context.Context, classID string) (*models.Class, error)
}

// classSnapshot holds everything a summary computation needs, loaded once per
// request so roster-wide fan-out never re-queries per student.
type classSnapshot struct {
	Settings    models.GradebookSettings
	Categories  []models.Category
	Assignments []models.Assignment
}

// SummaryService computes student and class grade summaries over repository
// snapshots, caching results until grades or policy change.
type SummaryService struct {
	grades      gradeReader
	categories  categoryReader
	scales      scaleReader
	settings    settingsReader
	assignments assignmentReader
	roster      rosterReader
	cache       *CacheService
	metrics     *MetricsService
	logger      *zap.Logger
	cfg         config.GradebookConfig
}

// NewSummaryService constructs SummaryService.
func NewSummaryService(grades gradeReader, categories categoryReader, scales scaleReader, settings settingsReader, assignments assignmentReader, roster rosterReader, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg config.GradebookConfig) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SummaryConcurrency <= 0 {
		cfg.SummaryConcurrency = 8
	}
	return &SummaryService{
		grades:      grades,
		categories:  categories,
		scales:      scales,
		settings:    settings,
		assignments: assignments,
		roster:      roster,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
		cfg:         cfg,
	}
}

// Settings resolves the class's grading policy. A class without a stored
// scale or policy row falls back to the standard ten-point scale and the
// configured defaults.
func (s *SummaryService) Settings(ctx context.Context, classID string) (models.GradebookSettings, error) {
	settings := gradebook.DefaultSettings(classID)
	settings.AtRiskThreshold = s.cfg.AtRiskThreshold
	settings.RecentWindow = s.cfg.RecentWindow

	scale, err := s.scales.GetByClass(ctx, classID)
	switch {
	case err == nil:
		settings.Scale = *scale
	case appErrors.HasCode(err, appErrors.ErrNotFound):
		// keep the default scale
	default:
		return models.GradebookSettings{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grading scale")
	}

	threshold, window, err := s.settings.Get(ctx, classID)
	switch {
	case err == nil:
		settings.AtRiskThreshold = threshold
		settings.RecentWindow = window
	case appErrors.HasCode(err, appErrors.ErrNotFound):
		// keep configured defaults
	default:
		return models.GradebookSettings{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load gradebook settings")
	}

	return settings, nil
}

// StudentSummary returns the derived gradebook view for one student,
// served from cache when fresh.
func (s *SummaryService) StudentSummary(ctx context.Context, classID, studentID string) (*models.StudentGradeSummary, error) {
	if classID == "" || studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class and student required")
	}
	key := summaryCacheKey(classID, studentID)
	var cached models.StudentGradeSummary
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	if _, err := s.roster.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	snapshot, err := s.loadSnapshot(ctx, classID)
	if err != nil {
		return nil, err
	}
	grades, err := s.grades.List(ctx, models.GradeFilter{ClassID: classID, StudentID: studentID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}

	start := time.Now()
	summary, err := gradebook.BuildSummary(snapshot.Settings, studentID, snapshot.Categories, snapshot.Assignments, grades)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveSummaryComputation(time.Since(start))
	}

	if err := s.cache.Set(ctx, key, summary, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("summary cache write failed", zap.String("class_id", classID), zap.String("student_id", studentID), zap.Error(err))
	}
	return &summary, nil
}

// ClassSummaries computes summaries for the whole roster, fanning out across
// a bounded worker pool. Results keep roster order. The first failure cancels
// outstanding work.
func (s *SummaryService) ClassSummaries(ctx context.Context, classID string) ([]models.StudentGradeSummary, error) {
	if _, err := s.roster.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	students, err := s.roster.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roster")
	}
	snapshot, err := s.loadSnapshot(ctx, classID)
	if err != nil {
		return nil, err
	}
	gradesByStudent, err := s.grades.FetchByStudents(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch grades")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	summaries := make([]models.StudentGradeSummary, len(students))
	errs := make([]error, len(students))
	sem := make(chan struct{}, s.cfg.SummaryConcurrency)
	var wg sync.WaitGroup

	for i, student := range students {
		select {
		case <-ctx.Done():
		case sem <- struct{}{}:
			wg.Add(1)
			go func(idx int, studentID string) {
				defer wg.Done()
				defer func() { <-sem }()
				if ctx.Err() != nil {
					return
				}
				start := time.Now()
				summary, err := gradebook.BuildSummary(snapshot.Settings, studentID, snapshot.Categories, snapshot.Assignments, gradesByStudent[studentID])
				if err != nil {
					errs[idx] = err
					cancel()
					return
				}
				if s.metrics != nil {
					s.metrics.ObserveSummaryComputation(time.Since(start))
				}
				summaries[idx] = summary
			}(i, student.ID)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "class summary computation interrupted")
	}
	return summaries, nil
}

// WarmupClass recomputes and caches every student summary for the class.
// Invoked from the background queue after grade mutations.
func (s *SummaryService) WarmupClass(ctx context.Context, classID string) error {
	summaries, err := s.ClassSummaries(ctx, classID)
	if err != nil {
		return err
	}
	for i := range summaries {
		key := summaryCacheKey(classID, summaries[i].StudentID)
		if err := s.cache.Set(ctx, key, summaries[i], s.cfg.CacheTTL); err != nil {
			return err
		}
	}
	s.logger.Info("class summaries warmed", zap.String("class_id", classID), zap.Int("students", len(summaries)))
	return nil
}

// InvalidateClass drops every cached artifact derived from the class's
// grades: summaries and analytics alike.
func (s *SummaryService) InvalidateClass(ctx context.Context, classID string) {
	for _, pattern := range []string{
		fmt.Sprintf("gradebook:summary:%s:*", classID),
		analyticsCacheKey(classID),
	} {
		if err := s.cache.Invalidate(ctx, pattern); err != nil {
			s.logger.Warn("cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}

func (s *SummaryService) loadSnapshot(ctx context.Context, classID string) (*classSnapshot, error) {
	settings, err := s.Settings(ctx, classID)
	if err != nil {
		return nil, err
	}
	categories, err := s.categories.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	assignments, err := s.assignments.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return &classSnapshot{Settings: settings, Categories: categories, Assignments: assignments}, nil
}

func summaryCacheKey(classID, studentID string) string {
	return fmt.Sprintf("gradebook:summary:%s:%s", classID, studentID)
}

func analyticsCacheKey(classID string) string {
	return fmt.Sprintf("gradebook:analytics:%s", classID)
}

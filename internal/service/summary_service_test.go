package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/gradebook-api/internal/models"
	"github.com/classtrack/gradebook-api/pkg/config"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
)

type mockGradeRepo struct {
	grades []models.Grade
	bulk   [][]models.Grade
}

func (m *mockGradeRepo) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	var result []models.Grade
	for _, g := range m.grades {
		if filter.ClassID != "" && filter.ClassID != g.ClassID {
			continue
		}
		if filter.StudentID != "" && filter.StudentID != g.StudentID {
			continue
		}
		if filter.CategoryID != "" && filter.CategoryID != g.CategoryID {
			continue
		}
		result = append(result, g)
	}
	return result, nil
}

func (m *mockGradeRepo) FetchByStudents(ctx context.Context, classID string) (map[string][]models.Grade, error) {
	result := make(map[string][]models.Grade)
	for _, g := range m.grades {
		if g.ClassID == classID {
			result[g.StudentID] = append(result[g.StudentID], g)
		}
	}
	return result, nil
}

func (m *mockGradeRepo) Upsert(ctx context.Context, grade *models.Grade) error {
	for i := range m.grades {
		if m.grades[i].StudentID == grade.StudentID && m.grades[i].AssignmentID == grade.AssignmentID {
			m.grades[i] = *grade
			return nil
		}
	}
	m.grades = append(m.grades, *grade)
	return nil
}

func (m *mockGradeRepo) BulkUpdatePoints(ctx context.Context, grades []models.Grade) error {
	m.bulk = append(m.bulk, grades)
	for _, update := range grades {
		for i := range m.grades {
			if m.grades[i].ID == update.ID {
				m.grades[i].Points = update.Points
				m.grades[i].Percentage = update.Percentage
			}
		}
	}
	return nil
}

func (m *mockGradeRepo) Delete(ctx context.Context, id string) error {
	for i := range m.grades {
		if m.grades[i].ID == id {
			m.grades = append(m.grades[:i], m.grades[i+1:]...)
			return nil
		}
	}
	return nil
}

type mockCategoryRepo struct {
	categories []models.Category
}

func (m *mockCategoryRepo) ListByClass(ctx context.Context, classID string) ([]models.Category, error) {
	return m.categories, nil
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	for i := range m.categories {
		if m.categories[i].ID == id {
			return &m.categories[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "category not found")
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	m.categories = append(m.categories, *category)
	return nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	for i := range m.categories {
		if m.categories[i].ID == category.ID {
			m.categories[i] = *category
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "category not found")
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id string) error {
	for i := range m.categories {
		if m.categories[i].ID == id {
			m.categories = append(m.categories[:i], m.categories[i+1:]...)
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "category not found")
}

type mockScaleRepo struct {
	scale    *models.GradingScale
	replaced *models.GradingScale
}

func (m *mockScaleRepo) GetByClass(ctx context.Context, classID string) (*models.GradingScale, error) {
	if m.scale == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "grading scale not found")
	}
	return m.scale, nil
}

func (m *mockScaleRepo) Replace(ctx context.Context, scale *models.GradingScale) error {
	m.replaced = scale
	m.scale = scale
	return nil
}

type mockSettingsRepo struct {
	threshold float64
	window    int
	stored    bool
}

func (m *mockSettingsRepo) Get(ctx context.Context, classID string) (float64, int, error) {
	if !m.stored {
		return 0, 0, appErrors.Clone(appErrors.ErrNotFound, "gradebook settings not found")
	}
	return m.threshold, m.window, nil
}

func (m *mockSettingsRepo) Upsert(ctx context.Context, classID string, threshold float64, window int) error {
	m.threshold = threshold
	m.window = window
	m.stored = true
	return nil
}

type mockAssignmentRepo struct {
	assignments []models.Assignment
}

func (m *mockAssignmentRepo) ListByClass(ctx context.Context, classID string) ([]models.Assignment, error) {
	return m.assignments, nil
}

type mockRoster struct {
	students []models.Student
	class    *models.Class
}

func (m *mockRoster) ListByClass(ctx context.Context, classID string) ([]models.Student, error) {
	return m.students, nil
}

func (m *mockRoster) GetByID(ctx context.Context, id string) (*models.Student, error) {
	for i := range m.students {
		if m.students[i].ID == id {
			return &m.students[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

func (m *mockRoster) GetClass(ctx context.Context, classID string) (*models.Class, error) {
	if m.class == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return m.class, nil
}

type mockInvalidator struct {
	classes []string
}

func (m *mockInvalidator) InvalidateClass(ctx context.Context, classID string) {
	m.classes = append(m.classes, classID)
}

func disabledCache() *CacheService {
	return NewCacheService(nil, nil, 0, nil, false)
}

func testGradebookConfig() config.GradebookConfig {
	return config.GradebookConfig{AtRiskThreshold: 60, RecentWindow: 3, CacheTTL: time.Minute, SummaryConcurrency: 4}
}

func classFixture() (*mockGradeRepo, *mockCategoryRepo, *mockAssignmentRepo, *mockRoster) {
	base := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	grades := &mockGradeRepo{}
	for i, score := range []float64{90, 90} {
		grades.grades = append(grades.grades, models.Grade{
			ID: fmt.Sprintf("g%d", i+1), StudentID: "stu1", AssignmentID: fmt.Sprintf("hw%d", i+1),
			ClassID: "class1", CategoryID: "cat-hw", Points: score, MaxPoints: 100, Percentage: score,
			GradedAt: base.AddDate(0, 0, i*7),
		})
	}
	grades.grades = append(grades.grades, models.Grade{
		ID: "g3", StudentID: "stu1", AssignmentID: "test1",
		ClassID: "class1", CategoryID: "cat-tests", Points: 70, MaxPoints: 100, Percentage: 70,
		GradedAt: base.AddDate(0, 0, 14),
	})

	categories := &mockCategoryRepo{categories: []models.Category{
		{ID: "cat-hw", ClassID: "class1", Name: "Homework", Weight: 25},
		{ID: "cat-tests", ClassID: "class1", Name: "Tests", Weight: 75},
	}}
	assignments := &mockAssignmentRepo{assignments: []models.Assignment{
		{ID: "hw1", ClassID: "class1", CategoryID: "cat-hw", Name: "HW 1", MaxPoints: 100},
		{ID: "hw2", ClassID: "class1", CategoryID: "cat-hw", Name: "HW 2", MaxPoints: 100},
		{ID: "test1", ClassID: "class1", CategoryID: "cat-tests", Name: "Test 1", MaxPoints: 100},
	}}
	roster := &mockRoster{
		students: []models.Student{
			{ID: "stu1", FullName: "Avery Chen", Active: true},
			{ID: "stu2", FullName: "Sam Ortiz", Active: true},
		},
		class: &models.Class{ID: "class1", Name: "Algebra I", Active: true},
	}
	return grades, categories, assignments, roster
}

func newSummaryService(grades *mockGradeRepo, categories *mockCategoryRepo, assignments *mockAssignmentRepo, roster *mockRoster) *SummaryService {
	return NewSummaryService(grades, categories, &mockScaleRepo{}, &mockSettingsRepo{}, assignments, roster, disabledCache(), nil, nil, testGradebookConfig())
}

func TestSummaryServiceStudentSummary(t *testing.T) {
	grades, categories, assignments, roster := classFixture()
	svc := newSummaryService(grades, categories, assignments, roster)

	summary, err := svc.StudentSummary(context.Background(), "class1", "stu1")
	require.NoError(t, err)
	assert.InDelta(t, 75.0, summary.OverallPercentage, 1e-9)
	assert.Equal(t, "C", summary.OverallLetter)
	assert.Equal(t, 3, summary.CompletedCount)
	assert.Equal(t, 0, summary.MissingCount)
}

func TestSummaryServiceStudentSummaryUnknownStudent(t *testing.T) {
	grades, categories, assignments, roster := classFixture()
	svc := newSummaryService(grades, categories, assignments, roster)

	_, err := svc.StudentSummary(context.Background(), "class1", "ghost")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestSummaryServiceClassSummariesKeepsRosterOrder(t *testing.T) {
	grades, categories, assignments, roster := classFixture()
	svc := newSummaryService(grades, categories, assignments, roster)

	summaries, err := svc.ClassSummaries(context.Background(), "class1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "stu1", summaries[0].StudentID)
	assert.Equal(t, "stu2", summaries[1].StudentID)

	// stu2 has no grades: zeroed summary with every assignment missing.
	assert.Zero(t, summaries[1].OverallPercentage)
	assert.Equal(t, 3, summaries[1].MissingCount)
	assert.Equal(t, models.TrendStable, summaries[1].Trend)
}

func TestSummaryServiceSettingsFallsBackToDefaults(t *testing.T) {
	grades, categories, assignments, roster := classFixture()
	svc := newSummaryService(grades, categories, assignments, roster)

	settings, err := svc.Settings(context.Background(), "class1")
	require.NoError(t, err)
	assert.Equal(t, 60.0, settings.AtRiskThreshold)
	assert.Equal(t, 3, settings.RecentWindow)
	require.Len(t, settings.Scale.Ranges, 5)
	assert.Equal(t, "A", settings.Scale.Ranges[0].Letter)
}

func TestSummaryServiceSettingsPrefersStoredPolicy(t *testing.T) {
	grades, categories, assignments, roster := classFixture()
	stored := &mockSettingsRepo{threshold: 70, window: 5, stored: true}
	svc := NewSummaryService(grades, categories, &mockScaleRepo{}, stored, assignments, roster, disabledCache(), nil, nil, testGradebookConfig())

	settings, err := svc.Settings(context.Background(), "class1")
	require.NoError(t, err)
	assert.Equal(t, 70.0, settings.AtRiskThreshold)
	assert.Equal(t, 5, settings.RecentWindow)
}

func TestSummaryServicePropagatesReferenceError(t *testing.T) {
	grades, categories, assignments, roster := classFixture()
	grades.grades[0].CategoryID = "cat-ghost"
	svc := newSummaryService(grades, categories, assignments, roster)

	_, err := svc.StudentSummary(context.Background(), "class1", "stu1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrReference))
}

package gradebook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/gradebook-api/internal/models"
)

func summaryFixture() (models.GradebookSettings, []models.Category, []models.Assignment) {
	settings := DefaultSettings("class")
	categories := []models.Category{
		{ID: "cat-hw", ClassID: "class", Name: "Homework", Weight: 25},
		{ID: "cat-tests", ClassID: "class", Name: "Tests", Weight: 75},
	}
	assignments := []models.Assignment{
		{ID: "hw1", ClassID: "class", CategoryID: "cat-hw", Name: "HW 1", MaxPoints: 100},
		{ID: "hw2", ClassID: "class", CategoryID: "cat-hw", Name: "HW 2", MaxPoints: 100},
		{ID: "test1", ClassID: "class", CategoryID: "cat-tests", Name: "Test 1", MaxPoints: 100},
	}
	return settings, categories, assignments
}

func TestBuildSummaryWeightsAndCounts(t *testing.T) {
	settings, categories, assignments := summaryFixture()
	base := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	grades := []models.Grade{
		makeGrade("stu1", "hw1", "cat-hw", 90, 100, base),
		makeGrade("stu1", "hw2", "cat-hw", 90, 100, base.AddDate(0, 0, 7)),
		makeGrade("stu1", "test1", "cat-tests", 70, 100, base.AddDate(0, 0, 14)),
	}
	grades[1].IsLate = true

	summary, err := BuildSummary(settings, "stu1", categories, assignments, grades)
	require.NoError(t, err)

	assert.InDelta(t, 75.0, summary.OverallPercentage, 1e-9)
	assert.Equal(t, "C", summary.OverallLetter)
	assert.Equal(t, 2.0, summary.GPA)
	assert.Equal(t, 3, summary.CompletedCount)
	assert.Equal(t, 1, summary.LateCount)
	assert.Equal(t, 0, summary.MissingCount)
	assert.Len(t, summary.Categories, 2)
	assert.False(t, summary.ComputedAt.IsZero())
}

func TestBuildSummaryUngradedCategoryRenormalizes(t *testing.T) {
	settings, categories, assignments := summaryFixture()
	base := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	grades := []models.Grade{
		makeGrade("stu1", "hw1", "cat-hw", 90, 100, base),
	}

	summary, err := BuildSummary(settings, "stu1", categories, assignments, grades)
	require.NoError(t, err)

	// Tests has no grades yet: the overall reflects homework alone.
	assert.InDelta(t, 90.0, summary.OverallPercentage, 1e-9)
	assert.Equal(t, "A", summary.OverallLetter)
	assert.Equal(t, 2, summary.MissingCount)
}

func TestBuildSummaryNoGrades(t *testing.T) {
	settings, categories, assignments := summaryFixture()

	summary, err := BuildSummary(settings, "stu1", categories, assignments, nil)
	require.NoError(t, err)
	assert.Zero(t, summary.OverallPercentage)
	assert.Equal(t, "F", summary.OverallLetter)
	assert.Equal(t, 3, summary.MissingCount)
	assert.Equal(t, models.TrendStable, summary.Trend)
}

func TestBuildSummaryRejectsUnknownCategoryReference(t *testing.T) {
	settings, categories, assignments := summaryFixture()
	grades := []models.Grade{
		makeGrade("stu1", "hw1", "cat-ghost", 90, 100, time.Now()),
	}

	_, err := BuildSummary(settings, "stu1", categories, assignments, grades)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cat-ghost")
	assert.Contains(t, err.Error(), "stu1")
}

func TestBuildSummaryRejectsInvalidScale(t *testing.T) {
	settings, categories, assignments := summaryFixture()
	settings.Scale.Ranges = nil

	_, err := BuildSummary(settings, "stu1", categories, assignments, nil)
	require.Error(t, err)
}

func TestBuildSummaryTrendFollowsGradingOrder(t *testing.T) {
	settings, categories, assignments := summaryFixture()
	base := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	// Slice order is shuffled; graded-at timestamps climb from failing to
	// strong, so the trend must come out improving.
	grades := []models.Grade{
		makeGrade("stu1", "test1", "cat-tests", 95, 100, base.AddDate(0, 0, 21)),
		makeGrade("stu1", "hw1", "cat-hw", 50, 100, base),
		makeGrade("stu1", "hw2", "cat-hw", 55, 100, base.AddDate(0, 0, 7)),
	}

	summary, err := BuildSummary(settings, "stu1", categories, assignments, grades)
	require.NoError(t, err)
	assert.Equal(t, models.TrendImproving, summary.Trend)
}

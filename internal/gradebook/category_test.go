package gradebook

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/gradebook-api/internal/models"
)

func makeGrade(student, assignment, category string, points, maxPoints float64, gradedAt time.Time) models.Grade {
	return models.Grade{
		StudentID:    student,
		AssignmentID: assignment,
		ClassID:      "class",
		CategoryID:   category,
		Points:       points,
		MaxPoints:    maxPoints,
		Percentage:   points / maxPoints * 100,
		GradedAt:     gradedAt,
	}
}

func homeworkGrades(scores ...float64) []models.Grade {
	base := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	grades := make([]models.Grade, len(scores))
	for i, score := range scores {
		grades[i] = makeGrade("stu1", fmt.Sprintf("hw%d", i+1), "cat-hw", score, 100, base.AddDate(0, 0, i*7))
	}
	return grades
}

func TestAggregateCategoryDropLowest(t *testing.T) {
	category := models.Category{ID: "cat-hw", Name: "Homework", Weight: 25, DropLowest: 1}

	result, err := AggregateCategory(category, homeworkGrades(60, 80, 90, 100), standardScale(), 3)
	require.NoError(t, err)

	// 60 is dropped; kept average is (80+90+100)/300.
	assert.Equal(t, []string{"hw1"}, result.DroppedIDs)
	assert.Equal(t, 1, result.DroppedCount)
	assert.Equal(t, 3, result.GradedCount)
	assert.InDelta(t, 90.0, result.Percentage, 1e-9)
	assert.Equal(t, "A", result.Letter)
	assert.InDelta(t, 270.0, result.EarnedPoints, 1e-9)
	assert.InDelta(t, 300.0, result.MaxPoints, 1e-9)
}

func TestAggregateCategoryNoDropsMatchesSimpleRatio(t *testing.T) {
	category := models.Category{ID: "cat-hw", Name: "Homework", Weight: 25}

	result, err := AggregateCategory(category, homeworkGrades(55, 72, 98), standardScale(), 3)
	require.NoError(t, err)
	assert.InDelta(t, (55.0+72+98)/300*100, result.Percentage, 1e-9)
	assert.Equal(t, 0, result.DroppedCount)
}

func TestAggregateCategoryDropNeverLowersPercentage(t *testing.T) {
	scores := []float64{43, 88, 61, 95, 70, 52}
	prev := -1.0
	for drop := 0; drop <= len(scores); drop++ {
		category := models.Category{ID: "cat-hw", Name: "Homework", Weight: 25, DropLowest: drop}
		result, err := AggregateCategory(category, homeworkGrades(scores...), standardScale(), 3)
		require.NoError(t, err)
		if drop > 0 && drop < len(scores) {
			assert.GreaterOrEqual(t, result.Percentage, prev, "dropLowest=%d", drop)
		}
		prev = result.Percentage
	}
}

func TestAggregateCategoryDropAll(t *testing.T) {
	category := models.Category{ID: "cat-hw", Name: "Homework", Weight: 25, DropLowest: 10}

	result, err := AggregateCategory(category, homeworkGrades(60, 80), standardScale(), 3)
	require.NoError(t, err)
	assert.Equal(t, 0, result.GradedCount)
	assert.Equal(t, 2, result.DroppedCount)
	assert.Zero(t, result.Percentage)
	assert.Zero(t, result.MaxPoints)
}

func TestAggregateCategoryEmpty(t *testing.T) {
	category := models.Category{ID: "cat-hw", Name: "Homework", Weight: 25}

	result, err := AggregateCategory(category, nil, standardScale(), 3)
	require.NoError(t, err)
	assert.Zero(t, result.Percentage)
	assert.Zero(t, result.MaxPoints)
	assert.Equal(t, 0, result.GradedCount)
}

func TestAggregateCategoryTieBreaksByInputOrder(t *testing.T) {
	base := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	grades := []models.Grade{
		makeGrade("stu1", "hw1", "cat-hw", 70, 100, base),
		makeGrade("stu1", "hw2", "cat-hw", 70, 100, base.AddDate(0, 0, 7)),
		makeGrade("stu1", "hw3", "cat-hw", 90, 100, base.AddDate(0, 0, 14)),
	}
	category := models.Category{ID: "cat-hw", Name: "Homework", Weight: 25, DropLowest: 1}

	result, err := AggregateCategory(category, grades, standardScale(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"hw1"}, result.DroppedIDs)
}

func TestAggregateCategoryRecentAverageIsChronological(t *testing.T) {
	base := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	// Graded out of score order: the recent average follows grading time.
	grades := []models.Grade{
		makeGrade("stu1", "hw1", "cat-hw", 100, 100, base),
		makeGrade("stu1", "hw2", "cat-hw", 50, 100, base.AddDate(0, 0, 7)),
		makeGrade("stu1", "hw3", "cat-hw", 60, 100, base.AddDate(0, 0, 14)),
		makeGrade("stu1", "hw4", "cat-hw", 70, 100, base.AddDate(0, 0, 21)),
	}
	category := models.Category{ID: "cat-hw", Name: "Homework", Weight: 25}

	result, err := AggregateCategory(category, grades, standardScale(), 3)
	require.NoError(t, err)
	assert.InDelta(t, (50.0+60+70)/3, result.RecentAverage, 1e-9)
}

func TestAggregateCategoryRejectsBadConfig(t *testing.T) {
	_, err := AggregateCategory(models.Category{ID: "c", Weight: -5}, nil, standardScale(), 3)
	require.Error(t, err)

	_, err = AggregateCategory(models.Category{ID: "c", Weight: 10, DropLowest: -1}, nil, standardScale(), 3)
	require.Error(t, err)
}

func TestAggregateCategoryRejectsMalformedGrade(t *testing.T) {
	category := models.Category{ID: "cat-hw", Name: "Homework", Weight: 25}
	bad := homeworkGrades(80)
	bad[0].MaxPoints = 0

	_, err := AggregateCategory(category, bad, standardScale(), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hw1")

	nan := homeworkGrades(80)
	nan[0].Points = math.NaN()
	_, err = AggregateCategory(category, nan, standardScale(), 3)
	require.Error(t, err)
}

package gradebook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/gradebook-api/internal/models"
)

func summaryWith(student string, pct float64, letter string) models.StudentGradeSummary {
	return models.StudentGradeSummary{
		StudentID:         student,
		ClassID:           "class",
		OverallPercentage: pct,
		OverallLetter:     letter,
	}
}

func TestBuildAnalyticsDistributionAndAverage(t *testing.T) {
	settings := DefaultSettings("class")
	summaries := []models.StudentGradeSummary{
		summaryWith("stu1", 92, "A"),
		summaryWith("stu2", 85, "B"),
		summaryWith("stu3", 85, "B"),
		summaryWith("stu4", 58, "F"),
	}

	report := BuildAnalytics(settings, summaries, nil, nil)

	assert.Equal(t, 4, report.StudentCount)
	assert.Equal(t, map[string]int{"A": 1, "B": 2, "F": 1}, report.Distribution)
	assert.InDelta(t, (92.0+85+85+58)/4, report.Average, 1e-9)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestBuildAnalyticsMedianIsMidpointPick(t *testing.T) {
	settings := DefaultSettings("class")
	summaries := []models.StudentGradeSummary{
		summaryWith("stu1", 60, "D"),
		summaryWith("stu2", 70, "C"),
		summaryWith("stu3", 80, "B"),
		summaryWith("stu4", 90, "A"),
	}

	report := BuildAnalytics(settings, summaries, nil, nil)

	// Even count picks the upper middle element, not the two-value average.
	assert.Equal(t, 80.0, report.Median)
}

func TestBuildAnalyticsAtRiskUsesThreshold(t *testing.T) {
	settings := DefaultSettings("class")
	settings.AtRiskThreshold = 65
	summaries := []models.StudentGradeSummary{
		summaryWith("stu1", 64.9, "D"),
		summaryWith("stu2", 65, "D"),
		summaryWith("stu3", 90, "A"),
	}

	report := BuildAnalytics(settings, summaries, nil, nil)

	require.Len(t, report.AtRisk, 1)
	assert.Equal(t, "stu1", report.AtRisk[0].StudentID)
	assert.Equal(t, "D", report.AtRisk[0].OverallLetter)
}

func TestBuildAnalyticsAssignmentStats(t *testing.T) {
	settings := DefaultSettings("class")
	base := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	assignments := []models.Assignment{
		{ID: "quiz1", ClassID: "class", CategoryID: "cat-hw", Name: "Quiz 1", MaxPoints: 20},
		{ID: "quiz2", ClassID: "class", CategoryID: "cat-hw", Name: "Quiz 2", MaxPoints: 20},
	}
	grades := []models.Grade{
		makeGrade("stu1", "quiz1", "cat-hw", 10, 20, base),
		makeGrade("stu2", "quiz1", "cat-hw", 18, 20, base),
	}

	report := BuildAnalytics(settings, nil, assignments, grades)

	require.Len(t, report.Assignments, 2)
	quiz1 := report.Assignments[0]
	assert.Equal(t, "quiz1", quiz1.AssignmentID)
	assert.Equal(t, 2, quiz1.GradedCount)
	assert.InDelta(t, 70.0, quiz1.Average, 1e-9)
	assert.InDelta(t, 50.0, quiz1.Min, 1e-9)
	assert.InDelta(t, 90.0, quiz1.Max, 1e-9)

	// Nothing graded yet: present in the report with zeroed stats.
	quiz2 := report.Assignments[1]
	assert.Equal(t, 0, quiz2.GradedCount)
	assert.Zero(t, quiz2.Average)
}

func TestBuildAnalyticsMissingAlerts(t *testing.T) {
	settings := DefaultSettings("class")
	base := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	summaries := []models.StudentGradeSummary{
		summaryWith("stu1", 80, "B"),
		summaryWith("stu2", 75, "C"),
	}
	assignments := []models.Assignment{
		{ID: "hw1", ClassID: "class", CategoryID: "cat-hw", Name: "HW 1", MaxPoints: 100},
		{ID: "hw2", ClassID: "class", CategoryID: "cat-hw", Name: "HW 2", MaxPoints: 100},
	}
	grades := []models.Grade{
		makeGrade("stu1", "hw1", "cat-hw", 80, 100, base),
		makeGrade("stu1", "hw2", "cat-hw", 80, 100, base),
		makeGrade("stu2", "hw1", "cat-hw", 75, 100, base),
	}

	report := BuildAnalytics(settings, summaries, assignments, grades)

	require.Len(t, report.MissingAlerts, 1)
	assert.Equal(t, "stu2", report.MissingAlerts[0].StudentID)
	assert.Equal(t, []string{"hw2"}, report.MissingAlerts[0].AssignmentIDs)
}

func TestBuildAnalyticsEmptyClass(t *testing.T) {
	report := BuildAnalytics(DefaultSettings("class"), nil, nil, nil)
	assert.Zero(t, report.StudentCount)
	assert.Zero(t, report.Average)
	assert.Zero(t, report.Median)
	assert.Empty(t, report.AtRisk)
	assert.Empty(t, report.MissingAlerts)
}

func TestClassAveragePercentage(t *testing.T) {
	base := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	grades := []models.Grade{
		makeGrade("stu1", "hw1", "cat-hw", 60, 100, base),
		makeGrade("stu2", "hw1", "cat-hw", 80, 100, base),
	}
	assert.InDelta(t, 70.0, ClassAveragePercentage(grades), 1e-9)
	assert.Zero(t, ClassAveragePercentage(nil))
}

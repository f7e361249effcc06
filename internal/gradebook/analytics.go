package gradebook

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/classtrack/gradebook-api/internal/models"
)

// BuildAnalytics composes per-student summaries into the class-wide report:
// letter distribution, mean and median, per-assignment statistics, the
// at-risk list and missing-assignment alerts.
//
// Median policy: for even counts the element at floor(n/2) of the sorted
// list is returned — a midpoint pick, not the average of the two middle
// values. Kept deliberately; callers needing a strict statistical median
// should compute it themselves.
func BuildAnalytics(settings models.GradebookSettings, summaries []models.StudentGradeSummary, assignments []models.Assignment, grades []models.Grade) models.GradebookAnalytics {
	distribution := make(map[string]int)
	overall := make([]float64, 0, len(summaries))
	atRisk := make([]models.AtRiskStudent, 0)

	for _, s := range summaries {
		distribution[s.OverallLetter]++
		overall = append(overall, s.OverallPercentage)
		if s.OverallPercentage < settings.AtRiskThreshold {
			atRisk = append(atRisk, models.AtRiskStudent{
				StudentID:         s.StudentID,
				OverallPercentage: s.OverallPercentage,
				OverallLetter:     s.OverallLetter,
			})
		}
	}

	return models.GradebookAnalytics{
		ClassID:       settings.ClassID,
		StudentCount:  len(summaries),
		Distribution:  distribution,
		Average:       classMean(overall),
		Median:        midpointMedian(overall),
		Assignments:   assignmentStats(assignments, grades),
		AtRisk:        atRisk,
		MissingAlerts: missingAlerts(summaries, assignments, grades),
		GeneratedAt:   time.Now().UTC(),
	}
}

// ClassAveragePercentage is the mean raw percentage across a set of grade
// records, used as the pivot for bell curves. Empty input yields 0.
func ClassAveragePercentage(grades []models.Grade) float64 {
	values := make([]float64, 0, len(grades))
	for _, g := range grades {
		values = append(values, rawPercentage(g))
	}
	return classMean(values)
}

func classMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Mean(stats.Float64Data(values))
	if err != nil {
		return 0
	}
	return m
}

func midpointMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

func assignmentStats(assignments []models.Assignment, grades []models.Grade) []models.AssignmentStats {
	byAssignment := make(map[string][]float64, len(assignments))
	for _, g := range grades {
		byAssignment[g.AssignmentID] = append(byAssignment[g.AssignmentID], rawPercentage(g))
	}

	result := make([]models.AssignmentStats, 0, len(assignments))
	for _, a := range assignments {
		values := byAssignment[a.ID]
		stat := models.AssignmentStats{AssignmentID: a.ID, Name: a.Name, GradedCount: len(values)}
		if len(values) > 0 {
			data := stats.Float64Data(values)
			if v, err := stats.Mean(data); err == nil {
				stat.Average = v
			}
			if v, err := stats.Min(data); err == nil {
				stat.Min = v
			}
			if v, err := stats.Max(data); err == nil {
				stat.Max = v
			}
		}
		result = append(result, stat)
	}
	return result
}

func missingAlerts(summaries []models.StudentGradeSummary, assignments []models.Assignment, grades []models.Grade) []models.MissingAssignmentAlert {
	gradedBy := make(map[string]map[string]struct{}, len(summaries))
	for _, g := range grades {
		if gradedBy[g.StudentID] == nil {
			gradedBy[g.StudentID] = make(map[string]struct{})
		}
		gradedBy[g.StudentID][g.AssignmentID] = struct{}{}
	}

	alerts := make([]models.MissingAssignmentAlert, 0)
	for _, s := range summaries {
		var missing []string
		for _, a := range assignments {
			if _, ok := gradedBy[s.StudentID][a.ID]; !ok {
				missing = append(missing, a.ID)
			}
		}
		if len(missing) > 0 {
			alerts = append(alerts, models.MissingAssignmentAlert{StudentID: s.StudentID, AssignmentIDs: missing})
		}
	}
	return alerts
}

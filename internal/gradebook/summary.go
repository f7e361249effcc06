package gradebook

import (
	"fmt"
	"sort"
	"time"

	"github.com/classtrack/gradebook-api/internal/models"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
)

// BuildSummary computes the full derived gradebook view for one student
// from a snapshot of class data. Pure and deterministic: no I/O, no hidden
// state, safe to fan out across students concurrently.
func BuildSummary(settings models.GradebookSettings, studentID string, categories []models.Category, assignments []models.Assignment, grades []models.Grade) (models.StudentGradeSummary, error) {
	if err := ValidateScale(settings.Scale); err != nil {
		return models.StudentGradeSummary{}, err
	}

	byCategory := make(map[string][]models.Grade, len(categories))
	known := make(map[string]models.Category, len(categories))
	for _, cat := range categories {
		known[cat.ID] = cat
		byCategory[cat.ID] = nil
	}

	graded := make(map[string]struct{}, len(grades))
	lateCount := 0
	for _, g := range grades {
		if _, ok := known[g.CategoryID]; !ok {
			return models.StudentGradeSummary{}, appErrors.Clone(appErrors.ErrReference,
				fmt.Sprintf("grade for student %s assignment %s references unknown category %s", g.StudentID, g.AssignmentID, g.CategoryID))
		}
		byCategory[g.CategoryID] = append(byCategory[g.CategoryID], g)
		graded[g.AssignmentID] = struct{}{}
		if g.IsLate {
			lateCount++
		}
	}

	aggregates := make([]models.CategoryGrade, 0, len(categories))
	for _, cat := range categories {
		aggregate, err := AggregateCategory(cat, byCategory[cat.ID], settings.Scale, settings.RecentWindow)
		if err != nil {
			return models.StudentGradeSummary{}, err
		}
		aggregates = append(aggregates, aggregate)
	}

	missing := 0
	for _, a := range assignments {
		if _, ok := graded[a.ID]; !ok {
			missing++
		}
	}

	overall := ClampPercentage(OverallPercentage(aggregates))
	letterRange := ResolveLetter(settings.Scale, OverallPercentage(aggregates))

	return models.StudentGradeSummary{
		StudentID:         studentID,
		ClassID:           settings.ClassID,
		OverallPercentage: overall,
		OverallLetter:     letterRange.Letter,
		GPA:               letterRange.GPA,
		Categories:        aggregates,
		CompletedCount:    len(grades),
		LateCount:         lateCount,
		MissingCount:      missing,
		Trend:             ClassifyTrend(chronologicalPercentages(grades)),
		ComputedAt:        time.Now().UTC(),
	}, nil
}

// chronologicalPercentages orders the student's grades by grading time and
// returns the raw percentage sequence the trend analyzer consumes.
func chronologicalPercentages(grades []models.Grade) []float64 {
	chrono := make([]models.Grade, len(grades))
	copy(chrono, grades)
	sort.SliceStable(chrono, func(i, j int) bool {
		return chrono[i].GradedAt.Before(chrono[j].GradedAt)
	})
	values := make([]float64, 0, len(chrono))
	for _, g := range chrono {
		values = append(values, rawPercentage(g))
	}
	return values
}

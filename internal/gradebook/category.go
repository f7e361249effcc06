package gradebook

import (
	"fmt"
	"math"
	"sort"

	"github.com/classtrack/gradebook-api/internal/models"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
)

// AggregateCategory computes the per-student aggregate for one category:
// drop-lowest selection, earned/possible sums, percentage, letter and the
// recent average over the last recentWindow chronologically graded kept
// grades. All grades must belong to the given category.
func AggregateCategory(category models.Category, grades []models.Grade, scale models.GradingScale, recentWindow int) (models.CategoryGrade, error) {
	if category.Weight < 0 {
		return models.CategoryGrade{}, appErrors.Clone(appErrors.ErrConfiguration,
			fmt.Sprintf("category %s has negative weight %g", category.ID, category.Weight))
	}
	if category.DropLowest < 0 {
		return models.CategoryGrade{}, appErrors.Clone(appErrors.ErrConfiguration,
			fmt.Sprintf("category %s has negative drop count %d", category.ID, category.DropLowest))
	}
	if recentWindow <= 0 {
		recentWindow = 3
	}

	for _, g := range grades {
		if err := checkGrade(g); err != nil {
			return models.CategoryGrade{}, err
		}
	}

	// Stable ascending sort by percentage so ties are dropped in input order.
	sorted := make([]models.Grade, len(grades))
	copy(sorted, grades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rawPercentage(sorted[i]) < rawPercentage(sorted[j])
	})

	drop := category.DropLowest
	if drop > len(sorted) {
		drop = len(sorted)
	}
	dropped := sorted[:drop]
	kept := sorted[drop:]

	var earned, possible float64
	for _, g := range kept {
		earned += g.Points
		possible += g.MaxPoints
	}
	percentage := 0.0
	if possible > 0 {
		percentage = earned / possible * 100
	}

	droppedIDs := make([]string, 0, len(dropped))
	for _, g := range dropped {
		droppedIDs = append(droppedIDs, g.AssignmentID)
	}

	result := models.CategoryGrade{
		CategoryID:    category.ID,
		CategoryName:  category.Name,
		Weight:        category.Weight,
		EarnedPoints:  earned,
		MaxPoints:     possible,
		Percentage:    percentage,
		Letter:        ResolveLetter(scale, percentage).Letter,
		GradedCount:   len(kept),
		DroppedCount:  len(dropped),
		DroppedIDs:    droppedIDs,
		RecentAverage: recentAverage(kept, recentWindow),
	}
	return result, nil
}

// recentAverage is the mean percentage of the last n chronologically graded
// grades — chronological order, not the score-sorted order used for drops.
func recentAverage(kept []models.Grade, n int) float64 {
	if len(kept) == 0 {
		return 0
	}
	chrono := make([]models.Grade, len(kept))
	copy(chrono, kept)
	sort.SliceStable(chrono, func(i, j int) bool {
		return chrono[i].GradedAt.Before(chrono[j].GradedAt)
	})
	if len(chrono) > n {
		chrono = chrono[len(chrono)-n:]
	}
	sum := 0.0
	for _, g := range chrono {
		sum += rawPercentage(g)
	}
	return sum / float64(len(chrono))
}

func rawPercentage(g models.Grade) float64 {
	if g.MaxPoints <= 0 {
		return 0
	}
	return g.Points / g.MaxPoints * 100
}

// checkGrade fails fast on malformed numeric input so NaN never propagates
// into a computed grade.
func checkGrade(g models.Grade) error {
	if math.IsNaN(g.Points) || math.IsInf(g.Points, 0) || math.IsNaN(g.MaxPoints) || math.IsInf(g.MaxPoints, 0) {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("grade for student %s assignment %s has non-numeric points", g.StudentID, g.AssignmentID))
	}
	if g.MaxPoints <= 0 {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("grade for student %s assignment %s has max points %g, must be positive", g.StudentID, g.AssignmentID, g.MaxPoints))
	}
	return nil
}

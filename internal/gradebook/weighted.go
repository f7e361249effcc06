package gradebook

import "github.com/classtrack/gradebook-api/internal/models"

// OverallPercentage blends category aggregates into one percentage,
// normalizing against the weight actually present. Categories with no
// counted grades (possible points zero) are excluded from both the
// numerator and the weight-present denominator, so an ungraded category
// neither drags the average down nor counts as 100%.
func OverallPercentage(categories []models.CategoryGrade) float64 {
	var weightedSum, weightPresent float64
	for _, cat := range categories {
		if cat.MaxPoints <= 0 {
			continue
		}
		pct := cat.EarnedPoints / cat.MaxPoints * 100
		weightedSum += pct * (cat.Weight / 100)
		weightPresent += cat.Weight
	}
	if weightPresent <= 0 {
		return 0
	}
	return weightedSum * 100 / weightPresent
}

// ClampPercentage bounds a value to [0,100] for display. Internal values
// used for curving stay unclamped.
func ClampPercentage(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

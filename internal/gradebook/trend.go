package gradebook

import (
	"github.com/montanaflynn/stats"

	"github.com/classtrack/gradebook-api/internal/models"
)

// trendThreshold is the fixed half-to-half difference, in percentage
// points, separating stable from improving or declining.
const trendThreshold = 5.0

// ClassifyTrend compares the first-half and second-half means of a
// chronologically ordered percentage sequence. Fewer than three values is
// insufficient data and reads as stable, by policy rather than error.
// The second half takes the extra element for odd counts.
func ClassifyTrend(values []float64) models.Trend {
	if len(values) < 3 {
		return models.TrendStable
	}
	mid := len(values) / 2
	first, _ := stats.Mean(values[:mid])
	second, _ := stats.Mean(values[mid:])

	diff := second - first
	switch {
	case diff > trendThreshold:
		return models.TrendImproving
	case diff < -trendThreshold:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

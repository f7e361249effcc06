package gradebook

import (
	"fmt"
	"math"
	"sort"

	"github.com/classtrack/gradebook-api/internal/models"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
)

// maxRangeGap is the widest hole tolerated between consecutive scale ranges.
// Integer-bounded tables (B ends at 89, A starts at 90) leave fractional
// gaps of exactly one point; anything wider is a configuration error.
const maxRangeGap = 1.0

// ResolveLetter maps a raw percentage onto the scale. Resolution never
// fails: the comparison uses the unrounded percentage with first-match on
// min <= p <= max; values falling into a fractional gap resolve to the
// range with the greatest min not exceeding them, and values below every
// range (or non-finite input) resolve to the lowest range.
func ResolveLetter(scale models.GradingScale, percentage float64) models.GradeRange {
	if len(scale.Ranges) == 0 {
		return models.GradeRange{Letter: "F"}
	}
	if math.IsNaN(percentage) || math.IsInf(percentage, 0) {
		return lowestRange(scale)
	}
	for _, r := range scale.Ranges {
		if percentage >= r.Min && percentage <= r.Max {
			return r
		}
	}
	// Gap fallback: highest min still at or below the value.
	var best *models.GradeRange
	for i := range scale.Ranges {
		r := &scale.Ranges[i]
		if percentage < r.Min {
			continue
		}
		if best == nil || r.Min > best.Min {
			best = r
		}
	}
	if best != nil {
		return *best
	}
	return lowestRange(scale)
}

// ValidateScale rejects scales with malformed, overlapping or non-covering
// ranges. Shared single-point boundaries are allowed and resolved by
// first-match; interval overlaps are not.
func ValidateScale(scale models.GradingScale) error {
	if len(scale.Ranges) == 0 {
		return appErrors.Clone(appErrors.ErrConfiguration, "grading scale has no ranges")
	}
	for _, r := range scale.Ranges {
		if r.Letter == "" {
			return appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("scale range [%g,%g] has no letter", r.Min, r.Max))
		}
		if math.IsNaN(r.Min) || math.IsNaN(r.Max) || r.Min > r.Max {
			return appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("scale range %s has invalid bounds [%g,%g]", r.Letter, r.Min, r.Max))
		}
		if r.GPA < 0 {
			return appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("scale range %s has negative gpa", r.Letter))
		}
	}

	ordered := make([]models.GradeRange, len(scale.Ranges))
	copy(ordered, scale.Ranges)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Min < ordered[j].Min })

	for i := 1; i < len(ordered); i++ {
		prev, next := ordered[i-1], ordered[i]
		if next.Min < prev.Max {
			return appErrors.Clone(appErrors.ErrConfiguration,
				fmt.Sprintf("scale ranges %s and %s overlap", prev.Letter, next.Letter))
		}
		if next.Min-prev.Max > maxRangeGap {
			return appErrors.Clone(appErrors.ErrConfiguration,
				fmt.Sprintf("scale leaves a gap between %s and %s", prev.Letter, next.Letter))
		}
	}

	if ordered[0].Min > 0 {
		return appErrors.Clone(appErrors.ErrConfiguration, "scale does not cover 0")
	}
	if ordered[len(ordered)-1].Max < 100 {
		return appErrors.Clone(appErrors.ErrConfiguration, "scale does not cover 100")
	}
	return nil
}

func lowestRange(scale models.GradingScale) models.GradeRange {
	lowest := scale.Ranges[0]
	for _, r := range scale.Ranges[1:] {
		if r.Min < lowest.Min {
			lowest = r
		}
	}
	return lowest
}

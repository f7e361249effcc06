package gradebook

import (
	"fmt"
	"math"

	"github.com/classtrack/gradebook-api/internal/models"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
)

// CurveInput carries the parameters for one curve application.
type CurveInput struct {
	Type         models.CurveType
	Amount       float64
	MaxGrade     *float64
	ClassAverage float64
}

// CurvedPercentage computes the post-curve percentage for a single grade.
// Order of post-processing is fixed: optional maxGrade cap, clamp to
// [0,100], round to the nearest integer. The caller persists the result;
// the transformation is destructive and previous values must be captured
// for audit before writing.
func CurvedPercentage(current float64, in CurveInput) (float64, error) {
	if math.IsNaN(current) || math.IsInf(current, 0) {
		return 0, appErrors.Clone(appErrors.ErrValidation, "grade percentage is not numeric")
	}
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return 0, appErrors.Clone(appErrors.ErrValidation, "curve amount is not numeric")
	}

	var curved float64
	switch in.Type {
	case models.CurveFlat:
		curved = current + in.Amount
	case models.CurvePercentage:
		curved = current * (1 + in.Amount/100)
	case models.CurveBell:
		if math.IsNaN(in.ClassAverage) || math.IsInf(in.ClassAverage, 0) {
			return 0, appErrors.Clone(appErrors.ErrValidation, "class average is not numeric")
		}
		curved = in.ClassAverage + (current-in.ClassAverage)*(1+in.Amount/100)
	default:
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown curve type %q", in.Type))
	}

	if in.MaxGrade != nil && curved > *in.MaxGrade {
		curved = *in.MaxGrade
	}
	curved = ClampPercentage(curved)
	return math.Round(curved), nil
}

// PointsForPercentage converts a percentage back into earned points for the
// assignment's scale.
func PointsForPercentage(percentage, maxPoints float64) float64 {
	return percentage / 100 * maxPoints
}

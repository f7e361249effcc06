package models

import "time"

// CurveType selects the bulk grade transformation.
type CurveType string

const (
	// CurveFlat adds a fixed number of percentage points to every grade.
	CurveFlat CurveType = "flat"
	// CurvePercentage scales every grade by (1 + amount/100).
	CurvePercentage CurveType = "percentage"
	// CurveBell moves every grade away from the class average proportionally.
	CurveBell CurveType = "bell"
)

// CurveAdjustment records one grade's before/after values so callers can
// build audit trails or implement an undo. The curve itself is destructive.
type CurveAdjustment struct {
	StudentID          string  `json:"student_id"`
	AssignmentID       string  `json:"assignment_id"`
	PreviousPoints     float64 `json:"previous_points"`
	NewPoints          float64 `json:"new_points"`
	PreviousPercentage float64 `json:"previous_percentage"`
	NewPercentage      float64 `json:"new_percentage"`
}

// CurveFailure captures a grade that could not be curved in partial mode.
type CurveFailure struct {
	StudentID    string `json:"student_id"`
	AssignmentID string `json:"assignment_id"`
	Reason       string `json:"reason"`
}

// CurveResult summarises a bulk curve application.
type CurveResult struct {
	ClassID      string            `json:"class_id"`
	CategoryID   string            `json:"category_id,omitempty"`
	Type         CurveType         `json:"type"`
	Amount       float64           `json:"amount"`
	ClassAverage float64           `json:"class_average"`
	Applied      int               `json:"applied"`
	Adjustments  []CurveAdjustment `json:"adjustments"`
	Failures     []CurveFailure    `json:"failures,omitempty"`
	AppliedAt    time.Time         `json:"applied_at"`
}

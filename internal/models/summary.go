package models

import "time"

// Trend classifies a student's recent grade trajectory.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// CategoryGrade is the per student/category aggregate. Derived, not persisted.
type CategoryGrade struct {
	CategoryID    string   `json:"category_id"`
	CategoryName  string   `json:"category_name"`
	Weight        float64  `json:"weight"`
	EarnedPoints  float64  `json:"earned_points"`
	MaxPoints     float64  `json:"max_points"`
	Percentage    float64  `json:"percentage"`
	Letter        string   `json:"letter"`
	GradedCount   int      `json:"graded_count"`
	DroppedCount  int      `json:"dropped_count"`
	DroppedIDs    []string `json:"dropped_ids,omitempty"`
	RecentAverage float64  `json:"recent_average"`
}

// StudentGradeSummary is the full derived gradebook view for one student.
// Recomputed on demand; the engine itself keeps no state between requests.
type StudentGradeSummary struct {
	StudentID         string          `json:"student_id"`
	ClassID           string          `json:"class_id"`
	OverallPercentage float64         `json:"overall_percentage"`
	OverallLetter     string          `json:"overall_letter"`
	GPA               float64         `json:"gpa"`
	Categories        []CategoryGrade `json:"categories"`
	CompletedCount    int             `json:"completed_count"`
	LateCount         int             `json:"late_count"`
	MissingCount      int             `json:"missing_count"`
	Trend             Trend           `json:"trend"`
	ComputedAt        time.Time       `json:"computed_at"`
}

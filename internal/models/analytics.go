package models

import "time"

// AssignmentStats summarises graded work for one assignment across a class.
type AssignmentStats struct {
	AssignmentID string  `json:"assignment_id"`
	Name         string  `json:"name"`
	GradedCount  int     `json:"graded_count"`
	Average      float64 `json:"average"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
}

// AtRiskStudent flags a student whose overall grade fell below the threshold.
type AtRiskStudent struct {
	StudentID         string  `json:"student_id"`
	OverallPercentage float64 `json:"overall_percentage"`
	OverallLetter     string  `json:"overall_letter"`
}

// MissingAssignmentAlert lists the assignments a student has not been graded on.
type MissingAssignmentAlert struct {
	StudentID     string   `json:"student_id"`
	AssignmentIDs []string `json:"assignment_ids"`
}

// GradebookAnalytics aggregates class-wide gradebook statistics. Derived,
// never persisted.
type GradebookAnalytics struct {
	ClassID       string                   `json:"class_id"`
	StudentCount  int                      `json:"student_count"`
	Distribution  map[string]int           `json:"distribution"`
	Average       float64                  `json:"average"`
	Median        float64                  `json:"median"`
	Assignments   []AssignmentStats        `json:"assignments"`
	AtRisk        []AtRiskStudent          `json:"at_risk"`
	MissingAlerts []MissingAssignmentAlert `json:"missing_alerts"`
	GeneratedAt   time.Time                `json:"generated_at"`
}

// AnalyticsSystemMetrics exposes a lightweight instrumentation snapshot.
type AnalyticsSystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

package models

import "time"

// Category is a named, weighted bucket of assignments (e.g. Homework, Tests).
// Weights are percentage points; the set of categories for a class is not
// required to sum to 100 — the calculator normalizes against the weight
// actually present.
type Category struct {
	ID         string    `db:"id" json:"id"`
	ClassID    string    `db:"class_id" json:"class_id"`
	Name       string    `db:"name" json:"name"`
	Weight     float64   `db:"weight" json:"weight"`
	DropLowest int       `db:"drop_lowest" json:"drop_lowest"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// GradebookSettings bundles the per-class grading policy. Produced by the
// DefaultSettings factory or loaded from storage; the engine holds no
// process-wide defaults.
type GradebookSettings struct {
	ClassID         string       `json:"class_id"`
	Scale           GradingScale `json:"scale"`
	AtRiskThreshold float64      `json:"at_risk_threshold"`
	RecentWindow    int          `json:"recent_window"`
}

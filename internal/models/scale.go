package models

import "time"

// GradeRange maps an inclusive percentage band to a letter grade.
type GradeRange struct {
	ID       string  `db:"id" json:"id"`
	ScaleID  string  `db:"scale_id" json:"scale_id"`
	Min      float64 `db:"range_min" json:"min"`
	Max      float64 `db:"range_max" json:"max"`
	Letter   string  `db:"letter" json:"letter"`
	GPA      float64 `db:"gpa" json:"gpa"`
	Color    string  `db:"color" json:"color"`
	Position int     `db:"position" json:"position"`
}

// GradingScale is an ordered set of non-overlapping ranges covering 0-100.
// Ranges are ordered highest band first; resolution is first-match.
type GradingScale struct {
	ID        string       `db:"id" json:"id"`
	ClassID   string       `db:"class_id" json:"class_id"`
	Name      string       `db:"name" json:"name"`
	Ranges    []GradeRange `json:"ranges"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

package models

import "time"

// Grade represents a single graded assignment for one student. At most one
// grade exists per (student, assignment) pair; a new save replaces the prior
// value.
type Grade struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	AssignmentID string    `db:"assignment_id" json:"assignment_id"`
	ClassID      string    `db:"class_id" json:"class_id"`
	CategoryID   string    `db:"category_id" json:"category_id"`
	Points       float64   `db:"points" json:"points"`
	MaxPoints    float64   `db:"max_points" json:"max_points"`
	Percentage   float64   `db:"percentage" json:"percentage"`
	IsLate       bool      `db:"is_late" json:"is_late"`
	GradedAt     time.Time `db:"graded_at" json:"graded_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// GradeFilter scopes grade queries.
type GradeFilter struct {
	ClassID    string
	StudentID  string
	CategoryID string
}

package models

import "time"

// Class is the roster scope all gradebook data hangs off.
type Class struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Subject   string    `db:"subject" json:"subject"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Student is the minimal roster record the engine needs.
type Student struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Assignment is a gradable item belonging to one category.
type Assignment struct {
	ID         string    `db:"id" json:"id"`
	ClassID    string    `db:"class_id" json:"class_id"`
	CategoryID string    `db:"category_id" json:"category_id"`
	Name       string    `db:"name" json:"name"`
	MaxPoints  float64   `db:"max_points" json:"max_points"`
	DueAt      time.Time `db:"due_at" json:"due_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Pagination carries list metadata in API envelopes.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/classtrack/gradebook-api/internal/models"
)

// AssignmentRepository handles assignment persistence.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListByClass returns the class's assignments in due-date order.
func (r *AssignmentRepository) ListByClass(ctx context.Context, classID string) ([]models.Assignment, error) {
	const query = `SELECT id, class_id, category_id, name, max_points, due_at, created_at
        FROM assignments WHERE class_id = $1 ORDER BY due_at ASC, created_at ASC`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, classID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ListByCategory returns the assignments attached to one category.
func (r *AssignmentRepository) ListByCategory(ctx context.Context, categoryID string) ([]models.Assignment, error) {
	const query = `SELECT id, class_id, category_id, name, max_points, due_at, created_at
        FROM assignments WHERE category_id = $1 ORDER BY due_at ASC, created_at ASC`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, categoryID); err != nil {
		return nil, fmt.Errorf("list assignments by category: %w", err)
	}
	return assignments, nil
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	assignment.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO assignments (id, class_id, category_id, name, max_points, due_at, created_at)
        VALUES (:id, :class_id, :category_id, :name, :max_points, :due_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/classtrack/gradebook-api/internal/models"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
)

// StudentRepository reads the roster the gradebook computes over.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListByClass returns the active roster for a class, alphabetical.
func (r *StudentRepository) ListByClass(ctx context.Context, classID string) ([]models.Student, error) {
	const query = `SELECT s.id, s.full_name, s.active, s.created_at
        FROM students s
        JOIN class_rosters cr ON cr.student_id = s.id
        WHERE cr.class_id = $1 AND s.active = TRUE
        ORDER BY s.full_name ASC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, classID); err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return students, nil
}

// GetByID returns a single student.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, full_name, active, created_at FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &student, nil
}

// GetClass returns the class record, used to validate scope before heavy
// roster-wide computation.
func (r *StudentRepository) GetClass(ctx context.Context, classID string) (*models.Class, error) {
	const query = `SELECT id, name, subject, active, created_at, updated_at FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	return &class, nil
}

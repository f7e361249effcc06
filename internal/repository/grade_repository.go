package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/classtrack/gradebook-api/internal/models"
)

// GradeRepository handles grade record persistence.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository creates a new grade repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// List returns grade records matching the filter, oldest graded first.
func (r *GradeRepository) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	query := `SELECT id, student_id, assignment_id, class_id, category_id, points, max_points, percentage, is_late, graded_at, created_at, updated_at
        FROM grades
        WHERE 1=1`
	var args []interface{}
	if filter.ClassID != "" {
		query += fmt.Sprintf(" AND class_id = $%d", len(args)+1)
		args = append(args, filter.ClassID)
	}
	if filter.StudentID != "" {
		query += fmt.Sprintf(" AND student_id = $%d", len(args)+1)
		args = append(args, filter.StudentID)
	}
	if filter.CategoryID != "" {
		query += fmt.Sprintf(" AND category_id = $%d", len(args)+1)
		args = append(args, filter.CategoryID)
	}
	query += " ORDER BY graded_at ASC"
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query, args...); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// FetchByStudents returns the class's grades keyed by student ID.
func (r *GradeRepository) FetchByStudents(ctx context.Context, classID string) (map[string][]models.Grade, error) {
	grades, err := r.List(ctx, models.GradeFilter{ClassID: classID})
	if err != nil {
		return nil, err
	}
	result := make(map[string][]models.Grade)
	for _, g := range grades {
		result[g.StudentID] = append(result[g.StudentID], g)
	}
	return result, nil
}

// Upsert inserts or replaces the grade for a (student, assignment) pair.
func (r *GradeRepository) Upsert(ctx context.Context, grade *models.Grade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if grade.CreatedAt.IsZero() {
		grade.CreatedAt = now
	}
	if grade.GradedAt.IsZero() {
		grade.GradedAt = now
	}
	grade.UpdatedAt = now
	const query = `INSERT INTO grades (id, student_id, assignment_id, class_id, category_id, points, max_points, percentage, is_late, graded_at, created_at, updated_at)
        VALUES (:id, :student_id, :assignment_id, :class_id, :category_id, :points, :max_points, :percentage, :is_late, :graded_at, :created_at, :updated_at)
        ON CONFLICT (student_id, assignment_id)
        DO UPDATE SET points = EXCLUDED.points, max_points = EXCLUDED.max_points, percentage = EXCLUDED.percentage, is_late = EXCLUDED.is_late, graded_at = EXCLUDED.graded_at, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("upsert grade: %w", err)
	}
	return nil
}

// BulkUpdatePoints rewrites points and percentage for a set of grades in one
// transaction. Used by curve application so a failed write leaves no partial
// state behind.
func (r *GradeRepository) BulkUpdatePoints(ctx context.Context, grades []models.Grade) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range grades {
		grades[i].UpdatedAt = now
		const query = `UPDATE grades SET points = :points, percentage = :percentage, updated_at = :updated_at WHERE id = :id`
		if _, err := tx.NamedExecContext(ctx, query, grades[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("update grade points: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit grade updates: %w", err)
	}
	return nil
}

// Delete removes a grade record.
func (r *GradeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM grades WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete grade: %w", err)
	}
	return nil
}

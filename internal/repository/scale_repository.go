package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/classtrack/gradebook-api/internal/models"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
)

// ScaleRepository handles grading scale persistence. A scale and its ranges
// are always written together so readers never observe a half-replaced
// letter table.
type ScaleRepository struct {
	db *sqlx.DB
}

// NewScaleRepository creates a new scale repository.
func NewScaleRepository(db *sqlx.DB) *ScaleRepository {
	return &ScaleRepository{db: db}
}

// GetByClass returns the class's grading scale with its ranges ordered
// highest band first.
func (r *ScaleRepository) GetByClass(ctx context.Context, classID string) (*models.GradingScale, error) {
	const scaleQuery = `SELECT id, class_id, name, created_at, updated_at
        FROM grading_scales WHERE class_id = $1`
	var scale models.GradingScale
	if err := r.db.GetContext(ctx, &scale, scaleQuery, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grading scale not found")
		}
		return nil, fmt.Errorf("get grading scale: %w", err)
	}

	const rangeQuery = `SELECT id, scale_id, range_min, range_max, letter, gpa, color, position
        FROM grade_ranges WHERE scale_id = $1 ORDER BY position ASC`
	if err := r.db.SelectContext(ctx, &scale.Ranges, rangeQuery, scale.ID); err != nil {
		return nil, fmt.Errorf("list grade ranges: %w", err)
	}
	return &scale, nil
}

// Replace upserts the class's scale and swaps its range set in one
// transaction.
func (r *ScaleRepository) Replace(ctx context.Context, scale *models.GradingScale) error {
	if scale.ID == "" {
		scale.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if scale.CreatedAt.IsZero() {
		scale.CreatedAt = now
	}
	scale.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const scaleQuery = `INSERT INTO grading_scales (id, class_id, name, created_at, updated_at)
        VALUES (:id, :class_id, :name, :created_at, :updated_at)
        ON CONFLICT (class_id)
        DO UPDATE SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at`
	if _, err := tx.NamedExecContext(ctx, scaleQuery, scale); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("upsert grading scale: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM grade_ranges WHERE scale_id = $1", scale.ID); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("clear grade ranges: %w", err)
	}
	for i := range scale.Ranges {
		if scale.Ranges[i].ID == "" {
			scale.Ranges[i].ID = uuid.NewString()
		}
		scale.Ranges[i].ScaleID = scale.ID
		scale.Ranges[i].Position = i
		const rangeQuery = `INSERT INTO grade_ranges (id, scale_id, range_min, range_max, letter, gpa, color, position)
            VALUES (:id, :scale_id, :range_min, :range_max, :letter, :gpa, :color, :position)`
		if _, err := tx.NamedExecContext(ctx, rangeQuery, scale.Ranges[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert grade range: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit grading scale: %w", err)
	}
	return nil
}

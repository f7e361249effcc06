package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
)

// settingsRow is the persisted slice of GradebookSettings; the scale itself
// lives in its own tables.
type settingsRow struct {
	ClassID         string    `db:"class_id"`
	AtRiskThreshold float64   `db:"at_risk_threshold"`
	RecentWindow    int       `db:"recent_window"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// SettingsRepository handles per-class grading policy rows.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored threshold and window for a class.
func (r *SettingsRepository) Get(ctx context.Context, classID string) (atRiskThreshold float64, recentWindow int, err error) {
	const query = `SELECT class_id, at_risk_threshold, recent_window, updated_at
        FROM gradebook_settings WHERE class_id = $1`
	var row settingsRow
	if err := r.db.GetContext(ctx, &row, query, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, appErrors.Clone(appErrors.ErrNotFound, "gradebook settings not found")
		}
		return 0, 0, fmt.Errorf("get gradebook settings: %w", err)
	}
	return row.AtRiskThreshold, row.RecentWindow, nil
}

// Upsert stores the threshold and window for a class.
func (r *SettingsRepository) Upsert(ctx context.Context, classID string, atRiskThreshold float64, recentWindow int) error {
	row := settingsRow{
		ClassID:         classID,
		AtRiskThreshold: atRiskThreshold,
		RecentWindow:    recentWindow,
		UpdatedAt:       time.Now().UTC(),
	}
	const query = `INSERT INTO gradebook_settings (class_id, at_risk_threshold, recent_window, updated_at)
        VALUES (:class_id, :at_risk_threshold, :recent_window, :updated_at)
        ON CONFLICT (class_id)
        DO UPDATE SET at_risk_threshold = EXCLUDED.at_risk_threshold, recent_window = EXCLUDED.recent_window, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("upsert gradebook settings: %w", err)
	}
	return nil
}

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

// CategoryRepository handles weighted category persistence.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListByClass returns the class's categories in creation order.
func (r *CategoryRepository) ListByClass(ctx context.Context, classID string) ([]models.Category, error) {
	const query = `SELECT id, class_id, name, weight, drop_lowest, created_at, updated_at
        FROM categories WHERE class_id = $1 ORDER BY created_at ASC`
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, query, classID); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetByID returns a single category.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	const query = `SELECT id, class_id, name, weight, drop_lowest, created_at, updated_at
        FROM categories WHERE id = $1`
	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "category not found")
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now
	const query = `INSERT INTO categories (id, class_id, name, weight, drop_lowest, created_at, updated_at)
        VALUES (:id, :class_id, :name, :weight, :drop_lowest, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Update rewrites a category's name, weight and drop policy.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now().UTC()
	const query = `UPDATE categories SET name = :name, weight = :weight, drop_lowest = :drop_lowest, updated_at = :updated_at
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, category)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "category not found")
	}
	return nil
}

// Delete removes a category. Grades referencing it cascade at the schema
// level.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "category not found")
	}
	return nil
}

package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/gradebook-api/internal/models"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
)

func newScaleMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScaleRepositoryGetByClassLoadsOrderedRanges(t *testing.T) {
	db, mock, cleanup := newScaleMock(t)
	defer cleanup()
	repo := NewScaleRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM grading_scales").
		WithArgs("class1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "class_id", "name", "created_at", "updated_at"}).
			AddRow("scale1", "class1", "Standard", now, now))
	mock.ExpectQuery("SELECT .* FROM grade_ranges").
		WithArgs("scale1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "scale_id", "range_min", "range_max", "letter", "gpa", "color", "position"}).
			AddRow("r1", "scale1", 90.0, 100.0, "A", 4.0, "#22c55e", 0).
			AddRow("r2", "scale1", 0.0, 89.0, "F", 0.0, "#ef4444", 1))

	scale, err := repo.GetByClass(context.Background(), "class1")
	require.NoError(t, err)
	require.Len(t, scale.Ranges, 2)
	assert.Equal(t, "A", scale.Ranges[0].Letter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScaleRepositoryGetByClassNotFound(t *testing.T) {
	db, mock, cleanup := newScaleMock(t)
	defer cleanup()
	repo := NewScaleRepository(db)

	mock.ExpectQuery("SELECT .* FROM grading_scales").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "class_id", "name", "created_at", "updated_at"}))

	_, err := repo.GetByClass(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestScaleRepositoryReplaceSwapsRangesTransactionally(t *testing.T) {
	db, mock, cleanup := newScaleMock(t)
	defer cleanup()
	repo := NewScaleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO grading_scales").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM grade_ranges").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO grade_ranges").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO grade_ranges").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	scale := models.GradingScale{
		ClassID: "class1",
		Name:    "Standard",
		Ranges: []models.GradeRange{
			{Min: 90, Max: 100, Letter: "A", GPA: 4.0},
			{Min: 0, Max: 89, Letter: "F", GPA: 0.0},
		},
	}
	err := repo.Replace(context.Background(), &scale)
	require.NoError(t, err)
	assert.NotEmpty(t, scale.ID)
	assert.Equal(t, scale.ID, scale.Ranges[1].ScaleID)
	assert.Equal(t, 1, scale.Ranges[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

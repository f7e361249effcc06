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
)

func newGradeMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func gradeRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "student_id", "assignment_id", "class_id", "category_id", "points", "max_points", "percentage", "is_late", "graded_at", "created_at", "updated_at"}).
		AddRow("g1", "stu1", "hw1", "class1", "cat1", 85.0, 100.0, 85.0, false, now, now, now).
		AddRow("g2", "stu2", "hw1", "class1", "cat1", 70.0, 100.0, 70.0, true, now, now, now)
}

func TestGradeRepositoryListFiltersByClassAndStudent(t *testing.T) {
	db, mock, cleanup := newGradeMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectQuery("SELECT .* FROM grades").
		WithArgs("class1", "stu1").
		WillReturnRows(gradeRows())

	grades, err := repo.List(context.Background(), models.GradeFilter{ClassID: "class1", StudentID: "stu1"})
	require.NoError(t, err)
	assert.Len(t, grades, 2)
	assert.Equal(t, "stu1", grades[0].StudentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryFetchByStudentsGroups(t *testing.T) {
	db, mock, cleanup := newGradeMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectQuery("SELECT .* FROM grades").
		WithArgs("class1").
		WillReturnRows(gradeRows())

	grouped, err := repo.FetchByStudents(context.Background(), "class1")
	require.NoError(t, err)
	assert.Len(t, grouped, 2)
	assert.Len(t, grouped["stu1"], 1)
	assert.Len(t, grouped["stu2"], 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryUpsertAssignsIDAndTimestamps(t *testing.T) {
	db, mock, cleanup := newGradeMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectExec("INSERT INTO grades").
		WillReturnResult(sqlmock.NewResult(1, 1))

	grade := models.Grade{StudentID: "stu1", AssignmentID: "hw1", ClassID: "class1", CategoryID: "cat1", Points: 85, MaxPoints: 100, Percentage: 85}
	err := repo.Upsert(context.Background(), &grade)
	require.NoError(t, err)
	assert.NotEmpty(t, grade.ID)
	assert.False(t, grade.GradedAt.IsZero())
	assert.False(t, grade.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryBulkUpdatePointsRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newGradeMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE grades SET points").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE grades SET points").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	grades := []models.Grade{
		{ID: "g1", Points: 90, Percentage: 90},
		{ID: "g2", Points: 75, Percentage: 75},
	}
	err := repo.BulkUpdatePoints(context.Background(), grades)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryBulkUpdatePointsCommits(t *testing.T) {
	db, mock, cleanup := newGradeMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE grades SET points").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.BulkUpdatePoints(context.Background(), []models.Grade{{ID: "g1", Points: 90, Percentage: 90}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

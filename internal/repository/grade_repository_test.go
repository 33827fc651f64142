package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGradeRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestGradeRepositoryWeeklySnapshots(t *testing.T) {
	db, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	rows := sqlmock.NewRows([]string{"user_id", "week_start", "average_grade", "courses_count"}).
		AddRow("u1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 88.5, 4).
		AddRow("u1", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), 91.2, 4)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, week_start, average_grade, courses_count")).
		WithArgs("u1").
		WillReturnRows(rows)

	snapshots, err := repo.WeeklySnapshots(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.InDelta(t, 88.5, snapshots[0].AverageGrade, 0.001)
	assert.Equal(t, 4, snapshots[1].CoursesCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryWeeklySnapshotsEmpty(t *testing.T) {
	db, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, week_start, average_grade, courses_count")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "week_start", "average_grade", "courses_count"}))

	snapshots, err := repo.WeeklySnapshots(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, snapshots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

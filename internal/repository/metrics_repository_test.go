package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMetricsRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func countResult(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestMetricsRepositorySnapshot(t *testing.T) {
	db, mock, cleanup := newMetricsRepoMock(t)
	defer cleanup()
	repo := NewMetricsRepository(db, zap.NewNop())

	counts := []int{5, 40, 12, 4, 3, 6, 5, 8, 2, 1}
	for _, n := range counts {
		mock.ExpectQuery("SELECT COUNT").WithArgs("u1").WillReturnRows(countResult(n))
	}
	mock.ExpectQuery("SELECT current_grade FROM course_grades").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"current_grade"}).AddRow(90.0).AddRow(80.0))
	mock.ExpectQuery("SELECT COUNT").WithArgs("u1").WillReturnRows(countResult(2))
	mock.ExpectQuery("SELECT position, recorded_at FROM rank_history").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"position", "recorded_at"}).
			AddRow(5, time.Now().Add(-time.Hour)).
			AddRow(3, time.Now()))
	mock.ExpectQuery("SELECT has_profile_picture, dark_mode_enabled FROM user_settings").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"has_profile_picture", "dark_mode_enabled"}).AddRow(true, false))

	bundle, err := repo.Snapshot(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, bundle.LoginCount)
	assert.Equal(t, 40, bundle.PageViews)
	assert.Equal(t, 12, bundle.UniquePageViews)
	assert.Equal(t, 8, bundle.TotalAssignmentsDue)
	assert.InDelta(t, 85.0, bundle.AverageGrade, 0.001)
	assert.True(t, bundle.HasGambled)
	assert.Len(t, bundle.RankHistory, 2)
	assert.Equal(t, 3, bundle.LeaderboardPosition)
	assert.True(t, bundle.HasProfilePicture)
	assert.False(t, bundle.DarkModeEnabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricsRepositorySnapshotDegradesPerSource(t *testing.T) {
	db, mock, cleanup := newMetricsRepoMock(t)
	defer cleanup()
	repo := NewMetricsRepository(db, zap.NewNop())

	// The first source fails; every other read still lands.
	mock.ExpectQuery("SELECT COUNT").WithArgs("u1").WillReturnError(errors.New("login_events table gone"))
	for i := 0; i < 9; i++ {
		mock.ExpectQuery("SELECT COUNT").WithArgs("u1").WillReturnRows(countResult(7))
	}
	mock.ExpectQuery("SELECT current_grade FROM course_grades").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"current_grade"}))
	mock.ExpectQuery("SELECT COUNT").WithArgs("u1").WillReturnRows(countResult(0))
	mock.ExpectQuery("SELECT position, recorded_at FROM rank_history").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"position", "recorded_at"}))
	mock.ExpectQuery("SELECT has_profile_picture, dark_mode_enabled FROM user_settings").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"has_profile_picture", "dark_mode_enabled"}))

	bundle, err := repo.Snapshot(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, bundle.LoginCount)
	assert.Equal(t, 7, bundle.PageViews)
	assert.False(t, bundle.HasGambled)
	assert.Equal(t, 0, bundle.LeaderboardPosition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricsRepositorySnapshotCancelledContext(t *testing.T) {
	db, _, cleanup := newMetricsRepoMock(t)
	defer cleanup()
	repo := NewMetricsRepository(db, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Snapshot(ctx, "u1")
	require.Error(t, err)
}

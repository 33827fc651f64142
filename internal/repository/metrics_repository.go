package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/studyquest/gamification-api/internal/models"
)

// MetricsRepository assembles the evaluation snapshot from the engagement and
// Canvas tables. Each source is read independently: a failed sub-read leaves
// its fields at zero and logs, so only achievements depending on that source
// degrade instead of the whole weekly batch.
type MetricsRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewMetricsRepository creates a new metrics repository.
func NewMetricsRepository(db *sqlx.DB, logger *zap.Logger) *MetricsRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricsRepository{db: db, logger: logger}
}

// Snapshot loads the full metrics bundle for a user. The only returned error
// is context cancellation; source failures degrade field-wise.
func (r *MetricsRepository) Snapshot(ctx context.Context, userID string) (*models.MetricsBundle, error) {
	bundle := &models.MetricsBundle{UserID: userID}

	r.count(ctx, userID, &bundle.LoginCount,
		`SELECT COUNT(*) FROM login_events WHERE user_id = $1`, "login_events")
	r.count(ctx, userID, &bundle.PageViews,
		`SELECT COUNT(*) FROM page_views WHERE user_id = $1`, "page_views")
	r.count(ctx, userID, &bundle.UniquePageViews,
		`SELECT COUNT(DISTINCT page) FROM page_views WHERE user_id = $1`, "unique_page_views")
	r.count(ctx, userID, &bundle.AppUsageDays,
		`SELECT COUNT(DISTINCT viewed_at::date) FROM page_views WHERE user_id = $1`, "app_usage_days")
	r.count(ctx, userID, &bundle.CanvasSyncCount,
		`SELECT COUNT(*) FROM canvas_syncs WHERE user_id = $1`, "canvas_syncs")
	r.count(ctx, userID, &bundle.AssignmentsCompleted,
		`SELECT COUNT(*) FROM assignments WHERE user_id = $1 AND completed`, "assignments_completed")
	r.count(ctx, userID, &bundle.OnTimeAssignments,
		`SELECT COUNT(*) FROM assignments WHERE user_id = $1 AND completed AND submitted_at <= due_at`, "on_time_assignments")
	r.count(ctx, userID, &bundle.TotalAssignmentsDue,
		`SELECT COUNT(*) FROM assignments WHERE user_id = $1`, "total_assignments_due")
	r.count(ctx, userID, &bundle.PerfectGradeCount,
		`SELECT COUNT(*) FROM assignments WHERE user_id = $1 AND grade = 100`, "perfect_grades")
	r.count(ctx, userID, &bundle.PerfectQuizCount,
		`SELECT COUNT(*) FROM quiz_results WHERE user_id = $1 AND score = max_score`, "perfect_quizzes")

	if err := r.db.SelectContext(ctx, &bundle.CourseGrades,
		`SELECT current_grade FROM course_grades WHERE user_id = $1`, userID); err != nil {
		r.warn("course_grades", userID, err)
	}
	if len(bundle.CourseGrades) > 0 {
		sum := 0.0
		for _, grade := range bundle.CourseGrades {
			sum += grade
		}
		bundle.AverageGrade = sum / float64(len(bundle.CourseGrades))
	}

	var gambled int
	r.count(ctx, userID, &gambled, `SELECT COUNT(*) FROM wager_history WHERE user_id = $1`, "wager_history")
	bundle.HasGambled = gambled > 0

	if err := r.db.SelectContext(ctx, &bundle.RankHistory,
		`SELECT position, recorded_at FROM rank_history WHERE user_id = $1 ORDER BY recorded_at ASC`, userID); err != nil {
		r.warn("rank_history", userID, err)
	}
	if len(bundle.RankHistory) > 0 {
		bundle.LeaderboardPosition = bundle.RankHistory[len(bundle.RankHistory)-1].Position
	}

	var flags struct {
		HasProfilePicture bool `db:"has_profile_picture"`
		DarkModeEnabled   bool `db:"dark_mode_enabled"`
	}
	if err := r.db.GetContext(ctx, &flags,
		`SELECT has_profile_picture, dark_mode_enabled FROM user_settings WHERE user_id = $1`, userID); err != nil {
		if err != sql.ErrNoRows {
			r.warn("user_settings", userID, err)
		}
	} else {
		bundle.HasProfilePicture = flags.HasProfilePicture
		bundle.DarkModeEnabled = flags.DarkModeEnabled
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("metrics snapshot cancelled: %w", err)
	}
	return bundle, nil
}

func (r *MetricsRepository) count(ctx context.Context, userID string, dest *int, query, source string) {
	if err := r.db.GetContext(ctx, dest, query, userID); err != nil {
		*dest = 0
		r.warn(source, userID, err)
	}
	if *dest < 0 {
		*dest = 0
	}
}

func (r *MetricsRepository) warn(source, userID string, err error) {
	r.logger.Warn("metrics source degraded",
		zap.String("source", source), zap.String("user_id", userID), zap.Error(err))
}

package models

import "time"

// RankEntry is one point of a user's chronological leaderboard rank history.
// Lower position means a better rank.
type RankEntry struct {
	Position   int       `db:"position" json:"position"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}

// MetricsBundle is the snapshot of all signals the progress evaluator reads.
// Evaluation is pure given a bundle; a source that fails to load leaves its
// fields at zero so only dependent achievements degrade.
type MetricsBundle struct {
	UserID string `json:"user_id"`

	LoginCount      int `json:"login_count"`
	PageViews       int `json:"page_views"`
	UniquePageViews int `json:"unique_page_views"`
	AppUsageDays    int `json:"app_usage_days"`
	CanvasSyncCount int `json:"canvas_sync_count"`

	HasProfilePicture bool `json:"has_profile_picture"`
	DarkModeEnabled   bool `json:"dark_mode_enabled"`

	AssignmentsCompleted int       `json:"assignments_completed"`
	OnTimeAssignments    int       `json:"on_time_assignments"`
	TotalAssignmentsDue  int       `json:"total_assignments_due"`
	PerfectGradeCount    int       `json:"perfect_grade_count"`
	CourseGrades         []float64 `json:"course_grades"`
	AverageGrade         float64   `json:"average_grade"`

	HasGambled          bool        `json:"has_gambled"`
	RankHistory         []RankEntry `json:"rank_history"`
	PerfectQuizCount    int         `json:"perfect_quiz_count"`
	LeaderboardPosition int         `json:"leaderboard_position"`
}

// WeeklyGradeSnapshot is one calendar week of Canvas grade data.
type WeeklyGradeSnapshot struct {
	UserID       string    `db:"user_id" json:"user_id"`
	WeekStart    time.Time `db:"week_start" json:"week_start"`
	AverageGrade float64   `db:"average_grade" json:"average_grade"`
	CoursesCount int       `db:"courses_count" json:"courses_count"`
}

// UserProfile carries the signed wager ledger and streak counters.
type UserProfile struct {
	UserID       string    `db:"user_id" json:"user_id"`
	LedgerPoints int       `db:"ledger_points" json:"ledger_points"`
	DailyStreak  int       `db:"daily_streak" json:"daily_streak"`
	WeeklyStreak int       `db:"weekly_streak" json:"weekly_streak"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

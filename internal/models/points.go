package models

// ProgressRecord is the evaluated completion state for one (user, achievement)
// pair. Progress is an integer in [0, 100]; fractional progress is never
// surfaced. Not monotonic: a corrected grade may lower it between evaluations.
type ProgressRecord struct {
	AchievementID string `json:"achievement_id"`
	Progress      int    `json:"progress"`
	Unlocked      bool   `json:"unlocked"`
}

// WeeklyProgress holds the live progress for the current week's selection.
type WeeklyProgress struct {
	WeekStart string          `json:"week_start"`
	Easy      *ProgressRecord `json:"easy,omitempty"`
	Medium    *ProgressRecord `json:"medium,omitempty"`
	Hard      *ProgressRecord `json:"hard,omitempty"`
}

// WeeklyGradesXP is the XP derived from one week of grade snapshots.
type WeeklyGradesXP struct {
	WeekStart    string  `json:"week_start"`
	AverageGrade float64 `json:"average_grade"`
	XPEarned     int     `json:"xp_earned"`
	CoursesCount int     `json:"courses_count"`
}

// PointsBreakdown decomposes the spendable balance for display. Available is
// clamped to >= 0 even when the ledger component is negative.
type PointsBreakdown struct {
	AchievementPoints int `json:"achievement_points"`
	GradesXP          int `json:"grades_xp"`
	LedgerPoints      int `json:"ledger_points"`
	Available         int `json:"available"`
}

// StreakSummary exposes the streak multiplier curves for the profile's
// current counters.
type StreakSummary struct {
	DailyStreak      int     `json:"daily_streak"`
	WeeklyStreak     int     `json:"weekly_streak"`
	DailyMultiplier  float64 `json:"daily_multiplier"`
	WeeklyMultiplier float64 `json:"weekly_multiplier"`
	DailyPoints      int     `json:"daily_points"`
	WeeklyPoints     int     `json:"weekly_points"`
}

// WagerResult reports the outcome of a deduction attempt.
type WagerResult struct {
	OK        bool   `json:"ok"`
	Reason    string `json:"reason,omitempty"`
	Remaining int    `json:"remaining"`
}

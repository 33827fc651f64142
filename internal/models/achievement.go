package models

// Difficulty partitions the achievement catalog into weekly draw tiers.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists every tier in draw order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Category groups achievements by the kind of behaviour they reward.
type Category string

const (
	CategoryPerformance Category = "performance"
	CategoryTiming      Category = "timing"
	CategoryEngagement  Category = "engagement"
	CategoryVariety     Category = "variety"
	CategoryImprovement Category = "improvement"
	CategoryStreak      Category = "streak"
	CategoryThreshold   Category = "threshold"
)

// RequirementType is the closed tag set the progress evaluator dispatches on.
type RequirementType string

const (
	RequirementLoginCount            RequirementType = "login_count"
	RequirementPageView              RequirementType = "page_view"
	RequirementUniquePageViews       RequirementType = "unique_page_views"
	RequirementAppUsage              RequirementType = "app_usage"
	RequirementCanvasSync            RequirementType = "canvas_sync"
	RequirementProfilePicture        RequirementType = "profile_picture"
	RequirementDarkMode              RequirementType = "dark_mode"
	RequirementAssignmentComplete    RequirementType = "assignment_complete"
	RequirementPerfectGrade          RequirementType = "perfect_grade"
	RequirementCourseGradeAbove      RequirementType = "course_grade_above"
	RequirementGamblingOccurred      RequirementType = "gambling_occurred"
	RequirementRankImproved          RequirementType = "rank_improved"
	RequirementAIQuizPerfect         RequirementType = "ai_quiz_perfect"
	RequirementLeaderboardFirst      RequirementType = "leaderboard_first"
	RequirementAssignmentsCompleted  RequirementType = "assignments_completed_count"
	RequirementOnTimeRate            RequirementType = "on_time_rate"
	RequirementGradeAverageThreshold RequirementType = "grade_average_threshold"
)

// Requirement is the machine-checkable unlock criterion attached to a
// definition. Target drives count-style criteria, Threshold grade-style ones.
type Requirement struct {
	Type      RequirementType `json:"type"`
	Target    int             `json:"target,omitempty"`
	Threshold float64         `json:"threshold,omitempty"`
}

// AchievementDefinition is an immutable catalog entry. The catalog is
// append-only over the application lifetime; ids must stay stable.
type AchievementDefinition struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    Category    `json:"category"`
	Difficulty  Difficulty  `json:"difficulty"`
	Points      int         `json:"points"`
	Icon        string      `json:"icon"`
	Requirement Requirement `json:"requirement"`
}

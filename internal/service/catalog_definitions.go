package service

import "github.com/studyquest/gamification-api/internal/models"

// DefaultCatalog returns the built-in achievement pool. The list is
// append-only: ids are persisted in selection rows and usage ledgers, so
// entries must never be renamed or removed.
func DefaultCatalog() []models.AchievementDefinition {
	return []models.AchievementDefinition{
		// Easy tier, 30 points.
		{
			ID: "daily-visitor", Title: "Daily Visitor",
			Description: "Log in on five separate days this week",
			Category:    models.CategoryEngagement, Difficulty: models.DifficultyEasy,
			Points: 30, Icon: "calendar-check",
			Requirement: models.Requirement{Type: models.RequirementLoginCount, Target: 5},
		},
		{
			ID: "page-turner", Title: "Page Turner",
			Description: "Open twenty-five pages across the app",
			Category:    models.CategoryEngagement, Difficulty: models.DifficultyEasy,
			Points: 30, Icon: "book-open",
			Requirement: models.Requirement{Type: models.RequirementPageView, Target: 25},
		},
		{
			ID: "explorer", Title: "Explorer",
			Description: "Visit ten distinct sections of the app",
			Category:    models.CategoryVariety, Difficulty: models.DifficultyEasy,
			Points: 30, Icon: "compass",
			Requirement: models.Requirement{Type: models.RequirementUniquePageViews, Target: 10},
		},
		{
			ID: "regular", Title: "Regular",
			Description: "Use the app on three different days",
			Category:    models.CategoryStreak, Difficulty: models.DifficultyEasy,
			Points: 30, Icon: "repeat",
			Requirement: models.Requirement{Type: models.RequirementAppUsage, Target: 3},
		},
		{
			ID: "fresh-face", Title: "Fresh Face",
			Description: "Set a profile picture",
			Category:    models.CategoryVariety, Difficulty: models.DifficultyEasy,
			Points: 30, Icon: "user-circle",
			Requirement: models.Requirement{Type: models.RequirementProfilePicture},
		},
		{
			ID: "night-owl", Title: "Night Owl",
			Description: "Switch the app to dark mode",
			Category:    models.CategoryVariety, Difficulty: models.DifficultyEasy,
			Points: 30, Icon: "moon",
			Requirement: models.Requirement{Type: models.RequirementDarkMode},
		},

		// Medium tier, 50 points.
		{
			ID: "synced-up", Title: "Synced Up",
			Description: "Sync your Canvas courses three times",
			Category:    models.CategoryEngagement, Difficulty: models.DifficultyMedium,
			Points: 50, Icon: "refresh-cw",
			Requirement: models.Requirement{Type: models.RequirementCanvasSync, Target: 3},
		},
		{
			ID: "task-master", Title: "Task Master",
			Description: "Complete five assignments",
			Category:    models.CategoryPerformance, Difficulty: models.DifficultyMedium,
			Points: 50, Icon: "check-square",
			Requirement: models.Requirement{Type: models.RequirementAssignmentComplete, Target: 5},
		},
		{
			ID: "steady-hand", Title: "Steady Hand",
			Description: "Complete ten assignments this term",
			Category:    models.CategoryPerformance, Difficulty: models.DifficultyMedium,
			Points: 50, Icon: "clipboard-list",
			Requirement: models.Requirement{Type: models.RequirementAssignmentsCompleted, Target: 10},
		},
		{
			ID: "high-roller", Title: "High Roller",
			Description: "Place at least one wager with your points",
			Category:    models.CategoryVariety, Difficulty: models.DifficultyMedium,
			Points: 50, Icon: "dice",
			Requirement: models.Requirement{Type: models.RequirementGamblingOccurred},
		},
		{
			ID: "punctual", Title: "Punctual",
			Description: "Submit at least 80% of assignments on time",
			Category:    models.CategoryTiming, Difficulty: models.DifficultyMedium,
			Points: 50, Icon: "clock",
			Requirement: models.Requirement{Type: models.RequirementOnTimeRate, Threshold: 80},
		},
		{
			ID: "quiz-whiz", Title: "Quiz Whiz",
			Description: "Score perfectly on three AI practice quizzes",
			Category:    models.CategoryPerformance, Difficulty: models.DifficultyMedium,
			Points: 50, Icon: "zap",
			Requirement: models.Requirement{Type: models.RequirementAIQuizPerfect, Target: 3},
		},

		// Hard tier, 100 points.
		{
			ID: "perfectionist", Title: "Perfectionist",
			Description: "Earn a perfect grade on two assignments",
			Category:    models.CategoryPerformance, Difficulty: models.DifficultyHard,
			Points: 100, Icon: "star",
			Requirement: models.Requirement{Type: models.RequirementPerfectGrade, Target: 2},
		},
		{
			ID: "honor-roll", Title: "Honor Roll",
			Description: "Hold a grade above 90 in three courses",
			Category:    models.CategoryThreshold, Difficulty: models.DifficultyHard,
			Points: 100, Icon: "award",
			Requirement: models.Requirement{Type: models.RequirementCourseGradeAbove, Target: 3, Threshold: 90},
		},
		{
			ID: "rank-climber", Title: "Rank Climber",
			Description: "Improve your leaderboard rank since the last snapshot",
			Category:    models.CategoryImprovement, Difficulty: models.DifficultyHard,
			Points: 100, Icon: "trending-up",
			Requirement: models.Requirement{Type: models.RequirementRankImproved},
		},
		{
			ID: "top-of-class", Title: "Top of the Class",
			Description: "Reach first place on the leaderboard",
			Category:    models.CategoryPerformance, Difficulty: models.DifficultyHard,
			Points: 100, Icon: "trophy",
			Requirement: models.Requirement{Type: models.RequirementLeaderboardFirst},
		},
		{
			ID: "scholar", Title: "Scholar",
			Description: "Keep a weekly grade average of 95 or higher",
			Category:    models.CategoryThreshold, Difficulty: models.DifficultyHard,
			Points: 100, Icon: "graduation-cap",
			Requirement: models.Requirement{Type: models.RequirementGradeAverageThreshold, Threshold: 95},
		},
	}
}

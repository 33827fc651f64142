package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/studyquest/gamification-api/internal/models"
)

type metricsReader interface {
	Snapshot(ctx context.Context, userID string) (*models.MetricsBundle, error)
}

type selectionProvider interface {
	GetOrCreateSelection(ctx context.Context, userID string, now time.Time) (*models.WeeklySelection, error)
}

// ProgressService evaluates achievement completion against a metrics
// snapshot. Evaluation is pure per (achievement, bundle) pair and safe to run
// concurrently across achievements and users.
type ProgressService struct {
	metrics    metricsReader
	selections selectionProvider
	logger     *zap.Logger
}

// NewProgressService constructs the evaluator.
func NewProgressService(metrics metricsReader, selections selectionProvider, logger *zap.Logger) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{metrics: metrics, selections: selections, logger: logger}
}

// CurrentWeekProgress evaluates the three selected achievements for the week
// containing now. A metrics outage degrades every record to zero progress
// rather than failing the read; only a selection persistence error surfaces.
func (s *ProgressService) CurrentWeekProgress(ctx context.Context, userID string, now time.Time) (*models.WeeklyProgress, error) {
	selection, err := s.selections.GetOrCreateSelection(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	bundle, err := s.metrics.Snapshot(ctx, userID)
	if err != nil {
		s.logger.Warn("metrics snapshot unavailable, degrading progress to zero",
			zap.String("user_id", userID), zap.Error(err))
		bundle = &models.MetricsBundle{UserID: userID}
	}

	progress := &models.WeeklyProgress{WeekStart: selection.WeekStart.Format("2006-01-02")}
	if selection.Easy != nil {
		record := s.Evaluate(*selection.Easy, bundle)
		progress.Easy = &record
	}
	if selection.Medium != nil {
		record := s.Evaluate(*selection.Medium, bundle)
		progress.Medium = &record
	}
	if selection.Hard != nil {
		record := s.Evaluate(*selection.Hard, bundle)
		progress.Hard = &record
	}
	return progress, nil
}

// Evaluate computes a 0-100 integer progress value and unlock flag for one
// achievement. Unknown requirement tags score zero with a logged warning so
// metrics may lag catalog additions without breaking the weekly batch.
func (s *ProgressService) Evaluate(def models.AchievementDefinition, bundle *models.MetricsBundle) models.ProgressRecord {
	req := def.Requirement
	var progress int

	switch req.Type {
	case models.RequirementLoginCount:
		progress = ratioProgress(bundle.LoginCount, req.Target)
	case models.RequirementPageView:
		progress = ratioProgress(bundle.PageViews, req.Target)
	case models.RequirementUniquePageViews:
		progress = ratioProgress(bundle.UniquePageViews, req.Target)
	case models.RequirementAppUsage:
		progress = ratioProgress(bundle.AppUsageDays, req.Target)
	case models.RequirementCanvasSync:
		progress = ratioProgress(bundle.CanvasSyncCount, req.Target)
	case models.RequirementProfilePicture:
		progress = boolProgress(bundle.HasProfilePicture)
	case models.RequirementDarkMode:
		progress = boolProgress(bundle.DarkModeEnabled)
	case models.RequirementAssignmentComplete, models.RequirementAssignmentsCompleted:
		progress = ratioProgress(bundle.AssignmentsCompleted, req.Target)
	case models.RequirementPerfectGrade:
		progress = ratioProgress(bundle.PerfectGradeCount, req.Target)
	case models.RequirementCourseGradeAbove:
		count := 0
		for _, grade := range bundle.CourseGrades {
			if grade >= req.Threshold {
				count++
			}
		}
		progress = ratioProgress(count, req.Target)
	case models.RequirementGamblingOccurred:
		progress = boolProgress(bundle.HasGambled)
	case models.RequirementRankImproved:
		progress = boolProgress(rankImproved(bundle.RankHistory))
	case models.RequirementAIQuizPerfect:
		progress = ratioProgress(bundle.PerfectQuizCount, req.Target)
	case models.RequirementLeaderboardFirst:
		progress = boolProgress(bundle.LeaderboardPosition == 1)
	case models.RequirementOnTimeRate:
		progress = rateProgress(bundle.OnTimeAssignments, bundle.TotalAssignmentsDue, req.Threshold)
	case models.RequirementGradeAverageThreshold:
		progress = thresholdProgress(bundle.AverageGrade, req.Threshold)
	default:
		s.logger.Warn("unknown requirement type",
			zap.String("achievement_id", def.ID), zap.String("type", string(req.Type)))
		progress = 0
	}

	return models.ProgressRecord{
		AchievementID: def.ID,
		Progress:      progress,
		Unlocked:      progress >= 100,
	}
}

// rankImproved compares the last two entries of the chronological rank
// history; lower position is better. Fewer than two entries is never an
// improvement.
func rankImproved(history []models.RankEntry) bool {
	if len(history) < 2 {
		return false
	}
	current := history[len(history)-1]
	previous := history[len(history)-2]
	return current.Position < previous.Position
}

func ratioProgress(current, required int) int {
	if required <= 0 {
		// Count criteria without a positive target behave as booleans.
		return boolProgress(current > 0)
	}
	if current < 0 {
		current = 0
	}
	return clampProgress(math.Round(float64(current) / float64(required) * 100))
}

func rateProgress(onTime, total int, requiredRate float64) int {
	if total <= 0 || requiredRate <= 0 {
		return 0
	}
	if onTime < 0 {
		onTime = 0
	}
	rate := float64(onTime) / float64(total) * 100
	return clampProgress(math.Round(rate / requiredRate * 100))
}

func thresholdProgress(value, threshold float64) int {
	if threshold <= 0 {
		return 0
	}
	if value < 0 {
		value = 0
	}
	return clampProgress(math.Round(value / threshold * 100))
}

func boolProgress(satisfied bool) int {
	if satisfied {
		return 100
	}
	return 0
}

func clampProgress(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

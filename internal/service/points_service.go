package service

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studyquest/gamification-api/internal/models"
	"github.com/studyquest/gamification-api/pkg/config"
	appErrors "github.com/studyquest/gamification-api/pkg/errors"
)

type profileRepo interface {
	Find(ctx context.Context, userID string) (*models.UserProfile, error)
	LedgerPoints(ctx context.Context, userID string) (int, error)
	AdjustLedger(ctx context.Context, userID string, delta int) error
}

type gradeSnapshotRepo interface {
	WeeklySnapshots(ctx context.Context, userID string) ([]models.WeeklyGradeSnapshot, error)
}

type achievementEvaluator interface {
	Evaluate(def models.AchievementDefinition, bundle *models.MetricsBundle) models.ProgressRecord
}

type wagerMetrics interface {
	WagerAttempt(ok bool)
}

// WagerRequest is the deduction payload for the wagering feature.
type WagerRequest struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}

// AwardRequest credits winnings back to the ledger.
type AwardRequest struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}

// PointsService aggregates achievement-derived points, weekly grade XP and
// the signed wager ledger into one spendable balance.
type PointsService struct {
	profiles   profileRepo
	grades     gradeSnapshotRepo
	metrics    metricsReader
	selections selectionProvider
	evaluator  achievementEvaluator
	validator  *validator.Validate
	cfg        config.GamificationConfig
	wagers     wagerMetrics
	logger     *zap.Logger
}

// NewPointsService constructs the aggregator. wagers may be nil.
func NewPointsService(profiles profileRepo, grades gradeSnapshotRepo, metrics metricsReader, selections selectionProvider, evaluator achievementEvaluator, validate *validator.Validate, cfg config.GamificationConfig, wagers wagerMetrics, logger *zap.Logger) *PointsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WeeklyXPCap <= 0 {
		cfg.WeeklyXPCap = 300
	}
	if cfg.GradeCurvePower <= 0 {
		cfg.GradeCurvePower = 0.8
	}
	return &PointsService{
		profiles:   profiles,
		grades:     grades,
		metrics:    metrics,
		selections: selections,
		evaluator:  evaluator,
		validator:  validate,
		cfg:        cfg,
		wagers:     wagers,
		logger:     logger,
	}
}

// WeeklyGradeXP maps a weekly average grade onto the XP curve:
// cap * (grade/100)^power, rounded, clamped to [0, cap]. With the default
// 0.8 exponent the curve sits above the linear diagonal, so mid-range grades
// earn more than strict proportionality (50 -> 172, 80 -> 251, 90 -> 276).
func (s *PointsService) WeeklyGradeXP(averageGrade float64) int {
	maxXP := float64(s.cfg.WeeklyXPCap)
	if averageGrade <= 0 {
		return 0
	}
	if averageGrade >= 100 {
		return int(maxXP)
	}
	return int(math.Round(maxXP * math.Pow(averageGrade/100, s.cfg.GradeCurvePower)))
}

// TotalAchievementPoints awards proportional partial credit per achievement,
// rounding each term before summing so per-item rounding stays visible.
func (s *PointsService) TotalAchievementPoints(records []models.ProgressRecord, defs map[string]models.AchievementDefinition) int {
	total := 0
	for _, record := range records {
		def, ok := defs[record.AchievementID]
		if !ok {
			continue
		}
		total += int(math.Round(float64(record.Progress) / 100 * float64(def.Points)))
	}
	return total
}

// GradesXP evaluates every stored weekly grade snapshot against the curve.
func (s *PointsService) GradesXP(ctx context.Context, userID string) ([]models.WeeklyGradesXP, int, error) {
	snapshots, err := s.grades.WeeklySnapshots(ctx, userID)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to read weekly grade snapshots")
	}

	weeks := make([]models.WeeklyGradesXP, 0, len(snapshots))
	total := 0
	for _, snapshot := range snapshots {
		xp := s.WeeklyGradeXP(snapshot.AverageGrade)
		total += xp
		weeks = append(weeks, models.WeeklyGradesXP{
			WeekStart:    snapshot.WeekStart.Format("2006-01-02"),
			AverageGrade: snapshot.AverageGrade,
			XPEarned:     xp,
			CoursesCount: snapshot.CoursesCount,
		})
	}
	return weeks, total, nil
}

// AvailablePoints computes the clamped spendable balance with its breakdown.
func (s *PointsService) AvailablePoints(ctx context.Context, userID string, now time.Time) (*models.PointsBreakdown, error) {
	achievementPoints, err := s.currentAchievementPoints(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	_, gradesXP, err := s.GradesXP(ctx, userID)
	if err != nil {
		return nil, err
	}

	ledger, err := s.profiles.LedgerPoints(ctx, userID)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to read profile ledger")
	}

	available := achievementPoints + gradesXP + ledger
	if available < 0 {
		available = 0
	}
	return &models.PointsBreakdown{
		AchievementPoints: achievementPoints,
		GradesXP:          gradesXP,
		LedgerPoints:      ledger,
		Available:         available,
	}, nil
}

// DeductForWager attempts to spend points. A wager exceeding the available
// balance is refused without mutation; otherwise the ledger is decremented,
// which may push it negative while the aggregate stays clamped on read.
func (s *PointsService) DeductForWager(ctx context.Context, userID string, req WagerRequest, now time.Time) (*models.WagerResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid wager payload")
	}
	if s.cfg.MaxWagerAmount > 0 && req.Amount > s.cfg.MaxWagerAmount {
		return nil, appErrors.Clone(appErrors.ErrValidation, "wager exceeds maximum stake")
	}

	breakdown, err := s.AvailablePoints(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if req.Amount > breakdown.Available {
		if s.wagers != nil {
			s.wagers.WagerAttempt(false)
		}
		return &models.WagerResult{OK: false, Reason: "insufficient points", Remaining: breakdown.Available}, nil
	}

	if err := s.profiles.AdjustLedger(ctx, userID, -req.Amount); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to deduct wager")
	}
	if s.wagers != nil {
		s.wagers.WagerAttempt(true)
	}
	return &models.WagerResult{OK: true, Remaining: breakdown.Available - req.Amount}, nil
}

// AwardWinnings unconditionally credits the ledger.
func (s *PointsService) AwardWinnings(ctx context.Context, userID string, req AwardRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid award payload")
	}
	if err := s.profiles.AdjustLedger(ctx, userID, req.Amount); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to award winnings")
	}
	return nil
}

// StreakSummary computes the multiplier curves for the profile's counters.
func (s *PointsService) StreakSummary(ctx context.Context, userID string) (*models.StreakSummary, error) {
	profile, err := s.profiles.Find(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			profile = &models.UserProfile{UserID: userID}
		} else {
			return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to read profile")
		}
	}
	return &models.StreakSummary{
		DailyStreak:      profile.DailyStreak,
		WeeklyStreak:     profile.WeeklyStreak,
		DailyMultiplier:  DailyMultiplier(profile.DailyStreak),
		WeeklyMultiplier: WeeklyMultiplier(profile.WeeklyStreak),
		DailyPoints:      DailyStreakPoints(profile.DailyStreak),
		WeeklyPoints:     WeeklyStreakPoints(profile.WeeklyStreak),
	}, nil
}

func (s *PointsService) currentAchievementPoints(ctx context.Context, userID string, now time.Time) (int, error) {
	selection, err := s.selections.GetOrCreateSelection(ctx, userID, now)
	if err != nil {
		return 0, err
	}

	bundle, err := s.metrics.Snapshot(ctx, userID)
	if err != nil {
		s.logger.Warn("metrics snapshot unavailable, achievement points degraded",
			zap.String("user_id", userID), zap.Error(err))
		bundle = &models.MetricsBundle{UserID: userID}
	}

	defs := make(map[string]models.AchievementDefinition, 3)
	records := make([]models.ProgressRecord, 0, 3)
	for _, tier := range models.Difficulties {
		def := selection.Tier(tier)
		if def == nil {
			continue
		}
		defs[def.ID] = *def
		records = append(records, s.evaluator.Evaluate(*def, bundle))
	}
	return s.TotalAchievementPoints(records, defs), nil
}

// Streak multiplier curves. Steps are coarse and capped so long streaks stay
// rewarding without running away.

// DailyMultiplier grows 0.2x per full week of daily streak, capped at 4x.
func DailyMultiplier(streak int) float64 {
	if streak < 0 {
		streak = 0
	}
	return math.Min(1+math.Floor(float64(streak)/7)*0.2, 4.0)
}

// WeeklyMultiplier grows 0.3x per four weeks of weekly streak, capped at 3x.
func WeeklyMultiplier(streak int) float64 {
	if streak < 0 {
		streak = 0
	}
	return math.Min(1+math.Floor(float64(streak)/4)*0.3, 3.0)
}

// DailyStreakPoints converts a daily streak into points plus milestone bonus.
func DailyStreakPoints(streak int) int {
	base := int(math.Min(math.Floor(5*DailyMultiplier(streak)), 50))
	return base + MilestoneBonus(streak)
}

// WeeklyStreakPoints converts a weekly streak into points plus milestone bonus.
func WeeklyStreakPoints(streak int) int {
	base := int(math.Min(math.Floor(100*WeeklyMultiplier(streak)), 500))
	return base + MilestoneBonus(streak)
}

// MilestoneBonus pays a one-off bonus when the streak lands exactly on a
// milestone.
func MilestoneBonus(streak int) int {
	switch streak {
	case 7:
		return 25
	case 14:
		return 50
	case 30:
		return 100
	case 50:
		return 150
	case 100:
		return 300
	}
	return 0
}

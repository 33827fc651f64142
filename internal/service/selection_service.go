package service

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studyquest/gamification-api/internal/models"
	appErrors "github.com/studyquest/gamification-api/pkg/errors"
)

type selectionRepo interface {
	FindByUserAndWeek(ctx context.Context, userID string, weekStart time.Time) (*models.SelectionRow, error)
	InsertIfAbsent(ctx context.Context, row *models.SelectionRow) (*models.SelectionRow, error)
	Replace(ctx context.Context, row *models.SelectionRow) error
}

type usageRepo interface {
	Fetch(ctx context.Context, userID string) (models.UsageHistory, error)
	Append(ctx context.Context, userID string, tier models.Difficulty, achievementID string) error
	ClearTier(ctx context.Context, userID string, tier models.Difficulty) error
}

type selectionCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type drawMetrics interface {
	SelectionDrawn(tier string, forced bool)
	PoolReset(tier string)
	ObserveCacheLookup(hit bool)
}

// Chooser picks an index in [0, n) for a draw. The seed identifies the
// logical draw so retries of the same draw land on the same index.
type Chooser func(seed uint64, n int) int

// SeededChooser is the production chooser: a PRNG keyed by the draw seed.
func SeededChooser(seed uint64, n int) int {
	if n <= 1 {
		return 0
	}
	return rand.New(rand.NewSource(int64(seed))).Intn(n)
}

// SelectionService draws one achievement per difficulty tier per calendar
// week, never repeating within a tier until its pool is exhausted.
type SelectionService struct {
	selections selectionRepo
	usage      usageRepo
	catalog    *CatalogService
	cache      selectionCache
	cacheTTL   time.Duration
	chooser    Chooser
	metrics    drawMetrics
	logger     *zap.Logger
}

// NewSelectionService constructs the selector. cache and metrics may be nil.
func NewSelectionService(selections selectionRepo, usage usageRepo, catalog *CatalogService, cache selectionCache, cacheTTL time.Duration, chooser Chooser, metrics drawMetrics, logger *zap.Logger) *SelectionService {
	if chooser == nil {
		chooser = SeededChooser
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelectionService{
		selections: selections,
		usage:      usage,
		catalog:    catalog,
		cache:      cache,
		cacheTTL:   cacheTTL,
		chooser:    chooser,
		metrics:    metrics,
		logger:     logger,
	}
}

// tierDraw captures one tier's pending pick so usage mutations can be
// committed only after the selection row wins the persistence race.
type tierDraw struct {
	tier   models.Difficulty
	pickID string
	reset  bool
}

// GetOrCreateSelection returns the selection for the week containing now,
// drawing and persisting a fresh one only when none exists. Re-entry within
// the same week returns the stored selection untouched, including when two
// concurrent callers race: the insert is conditional on (user, week) and the
// loser adopts the winner's row without committing its own usage mutations.
func (s *SelectionService) GetOrCreateSelection(ctx context.Context, userID string, now time.Time) (*models.WeeklySelection, error) {
	selection, _, err := s.GetOrCreateSelectionDetailed(ctx, userID, now)
	return selection, err
}

// GetOrCreateSelectionDetailed additionally reports whether the selection was
// served from cache.
func (s *SelectionService) GetOrCreateSelectionDetailed(ctx context.Context, userID string, now time.Time) (*models.WeeklySelection, bool, error) {
	weekStart := CurrentWeekStart(now)

	if cached := s.readCache(ctx, userID, weekStart); cached != nil {
		return cached, true, nil
	}

	row, err := s.selections.FindByUserAndWeek(ctx, userID, weekStart)
	if err != nil && err != sql.ErrNoRows {
		return nil, false, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to read weekly selection")
	}
	if row != nil {
		selection := s.resolve(row)
		s.writeCache(ctx, selection)
		return selection, false, nil
	}

	candidate, draws, err := s.draw(ctx, userID, weekStart)
	if err != nil {
		return nil, false, err
	}

	winner, err := s.selections.InsertIfAbsent(ctx, candidate)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to persist weekly selection")
	}
	if winner.ID == candidate.ID {
		if err := s.commitUsage(ctx, userID, draws, false); err != nil {
			return nil, false, err
		}
	} else {
		s.logger.Debug("concurrent draw lost, adopting winner",
			zap.String("user_id", userID), zap.Time("week_start", weekStart))
	}

	selection := s.resolve(winner)
	s.writeCache(ctx, selection)
	return selection, false, nil
}

// ForceRefreshSelection rerolls the current week, overwriting any existing
// selection. Usage history is consumed exactly as on a fresh draw, including
// tier resets on exhaustion.
func (s *SelectionService) ForceRefreshSelection(ctx context.Context, userID string, now time.Time) (*models.WeeklySelection, error) {
	weekStart := CurrentWeekStart(now)

	candidate, draws, err := s.draw(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}
	if err := s.selections.Replace(ctx, candidate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to replace weekly selection")
	}
	if err := s.commitUsage(ctx, userID, draws, true); err != nil {
		return nil, err
	}

	selection := s.resolve(candidate)
	s.writeCache(ctx, selection)
	return selection, nil
}

// AvailableCounts reports how many achievements remain drawable per tier.
// An exhausted tier counts as its full pool size since the next draw resets.
func (s *SelectionService) AvailableCounts(ctx context.Context, userID string) (*models.TierAvailability, error) {
	history, err := s.usage.Fetch(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to read usage history")
	}

	counts := &models.TierAvailability{}
	for _, tier := range models.Difficulties {
		pool := s.catalog.TierSize(tier)
		remaining := pool - len(history[tier])
		if remaining <= 0 && pool > 0 {
			remaining = pool
		}
		if remaining < 0 {
			remaining = 0
		}
		switch tier {
		case models.DifficultyEasy:
			counts.Easy = remaining
		case models.DifficultyMedium:
			counts.Medium = remaining
		case models.DifficultyHard:
			counts.Hard = remaining
		}
		counts.Total += remaining
	}
	return counts, nil
}

// UsageStats summarises ledger consumption across tiers.
func (s *SelectionService) UsageStats(ctx context.Context, userID string) (*models.UsageStats, error) {
	history, err := s.usage.Fetch(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to read usage history")
	}

	stats := &models.UsageStats{TotalAvailable: len(s.catalog.All())}
	for _, tier := range models.Difficulties {
		used := len(history[tier])
		pool := s.catalog.TierSize(tier)
		if used > pool {
			used = pool
		}
		stats.TotalUsed += used
		if pool > 0 && used >= pool {
			stats.NeedsReset = true
		}
	}
	if stats.TotalAvailable > 0 {
		stats.UsagePercentage = float64(stats.TotalUsed) / float64(stats.TotalAvailable) * 100
	}
	return stats, nil
}

// draw picks one unused achievement per tier without mutating anything.
func (s *SelectionService) draw(ctx context.Context, userID string, weekStart time.Time) (*models.SelectionRow, []tierDraw, error) {
	history, err := s.usage.Fetch(ctx, userID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to read usage history")
	}

	row := &models.SelectionRow{
		ID:        uuid.NewString(),
		UserID:    userID,
		WeekStart: weekStart,
		WeekEnd:   WeekEnd(weekStart),
		CreatedAt: time.Now().UTC(),
	}

	var draws []tierDraw
	for _, tier := range models.Difficulties {
		pool := s.catalog.ByDifficulty(tier)
		if len(pool) == 0 {
			s.logger.Warn("tier pool empty, selection degraded",
				zap.String("user_id", userID), zap.String("tier", string(tier)))
			continue
		}

		available := make([]models.AchievementDefinition, 0, len(pool))
		for _, def := range pool {
			if !history.Contains(tier, def.ID) {
				available = append(available, def)
			}
		}

		reset := false
		if len(available) == 0 {
			// Pool exhausted: clear the ledger and draw from the full pool,
			// so the final pick of the previous cycle is immediately
			// redrawable.
			reset = true
			available = pool
		}

		pick := available[s.chooser(drawSeed(userID, weekStart, tier), len(available))]
		draws = append(draws, tierDraw{tier: tier, pickID: pick.ID, reset: reset})

		id := pick.ID
		switch tier {
		case models.DifficultyEasy:
			row.EasyID = &id
		case models.DifficultyMedium:
			row.MediumID = &id
		case models.DifficultyHard:
			row.HardID = &id
		}
	}

	if len(draws) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrCatalogEmpty, "no tier could be drawn")
	}
	return row, draws, nil
}

func (s *SelectionService) commitUsage(ctx context.Context, userID string, draws []tierDraw, forced bool) error {
	for _, d := range draws {
		if d.reset {
			if err := s.usage.ClearTier(ctx, userID, d.tier); err != nil {
				return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to reset usage history")
			}
			if s.metrics != nil {
				s.metrics.PoolReset(string(d.tier))
			}
		}
		if err := s.usage.Append(ctx, userID, d.tier, d.pickID); err != nil {
			return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to record usage history")
		}
		if s.metrics != nil {
			s.metrics.SelectionDrawn(string(d.tier), forced)
		}
	}
	return nil
}

func (s *SelectionService) resolve(row *models.SelectionRow) *models.WeeklySelection {
	selection := &models.WeeklySelection{
		ID:        row.ID,
		UserID:    row.UserID,
		WeekStart: row.WeekStart,
		WeekEnd:   row.WeekEnd,
		CreatedAt: row.CreatedAt,
	}
	selection.Easy = s.resolveID(row.EasyID)
	selection.Medium = s.resolveID(row.MediumID)
	selection.Hard = s.resolveID(row.HardID)
	return selection
}

func (s *SelectionService) resolveID(id *string) *models.AchievementDefinition {
	if id == nil {
		return nil
	}
	def, ok := s.catalog.ByID(*id)
	if !ok {
		s.logger.Warn("selection references unknown achievement", zap.String("achievement_id", *id))
		return nil
	}
	return &def
}

func (s *SelectionService) readCache(ctx context.Context, userID string, weekStart time.Time) *models.WeeklySelection {
	if s.cache == nil {
		return nil
	}
	var selection models.WeeklySelection
	err := s.cache.Get(ctx, selectionCacheKey(userID, weekStart), &selection)
	if s.metrics != nil {
		s.metrics.ObserveCacheLookup(err == nil)
	}
	if err != nil {
		return nil
	}
	return &selection
}

func (s *SelectionService) writeCache(ctx context.Context, selection *models.WeeklySelection) {
	if s.cache == nil {
		return
	}
	key := selectionCacheKey(selection.UserID, selection.WeekStart)
	if err := s.cache.Set(ctx, key, selection, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache weekly selection", zap.String("key", key), zap.Error(err))
	}
}

func selectionCacheKey(userID string, weekStart time.Time) string {
	return fmt.Sprintf("gamification:selection:%s:%s", userID, weekStart.Format("2006-01-02"))
}

func drawSeed(userID string, weekStart time.Time, tier models.Difficulty) uint64 {
	h := fnv.New64a()
	h.Write([]byte(userID))
	h.Write([]byte(weekStart.Format("2006-01-02")))
	h.Write([]byte(tier))
	return h.Sum64()
}

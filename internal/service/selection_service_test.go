package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studyquest/gamification-api/internal/models"
	appErrors "github.com/studyquest/gamification-api/pkg/errors"
)

type mockSelectionStore struct {
	rows           map[string]*models.SelectionRow
	winnerOverride *models.SelectionRow
	findCalls      int
	replaceCalls   int
}

func selKey(userID string, weekStart time.Time) string {
	return fmt.Sprintf("%s:%s", userID, weekStart.Format("2006-01-02"))
}

func (m *mockSelectionStore) FindByUserAndWeek(ctx context.Context, userID string, weekStart time.Time) (*models.SelectionRow, error) {
	m.findCalls++
	if row, ok := m.rows[selKey(userID, weekStart)]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSelectionStore) InsertIfAbsent(ctx context.Context, row *models.SelectionRow) (*models.SelectionRow, error) {
	if m.winnerOverride != nil {
		cp := *m.winnerOverride
		return &cp, nil
	}
	if m.rows == nil {
		m.rows = make(map[string]*models.SelectionRow)
	}
	key := selKey(row.UserID, row.WeekStart)
	if existing, ok := m.rows[key]; ok {
		cp := *existing
		return &cp, nil
	}
	cp := *row
	m.rows[key] = &cp
	out := cp
	return &out, nil
}

func (m *mockSelectionStore) Replace(ctx context.Context, row *models.SelectionRow) error {
	m.replaceCalls++
	if m.rows == nil {
		m.rows = make(map[string]*models.SelectionRow)
	}
	cp := *row
	m.rows[selKey(row.UserID, row.WeekStart)] = &cp
	return nil
}

type mockUsageStore struct {
	history models.UsageHistory
	appends []string
	cleared []models.Difficulty
}

func (m *mockUsageStore) Fetch(ctx context.Context, userID string) (models.UsageHistory, error) {
	if m.history == nil {
		m.history = make(models.UsageHistory)
	}
	return m.history, nil
}

func (m *mockUsageStore) Append(ctx context.Context, userID string, tier models.Difficulty, achievementID string) error {
	if m.history == nil {
		m.history = make(models.UsageHistory)
	}
	m.history[tier] = append(m.history[tier], achievementID)
	m.appends = append(m.appends, fmt.Sprintf("%s:%s", tier, achievementID))
	return nil
}

func (m *mockUsageStore) ClearTier(ctx context.Context, userID string, tier models.Difficulty) error {
	delete(m.history, tier)
	m.cleared = append(m.cleared, tier)
	return nil
}

type mockSelectionCache struct {
	entries map[string][]byte
	sets    int
}

func (m *mockSelectionCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockSelectionCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	m.sets++
	return nil
}

func firstChooser(seed uint64, n int) int { return 0 }

func testCatalog(t *testing.T, defs []models.AchievementDefinition) *CatalogService {
	t.Helper()
	catalog, err := NewCatalogService(defs, zap.NewNop())
	require.NoError(t, err)
	return catalog
}

func fullTierDefs() []models.AchievementDefinition {
	return []models.AchievementDefinition{
		{ID: "e1", Difficulty: models.DifficultyEasy, Points: 30},
		{ID: "e2", Difficulty: models.DifficultyEasy, Points: 30},
		{ID: "m1", Difficulty: models.DifficultyMedium, Points: 50},
		{ID: "h1", Difficulty: models.DifficultyHard, Points: 100},
	}
}

var wednesday = time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)

func TestSelectionServiceDrawAndIdempotentReentry(t *testing.T) {
	store := &mockSelectionStore{}
	usage := &mockUsageStore{}
	svc := NewSelectionService(store, usage, testCatalog(t, fullTierDefs()), nil, 0, firstChooser, nil, zap.NewNop())

	first, err := svc.GetOrCreateSelection(context.Background(), "u1", wednesday)
	require.NoError(t, err)
	require.NotNil(t, first.Easy)
	assert.Equal(t, "e1", first.Easy.ID)
	assert.Equal(t, "m1", first.Medium.ID)
	assert.Equal(t, "h1", first.Hard.ID)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), first.WeekStart)
	assert.Len(t, usage.appends, 3)

	// Re-entry within the same week returns the stored draw untouched.
	second, err := svc.GetOrCreateSelection(context.Background(), "u1", wednesday.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "e1", second.Easy.ID)
	assert.Len(t, usage.appends, 3)
}

func TestSelectionServiceSkipsUsedAchievements(t *testing.T) {
	store := &mockSelectionStore{}
	usage := &mockUsageStore{history: models.UsageHistory{
		models.DifficultyEasy: {"e1"},
	}}
	svc := NewSelectionService(store, usage, testCatalog(t, fullTierDefs()), nil, 0, firstChooser, nil, zap.NewNop())

	selection, err := svc.GetOrCreateSelection(context.Background(), "u1", wednesday)
	require.NoError(t, err)
	assert.Equal(t, "e2", selection.Easy.ID)
	assert.Empty(t, usage.cleared)
}

func TestSelectionServiceResetsExhaustedTier(t *testing.T) {
	store := &mockSelectionStore{}
	usage := &mockUsageStore{history: models.UsageHistory{
		models.DifficultyEasy: {"e1", "e2"},
	}}
	svc := NewSelectionService(store, usage, testCatalog(t, fullTierDefs()), nil, 0, firstChooser, nil, zap.NewNop())

	selection, err := svc.GetOrCreateSelection(context.Background(), "u1", wednesday)
	require.NoError(t, err)

	// Exhaustion clears the ledger and draws from the full pool again, so
	// even the final pick of the previous cycle is a valid redraw.
	assert.Equal(t, []models.Difficulty{models.DifficultyEasy}, usage.cleared)
	assert.Equal(t, "e1", selection.Easy.ID)
	assert.Equal(t, []string{"e1"}, usage.history[models.DifficultyEasy])
}

func TestSelectionServiceForceRefresh(t *testing.T) {
	store := &mockSelectionStore{}
	usage := &mockUsageStore{}
	svc := NewSelectionService(store, usage, testCatalog(t, fullTierDefs()), nil, 0, firstChooser, nil, zap.NewNop())

	first, err := svc.GetOrCreateSelection(context.Background(), "u1", wednesday)
	require.NoError(t, err)
	assert.Equal(t, "e1", first.Easy.ID)

	refreshed, err := svc.ForceRefreshSelection(context.Background(), "u1", wednesday)
	require.NoError(t, err)
	assert.Equal(t, 1, store.replaceCalls)
	assert.NotEqual(t, first.ID, refreshed.ID)
	assert.Equal(t, "e2", refreshed.Easy.ID, "refresh must not repeat the consumed pick")
}

func TestSelectionServiceConcurrentLoserAdoptsWinner(t *testing.T) {
	winnerEasy := "e2"
	winner := &models.SelectionRow{
		ID:        "winner-row",
		UserID:    "u1",
		WeekStart: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		EasyID:    &winnerEasy,
	}
	store := &mockSelectionStore{winnerOverride: winner}
	usage := &mockUsageStore{}
	svc := NewSelectionService(store, usage, testCatalog(t, fullTierDefs()), nil, 0, firstChooser, nil, zap.NewNop())

	selection, err := svc.GetOrCreateSelection(context.Background(), "u1", wednesday)
	require.NoError(t, err)

	// The losing draw adopts the winner's row and commits no usage of its own.
	assert.Equal(t, "winner-row", selection.ID)
	assert.Equal(t, "e2", selection.Easy.ID)
	assert.Empty(t, usage.appends)
	assert.Empty(t, usage.cleared)
}

func TestSelectionServiceDegradedTier(t *testing.T) {
	defs := []models.AchievementDefinition{
		{ID: "e1", Difficulty: models.DifficultyEasy, Points: 30},
		{ID: "m1", Difficulty: models.DifficultyMedium, Points: 50},
	}
	store := &mockSelectionStore{}
	usage := &mockUsageStore{}
	svc := NewSelectionService(store, usage, testCatalog(t, defs), nil, 0, firstChooser, nil, zap.NewNop())

	selection, err := svc.GetOrCreateSelection(context.Background(), "u1", wednesday)
	require.NoError(t, err)
	assert.NotNil(t, selection.Easy)
	assert.NotNil(t, selection.Medium)
	assert.Nil(t, selection.Hard)
	assert.Len(t, usage.appends, 2)
}

func TestSelectionServiceCacheRoundTrip(t *testing.T) {
	store := &mockSelectionStore{}
	usage := &mockUsageStore{}
	cache := &mockSelectionCache{}
	svc := NewSelectionService(store, usage, testCatalog(t, fullTierDefs()), cache, time.Minute, firstChooser, nil, zap.NewNop())

	_, fromCache, err := svc.GetOrCreateSelectionDetailed(context.Background(), "u1", wednesday)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, 1, cache.sets)

	selection, fromCache, err := svc.GetOrCreateSelectionDetailed(context.Background(), "u1", wednesday)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, "e1", selection.Easy.ID)
	assert.Equal(t, 1, store.findCalls, "cache hit must not touch the database")
}

func TestSelectionServiceAvailableCounts(t *testing.T) {
	usage := &mockUsageStore{history: models.UsageHistory{
		models.DifficultyEasy:   {"e1"},
		models.DifficultyMedium: {"m1"},
	}}
	svc := NewSelectionService(&mockSelectionStore{}, usage, testCatalog(t, fullTierDefs()), nil, 0, firstChooser, nil, zap.NewNop())

	counts, err := svc.AvailableCounts(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Easy)
	// An exhausted tier reports its full pool size since the next draw resets.
	assert.Equal(t, 1, counts.Medium)
	assert.Equal(t, 1, counts.Hard)
	assert.Equal(t, 3, counts.Total)
}

func TestSelectionServiceUsageStats(t *testing.T) {
	usage := &mockUsageStore{history: models.UsageHistory{
		models.DifficultyEasy:   {"e1", "e2"},
		models.DifficultyMedium: {"m1"},
	}}
	svc := NewSelectionService(&mockSelectionStore{}, usage, testCatalog(t, fullTierDefs()), nil, 0, firstChooser, nil, zap.NewNop())

	stats, err := svc.UsageStats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalUsed)
	assert.Equal(t, 4, stats.TotalAvailable)
	assert.InDelta(t, 75.0, stats.UsagePercentage, 0.001)
	assert.True(t, stats.NeedsReset)
}

func TestSelectionServiceEmptyCatalogDraw(t *testing.T) {
	defs := []models.AchievementDefinition{{ID: "e1", Difficulty: "unknown-tier"}}
	svc := NewSelectionService(&mockSelectionStore{}, &mockUsageStore{}, testCatalog(t, defs), nil, 0, firstChooser, nil, zap.NewNop())

	_, err := svc.GetOrCreateSelection(context.Background(), "u1", wednesday)
	require.Error(t, err)
}

func TestSeededChooserDeterministic(t *testing.T) {
	seed := drawSeed("u1", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), models.DifficultyEasy)
	first := SeededChooser(seed, 10)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, SeededChooser(seed, 10))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 10)
	assert.Equal(t, 0, SeededChooser(seed, 1))
	assert.Equal(t, 0, SeededChooser(seed, 0))
}

package models

import "time"

// WeeklySelection is the per-user, per-week draw of one achievement per tier.
// A tier pointer is nil only when its catalog pool is empty (degraded draw).
type WeeklySelection struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	WeekStart time.Time              `json:"week_start"`
	WeekEnd   time.Time              `json:"week_end"`
	Easy      *AchievementDefinition `json:"easy,omitempty"`
	Medium    *AchievementDefinition `json:"medium,omitempty"`
	Hard      *AchievementDefinition `json:"hard,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Tier returns the definition selected for the given difficulty.
func (s *WeeklySelection) Tier(d Difficulty) *AchievementDefinition {
	switch d {
	case DifficultyEasy:
		return s.Easy
	case DifficultyMedium:
		return s.Medium
	case DifficultyHard:
		return s.Hard
	}
	return nil
}

// SelectionRow is the persisted shape of a weekly selection. Tier columns
// store achievement ids and are resolved against the catalog on read.
type SelectionRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	WeekStart time.Time `db:"week_start"`
	WeekEnd   time.Time `db:"week_end"`
	EasyID    *string   `db:"easy_id"`
	MediumID  *string   `db:"medium_id"`
	HardID    *string   `db:"hard_id"`
	CreatedAt time.Time `db:"created_at"`
}

// UsageHistory is the per-tier ledger of previously drawn achievement ids,
// in selection order.
type UsageHistory map[Difficulty][]string

// Contains reports whether the tier ledger already holds the given id.
func (h UsageHistory) Contains(tier Difficulty, id string) bool {
	for _, used := range h[tier] {
		if used == id {
			return true
		}
	}
	return false
}

// TierAvailability counts achievements still drawable per tier.
type TierAvailability struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
	Total  int `json:"total"`
}

// UsageStats summarises ledger consumption across all tiers.
type UsageStats struct {
	TotalUsed       int     `json:"total_used"`
	TotalAvailable  int     `json:"total_available"`
	UsagePercentage float64 `json:"usage_percentage"`
	NeedsReset      bool    `json:"needs_reset"`
}

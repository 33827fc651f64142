package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/studyquest/gamification-api/internal/models"
)

// UsageRepository persists the per-tier ledger of previously drawn
// achievement ids, ordered by selection time.
type UsageRepository struct {
	db *sqlx.DB
}

// NewUsageRepository creates a new usage repository.
func NewUsageRepository(db *sqlx.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Fetch returns the full ledger for a user keyed by tier.
func (r *UsageRepository) Fetch(ctx context.Context, userID string) (models.UsageHistory, error) {
	const query = `SELECT tier, achievement_id FROM selection_usage
        WHERE user_id = $1
        ORDER BY selected_at ASC`
	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch usage history: %w", err)
	}
	defer rows.Close()

	history := make(models.UsageHistory)
	for rows.Next() {
		var tier, achievementID string
		if err := rows.Scan(&tier, &achievementID); err != nil {
			return nil, fmt.Errorf("scan usage row: %w", err)
		}
		history[models.Difficulty(tier)] = append(history[models.Difficulty(tier)], achievementID)
	}
	return history, rows.Err()
}

// Append records one draw in the tier ledger.
func (r *UsageRepository) Append(ctx context.Context, userID string, tier models.Difficulty, achievementID string) error {
	const query = `INSERT INTO selection_usage (user_id, tier, achievement_id, selected_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id, tier, achievement_id) DO UPDATE SET selected_at = EXCLUDED.selected_at`
	if _, err := r.db.ExecContext(ctx, query, userID, string(tier), achievementID, time.Now().UTC()); err != nil {
		return fmt.Errorf("append usage history: %w", err)
	}
	return nil
}

// ClearTier empties one tier's ledger (pool reset).
func (r *UsageRepository) ClearTier(ctx context.Context, userID string, tier models.Difficulty) error {
	const query = `DELETE FROM selection_usage WHERE user_id = $1 AND tier = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, string(tier)); err != nil {
		return fmt.Errorf("clear usage tier: %w", err)
	}
	return nil
}

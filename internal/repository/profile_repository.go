package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/studyquest/gamification-api/internal/models"
)

// ProfileRepository persists the signed wager ledger and streak counters.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Find returns the profile row or sql.ErrNoRows.
func (r *ProfileRepository) Find(ctx context.Context, userID string) (*models.UserProfile, error) {
	const query = `SELECT user_id, ledger_points, daily_streak, weekly_streak, updated_at
        FROM user_profiles WHERE user_id = $1`
	var profile models.UserProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// LedgerPoints returns the signed ledger balance, or sql.ErrNoRows for users
// without a profile row yet.
func (r *ProfileRepository) LedgerPoints(ctx context.Context, userID string) (int, error) {
	const query = `SELECT ledger_points FROM user_profiles WHERE user_id = $1`
	var points int
	if err := r.db.GetContext(ctx, &points, query, userID); err != nil {
		return 0, err
	}
	return points, nil
}

// AdjustLedger atomically adds delta to the ledger, creating the profile row
// on first touch. The ledger may go negative; the aggregate balance is
// clamped on read, not here.
func (r *ProfileRepository) AdjustLedger(ctx context.Context, userID string, delta int) error {
	const query = `INSERT INTO user_profiles (user_id, ledger_points, daily_streak, weekly_streak, updated_at)
        VALUES ($1, $2, 0, 0, $3)
        ON CONFLICT (user_id)
        DO UPDATE SET ledger_points = user_profiles.ledger_points + EXCLUDED.ledger_points, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, userID, delta, time.Now().UTC()); err != nil {
		return fmt.Errorf("adjust profile ledger: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studyquest/gamification-api/internal/models"
)

// SelectionRepository persists weekly selection rows. The (user_id,
// week_start) unique constraint is the idempotency key for weekly draws.
type SelectionRepository struct {
	db *sqlx.DB
}

// NewSelectionRepository creates a new selection repository.
func NewSelectionRepository(db *sqlx.DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

// FindByUserAndWeek returns the stored selection or sql.ErrNoRows.
func (r *SelectionRepository) FindByUserAndWeek(ctx context.Context, userID string, weekStart time.Time) (*models.SelectionRow, error) {
	const query = `SELECT id, user_id, week_start, week_end, easy_id, medium_id, hard_id, created_at
        FROM weekly_selections
        WHERE user_id = $1 AND week_start = $2`
	var row models.SelectionRow
	if err := r.db.GetContext(ctx, &row, query, userID, weekStart); err != nil {
		return nil, err
	}
	return &row, nil
}

// InsertIfAbsent writes the candidate row unless one already exists for the
// same (user, week), then returns whichever row won. Two concurrent callers
// therefore converge on a single selection.
func (r *SelectionRepository) InsertIfAbsent(ctx context.Context, row *models.SelectionRow) (*models.SelectionRow, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	const insert = `INSERT INTO weekly_selections (id, user_id, week_start, week_end, easy_id, medium_id, hard_id, created_at)
        VALUES (:id, :user_id, :week_start, :week_end, :easy_id, :medium_id, :hard_id, :created_at)
        ON CONFLICT (user_id, week_start) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, insert, row); err != nil {
		return nil, fmt.Errorf("insert weekly selection: %w", err)
	}

	winner, err := r.FindByUserAndWeek(ctx, row.UserID, row.WeekStart)
	if err != nil {
		return nil, fmt.Errorf("read winning selection: %w", err)
	}
	return winner, nil
}

// Replace overwrites the selection for (user, week), used by force refresh.
func (r *SelectionRepository) Replace(ctx context.Context, row *models.SelectionRow) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO weekly_selections (id, user_id, week_start, week_end, easy_id, medium_id, hard_id, created_at)
        VALUES (:id, :user_id, :week_start, :week_end, :easy_id, :medium_id, :hard_id, :created_at)
        ON CONFLICT (user_id, week_start)
        DO UPDATE SET id = EXCLUDED.id, easy_id = EXCLUDED.easy_id, medium_id = EXCLUDED.medium_id,
            hard_id = EXCLUDED.hard_id, created_at = EXCLUDED.created_at`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("replace weekly selection: %w", err)
	}
	return nil
}

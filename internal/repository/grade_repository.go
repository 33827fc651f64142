package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/studyquest/gamification-api/internal/models"
)

// GradeRepository reads weekly grade snapshots synced from Canvas. Snapshots
// are derived data: this layer never writes them, the sync pipeline does.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository creates a new grade repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// WeeklySnapshots returns every stored week for a user in chronological order.
func (r *GradeRepository) WeeklySnapshots(ctx context.Context, userID string) ([]models.WeeklyGradeSnapshot, error) {
	const query = `SELECT user_id, week_start, average_grade, courses_count
        FROM weekly_grade_snapshots
        WHERE user_id = $1
        ORDER BY week_start ASC`
	var snapshots []models.WeeklyGradeSnapshot
	if err := r.db.SelectContext(ctx, &snapshots, query, userID); err != nil {
		return nil, fmt.Errorf("list weekly grade snapshots: %w", err)
	}
	return snapshots, nil
}

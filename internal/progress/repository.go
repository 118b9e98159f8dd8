// AngelaMos | 2026
// repository.go

package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/codeburry/api/internal/core"
)

// Repository mutates progress with single conditional statements so a
// balance can never go negative under concurrent requests.
type Repository interface {
	Get(ctx context.Context, userID string) (*Progress, error)
	CompleteLesson(ctx context.Context, userID string, reward int, day time.Time) (*Progress, error)
	Water(ctx context.Context, userID string, amount int) (*Progress, error)
	PlantTree(ctx context.Context, userID string) (*Progress, error)
	Rank(ctx context.Context, userID string) (int, error)
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const progressColumns = `user_id, water_drops, completed_lessons, current_streak,
		       last_lesson_on, total_trees, plant_growth, updated_at`

func (r *repository) ensure(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_progress (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		if isForeignKeyError(err) {
			return core.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *repository) Get(ctx context.Context, userID string) (*Progress, error) {
	if err := r.ensure(ctx, userID); err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	var p Progress
	err := r.db.GetContext(ctx, &p, `SELECT `+progressColumns+`
		FROM user_progress
		WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get progress: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	return &p, nil
}

func (r *repository) CompleteLesson(
	ctx context.Context,
	userID string,
	reward int,
	day time.Time,
) (*Progress, error) {
	if err := r.ensure(ctx, userID); err != nil {
		return nil, fmt.Errorf("complete lesson: %w", err)
	}

	query := `
		UPDATE user_progress
		SET water_drops = water_drops + $2,
		    completed_lessons = completed_lessons + 1,
		    current_streak = CASE
		        WHEN last_lesson_on = $3::date THEN GREATEST(current_streak, 1)
		        WHEN last_lesson_on = $3::date - 1 THEN current_streak + 1
		        ELSE 1
		    END,
		    last_lesson_on = $3::date,
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + progressColumns

	var p Progress
	err := r.db.GetContext(ctx, &p, query, userID, reward, day.Format(time.DateOnly))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("complete lesson: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("complete lesson: %w", err)
	}

	return &p, nil
}

func (r *repository) Water(
	ctx context.Context,
	userID string,
	amount int,
) (*Progress, error) {
	if err := r.ensure(ctx, userID); err != nil {
		return nil, fmt.Errorf("water plant: %w", err)
	}

	query := `
		UPDATE user_progress
		SET water_drops = water_drops - $2,
		    plant_growth = LEAST($3, plant_growth + $2 * $4),
		    updated_at = NOW()
		WHERE user_id = $1 AND water_drops >= $2
		RETURNING ` + progressColumns

	var p Progress
	err := r.db.GetContext(ctx, &p, query, userID, amount, MaxGrowth, GrowthPerDrop)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("water plant: %w", core.ErrInsufficientDrops)
	}
	if err != nil {
		return nil, fmt.Errorf("water plant: %w", err)
	}

	return &p, nil
}

func (r *repository) PlantTree(ctx context.Context, userID string) (*Progress, error) {
	if err := r.ensure(ctx, userID); err != nil {
		return nil, fmt.Errorf("plant tree: %w", err)
	}

	query := `
		UPDATE user_progress
		SET total_trees = total_trees + 1,
		    plant_growth = 0,
		    updated_at = NOW()
		WHERE user_id = $1 AND plant_growth >= $2
		RETURNING ` + progressColumns

	var p Progress
	err := r.db.GetContext(ctx, &p, query, userID, MaxGrowth)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plant tree: %w", core.ErrPlantNotReady)
	}
	if err != nil {
		return nil, fmt.Errorf("plant tree: %w", err)
	}

	return &p, nil
}

const rankedProgress = `
		SELECT p.user_id, u.name, u.avatar, p.water_drops, p.total_trees,
		       ROW_NUMBER() OVER (
		           ORDER BY p.water_drops DESC, p.total_trees DESC, u.created_at ASC
		       ) AS rank
		FROM user_progress p
		JOIN users u ON u.id = p.user_id`

func (r *repository) Rank(ctx context.Context, userID string) (int, error) {
	query := `SELECT rank FROM (` + rankedProgress + `) ranked WHERE user_id = $1`

	var rank int
	err := r.db.GetContext(ctx, &rank, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("rank: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("rank: %w", err)
	}

	return rank, nil
}

func (r *repository) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	query := `SELECT rank, user_id, name, avatar, water_drops, total_trees
		FROM (` + rankedProgress + `) ranked
		ORDER BY rank
		LIMIT $1`

	entries := []LeaderboardEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	return entries, nil
}

func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

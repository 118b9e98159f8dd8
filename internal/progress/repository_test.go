// AngelaMos | 2026
// repository_test.go

package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/codeburry/api/internal/core"
)

const testUserID = "0b6a3c47-7e0a-4f0e-9d43-00000000000a"

var progressRowColumns = []string{
	"user_id", "water_drops", "completed_lessons", "current_streak",
	"last_lesson_on", "total_trees", "plant_growth", "updated_at",
}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func expectEnsure(mock sqlmock.Sqlmock) {
	mock.ExpectExec("INSERT INTO user_progress .* ON CONFLICT \\(user_id\\) DO NOTHING").
		WithArgs(testUserID).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestRepositoryGetCreatesRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	expectEnsure(mock)
	mock.ExpectQuery("SELECT user_id, water_drops.* FROM user_progress").
		WithArgs(testUserID).
		WillReturnRows(sqlmock.NewRows(progressRowColumns).
			AddRow(testUserID, 0, 0, 0, nil, 0, 0, now))

	p, err := repo.Get(context.Background(), testUserID)
	require.NoError(t, err)
	require.Equal(t, testUserID, p.UserID)
	require.Nil(t, p.LastLessonOn)
}

func TestRepositoryGetUnknownUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO user_progress").
		WithArgs(testUserID).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.Get(context.Background(), testUserID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryGetPassesThroughOtherErrors(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("connection reset")

	mock.ExpectExec("INSERT INTO user_progress").
		WithArgs(testUserID).
		WillReturnError(boom)

	_, err := repo.Get(context.Background(), testUserID)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryCompleteLesson(t *testing.T) {
	repo, mock := newMockRepo(t)
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	expectEnsure(mock)
	mock.ExpectQuery("UPDATE user_progress .* current_streak = CASE .* RETURNING user_id").
		WithArgs(testUserID, 10, "2026-04-10").
		WillReturnRows(sqlmock.NewRows(progressRowColumns).
			AddRow(testUserID, 10, 1, 1, day, 0, 0, now))

	p, err := repo.CompleteLesson(context.Background(), testUserID, 10, day)
	require.NoError(t, err)
	require.Equal(t, 10, p.WaterDrops)
	require.Equal(t, 1, p.CurrentStreak)
	require.NotNil(t, p.LastLessonOn)
	require.True(t, day.Equal(*p.LastLessonOn))
}

func TestRepositoryWater(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	expectEnsure(mock)
	mock.ExpectQuery("UPDATE user_progress .* WHERE user_id = \\$1 AND water_drops >= \\$2").
		WithArgs(testUserID, 5, MaxGrowth, GrowthPerDrop).
		WillReturnRows(sqlmock.NewRows(progressRowColumns).
			AddRow(testUserID, 15, 3, 1, nil, 0, 10, now))

	p, err := repo.Water(context.Background(), testUserID, 5)
	require.NoError(t, err)
	require.Equal(t, 15, p.WaterDrops)
	require.Equal(t, 10, p.PlantGrowth)
}

func TestRepositoryWaterInsufficientDrops(t *testing.T) {
	repo, mock := newMockRepo(t)

	expectEnsure(mock)
	mock.ExpectQuery("UPDATE user_progress").
		WithArgs(testUserID, 50, MaxGrowth, GrowthPerDrop).
		WillReturnRows(sqlmock.NewRows(progressRowColumns))

	_, err := repo.Water(context.Background(), testUserID, 50)
	require.ErrorIs(t, err, core.ErrInsufficientDrops)
}

func TestRepositoryPlantTree(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	expectEnsure(mock)
	mock.ExpectQuery("UPDATE user_progress .* WHERE user_id = \\$1 AND plant_growth >= \\$2").
		WithArgs(testUserID, MaxGrowth).
		WillReturnRows(sqlmock.NewRows(progressRowColumns).
			AddRow(testUserID, 0, 10, 2, nil, 1, 0, now))

	p, err := repo.PlantTree(context.Background(), testUserID)
	require.NoError(t, err)
	require.Equal(t, 1, p.TotalTrees)
	require.Zero(t, p.PlantGrowth)
}

func TestRepositoryPlantTreeNotReady(t *testing.T) {
	repo, mock := newMockRepo(t)

	expectEnsure(mock)
	mock.ExpectQuery("UPDATE user_progress").
		WithArgs(testUserID, MaxGrowth).
		WillReturnRows(sqlmock.NewRows(progressRowColumns))

	_, err := repo.PlantTree(context.Background(), testUserID)
	require.ErrorIs(t, err, core.ErrPlantNotReady)
}

func TestRepositoryRank(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("ROW_NUMBER\\(\\) OVER .* WHERE user_id = \\$1").
		WithArgs(testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"rank"}).AddRow(3))

	rank, err := repo.Rank(context.Background(), testUserID)
	require.NoError(t, err)
	require.Equal(t, 3, rank)
}

func TestRepositoryRankMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("ROW_NUMBER").
		WithArgs(testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"rank"}))

	_, err := repo.Rank(context.Background(), testUserID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryTop(t *testing.T) {
	repo, mock := newMockRepo(t)
	avatar := "/a.png"

	mock.ExpectQuery("ORDER BY rank\\s+LIMIT \\$1").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{
			"rank", "user_id", "name", "avatar", "water_drops", "total_trees",
		}).
			AddRow(1, "u1", "Alice", avatar, 40, 2).
			AddRow(2, "u2", "Bob", nil, 40, 1))

	entries, err := repo.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "Alice", entries[0].Name)
	require.Equal(t, avatar, *entries[0].Avatar)
	require.Nil(t, entries[1].Avatar)
	require.Equal(t, 2, entries[1].Rank)
}

func TestRepositoryTopEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("LIMIT").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{
			"rank", "user_id", "name", "avatar", "water_drops", "total_trees",
		}))

	entries, err := repo.Top(context.Background(), 10)
	require.NoError(t, err)
	require.NotNil(t, entries)
	require.Empty(t, entries)
}

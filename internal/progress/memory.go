// AngelaMos | 2026
// memory.go

package progress

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/codeburry/api/internal/auth"
	"github.com/codeburry/api/internal/core"
)

// Directory resolves the account a progress row belongs to.
type Directory interface {
	GetByID(ctx context.Context, id string) (*auth.UserInfo, error)
}

type memoryRepository struct {
	mu    sync.Mutex
	rows  map[string]*Progress
	users Directory
	now   func() time.Time
}

func NewMemoryRepository(users Directory) Repository {
	return &memoryRepository{
		rows:  make(map[string]*Progress),
		users: users,
		now:   time.Now,
	}
}

// rowLocked returns the user's row, creating it when the account exists.
func (r *memoryRepository) rowLocked(ctx context.Context, userID string) (*Progress, error) {
	if p, ok := r.rows[userID]; ok {
		return p, nil
	}
	if _, err := r.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	p := &Progress{UserID: userID, UpdatedAt: r.now().UTC()}
	r.rows[userID] = p
	return p, nil
}

func (r *memoryRepository) Get(ctx context.Context, userID string) (*Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.rowLocked(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	out := *p
	return &out, nil
}

func (r *memoryRepository) CompleteLesson(
	ctx context.Context,
	userID string,
	reward int,
	day time.Time,
) (*Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.rowLocked(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("complete lesson: %w", err)
	}

	day = truncateDay(day)
	p.WaterDrops += reward
	p.CompletedLessons++
	p.CurrentStreak = nextStreak(p.CurrentStreak, p.LastLessonOn, day)
	p.LastLessonOn = &day
	p.UpdatedAt = r.now().UTC()

	out := *p
	return &out, nil
}

func (r *memoryRepository) Water(ctx context.Context, userID string, amount int) (*Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.rowLocked(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("water plant: %w", err)
	}
	if p.WaterDrops < amount {
		return nil, fmt.Errorf("water plant: %w", core.ErrInsufficientDrops)
	}

	p.WaterDrops -= amount
	p.PlantGrowth = min(MaxGrowth, p.PlantGrowth+amount*GrowthPerDrop)
	p.UpdatedAt = r.now().UTC()

	out := *p
	return &out, nil
}

func (r *memoryRepository) PlantTree(ctx context.Context, userID string) (*Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.rowLocked(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("plant tree: %w", err)
	}
	if p.PlantGrowth < MaxGrowth {
		return nil, fmt.Errorf("plant tree: %w", core.ErrPlantNotReady)
	}

	p.TotalTrees++
	p.PlantGrowth = 0
	p.UpdatedAt = r.now().UTC()

	out := *p
	return &out, nil
}

func (r *memoryRepository) Rank(ctx context.Context, userID string) (int, error) {
	entries, err := r.ranked(ctx)
	if err != nil {
		return 0, fmt.Errorf("rank: %w", err)
	}
	for _, e := range entries {
		if e.UserID == userID {
			return e.Rank, nil
		}
	}
	return 0, fmt.Errorf("rank: %w", core.ErrNotFound)
}

func (r *memoryRepository) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	entries, err := r.ranked(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

type rankedRow struct {
	entry     LeaderboardEntry
	createdAt time.Time
}

func (r *memoryRepository) ranked(ctx context.Context) ([]LeaderboardEntry, error) {
	r.mu.Lock()
	snapshot := make([]Progress, 0, len(r.rows))
	for _, p := range r.rows {
		snapshot = append(snapshot, *p)
	}
	r.mu.Unlock()

	rows := make([]rankedRow, 0, len(snapshot))
	for _, p := range snapshot {
		u, err := r.users.GetByID(ctx, p.UserID)
		if err != nil {
			continue
		}
		e := LeaderboardEntry{
			UserID:     p.UserID,
			Name:       u.Name,
			WaterDrops: p.WaterDrops,
			TotalTrees: p.TotalTrees,
		}
		if u.Avatar != "" {
			avatar := u.Avatar
			e.Avatar = &avatar
		}
		rows = append(rows, rankedRow{entry: e, createdAt: u.CreatedAt})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.entry.WaterDrops != b.entry.WaterDrops {
			return a.entry.WaterDrops > b.entry.WaterDrops
		}
		if a.entry.TotalTrees != b.entry.TotalTrees {
			return a.entry.TotalTrees > b.entry.TotalTrees
		}
		if !a.createdAt.Equal(b.createdAt) {
			return a.createdAt.Before(b.createdAt)
		}
		return a.entry.UserID < b.entry.UserID
	})

	out := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		row.entry.Rank = i + 1
		out = append(out, row.entry)
	}
	return out, nil
}

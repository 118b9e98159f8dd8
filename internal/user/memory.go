// AngelaMos | 2026
// memory.go

package user

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/codeburry/api/internal/core"
)

type memoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
	now     func() time.Time
}

// NewMemoryRepository returns a process-local Repository. Email uniqueness
// is enforced the same way the users table enforces it.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *memoryRepository) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}

	now := r.now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.byID[user.ID] = &stored
	r.byEmail[user.Email] = user.ID

	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}

	out := *u
	return &out, nil
}

func (r *memoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}

	out := *r.byID[id]
	return &out, nil
}

func (r *memoryRepository) UpdateRole(_ context.Context, id, role string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("update role: %w", core.ErrNotFound)
	}

	u.Role = role
	u.UpdatedAt = r.now().UTC()

	out := *u
	return &out, nil
}

func (r *memoryRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	u.PasswordHash = passwordHash
	u.UpdatedAt = r.now().UTC()
	return nil
}

func (r *memoryRepository) List(
	_ context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()
	search := strings.ToLower(params.Search)

	r.mu.RLock()
	matched := make([]User, 0, len(r.byID))
	for _, u := range r.byID {
		if params.Role != "" && u.Role != params.Role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Email), search) &&
			!strings.Contains(strings.ToLower(u.Name), search) {
			continue
		}
		matched = append(matched, *u)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := params.Offset()
	if start < 0 || start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func (r *memoryRepository) Stats(_ context.Context, since time.Time) (*Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &Stats{TotalUsers: len(r.byID)}
	for _, u := range r.byID {
		if u.Role == RoleAdmin {
			stats.Admins++
		}
		if !u.CreatedAt.Before(since) {
			stats.Last7Days++
		}
	}

	return stats, nil
}

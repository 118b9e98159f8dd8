// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/codeburry/api/internal/auth"
	"github.com/codeburry/api/internal/core"
)

func TestServiceCreateNormalizesEmail(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	created, err := svc.Create(ctx, auth.NewUser{
		Email: " Alice@Example.COM ", Name: "Alice", PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", created.Email)
	require.Equal(t, RoleUser, created.Role)

	found, err := svc.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)

	_, err = svc.Create(ctx, auth.NewUser{Email: "alice@EXAMPLE.com", Name: "Imposter"})
	require.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestServiceGetByIDRejectsMalformedID(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	_, err := svc.GetByID(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.GetUser(context.Background(), uuid.New().String())
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestServiceUpdateUserRole(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	created, err := svc.Create(ctx, auth.NewUser{Email: "bob@example.com", Name: "Bob"})
	require.NoError(t, err)

	_, err = svc.UpdateUserRole(ctx, created.ID, "superuser")
	require.ErrorIs(t, err, core.ErrInvalidInput)

	updated, err := svc.UpdateUserRole(ctx, created.ID, RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, updated.Role)

	_, err = svc.UpdateUserRole(ctx, uuid.New().String(), RoleAdmin)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestServiceListAndStats(t *testing.T) {
	repo := NewMemoryRepository().(*memoryRepository)
	svc := NewService(repo)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	for i := range 5 {
		repo.now = func() time.Time { return base.Add(-time.Duration(i*3) * 24 * time.Hour) }
		role := RoleUser
		if i == 0 {
			role = RoleAdmin
		}
		_, err := svc.Create(ctx, auth.NewUser{
			Email: fmt.Sprintf("user%d@example.com", i),
			Name:  fmt.Sprintf("User %d", i),
			Role:  role,
		})
		require.NoError(t, err)
	}

	users, total, err := svc.ListUsers(ctx, ListUsersParams{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, users, 2)
	require.Equal(t, "user0@example.com", users[0].Email)
	require.Equal(t, "user1@example.com", users[1].Email)

	admins, total, err := svc.ListUsers(ctx, ListUsersParams{Role: RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "user0@example.com", admins[0].Email)

	search, _, err := svc.ListUsers(ctx, ListUsersParams{Search: "USER 3"})
	require.NoError(t, err)
	require.Len(t, search, 1)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, stats.TotalUsers)
	require.Equal(t, 1, stats.Admins)
	require.Equal(t, 3, stats.Last7Days)
}

func TestListUsersParamsNormalize(t *testing.T) {
	p := ListUsersParams{Page: -1, PageSize: 1000}
	p.Normalize()
	require.Equal(t, 1, p.Page)
	require.Equal(t, MaxPageSize, p.PageSize)
	require.Equal(t, 0, p.Offset())

	huge := ListUsersParams{Page: math.MaxInt, PageSize: MaxPageSize}
	huge.Normalize()
	require.Equal(t, MaxPage, huge.Page)
	require.Equal(t, (MaxPage-1)*MaxPageSize, huge.Offset())
}

func TestListUsersPastLastPage(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, auth.NewUser{Email: "solo@example.com", Name: "Solo"})
	require.NoError(t, err)

	users, total, err := svc.ListUsers(ctx, ListUsersParams{Page: math.MaxInt, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Empty(t, users)
}

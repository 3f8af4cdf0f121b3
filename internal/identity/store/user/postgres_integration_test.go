//go:build integration

package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gavel/internal/identity/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
	"gavel/pkg/testutil/containers"
)

func seedUser(username string, role models.Role) models.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return models.User{
		ID:           id.NewUserID(),
		Username:     username,
		Email:        username + "@court.example",
		FirstName:    "Ada",
		LastName:     "Obi",
		Role:         role,
		EmployeeID:   "EMP-" + username,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestPostgres_CreateAndFind(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	store := NewPostgres(pc.Pool)
	ctx := context.Background()

	u := seedUser("clerk1", models.RoleClerk)
	require.NoError(t, store.Create(ctx, u))

	got, err := store.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Username, got.Username)
	require.Equal(t, models.RoleClerk, got.Role)

	// Username lookup is case-insensitive.
	got, err = store.FindByUsername(ctx, "CLERK1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = store.FindByID(ctx, id.NewUserID())
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgres_DuplicateUsernameConflicts(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	store := NewPostgres(pc.Pool)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, seedUser("judge1", models.RoleJudge)))

	dup := seedUser("Judge1", models.RoleJudge)
	require.ErrorIs(t, store.Create(ctx, dup), sentinel.ErrConflict)
}

func TestPostgres_ListByRoleSkipsInactive(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	store := NewPostgres(pc.Pool)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, seedUser("officer1", models.RolePrisonOfficer)))
	require.NoError(t, store.Create(ctx, seedUser("clerk2", models.RoleClerk)))

	retired := seedUser("officer2", models.RolePrisonOfficer)
	retired.Active = false
	require.NoError(t, store.Create(ctx, retired))

	officers, err := store.ListByRole(ctx, models.RolePrisonOfficer)
	require.NoError(t, err)
	require.Len(t, officers, 1)
	require.Equal(t, "officer1", officers[0].Username)
}

func TestPostgres_Update(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	store := NewPostgres(pc.Pool)
	ctx := context.Background()

	u := seedUser("clerk3", models.RoleClerk)
	require.NoError(t, store.Create(ctx, u))

	u.Department = "Registry"
	u.Active = false
	u.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, store.Update(ctx, u))

	got, err := store.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Registry", got.Department)
	require.False(t, got.Active)
}

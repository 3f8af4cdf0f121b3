//go:build integration

package inmates

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gavel/internal/prison/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
	"gavel/pkg/testutil/containers"
)

func seedInmate(number, firstName, lastName string, release *time.Time) models.Inmate {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return models.Inmate{
		ID:                   id.NewInmateID(),
		InmateNumber:         number,
		FirstName:            firstName,
		LastName:             lastName,
		DateOfBirth:          now.AddDate(-30, 0, 0),
		IdentificationNumber: "NIN-" + number,
		SentenceKind:         models.SentenceKindPrison,
		SentenceTerm:         models.SentenceTerm{Years: 2},
		AdmissionDate:        now.AddDate(0, -6, 0),
		ExpectedReleaseDate:  release,
		Status:               models.InmateActive,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func TestPostgres_CreateAndSearch(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	store := NewPostgres(pc.Pool)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, seedInmate("INM-001", "Sani", "Garba", nil)))
	require.NoError(t, store.Create(ctx, seedInmate("INM-002", "Emeka", "Nwosu", nil)))

	got, err := store.FindByInmateNumber(ctx, "INM-001")
	require.NoError(t, err)
	require.Equal(t, "Sani", got.FirstName)

	// Search matches names case-insensitively.
	matches, err := store.List(ctx, Filter{Search: "nwosu"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "INM-002", matches[0].InmateNumber)

	// And inmate numbers.
	matches, err = store.List(ctx, Filter{Search: "inm-001"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "Sani", matches[0].FirstName)
}

func TestPostgres_DuplicateNumberConflicts(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	store := NewPostgres(pc.Pool)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, seedInmate("INM-010", "Sani", "Garba", nil)))
	require.ErrorIs(t, store.Create(ctx, seedInmate("INM-010", "Musa", "Bello", nil)), sentinel.ErrConflict)
}

func TestPostgres_UpcomingReleases(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	store := NewPostgres(pc.Pool)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	in5 := now.AddDate(0, 0, 5)
	in20 := now.AddDate(0, 0, 20)
	in60 := now.AddDate(0, 0, 60)

	require.NoError(t, store.Create(ctx, seedInmate("INM-020", "Sani", "Garba", &in20)))
	require.NoError(t, store.Create(ctx, seedInmate("INM-021", "Emeka", "Nwosu", &in5)))
	require.NoError(t, store.Create(ctx, seedInmate("INM-022", "Musa", "Bello", &in60)))

	releases, err := store.UpcomingReleases(ctx, now, 30)
	require.NoError(t, err)
	require.Len(t, releases, 2)
	// Soonest first.
	require.Equal(t, "INM-021", releases[0].InmateNumber)
	require.Equal(t, "INM-020", releases[1].InmateNumber)
}

func TestPostgres_UpdateAndCountByStatus(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	store := NewPostgres(pc.Pool)
	ctx := context.Background()

	i := seedInmate("INM-030", "Sani", "Garba", nil)
	require.NoError(t, store.Create(ctx, i))
	require.NoError(t, store.Create(ctx, seedInmate("INM-031", "Emeka", "Nwosu", nil)))

	require.NoError(t, i.Release(time.Now().UTC()))
	require.NoError(t, store.Update(ctx, i))

	counts, err := store.CountByStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, counts[models.InmateActive])
	require.Equal(t, 1, counts[models.InmateReleased])
}

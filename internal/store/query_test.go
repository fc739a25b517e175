package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateSavedQuery_RoundTrips(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	q := SavedQuery{
		Name:        "recent-work",
		SelectTags:  []string{"work", "2026"},
		ExcludeTags: []string{"archived"},
		Pattern:     `.*\.md$`,
		IgnoreCase:  true,
	}
	require.NoError(t, CreateSavedQuery(ctx, s.DB(), q, false))

	got, err := GetSavedQueryByName(ctx, s.DB(), "recent-work")
	require.NoError(t, err)
	require.Equal(t, q.SelectTags, got.SelectTags)
	require.Equal(t, q.ExcludeTags, got.ExcludeTags)
	require.Equal(t, q.Pattern, got.Pattern)
	require.True(t, got.IgnoreCase)
}

func TestCreateSavedQuery_DefaultsPattern(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, CreateSavedQuery(ctx, s.DB(), SavedQuery{Name: "everything"}, false))

	got, err := GetSavedQueryByName(ctx, s.DB(), "everything")
	require.NoError(t, err)
	require.Equal(t, ".*", got.Pattern)
}

func TestCreateSavedQuery_WithoutForceLeavesExistingUntouched(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, CreateSavedQuery(ctx, s.DB(), SavedQuery{Name: "q", Pattern: "first"}, false))
	require.NoError(t, CreateSavedQuery(ctx, s.DB(), SavedQuery{Name: "q", Pattern: "second"}, false))

	got, err := GetSavedQueryByName(ctx, s.DB(), "q")
	require.NoError(t, err)
	require.Equal(t, "first", got.Pattern)
}

func TestCreateSavedQuery_WithForceOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, CreateSavedQuery(ctx, s.DB(), SavedQuery{Name: "q", Pattern: "first"}, false))
	require.NoError(t, CreateSavedQuery(ctx, s.DB(), SavedQuery{Name: "q", Pattern: "second"}, true))

	got, err := GetSavedQueryByName(ctx, s.DB(), "q")
	require.NoError(t, err)
	require.Equal(t, "second", got.Pattern)
}

func TestDeleteSavedQuery(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, CreateSavedQuery(ctx, s.DB(), SavedQuery{Name: "q"}, false))
	require.NoError(t, DeleteSavedQuery(ctx, s.DB(), "q"))

	_, err := GetSavedQueryByName(ctx, s.DB(), "q")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListSavedQueries_OrderedByName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, CreateSavedQuery(ctx, s.DB(), SavedQuery{Name: "zeta"}, false))
	require.NoError(t, CreateSavedQuery(ctx, s.DB(), SavedQuery{Name: "alpha"}, false))

	queries, err := ListSavedQueries(ctx, s.DB())
	require.NoError(t, err)
	require.Len(t, queries, 2)
	require.Equal(t, "alpha", queries[0].Name)
	require.Equal(t, "zeta", queries[1].Name)
}

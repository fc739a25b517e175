package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetOrCreateTag_IsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	t1, err := GetOrCreateTag(ctx, s.DB(), "work")
	require.NoError(t, err)
	t2, err := GetOrCreateTag(ctx, s.DB(), "work")
	require.NoError(t, err)

	require.Equal(t, t1.ID, t2.ID)
}

func TestUpdateTag_RejectsForbiddenColumn(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := GetOrCreateTag(ctx, s.DB(), "work")
	require.NoError(t, err)

	err = UpdateTag(ctx, s.DB(), []string{"work"}, map[string]any{"id": 99})
	require.Error(t, err)
}

func TestUpdateTag_RewritesCategory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := GetOrCreateTag(ctx, s.DB(), "work")
	require.NoError(t, err)

	require.NoError(t, UpdateTag(ctx, s.DB(), []string{"work"}, map[string]any{"category": "project"}))

	got, err := GetTagByName(ctx, s.DB(), "work")
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	require.Equal(t, "project", *got.Category)
}

func TestDeleteTag_CascadesFileTagAndTagalong(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	f, err := GetOrCreateFile(ctx, s.DB(), "/vault/a.txt")
	require.NoError(t, err)
	work, err := GetOrCreateTag(ctx, s.DB(), "work")
	require.NoError(t, err)
	urgent, err := GetOrCreateTag(ctx, s.DB(), "urgent")
	require.NoError(t, err)

	require.NoError(t, CreateTagalong(ctx, s.DB(), work.ID, urgent.ID))
	_, err = AttachFileTag(ctx, s.DB(), f.ID, work.ID, nil)
	require.NoError(t, err)

	require.NoError(t, DeleteTag(ctx, s.DB(), work.ID))

	nodes, err := GetFileTagsByFileID(ctx, s.DB(), f.ID)
	require.NoError(t, err)
	require.Empty(t, nodes, "deleting a tag must cascade its file_tag rows")

	pairs, err := GetAllTagalongNames(ctx, s.DB())
	require.NoError(t, err)
	require.Empty(t, pairs, "deleting a tag must cascade tagalong edges referencing it")
}

func TestGetTagByName_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := GetTagByName(context.Background(), s.DB(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

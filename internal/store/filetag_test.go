package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttachFileTag_RootIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	f, err := GetOrCreateFile(ctx, s.DB(), "/vault/a.txt")
	require.NoError(t, err)
	tag, err := GetOrCreateTag(ctx, s.DB(), "work")
	require.NoError(t, err)

	id1, err := AttachFileTag(ctx, s.DB(), f.ID, tag.ID, nil)
	require.NoError(t, err)
	id2, err := AttachFileTag(ctx, s.DB(), f.ID, tag.ID, nil)
	require.NoError(t, err)

	require.Equal(t, id1, id2, "attaching the same root tag twice must not create a second sibling")

	nodes, err := GetFileTagsByFileID(ctx, s.DB(), f.ID)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
}

func TestAttachFileTag_ChildIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	f, err := GetOrCreateFile(ctx, s.DB(), "/vault/a.txt")
	require.NoError(t, err)
	root, err := GetOrCreateTag(ctx, s.DB(), "project")
	require.NoError(t, err)
	child, err := GetOrCreateTag(ctx, s.DB(), "alpha")
	require.NoError(t, err)

	rootID, err := AttachFileTag(ctx, s.DB(), f.ID, root.ID, nil)
	require.NoError(t, err)

	c1, err := AttachFileTag(ctx, s.DB(), f.ID, child.ID, &rootID)
	require.NoError(t, err)
	c2, err := AttachFileTag(ctx, s.DB(), f.ID, child.ID, &rootID)
	require.NoError(t, err)

	require.Equal(t, c1, c2)
}

func TestAttachFileTag_SameTagDifferentParentsCoexist(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	f, err := GetOrCreateFile(ctx, s.DB(), "/vault/a.txt")
	require.NoError(t, err)
	root1, err := GetOrCreateTag(ctx, s.DB(), "project-a")
	require.NoError(t, err)
	root2, err := GetOrCreateTag(ctx, s.DB(), "project-b")
	require.NoError(t, err)
	leaf, err := GetOrCreateTag(ctx, s.DB(), "draft")
	require.NoError(t, err)

	root1ID, err := AttachFileTag(ctx, s.DB(), f.ID, root1.ID, nil)
	require.NoError(t, err)
	root2ID, err := AttachFileTag(ctx, s.DB(), f.ID, root2.ID, nil)
	require.NoError(t, err)

	_, err = AttachFileTag(ctx, s.DB(), f.ID, leaf.ID, &root1ID)
	require.NoError(t, err)
	_, err = AttachFileTag(ctx, s.DB(), f.ID, leaf.ID, &root2ID)
	require.NoError(t, err)

	nodes, err := GetFileTagsByFileID(ctx, s.DB(), f.ID)
	require.NoError(t, err)
	require.Len(t, nodes, 4, "the same tag name under two different parents is not a duplicate")
}

func TestDetachFileTag_CascadesToChildren(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	f, err := GetOrCreateFile(ctx, s.DB(), "/vault/a.txt")
	require.NoError(t, err)
	root, err := GetOrCreateTag(ctx, s.DB(), "project")
	require.NoError(t, err)
	child, err := GetOrCreateTag(ctx, s.DB(), "alpha")
	require.NoError(t, err)

	rootID, err := AttachFileTag(ctx, s.DB(), f.ID, root.ID, nil)
	require.NoError(t, err)
	_, err = AttachFileTag(ctx, s.DB(), f.ID, child.ID, &rootID)
	require.NoError(t, err)

	require.NoError(t, DetachFileTag(ctx, s.DB(), rootID))

	nodes, err := GetFileTagsByFileID(ctx, s.DB(), f.ID)
	require.NoError(t, err)
	require.Empty(t, nodes)
}

func TestDetachFileTag_MissingIDIsNoOp(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, DetachFileTag(context.Background(), s.DB(), 12345))
}

func TestResolvePath(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	f, err := GetOrCreateFile(ctx, s.DB(), "/vault/a.txt")
	require.NoError(t, err)
	root, err := GetOrCreateTag(ctx, s.DB(), "project")
	require.NoError(t, err)
	child, err := GetOrCreateTag(ctx, s.DB(), "alpha")
	require.NoError(t, err)

	rootID, err := AttachFileTag(ctx, s.DB(), f.ID, root.ID, nil)
	require.NoError(t, err)
	childID, err := AttachFileTag(ctx, s.DB(), f.ID, child.ID, &rootID)
	require.NoError(t, err)

	id, ok, err := ResolvePath(ctx, s.DB(), f.ID, []string{"project", "alpha"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, childID, id)

	_, ok, err = ResolvePath(ctx, s.DB(), f.ID, []string{"project", "beta"})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGetFileTagsByFileIDs_Batch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	f1, err := GetOrCreateFile(ctx, s.DB(), "/vault/a.txt")
	require.NoError(t, err)
	f2, err := GetOrCreateFile(ctx, s.DB(), "/vault/b.txt")
	require.NoError(t, err)
	tag, err := GetOrCreateTag(ctx, s.DB(), "work")
	require.NoError(t, err)

	_, err = AttachFileTag(ctx, s.DB(), f1.ID, tag.ID, nil)
	require.NoError(t, err)

	byFile, err := GetFileTagsByFileIDs(ctx, s.DB(), []int64{f1.ID, f2.ID})
	require.NoError(t, err)
	require.Len(t, byFile[f1.ID], 1)
	require.Empty(t, byFile[f2.ID])
}

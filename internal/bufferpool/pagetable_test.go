package bufferpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageTable_LookupMissIsNotAnError(t *testing.T) {
	pt := newPageTable(4)

	_, ok := pt.lookup(pageTag{fileKey: "a", pageID: 0})
	require.False(t, ok)
	require.Zero(t, pt.size())
}

func TestPageTable_InsertLookupRemove(t *testing.T) {
	pt := newPageTable(4)
	tag := pageTag{fileKey: "a", pageID: 7}

	require.NoError(t, pt.insert(tag, 2))

	frameID, ok := pt.lookup(tag)
	require.True(t, ok)
	require.Equal(t, 2, frameID)

	pt.remove(tag)
	_, ok = pt.lookup(tag)
	require.False(t, ok)

	// Removing an absent key is a no-op.
	pt.remove(tag)
	require.Zero(t, pt.size())
}

func TestPageTable_DuplicateInsertRejected(t *testing.T) {
	pt := newPageTable(4)
	tag := pageTag{fileKey: "a", pageID: 7}

	require.NoError(t, pt.insert(tag, 2))
	require.ErrorIs(t, pt.insert(tag, 3), ErrBadBuffer)

	// The original mapping survives.
	frameID, ok := pt.lookup(tag)
	require.True(t, ok)
	require.Equal(t, 2, frameID)
}

func TestPageTable_KeysAreFileScoped(t *testing.T) {
	pt := newPageTable(4)

	require.NoError(t, pt.insert(pageTag{fileKey: "a", pageID: 1}, 0))
	require.NoError(t, pt.insert(pageTag{fileKey: "b", pageID: 1}, 1))
	require.Equal(t, 2, pt.size())
}

package bufferpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocFrame_TakesFreeFramesInOrder(t *testing.T) {
	m, _ := newTestPool(t, 3, 0)

	// On a fresh pool the sweep starts at frame 0 and takes invalid
	// slots immediately, one per revolution of the hand.
	for want := 0; want < 3; want++ {
		frameID, err := m.allocFrame()
		require.NoError(t, err)
		require.Equal(t, want, frameID)
	}
}

func TestAllocFrame_SecondChance(t *testing.T) {
	m, file := newTestPool(t, 2, 2)

	_, err := m.FetchPage(file, 0)
	require.NoError(t, err)
	_, err = m.FetchPage(file, 1)
	require.NoError(t, err)
	require.NoError(t, m.UnpinPage(file, 0, false))
	require.NoError(t, m.UnpinPage(file, 1, false))

	// Both frames are recently referenced. The first pass only clears
	// ref bits; the second pass then evicts the first frame swept.
	frameID, err := m.allocFrame()
	require.NoError(t, err)
	require.Equal(t, 0, frameID)

	require.False(t, m.desc[0].valid)
	_, ok := m.table.lookup(pageTag{fileKey: file.Key(), pageID: 0})
	require.False(t, ok)

	// The survivor spent its second chance.
	require.True(t, m.desc[1].valid)
	require.False(t, m.desc[1].ref)
}

func TestAllocFrame_SkipsPinnedFrames(t *testing.T) {
	m, file := newTestPool(t, 3, 3)

	for pageID := uint32(0); pageID < 3; pageID++ {
		_, err := m.FetchPage(file, pageID)
		require.NoError(t, err)
	}
	// Only page 1 becomes evictable.
	require.NoError(t, m.UnpinPage(file, 1, false))

	frameID, err := m.allocFrame()
	require.NoError(t, err)
	require.Equal(t, 1, frameID)

	// The pinned neighbours were never touched.
	require.True(t, m.desc[0].valid)
	require.True(t, m.desc[2].valid)
	require.Equal(t, int32(1), m.desc[0].pin)
	require.Equal(t, int32(1), m.desc[2].pin)
}

func TestAllocFrame_AllPinnedExhausts(t *testing.T) {
	m, file := newTestPool(t, 2, 2)

	_, err := m.FetchPage(file, 0)
	require.NoError(t, err)
	_, err = m.FetchPage(file, 1)
	require.NoError(t, err)

	// The sweep is bounded: it must report exhaustion, not spin.
	_, err = m.allocFrame()
	require.ErrorIs(t, err, ErrPoolExhausted)

	// Failure left descriptors and page table untouched.
	require.Equal(t, 2, m.table.size())
	for i := range m.desc {
		require.True(t, m.desc[i].valid)
		require.Equal(t, int32(1), m.desc[i].pin)
	}
	checkInvariants(t, m)
}

func TestAllocFrame_WritesBackDirtyVictim(t *testing.T) {
	m, file := newTestPool(t, 1, 1)

	frame, err := m.FetchPage(file, 0)
	require.NoError(t, err)
	copy(frame, []byte("victim bytes"))
	require.NoError(t, m.UnpinPage(file, 0, true))

	frameID, err := m.allocFrame()
	require.NoError(t, err)
	require.Equal(t, 0, frameID)
	require.Equal(t, 1, file.writes[uint32(0)])

	require.False(t, m.desc[0].valid)
	require.Zero(t, m.table.size())
	checkInvariants(t, m)
}

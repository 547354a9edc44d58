package growbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapAllocator(t *testing.T) {
	var h HeapAllocator

	b, err := h.Allocate(8)
	require.NoError(t, err)
	assert.Len(t, b, 8)
	copy(b, "abcdefgh")

	shrunk, err := h.Reallocate(b, 4)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(shrunk))

	// Regrowing within the original capacity stays in place.
	regrown, err := h.Reallocate(shrunk, 8)
	require.NoError(t, err)
	assert.Same(t, &b[0], &regrown[0])

	grown, err := h.Reallocate(regrown, 32)
	require.NoError(t, err)
	assert.Len(t, grown, 32)
	assert.Equal(t, "abcdefgh", string(grown[:8]))

	fresh, err := h.Reallocate(nil, 4)
	require.NoError(t, err)
	assert.Len(t, fresh, 4)

	_, err = h.Allocate(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = h.Reallocate(b, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBudgetAllocator(t *testing.T) {
	a := NewBudgetAllocator(nil, 100)
	assert.Equal(t, 100, a.Limit())

	b, err := a.Allocate(60)
	require.NoError(t, err)
	assert.Equal(t, 60, a.InUse())

	_, err = a.Allocate(50)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
	assert.ErrorIs(t, err, ErrAllocation)
	assert.Equal(t, 60, a.InUse(), "a refused request must not be charged")

	// Growth charges only the difference.
	b, err = a.Reallocate(b, 90)
	require.NoError(t, err)
	assert.Equal(t, 90, a.InUse())

	_, err = a.Reallocate(b, 120)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
	assert.Equal(t, 90, a.InUse())

	// Shrinking refunds.
	b, err = a.Reallocate(b, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, a.InUse())

	a.Free(b)
	assert.Zero(t, a.InUse())
	a.Free(nil)
	assert.Zero(t, a.InUse())
}

func TestBudgetAllocatorCountsOutstandingBlocks(t *testing.T) {
	arena := NewArena(64)
	a := NewBudgetAllocator(arena, 100)

	first, err := a.Allocate(16)
	require.NoError(t, err)
	_, err = a.Allocate(16)
	require.NoError(t, err)
	used := arena.SizeInUse()

	// The arena only reclaims its tail allocation; the budget refunds anyway.
	a.Free(first)
	assert.Equal(t, 16, a.InUse())
	assert.Equal(t, used, arena.SizeInUse())
}

func TestBudgetAllocatorRefundsBaseFailure(t *testing.T) {
	arena := NewArena(64)
	arena.Release()
	a := NewBudgetAllocator(arena, 100)

	_, err := a.Allocate(10)
	assert.ErrorIs(t, err, ErrArenaReleased)
	assert.Zero(t, a.InUse())

	_, err = a.Reallocate(make([]byte, 4), 10)
	assert.ErrorIs(t, err, ErrArenaReleased)
	assert.Zero(t, a.InUse())
}

func TestBudgetAllocatorBacksContainers(t *testing.T) {
	budget := NewBudgetAllocator(NewArena(1024), 256)
	v, err := NewVector(8, 4, 1, WithAllocator(budget))
	require.NoError(t, err)
	assert.Equal(t, 32, budget.InUse())

	rec := []byte("12345678")
	for i := 0; i < 4; i++ {
		require.NoError(t, v.Push(rec))
	}

	// (32 + 8) * 2 = 80 bytes fits the budget.
	require.NoError(t, v.Push(rec))
	assert.Equal(t, 80, budget.InUse())

	for v.Len() < 10 {
		require.NoError(t, v.Push(rec))
	}
	// The next growth asks for (80 + 8) * 2 = 176 bytes: still within budget.
	require.NoError(t, v.Push(rec))
	assert.Equal(t, 176, budget.InUse())

	for v.Len() < 22 {
		require.NoError(t, v.Push(rec))
	}
	// (176 + 8) * 2 = 368 exceeds 256.
	err = v.Push(rec)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
	assert.Equal(t, 22, v.Len())
	assert.Equal(t, 176, budget.InUse())
}

package growbuf

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArena(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		expected  int
	}{
		{"default chunk size", 0, DefaultChunkSize},
		{"negative chunk size", -1, DefaultChunkSize},
		{"custom chunk size", 8192, 8192},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArena(tt.chunkSize)
			assert.Equal(t, tt.expected, a.chunkSize)
			assert.Len(t, a.chunks, 1)
		})
	}
}

func TestArenaAllocBytes(t *testing.T) {
	a := NewArena(1024)

	assert.Len(t, a.AllocBytes(100), 100)
	assert.Nil(t, a.AllocBytes(0))
	assert.Nil(t, a.AllocBytes(-1))

	// Larger than a chunk forces a dedicated one.
	assert.Len(t, a.AllocBytes(2000), 2000)
	assert.Equal(t, 2, a.NumChunks())
}

func TestArenaAllocate(t *testing.T) {
	a := NewArena(1024)

	b, err := a.Allocate(32)
	require.NoError(t, err)
	assert.Len(t, b, 32)

	empty, err := a.Allocate(0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = a.Allocate(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestArenaReallocateExtendsTailInPlace(t *testing.T) {
	a := NewArena(1024)

	b, err := a.Allocate(16)
	require.NoError(t, err)
	b[0] = 7

	grown, err := a.Reallocate(b, 64)
	require.NoError(t, err)
	assert.Len(t, grown, 64)
	assert.Same(t, &b[0], &grown[0])
	assert.Equal(t, 64, a.SizeInUse())

	shrunk, err := a.Reallocate(grown, 8)
	require.NoError(t, err)
	assert.Same(t, &b[0], &shrunk[0])
	assert.Equal(t, 8, a.SizeInUse())
}

func TestArenaReallocateMovesNonTail(t *testing.T) {
	a := NewArena(1024)

	b, err := a.Allocate(16)
	require.NoError(t, err)
	copy(b, "abcdefghijklmnop")
	_, err = a.Allocate(8)
	require.NoError(t, err)

	moved, err := a.Reallocate(b, 128)
	require.NoError(t, err)
	assert.Len(t, moved, 128)
	assert.NotSame(t, &b[0], &moved[0])
	assert.Equal(t, "abcdefghijklmnop", string(moved[:16]))
}

func TestArenaReallocateAcrossChunks(t *testing.T) {
	a := NewArena(64)

	b, err := a.Allocate(48)
	require.NoError(t, err)
	b[47] = 'z'

	// The tail cannot extend past its chunk, so it moves to a new one.
	grown, err := a.Reallocate(b, 100)
	require.NoError(t, err)
	assert.Equal(t, byte('z'), grown[47])
	assert.Equal(t, 2, a.NumChunks())
}

func TestArenaFreeRollsBackTail(t *testing.T) {
	a := NewArena(1024)

	first, err := a.Allocate(16)
	require.NoError(t, err)
	second, err := a.Allocate(16)
	require.NoError(t, err)
	assert.Equal(t, 32, a.SizeInUse())

	// Only the most recent allocation is reclaimed.
	a.Free(first)
	assert.Equal(t, 32, a.SizeInUse())
	a.Free(second)
	assert.Equal(t, 16, a.SizeInUse())
}

func TestArenaEnsureCapacity(t *testing.T) {
	a := NewArena(1024)
	initialChunks := a.NumChunks()

	require.NoError(t, a.EnsureCapacity(100))
	assert.Equal(t, initialChunks, a.NumChunks(), "EnsureCapacity(100) changed chunk count")

	require.NoError(t, a.EnsureCapacity(2000))
	assert.Equal(t, initialChunks+1, a.NumChunks())
}

func TestArenaReset(t *testing.T) {
	a := NewArena(1024)

	a.AllocBytes(100)
	a.AllocBytes(200)
	require.NotZero(t, a.SizeInUse())

	a.Reset()
	assert.Zero(t, a.SizeInUse())
	assert.NotZero(t, a.NumChunks(), "chunks should remain after Reset()")
}

func TestArenaRelease(t *testing.T) {
	a := NewArena(1024)
	a.AllocBytes(100)

	a.Release()
	assert.Nil(t, a.chunks)

	assert.Nil(t, a.AllocBytes(100))
	_, err := a.Allocate(100)
	assert.ErrorIs(t, err, ErrArenaReleased)
	assert.ErrorIs(t, err, ErrAllocation)
	_, err = a.Reallocate(nil, 10)
	assert.ErrorIs(t, err, ErrArenaReleased)
	assert.ErrorIs(t, a.EnsureCapacity(1), ErrArenaReleased)
	assert.NotPanics(t, a.Reset)
}

func TestArenaBacksContainers(t *testing.T) {
	a := NewArena(256)
	b, err := NewBinaryBuilder(8, 1, WithAllocator(a))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := b.WriteString("0123456789")
		require.NoError(t, err)
	}
	assert.Equal(t, 100, b.Len())
	assert.Equal(t, "0123456789", string(b.Bytes()[90:]))
	// The builder is the arena's only user, so it grows in place.
	assert.Zero(t, b.Metrics().Relocations)
}

func TestAlignPtr(t *testing.T) {
	ptrSize := unsafe.Sizeof(uintptr(0))

	tests := []struct {
		input    uintptr
		expected uintptr
	}{
		{0, 0},
		{1, ptrSize},
		{ptrSize, ptrSize},
		{ptrSize + 1, ptrSize * 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, alignPtr(tt.input), "alignPtr(%d)", tt.input)
	}
}

func BenchmarkArenaAllocBytes(b *testing.B) {
	a := NewArena(1024 * 1024)
	sizes := []int{8, 64, 256, 1024}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("size-%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				a.AllocBytes(size)
				if i%1000 == 999 {
					a.Reset()
				}
			}
		})
	}
}

func BenchmarkArenaReallocateTail(b *testing.B) {
	a := NewArena(1024 * 1024)
	for i := 0; i < b.N; i++ {
		buf, _ := a.Allocate(64)
		buf, _ = a.Reallocate(buf, 512)
		a.Free(buf)
	}
}

package growbuf

import (
	"fmt"
	"unsafe"
)

// DefaultChunkSize is the default chunk size for new arenas (64 KiB).
const DefaultChunkSize = 1 << 16

// chunk represents a single memory chunk within an arena.
type chunk struct {
	buf    []byte  // backing memory
	offset uintptr // allocation offset within buf
}

// Arena is a chunked bump allocator usable as a container Allocator.
//
// Reallocate extends the most recent allocation in place while its chunk has
// room and moves it otherwise; Free only reclaims the most recent allocation.
// Everything else is reclaimed in bulk by Reset. Not goroutine-safe.
type Arena struct {
	chunks       []chunk
	chunkSize    int
	currentChunk *chunk
}

// NewArena creates a new Arena with the specified chunk size.
// If chunkSize <= 0, DefaultChunkSize is used.
func NewArena(chunkSize int) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	a := &Arena{chunkSize: chunkSize}
	a.grow(chunkSize)
	return a
}

// AllocBytes returns a []byte slice pointing into the arena's backing chunk.
// The caller must ensure the arena remains reachable while the returned slice is in use.
// Returns nil if n <= 0 or the arena has been released.
func (a *Arena) AllocBytes(n int) []byte {
	if n <= 0 || a.chunks == nil {
		return nil
	}

	// Fast path: use cached current chunk
	c := a.currentChunk
	off := alignPtr(c.offset)
	if off+uintptr(n) <= uintptr(len(c.buf)) {
		start := int(off)
		c.offset = off + uintptr(n)
		return unsafe.Slice((*byte)(unsafe.Pointer(&c.buf[start])), n)
	}

	// Slow path: need new chunk
	a.grow(n)
	c = a.currentChunk
	off = alignPtr(c.offset)
	start := int(off)
	c.offset = off + uintptr(n)
	return unsafe.Slice((*byte)(unsafe.Pointer(&c.buf[start])), n)
}

// Allocate implements Allocator.
func (a *Arena) Allocate(n int) ([]byte, error) {
	if a.chunks == nil {
		return nil, ErrArenaReleased
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrInvalidArgument, n)
	}
	if n == 0 {
		return []byte{}, nil
	}
	return a.AllocBytes(n), nil
}

// Reallocate implements Allocator. The most recent allocation grows or shrinks
// in place when the current chunk allows it; any other block is copied into a
// fresh allocation and its old bytes stay dead until Reset.
func (a *Arena) Reallocate(b []byte, n int) ([]byte, error) {
	if a.chunks == nil {
		return nil, ErrArenaReleased
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrInvalidArgument, n)
	}
	if len(b) == 0 {
		return a.Allocate(n)
	}

	c := a.currentChunk
	if start, ok := a.tailStart(b); ok {
		end := start + uintptr(n)
		if end <= uintptr(len(c.buf)) {
			c.offset = end
			return c.buf[start:end:end], nil
		}
	}
	if n <= len(b) {
		return b[:n:n], nil
	}

	grown := a.AllocBytes(n)
	copy(grown, b)
	return grown, nil
}

// Free implements Allocator. Only the most recent allocation is reclaimed.
func (a *Arena) Free(b []byte) {
	if a.chunks == nil || len(b) == 0 {
		return
	}
	if start, ok := a.tailStart(b); ok {
		a.currentChunk.offset = start
	}
}

// tailStart reports whether b is the most recent allocation of the current
// chunk and returns its start offset within that chunk.
func (a *Arena) tailStart(b []byte) (uintptr, bool) {
	c := a.currentChunk
	if c == nil || len(c.buf) == 0 {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(c.buf)))
	p := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	if p < base || p >= base+uintptr(len(c.buf)) {
		return 0, false
	}
	start := p - base
	if start+uintptr(len(b)) != c.offset {
		return 0, false
	}
	return start, true
}

// EnsureCapacity ensures the current chunk has at least n free bytes.
// If not, it grows the arena with a new chunk.
func (a *Arena) EnsureCapacity(n int) error {
	if a.chunks == nil {
		return ErrArenaReleased
	}
	c := a.currentChunk
	if uintptr(n)+alignPtr(c.offset) > uintptr(len(c.buf)) {
		a.grow(n)
	}
	return nil
}

// Reset resets allocation offsets to zero but keeps allocated chunks for reuse.
// Every block previously handed out becomes invalid.
func (a *Arena) Reset() {
	if a.chunks == nil {
		return
	}
	for i := range a.chunks {
		a.chunks[i].offset = 0
	}
	a.currentChunk = &a.chunks[0]
}

// Release drops all chunks. Later allocations fail with ErrArenaReleased.
func (a *Arena) Release() {
	a.chunks = nil
	a.currentChunk = nil
}

// grow appends a new chunk of at least min bytes.
func (a *Arena) grow(min int) {
	size := a.chunkSize
	if min > size {
		size = min
	}
	buf := make([]byte, size)
	a.chunks = append(a.chunks, chunk{buf: buf, offset: 0})
	a.currentChunk = &a.chunks[len(a.chunks)-1]
}

// alignPtr aligns the offset up to pointer size alignment.
func alignPtr(off uintptr) uintptr {
	const align = unsafe.Sizeof(uintptr(0))
	mask := align - 1
	return (off + mask) & ^mask
}

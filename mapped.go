package growbuf

import (
	"fmt"

	"github.com/pavanmanishd/growbuf/internal/mmap"
)

// MappedAllocator backs blocks with anonymous private memory mappings.
// On Linux growth uses mremap and may move the block without copying.
// Blocks must only be passed back to the MappedAllocator that produced them.
type MappedAllocator struct{}

// Allocate maps a zeroed block of n bytes.
func (MappedAllocator) Allocate(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrInvalidArgument, n)
	}
	if n == 0 {
		return []byte{}, nil
	}
	b, err := mmap.Map(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	return b, nil
}

// Reallocate resizes b. Shrinking and growth into page slack stay in place.
func (m MappedAllocator) Reallocate(b []byte, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrInvalidArgument, n)
	}
	if cap(b) == 0 {
		return m.Allocate(n)
	}
	if n <= cap(b) {
		return b[:n], nil
	}
	grown, err := mmap.Remap(b, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	return grown, nil
}

// Free unmaps b.
func (MappedAllocator) Free(b []byte) {
	_ = mmap.Unmap(b)
}

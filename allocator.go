package growbuf

import "fmt"

// Allocator is the raw memory service behind every container.
//
// Reallocate may return a block at a different address; the prefix
// min(len(b), n) is preserved. Reallocate(nil, n) behaves like Allocate(n).
// Contents past the preserved prefix are unspecified.
type Allocator interface {
	Allocate(n int) ([]byte, error)
	Reallocate(b []byte, n int) ([]byte, error)
	Free(b []byte)
}

// HeapAllocator allocates from the Go heap.
type HeapAllocator struct{}

// Allocate returns a zeroed block of n bytes.
func (HeapAllocator) Allocate(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrInvalidArgument, n)
	}
	return make([]byte, n), nil
}

// Reallocate resizes b, reusing spare slice capacity in place when possible.
func (h HeapAllocator) Reallocate(b []byte, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrInvalidArgument, n)
	}
	if n <= cap(b) {
		return b[:n], nil
	}
	grown := make([]byte, n)
	copy(grown, b)
	return grown, nil
}

// Free is a no-op; the garbage collector reclaims the block.
func (HeapAllocator) Free([]byte) {}

// BudgetAllocator caps the number of bytes outstanding through an underlying allocator.
// Not goroutine-safe.
//
// The budget counts blocks the caller still holds, not memory the base has
// reclaimed. Over an Arena, Free refunds the whole block even though the arena
// only takes back its tail allocation, so InUse can read below Arena.SizeInUse.
type BudgetAllocator struct {
	base  Allocator
	limit int
	inUse int
}

// NewBudgetAllocator wraps base with a budget of limit bytes.
// A nil base uses HeapAllocator.
func NewBudgetAllocator(base Allocator, limit int) *BudgetAllocator {
	if base == nil {
		base = HeapAllocator{}
	}
	return &BudgetAllocator{base: base, limit: limit}
}

// Allocate reserves n bytes from the budget and allocates them.
func (a *BudgetAllocator) Allocate(n int) ([]byte, error) {
	if err := a.charge(n); err != nil {
		return nil, err
	}
	b, err := a.base.Allocate(n)
	if err != nil {
		a.inUse -= n
		return nil, err
	}
	return b, nil
}

// Reallocate charges or refunds the size difference and resizes b.
func (a *BudgetAllocator) Reallocate(b []byte, n int) ([]byte, error) {
	delta := n - len(b)
	if err := a.charge(delta); err != nil {
		return nil, err
	}
	grown, err := a.base.Reallocate(b, n)
	if err != nil {
		a.inUse -= delta
		return nil, err
	}
	return grown, nil
}

// Free returns len(b) bytes to the budget, whether or not the base reclaims them.
func (a *BudgetAllocator) Free(b []byte) {
	if b == nil {
		return
	}
	a.inUse -= len(b)
	a.base.Free(b)
}

// InUse returns the number of bytes currently charged against the budget.
func (a *BudgetAllocator) InUse() int {
	return a.inUse
}

// Limit returns the budget in bytes.
func (a *BudgetAllocator) Limit() int {
	return a.limit
}

func (a *BudgetAllocator) charge(n int) error {
	if n <= 0 {
		a.inUse += n
		return nil
	}
	if a.inUse+n > a.limit {
		return fmt.Errorf("%w: %d in use + %d requested > %d", ErrBudgetExceeded, a.inUse, n, a.limit)
	}
	a.inUse += n
	return nil
}

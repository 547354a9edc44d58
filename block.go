package growbuf

import (
	"fmt"
	"math"
	"unsafe"

	"go.uber.org/zap"
)

// block is one allocator-owned byte region. len(data) is the capacity; bytes
// past the owner's used count are unspecified. Owners keep offsets into data,
// never slices, so a relocation only swaps the base slice.
type block struct {
	data      []byte
	alloc     Allocator
	policy    Policy
	owned     bool // data came from alloc
	released  bool
	component string
	log       *zap.Logger
	hook      func(Relocation)

	grows       int
	relocations int
}

func newBlock(component string, capacity int, rate float64, o options) (*block, error) {
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	if capacity < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", ErrInvalidArgument, capacity)
	}
	b := &block{
		alloc:     o.alloc,
		policy:    Policy{Rate: rate},
		component: component,
		log:       o.logger,
		hook:      o.hook,
	}
	if capacity > 0 {
		data, err := b.alloc.Allocate(capacity)
		if err != nil {
			b.log.Warn("allocation failed",
				zap.String("component", component),
				zap.Int("size", capacity),
				zap.Error(err))
			return nil, fmt.Errorf("%w: %s: allocate %d bytes: %w", ErrAllocation, component, capacity, err)
		}
		b.data = data
		b.owned = true
	}
	return b, nil
}

// newFixedBlock binds caller storage. It never grows and is never freed.
func newFixedBlock(component string, buf []byte, o options) *block {
	return &block{
		data:      buf,
		alloc:     o.alloc,
		component: component,
		log:       o.logger,
		hook:      o.hook,
	}
}

func (b *block) capacity() int {
	return len(b.data)
}

// ensure makes room for additional bytes past used. On error nothing changes.
func (b *block) ensure(used, additional int) error {
	if b.released {
		return ErrReleased
	}
	next, err := b.policy.Next(used, additional, len(b.data))
	if err != nil {
		b.log.Warn("growth refused",
			zap.String("component", b.component),
			zap.Int("used", used),
			zap.Int("additional", additional),
			zap.Int("capacity", len(b.data)),
			zap.Error(err))
		return err
	}
	if next == len(b.data) {
		return nil
	}
	return b.resize(next)
}

// ensureKeeping is ensure for callers whose input *p may view this block.
// *p is re-derived from the new base when the block moves.
func (b *block) ensureKeeping(used, additional int, p *[]byte) error {
	off, aliased := b.offsetOf(*p)
	if err := b.ensure(used, additional); err != nil {
		return err
	}
	if aliased {
		*p = b.data[off : off+len(*p)]
	}
	return nil
}

// reserveTo grows the block to at least n bytes, scaled by the expansion rate.
func (b *block) reserveTo(n int) error {
	if b.released {
		return ErrReleased
	}
	if n <= len(b.data) {
		return nil
	}
	if b.policy.Fixed() {
		return fmt.Errorf("%w: need %d, have %d", ErrFixedCapacity, n, len(b.data))
	}
	grown := float64(n) * (1 + b.policy.Rate)
	next := n
	if grown < math.MaxInt && int(grown) > n {
		next = int(grown)
	}
	return b.resize(next)
}

func (b *block) resize(next int) error {
	old := b.data
	var (
		data []byte
		err  error
	)
	switch {
	case b.owned && len(old) > 0:
		data, err = b.alloc.Reallocate(old, next)
	default:
		data, err = b.alloc.Allocate(next)
		if err == nil {
			copy(data, old)
		}
	}
	if err != nil {
		b.log.Warn("allocation failed",
			zap.String("component", b.component),
			zap.Int("old_capacity", len(old)),
			zap.Int("new_capacity", next),
			zap.Error(err))
		return fmt.Errorf("%w: %s: grow %d -> %d bytes: %w", ErrAllocation, b.component, len(old), next, err)
	}

	moved := len(old) > 0 && unsafe.SliceData(old) != unsafe.SliceData(data)
	b.data = data
	b.owned = true
	b.grows++
	if moved {
		b.relocations++
	}
	b.log.Debug("block grown",
		zap.String("component", b.component),
		zap.Int("old_capacity", len(old)),
		zap.Int("new_capacity", next),
		zap.Bool("moved", moved))
	if b.hook != nil {
		b.hook(Relocation{Component: b.component, OldCapacity: len(old), NewCapacity: next, Moved: moved})
	}
	return nil
}

// offsetOf reports whether p lies inside the block and returns its offset.
// Callers use it to re-derive views of their own storage after a relocation.
func (b *block) offsetOf(p []byte) (int, bool) {
	return offsetWithin(b.data, p)
}

// offsetWithin reports whether p starts inside base and returns its offset.
func offsetWithin(base, p []byte) (int, bool) {
	if len(p) == 0 || len(base) == 0 {
		return 0, false
	}
	lo := uintptr(unsafe.Pointer(unsafe.SliceData(base)))
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(p)))
	if ptr < lo || ptr >= lo+uintptr(len(base)) {
		return 0, false
	}
	return int(ptr - lo), true
}

// free returns the storage to the allocator. The block may grow again afterwards.
func (b *block) free() {
	if b.owned && b.data != nil {
		b.alloc.Free(b.data)
	}
	b.data = nil
	b.owned = false
}

func (b *block) release() {
	b.free()
	b.released = true
}

func (b *block) metrics(used int) Metrics {
	return newMetrics(used, len(b.data), b.grows, b.relocations)
}

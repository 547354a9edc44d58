package growbuf

import "go.uber.org/zap"

// Relocation describes one growth of a container's backing block.
type Relocation struct {
	Component   string
	OldCapacity int
	NewCapacity int
	// Moved is true when the block's base address changed.
	Moved bool
}

// Option configures a container.
type Option func(*options)

type options struct {
	alloc  Allocator
	logger *zap.Logger
	hook   func(Relocation)
}

// WithAllocator sets the allocator backing the container's blocks. Default HeapAllocator.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.alloc = a
		}
	}
}

// WithLogger sets the logger used for growth and allocation failures. Default zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRelocationHook registers fn to observe every growth of the container's backing block.
// It runs after offsets have been rebased and before the growing call returns.
func WithRelocationHook(fn func(Relocation)) Option {
	return func(o *options) {
		o.hook = fn
	}
}

func buildOptions(opts []Option) options {
	o := options{alloc: HeapAllocator{}, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

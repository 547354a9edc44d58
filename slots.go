package growbuf

import (
	"fmt"

	"go.uber.org/zap"
)

// slots is a typed side array (string offsets, dictionary entries) grown by
// the same policy as byte blocks. len(items) is the capacity.
type slots[T any] struct {
	items     []T
	policy    Policy
	component string
	log       *zap.Logger
	hook      func(Relocation)
	released  bool

	grows       int
	relocations int
}

func newSlots[T any](component string, capacity int, rate float64, o options) (*slots[T], error) {
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	if capacity < 0 {
		return nil, fmt.Errorf("%w: negative slot count %d", ErrInvalidArgument, capacity)
	}
	return &slots[T]{
		items:     make([]T, capacity),
		policy:    Policy{Rate: rate},
		component: component,
		log:       o.logger,
		hook:      o.hook,
	}, nil
}

// plan returns the capacity needed for additional slots past used without
// changing anything. Callers that also grow another store check every policy
// with plan before committing any of them through growTo.
func (s *slots[T]) plan(used, additional int) (int, error) {
	if s.released {
		return 0, ErrReleased
	}
	next, err := s.policy.Next(used, additional, len(s.items))
	if err != nil {
		s.log.Warn("growth refused",
			zap.String("component", s.component),
			zap.Int("used", used),
			zap.Int("additional", additional),
			zap.Int("capacity", len(s.items)),
			zap.Error(err))
		return 0, err
	}
	return next, nil
}

// growTo resizes the array to next slots, keeping every element. It cannot fail.
func (s *slots[T]) growTo(next int) {
	old := len(s.items)
	grown, changed := growSlice(s.items, next)
	if !changed {
		return
	}
	s.items = grown
	s.grows++
	moved := old > 0
	if moved {
		s.relocations++
	}
	s.log.Debug("slots grown",
		zap.String("component", s.component),
		zap.Int("old_capacity", old),
		zap.Int("new_capacity", next),
		zap.Bool("moved", moved))
	if s.hook != nil {
		s.hook(Relocation{Component: s.component, OldCapacity: old, NewCapacity: next, Moved: moved})
	}
}

func (s *slots[T]) capacity() int {
	return len(s.items)
}

func (s *slots[T]) free() {
	s.items = nil
}

func (s *slots[T]) release() {
	s.items = nil
	s.released = true
}

func (s *slots[T]) metrics(used int) Metrics {
	return newMetrics(used, len(s.items), s.grows, s.relocations)
}

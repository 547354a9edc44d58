package growbuf

import (
	"errors"
	"fmt"
)

var (
	// ErrAllocation indicates that a backing store could not be allocated or grown.
	ErrAllocation = errors.New("growbuf: allocation failed")

	// ErrInvalidArgument indicates an out-of-range index or offset, a zero-length
	// operation, or otherwise malformed input.
	ErrInvalidArgument = errors.New("growbuf: invalid argument")
)

var (
	// ErrFixedCapacity is returned when a fixed (expansion rate 0) store runs out of room.
	ErrFixedCapacity = fmt.Errorf("%w: fixed capacity exhausted", ErrAllocation)

	// ErrBudgetExceeded is returned by BudgetAllocator when a request would exceed its budget.
	ErrBudgetExceeded = fmt.Errorf("%w: budget exceeded", ErrAllocation)

	// ErrArenaReleased is returned by an Arena after Release.
	ErrArenaReleased = fmt.Errorf("%w: arena released", ErrAllocation)

	// ErrReleased is returned when growing a container after Release.
	ErrReleased = fmt.Errorf("%w: container released", ErrAllocation)

	// ErrOutOfRange indicates an index or offset outside the valid range.
	ErrOutOfRange = fmt.Errorf("%w: out of range", ErrInvalidArgument)

	// ErrEmpty indicates an empty string or zero-length write.
	ErrEmpty = fmt.Errorf("%w: empty input", ErrInvalidArgument)

	// ErrRecordSize indicates a record whose length does not match the vector stride.
	ErrRecordSize = fmt.Errorf("%w: record size mismatch", ErrInvalidArgument)
)

// NotFound is returned by index-returning searches when nothing matches.
const NotFound = -1

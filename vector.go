package growbuf

import (
	"bytes"
	"fmt"
	"iter"
)

// Vector stores fixed-size records contiguously in one byte block.
type Vector struct {
	blk      *block
	elemSize int
	count    int
}

// NewVector returns a vector of elemSize-byte records with room for minCount
// records, growing by rate (0 = fixed).
func NewVector(elemSize, minCount int, rate float64, opts ...Option) (*Vector, error) {
	if elemSize <= 0 {
		return nil, fmt.Errorf("%w: element size %d", ErrInvalidArgument, elemSize)
	}
	if minCount < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrInvalidArgument, minCount)
	}
	size, ok := mulOverflowSafe(elemSize, minCount)
	if !ok {
		return nil, fmt.Errorf("%w: overflow: %d records of %d bytes", ErrAllocation, minCount, elemSize)
	}
	blk, err := newBlock("vector", size, rate, buildOptions(opts))
	if err != nil {
		return nil, err
	}
	return &Vector{blk: blk, elemSize: elemSize}, nil
}

// Push appends rec. rec may be a view into this vector.
func (v *Vector) Push(rec []byte) error {
	if err := v.checkRecord(rec); err != nil {
		return err
	}
	if err := v.blk.ensureKeeping(v.used(), v.elemSize, &rec); err != nil {
		return err
	}
	copy(v.slot(v.count), rec)
	v.count++
	return nil
}

// Insert places rec at index i, shifting later records right. i >= Len() appends.
// rec may be a view into this vector.
func (v *Vector) Insert(i int, rec []byte) error {
	if i < 0 {
		return fmt.Errorf("%w: insert at %d", ErrOutOfRange, i)
	}
	if i >= v.count {
		return v.Push(rec)
	}
	if err := v.checkRecord(rec); err != nil {
		return err
	}
	// One slot for the record and one to stage it while the tail shifts.
	if err := v.blk.ensureKeeping(v.used(), 2*v.elemSize, &rec); err != nil {
		return err
	}
	stage := v.slot(v.count + 1)
	copy(stage, rec)
	start := i * v.elemSize
	copy(v.blk.data[start+v.elemSize:v.used()+v.elemSize], v.blk.data[start:v.used()])
	copy(v.slot(i), stage)
	v.count++
	return nil
}

// Delete removes the record at index i.
func (v *Vector) Delete(i int) error {
	if i < 0 || i >= v.count {
		return fmt.Errorf("%w: delete at %d, length %d", ErrOutOfRange, i, v.count)
	}
	start := i * v.elemSize
	copy(v.blk.data[start:], v.blk.data[start+v.elemSize:v.used()])
	v.count--
	return nil
}

// Pop removes the last record.
func (v *Vector) Pop() error {
	if v.count == 0 {
		return fmt.Errorf("%w: pop from empty vector", ErrOutOfRange)
	}
	v.count--
	return nil
}

// At returns a view of record i, invalidated by the next mutating call.
func (v *Vector) At(i int) ([]byte, error) {
	if i < 0 || i >= v.count {
		return nil, fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, i, v.count)
	}
	return v.slot(i), nil
}

// Set overwrites record i.
func (v *Vector) Set(i int, rec []byte) error {
	if i < 0 || i >= v.count {
		return fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, i, v.count)
	}
	if err := v.checkRecord(rec); err != nil {
		return err
	}
	copy(v.slot(i), rec)
	return nil
}

// Contains reports whether any record equals rec.
func (v *Vector) Contains(rec []byte) bool {
	return v.IndexFrom(0, rec) != NotFound
}

// IndexFrom returns the index of the first record at or after start equal to
// rec, or NotFound.
func (v *Vector) IndexFrom(start int, rec []byte) int {
	if start < 0 || len(rec) != v.elemSize {
		return NotFound
	}
	for i := start; i < v.count; i++ {
		if bytes.Equal(v.slot(i), rec) {
			return i
		}
	}
	return NotFound
}

// All yields every index and record view in order.
func (v *Vector) All() iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		for i := 0; i < v.count; i++ {
			if !yield(i, v.slot(i)) {
				return
			}
		}
	}
}

// Len returns the number of records.
func (v *Vector) Len() int { return v.count }

// Cap returns the number of records that fit without growing.
func (v *Vector) Cap() int { return v.blk.capacity() / v.elemSize }

// ElemSize returns the record size in bytes.
func (v *Vector) ElemSize() int { return v.elemSize }

// Clear removes every record. Capacity is kept.
func (v *Vector) Clear() { v.count = 0 }

// FreeBuffer releases the storage. The vector regrows on the next push.
func (v *Vector) FreeBuffer() {
	v.blk.free()
	v.count = 0
}

// Release releases the storage. Later growth fails with ErrReleased.
func (v *Vector) Release() {
	v.blk.release()
	v.count = 0
}

// Metrics returns a snapshot of the vector's storage, in bytes.
func (v *Vector) Metrics() Metrics {
	return v.blk.metrics(v.used())
}

func (v *Vector) used() int {
	return v.count * v.elemSize
}

func (v *Vector) slot(i int) []byte {
	start := i * v.elemSize
	return v.blk.data[start : start+v.elemSize : start+v.elemSize]
}

func (v *Vector) checkRecord(rec []byte) error {
	if len(rec) != v.elemSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrRecordSize, len(rec), v.elemSize)
	}
	return nil
}

package growbuf

import (
	"fmt"
	"io"
)

var (
	_ io.Writer       = (*BinaryBuilder)(nil)
	_ io.ByteWriter   = (*BinaryBuilder)(nil)
	_ io.StringWriter = (*BinaryBuilder)(nil)
)

// BinaryBuilder builds a contiguous byte sequence with a movable write cursor.
//
// Content is Bytes()[0:Len()). Writes happen at the cursor: Set* overwrites and
// Insert* shifts the bytes at and after the cursor to the right. Both advance
// the cursor past the written bytes. Not goroutine-safe.
type BinaryBuilder struct {
	blk   *block
	write int
	end   int
	opts  options
}

// NewBinaryBuilder returns a builder with at least minCapacity bytes that grows
// by rate (0 = fixed).
func NewBinaryBuilder(minCapacity int, rate float64, opts ...Option) (*BinaryBuilder, error) {
	o := buildOptions(opts)
	blk, err := newBlock("binary", minCapacity, rate, o)
	if err != nil {
		return nil, err
	}
	return &BinaryBuilder{blk: blk, opts: o}, nil
}

// NewFixedBinaryBuilder builds into buf, which is never grown or freed by the builder.
func NewFixedBinaryBuilder(buf []byte, opts ...Option) *BinaryBuilder {
	o := buildOptions(opts)
	return &BinaryBuilder{blk: newFixedBlock("binary", buf, o), opts: o}
}

// Reserve ensures n bytes are free past the content end and returns the write offset.
func (b *BinaryBuilder) Reserve(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: reserve %d bytes", ErrInvalidArgument, n)
	}
	if err := b.blk.ensure(b.end, n); err != nil {
		return 0, err
	}
	return b.write, nil
}

// SetMinCapacity ensures the capacity is at least n bytes.
func (b *BinaryBuilder) SetMinCapacity(n int) error {
	return b.blk.reserveTo(n)
}

// SetWriteOffset moves the cursor. off must lie within [0, Len()].
func (b *BinaryBuilder) SetWriteOffset(off int) error {
	if off < 0 || off > b.end {
		return fmt.Errorf("%w: write offset %d, length %d", ErrOutOfRange, off, b.end)
	}
	b.write = off
	return nil
}

// SetUsedSize forcibly sets the content length without touching the bytes.
// off must be below the capacity; the cursor is clamped to the new length.
func (b *BinaryBuilder) SetUsedSize(off int) error {
	if off < 0 || off >= b.blk.capacity() {
		return fmt.Errorf("%w: used size %d, capacity %d", ErrOutOfRange, off, b.blk.capacity())
	}
	b.end = off
	if b.write > b.end {
		b.write = b.end
	}
	return nil
}

// SetBytes overwrites src.Len() bytes at the cursor, extending the content if
// the write passes its end. It returns the offset written to.
func (b *BinaryBuilder) SetBytes(src Source) (int, error) {
	n := src.Len()
	if n <= 0 {
		return 0, fmt.Errorf("%w: write of %d bytes", ErrEmpty, n)
	}
	off := b.write
	if over := off + n - b.end; over > 0 {
		if err := b.ensureAliased(&src, b.end, over); err != nil {
			return 0, err
		}
	}
	src.writeTo(b.blk.data[off : off+n])
	b.advance(n)
	return off, nil
}

// SetByte overwrites one byte at the cursor.
func (b *BinaryBuilder) SetByte(c byte) error {
	_, err := b.SetBytes(Fill(c, 1))
	return err
}

// InsertByte inserts one byte at the cursor.
func (b *BinaryBuilder) InsertByte(c byte) error {
	_, err := b.InsertBytes(Fill(c, 1))
	return err
}

// InsertBytes inserts src at the cursor, shifting the rest of the content right.
// src may be a view into this builder. It returns the offset written to.
func (b *BinaryBuilder) InsertBytes(src Source) (int, error) {
	if b.write >= b.end {
		return b.SetBytes(src)
	}
	n := src.Len()
	if n <= 0 {
		return 0, fmt.Errorf("%w: insert of %d bytes", ErrEmpty, n)
	}

	off := b.write
	if _, aliased := b.aliasOffset(src); aliased {
		// Stage the source past the shifted region before moving anything.
		if err := b.ensureAliased(&src, b.end, 2*n); err != nil {
			return 0, err
		}
		stage := b.blk.data[b.end+n : b.end+2*n]
		src.writeTo(stage)
		copy(b.blk.data[off+n:b.end+n], b.blk.data[off:b.end])
		copy(b.blk.data[off:off+n], stage)
	} else {
		if err := b.blk.ensure(b.end, n); err != nil {
			return 0, err
		}
		copy(b.blk.data[off+n:b.end+n], b.blk.data[off:b.end])
		src.writeTo(b.blk.data[off : off+n])
	}
	b.write += n
	b.end += n
	return off, nil
}

// Delete removes up to n bytes left of the cursor and returns how many were removed.
func (b *BinaryBuilder) Delete(n int) int {
	if n > b.write {
		n = b.write
	}
	if n <= 0 {
		return 0
	}
	copy(b.blk.data[b.write-n:], b.blk.data[b.write:b.end])
	b.write -= n
	b.end -= n
	return n
}

// Write inserts p at the cursor.
func (b *BinaryBuilder) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := b.InsertBytes(CopyFrom(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteByte inserts c at the cursor.
func (b *BinaryBuilder) WriteByte(c byte) error {
	return b.InsertByte(c)
}

// WriteString inserts s at the cursor.
func (b *BinaryBuilder) WriteString(s string) (int, error) {
	return b.Write([]byte(s))
}

// Clear empties the content. Capacity is kept.
func (b *BinaryBuilder) Clear() {
	b.write = 0
	b.end = 0
}

// Bytes returns the content. The view is invalidated by the next mutating call.
func (b *BinaryBuilder) Bytes() []byte {
	return b.blk.data[:b.end:b.end]
}

// Len returns the content length.
func (b *BinaryBuilder) Len() int { return b.end }

// Cap returns the capacity in bytes.
func (b *BinaryBuilder) Cap() int { return b.blk.capacity() }

// WriteOffset returns the cursor.
func (b *BinaryBuilder) WriteOffset() int { return b.write }

// ExpansionRate returns the growth rate; 0 means fixed.
func (b *BinaryBuilder) ExpansionRate() float64 { return b.blk.policy.Rate }

// SetExpansionRate changes the growth rate. A rate of 0 fixes the capacity.
func (b *BinaryBuilder) SetExpansionRate(rate float64) error {
	if err := validateRate(rate); err != nil {
		return err
	}
	b.blk.policy.Rate = rate
	return nil
}

// SetAutoExpand makes a fixed builder growable by moving its content into an
// owned block of at least minCapacity bytes. A builder that already grows is left as is.
func (b *BinaryBuilder) SetAutoExpand(minCapacity int, rate float64) error {
	if rate <= 0 {
		return fmt.Errorf("%w: auto-expand rate %g", ErrInvalidArgument, rate)
	}
	if err := validateRate(rate); err != nil {
		return err
	}
	if b.blk.released {
		return ErrReleased
	}
	if b.blk.owned && !b.blk.policy.Fixed() {
		return nil
	}
	size := max(minCapacity, b.blk.capacity(), 1)
	prev := b.blk.policy
	b.blk.policy = Policy{Rate: rate}
	if !b.blk.owned || size > b.blk.capacity() {
		if err := b.blk.resize(size); err != nil {
			b.blk.policy = prev
			return err
		}
	}
	return nil
}

// Clone returns an independent copy with the same content, cursor and rate.
func (b *BinaryBuilder) Clone() (*BinaryBuilder, error) {
	blk, err := newBlock(b.blk.component, b.blk.capacity(), b.blk.policy.Rate, b.opts)
	if err != nil {
		return nil, err
	}
	copy(blk.data, b.blk.data[:b.end])
	return &BinaryBuilder{blk: blk, write: b.write, end: b.end, opts: b.opts}, nil
}

// FreeBuffer releases the storage. The builder stays usable and regrows on demand.
func (b *BinaryBuilder) FreeBuffer() {
	b.blk.free()
	b.Clear()
}

// Release releases the storage. Later growth fails with ErrReleased.
func (b *BinaryBuilder) Release() {
	b.blk.release()
	b.Clear()
}

// Metrics returns a snapshot of the builder's storage.
func (b *BinaryBuilder) Metrics() Metrics {
	return b.blk.metrics(b.end)
}

func (b *BinaryBuilder) advance(n int) {
	b.write += n
	if b.write > b.end {
		b.end = b.write
	}
}

func (b *BinaryBuilder) aliasOffset(src Source) (int, bool) {
	if src.kind != sourceCopy {
		return 0, false
	}
	return b.blk.offsetOf(src.data)
}

// ensureAliased grows the block, keeping src valid when it views this builder.
func (b *BinaryBuilder) ensureAliased(src *Source, used, additional int) error {
	if src.kind != sourceCopy {
		return b.blk.ensure(used, additional)
	}
	return b.blk.ensureKeeping(used, additional, &src.data)
}

package growbuf

import (
	"fmt"
	"io"
)

var (
	_ io.Writer       = (*TextBuilder)(nil)
	_ io.StringWriter = (*TextBuilder)(nil)
	_ fmt.Stringer    = (*TextBuilder)(nil)
)

// TextBuilder is a BinaryBuilder that keeps a NUL byte right after its content,
// so Bytes() always has a terminator at index Len() of the backing store.
type TextBuilder struct {
	bb *BinaryBuilder
}

// NewTextBuilder returns a text builder with room for at least minLength characters.
func NewTextBuilder(minLength int, rate float64, opts ...Option) (*TextBuilder, error) {
	if minLength < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrInvalidArgument, minLength)
	}
	o := buildOptions(opts)
	blk, err := newBlock("text", minLength+1, rate, o)
	if err != nil {
		return nil, err
	}
	t := &TextBuilder{bb: &BinaryBuilder{blk: blk, opts: o}}
	t.terminate()
	return t, nil
}

// NewFixedTextBuilder builds text into buf, which must hold at least the terminator.
func NewFixedTextBuilder(buf []byte, opts ...Option) (*TextBuilder, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: fixed text buffer needs room for the terminator", ErrInvalidArgument)
	}
	o := buildOptions(opts)
	t := &TextBuilder{bb: &BinaryBuilder{blk: newFixedBlock("text", buf, o), opts: o}}
	t.terminate()
	return t, nil
}

// ReserveLength ensures n more characters fit and returns the write offset.
func (t *TextBuilder) ReserveLength(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: reserve %d characters", ErrInvalidArgument, n)
	}
	return t.bb.Reserve(n + 1)
}

// InsertChar inserts c at the cursor and returns the offset written to.
func (t *TextBuilder) InsertChar(c byte) (int, error) {
	if _, err := t.ReserveLength(1); err != nil {
		return 0, err
	}
	off, err := t.bb.InsertBytes(Fill(c, 1))
	if err != nil {
		return 0, err
	}
	t.terminate()
	return off, nil
}

// InsertChars inserts src at the cursor and returns the offset written to.
// src may be a view into this builder.
func (t *TextBuilder) InsertChars(src Source) (int, error) {
	n := src.Len()
	if n <= 0 {
		return 0, fmt.Errorf("%w: insert of %d characters", ErrEmpty, n)
	}
	// Room for the inserted text and the terminator, plus a staging copy
	// when src views this builder.
	need := n + 1
	if _, aliased := t.bb.aliasOffset(src); aliased {
		need += n
	}
	if err := t.bb.ensureAliased(&src, t.bb.end, need); err != nil {
		return 0, err
	}
	off, err := t.bb.InsertBytes(src)
	if err != nil {
		return 0, err
	}
	t.terminate()
	return off, nil
}

// InsertString inserts s at the cursor and returns the offset written to.
func (t *TextBuilder) InsertString(s string) (int, error) {
	return t.InsertChars(CopyString(s))
}

// InsertFormatted renders format with args at the cursor and returns the offset
// written to. Arguments may be views into this builder.
func (t *TextBuilder) InsertFormatted(format string, args ...any) (int, error) {
	var cw countWriter
	fmt.Fprintf(&cw, format, args...)
	n := cw.n
	if n == 0 {
		return t.bb.write, nil
	}

	bb := t.bb
	rebase := t.aliasedArgs(args)
	if err := bb.blk.ensure(bb.end, 2*n+1); err != nil {
		return 0, err
	}
	if rebase != nil {
		args = append([]any(nil), args...)
	}
	for i, off := range rebase {
		if off >= 0 {
			v := args[i].([]byte)
			args[i] = bb.blk.data[off : off+len(v)]
		}
	}

	// Render into the tail first so arguments are read before the shift.
	end, off := bb.end, bb.write
	tail := &sliceWriter{buf: bb.blk.data[end+n : end+2*n]}
	fmt.Fprintf(tail, format, args...)
	if tail.n != n {
		return 0, fmt.Errorf("%w: rendered %d bytes, measured %d", ErrInvalidArgument, tail.n, n)
	}

	copy(bb.blk.data[off+n:end+n], bb.blk.data[off:end])
	copy(bb.blk.data[off:off+n], bb.blk.data[end+n:end+2*n])
	bb.write += n
	bb.end += n
	t.terminate()
	return off, nil
}

// aliasedArgs returns, per argument, the offset of a []byte argument that views
// this builder, or -1.
func (t *TextBuilder) aliasedArgs(args []any) []int {
	var offs []int
	for i, a := range args {
		v, ok := a.([]byte)
		if !ok {
			continue
		}
		off, ok := t.bb.blk.offsetOf(v)
		if !ok {
			continue
		}
		if offs == nil {
			offs = make([]int, len(args))
			for j := range offs {
				offs[j] = -1
			}
		}
		offs[i] = off
	}
	return offs
}

// Delete removes up to n characters left of the cursor and returns how many were removed.
func (t *TextBuilder) Delete(n int) int {
	n = t.bb.Delete(n)
	if n > 0 {
		t.terminate()
	}
	return n
}

// Clear empties the text.
func (t *TextBuilder) Clear() {
	t.bb.Clear()
	t.terminate()
}

// SetWriteOffset moves the cursor within [0, Len()].
func (t *TextBuilder) SetWriteOffset(off int) error {
	return t.bb.SetWriteOffset(off)
}

// WriteOffset returns the cursor.
func (t *TextBuilder) WriteOffset() int { return t.bb.write }

// SetLength forcibly sets the text length, keeping room for the terminator.
func (t *TextBuilder) SetLength(n int) error {
	if err := t.bb.SetUsedSize(n); err != nil {
		return err
	}
	t.terminate()
	return nil
}

// String returns a copy of the text.
func (t *TextBuilder) String() string {
	return string(t.bb.Bytes())
}

// StringAt returns a copy of the text from offset to the end.
func (t *TextBuilder) StringAt(offset int) (string, error) {
	if offset < 0 || offset > t.bb.end {
		return "", fmt.Errorf("%w: offset %d, length %d", ErrOutOfRange, offset, t.bb.end)
	}
	return string(t.bb.blk.data[offset:t.bb.end]), nil
}

// Bytes returns the text without its terminator. The view is invalidated by
// the next mutating call.
func (t *TextBuilder) Bytes() []byte { return t.bb.Bytes() }

// Len returns the text length, excluding the terminator.
func (t *TextBuilder) Len() int { return t.bb.end }

// Cap returns the capacity in bytes, including the terminator slot.
func (t *TextBuilder) Cap() int { return t.bb.Cap() }

// Write inserts p at the cursor.
func (t *TextBuilder) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := t.InsertChars(CopyFrom(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString inserts s at the cursor.
func (t *TextBuilder) WriteString(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if _, err := t.InsertString(s); err != nil {
		return 0, err
	}
	return len(s), nil
}

// Clone returns an independent copy of the text builder.
func (t *TextBuilder) Clone() (*TextBuilder, error) {
	bb, err := t.bb.Clone()
	if err != nil {
		return nil, err
	}
	c := &TextBuilder{bb: bb}
	c.terminate()
	return c, nil
}

// FreeBuffer releases the storage. The builder regrows on the next insert.
func (t *TextBuilder) FreeBuffer() {
	t.bb.FreeBuffer()
}

// Release releases the storage. Later growth fails with ErrReleased.
func (t *TextBuilder) Release() {
	t.bb.Release()
}

// Metrics returns a snapshot of the builder's storage.
func (t *TextBuilder) Metrics() Metrics {
	return t.bb.Metrics()
}

func (t *TextBuilder) terminate() {
	if t.bb.end < t.bb.blk.capacity() {
		t.bb.blk.data[t.bb.end] = 0
	}
}

// countWriter counts bytes without storing them.
type countWriter struct{ n int }

func (w *countWriter) Write(p []byte) (int, error) {
	w.n += len(p)
	return len(p), nil
}

// sliceWriter writes into a fixed slice and refuses to overflow it.
type sliceWriter struct {
	buf []byte
	n   int
}

func (w *sliceWriter) Write(p []byte) (int, error) {
	if w.n+len(p) > len(w.buf) {
		w.n += len(p)
		return 0, io.ErrShortWrite
	}
	w.n += copy(w.buf[w.n:], p)
	return len(p), nil
}

package growbuf

import (
	"fmt"
	"iter"
	"strings"
)

// StringVector stores strings packed back to back, each followed by a NUL,
// in one byte block. A side index holds each string's start offset.
//
// Offsets stay dense: the string at i+1 starts right after the terminator of
// the string at i. Since only offsets are stored, relocating the byte block
// needs no per-entry fixup.
type StringVector struct {
	index *slots[int]
	buf   *block
	count int
	used  int
}

// NewStringVector returns a vector with room for minCount strings and
// minBufferSize bytes of string data, growing both by rate (0 = fixed).
func NewStringVector(minCount, minBufferSize int, rate float64, opts ...Option) (*StringVector, error) {
	o := buildOptions(opts)
	index, err := newSlots[int]("strings.index", minCount, rate, o)
	if err != nil {
		return nil, err
	}
	buf, err := newBlock("strings.buffer", minBufferSize, rate, o)
	if err != nil {
		return nil, err
	}
	return &StringVector{index: index, buf: buf}, nil
}

// Push appends s. s is cut at its first NUL; an empty result is rejected.
func (v *StringVector) Push(s string) error {
	return v.PushSub(s, len(s))
}

// PushSub appends at most maxLength bytes of s, cut at the first NUL.
func (v *StringVector) PushSub(s string, maxLength int) error {
	s, err := clip(s, maxLength)
	if err != nil {
		return err
	}
	size := len(s) + 1
	if err := v.reserve(size); err != nil {
		return err
	}

	off := v.used
	copy(v.buf.data[off:], s)
	v.buf.data[off+len(s)] = 0
	v.used += size
	v.index.items[v.count] = off
	v.count++
	return nil
}

// reserve makes room for one more string of size bytes, terminator included.
// The index growth is planned first and committed only once the byte block
// has grown, so a failure leaves both stores as they were.
func (v *StringVector) reserve(size int) error {
	next, err := v.index.plan(v.count, 1)
	if err != nil {
		return err
	}
	if err := v.buf.ensure(v.used, size); err != nil {
		return err
	}
	v.index.growTo(next)
	return nil
}

// Insert places s at index i, shifting later strings right. i == Len() appends.
func (v *StringVector) Insert(i int, s string) error {
	return v.InsertSub(i, s, len(s))
}

// InsertSub places at most maxLength bytes of s at index i.
func (v *StringVector) InsertSub(i int, s string, maxLength int) error {
	if i < 0 || i > v.count {
		return fmt.Errorf("%w: insert at %d, length %d", ErrOutOfRange, i, v.count)
	}
	if i == v.count {
		return v.PushSub(s, maxLength)
	}
	s, err := clip(s, maxLength)
	if err != nil {
		return err
	}
	size := len(s) + 1
	if err := v.reserve(size); err != nil {
		return err
	}

	data, index := v.buf.data, v.index.items
	off := index[i]
	copy(data[off+size:v.used+size], data[off:v.used])
	copy(data[off:], s)
	data[off+len(s)] = 0
	v.used += size

	copy(index[i+1:v.count+1], index[i:v.count])
	v.count++
	for j := i + 1; j < v.count; j++ {
		index[j] += size
	}
	index[i] = off
	return nil
}

// Delete removes the string at index i, closing the gap in both stores.
func (v *StringVector) Delete(i int) error {
	if i < 0 || i >= v.count {
		return fmt.Errorf("%w: delete at %d, length %d", ErrOutOfRange, i, v.count)
	}
	off := v.index.items[i]
	size := v.end(i) - off

	copy(v.buf.data[off:], v.buf.data[off+size:v.used])
	v.used -= size

	index := v.index.items
	copy(index[i:], index[i+1:v.count])
	v.count--
	for j := i; j < v.count; j++ {
		index[j] -= size
	}
	return nil
}

// Pop removes the last string.
func (v *StringVector) Pop() error {
	if v.count == 0 {
		return fmt.Errorf("%w: pop from empty string vector", ErrOutOfRange)
	}
	v.count--
	v.used = v.index.items[v.count]
	return nil
}

// Search returns the index of the first string equal to target, or NotFound.
// Without caseSensitive, ASCII letters compare case-insensitively.
func (v *StringVector) Search(target string, caseSensitive bool) int {
	for i := 0; i < v.count; i++ {
		s := v.view(i)
		if caseSensitive {
			if string(s) == target {
				return i
			}
		} else if asciiEqualFold(s, target) {
			return i
		}
	}
	return NotFound
}

// Has reports whether target is present.
func (v *StringVector) Has(target string, caseSensitive bool) bool {
	return v.Search(target, caseSensitive) != NotFound
}

// At returns a copy of the string at index i.
func (v *StringVector) At(i int) (string, error) {
	if i < 0 || i >= v.count {
		return "", fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, i, v.count)
	}
	return string(v.view(i)), nil
}

// Offset returns the byte offset of string i within the packed buffer.
func (v *StringVector) Offset(i int) (int, error) {
	if i < 0 || i >= v.count {
		return 0, fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, i, v.count)
	}
	return v.index.items[i], nil
}

// All yields every index and string in order.
func (v *StringVector) All() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i := 0; i < v.count; i++ {
			if !yield(i, string(v.view(i))) {
				return
			}
		}
	}
}

// Strings returns copies of all strings in order.
func (v *StringVector) Strings() []string {
	out := make([]string, 0, v.count)
	for _, s := range v.All() {
		out = append(out, s)
	}
	return out
}

// Len returns the number of strings.
func (v *StringVector) Len() int { return v.count }

// BufferLen returns the bytes used by the packed buffer, terminators included.
func (v *StringVector) BufferLen() int { return v.used }

// Clear removes every string. Capacity is kept.
func (v *StringVector) Clear() {
	v.count = 0
	v.used = 0
}

// FreeBuffer releases both stores. The vector regrows on the next push.
func (v *StringVector) FreeBuffer() {
	v.buf.free()
	v.index.free()
	v.Clear()
}

// Release releases both stores. Later growth fails with ErrReleased.
func (v *StringVector) Release() {
	v.buf.release()
	v.index.release()
	v.Clear()
}

// Metrics returns a snapshot of the packed string buffer.
func (v *StringVector) Metrics() Metrics {
	return v.buf.metrics(v.used)
}

// IndexMetrics returns a snapshot of the offset index, in slots.
func (v *StringVector) IndexMetrics() Metrics {
	return v.index.metrics(v.count)
}

// end returns the offset just past the terminator of string i.
func (v *StringVector) end(i int) int {
	if i+1 < v.count {
		return v.index.items[i+1]
	}
	return v.used
}

// view returns string i without its terminator.
func (v *StringVector) view(i int) []byte {
	return v.buf.data[v.index.items[i] : v.end(i)-1]
}

// clip cuts s to maxLength bytes and at its first NUL.
func clip(s string, maxLength int) (string, error) {
	if maxLength < 0 {
		return "", fmt.Errorf("%w: max length %d", ErrInvalidArgument, maxLength)
	}
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "", fmt.Errorf("%w: empty string", ErrEmpty)
	}
	return s, nil
}

// asciiEqualFold compares with ASCII-only case folding.
func asciiEqualFold(a []byte, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

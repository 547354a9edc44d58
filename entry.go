package growbuf

import (
	"bytes"
	"fmt"
	"iter"

	"go.uber.org/zap"
)

// Entry is a borrowed view of one key/value pair, invalidated by the next
// mutating call on its container.
type Entry struct {
	Key   []byte
	Value []byte
}

// entry owns one key block and one value block. len(key) and len(value) are
// the block capacities; keySize and valueSize the used bytes.
type entry struct {
	key       []byte
	value     []byte
	keySize   int
	valueSize int
}

func (e *entry) view() Entry {
	return Entry{
		Key:   e.key[:e.keySize:e.keySize],
		Value: e.value[:e.valueSize:e.valueSize],
	}
}

// entryStore is the entry array shared by Dictionary and KeyMap. Slots in
// [count, capacity) are spares whose key and value blocks are reused by the
// next insert.
type entryStore struct {
	slots *slots[entry]
	count int
	alloc Allocator
	log   *zap.Logger
}

func newEntryStore(component string, minCount int, rate float64, o options) (*entryStore, error) {
	s, err := newSlots[entry](component, minCount, rate, o)
	if err != nil {
		return nil, err
	}
	return &entryStore{slots: s, alloc: o.alloc, log: o.logger}, nil
}

// at returns entry i. The pointer is invalidated when the slots grow.
func (s *entryStore) at(i int) *entry {
	return &s.slots.items[i]
}

// prepareSpare fills the first spare slot with key and val without making it
// visible. Every allocation is made before the slot array grows, and a failure
// returns what was allocated, so on error the store is unchanged.
func (s *entryStore) prepareSpare(key []byte, val Source) (*entry, error) {
	n := val.Len()
	if n < 0 {
		return nil, fmt.Errorf("%w: value of %d bytes", ErrInvalidArgument, n)
	}
	next, err := s.slots.plan(s.count, 1)
	if err != nil {
		return nil, err
	}
	var spare entry
	if s.count < s.slots.capacity() {
		spare = *s.at(s.count)
	}

	k, freshKey, err := s.stage(spare.key, len(key))
	if err != nil {
		return nil, err
	}
	v, freshValue, err := s.stage(spare.value, n)
	if err != nil {
		if freshKey {
			s.alloc.Free(k)
		}
		return nil, err
	}

	copy(k, key)
	if freshValue && val.kind == sourceNoInit {
		copy(v, spare.value[:spare.valueSize])
	}
	val.writeTo(v[:n])
	if freshKey && len(spare.key) > 0 {
		s.alloc.Free(spare.key)
	}
	if freshValue && len(spare.value) > 0 {
		s.alloc.Free(spare.value)
	}

	s.slots.growTo(next)
	e := s.at(s.count)
	*e = entry{key: k, value: v, keySize: len(key), valueSize: n}
	return e, nil
}

// stage returns b when it already holds n bytes, or a fresh block of n bytes.
// A fresh block leaves b untouched so the caller can still back out.
func (s *entryStore) stage(b []byte, n int) ([]byte, bool, error) {
	if n <= len(b) {
		return b, false, nil
	}
	fresh, err := s.alloc.Allocate(n)
	if err != nil {
		return nil, false, s.allocFailed(len(b), n, err)
	}
	return fresh, true, nil
}

// writeValue grows e's value block to val.Len() and writes val. A NoInit
// source keeps the bytes already held.
func (s *entryStore) writeValue(e *entry, val Source) error {
	n := val.Len()
	if n < 0 {
		return fmt.Errorf("%w: value of %d bytes", ErrInvalidArgument, n)
	}
	var off int
	aliased := false
	if val.kind == sourceCopy && len(val.data) > 0 && len(e.value) > 0 {
		off, aliased = offsetWithin(e.value, val.data)
	}
	grown, err := s.fit(e.value, n)
	if err != nil {
		return err
	}
	e.value = grown
	if aliased {
		val.data = e.value[off : off+len(val.data)]
	}
	val.writeTo(e.value[:n])
	e.valueSize = n
	return nil
}

// fit returns b grown to hold at least n bytes, preserving its contents.
func (s *entryStore) fit(b []byte, n int) ([]byte, error) {
	if n <= len(b) {
		return b, nil
	}
	grown, err := s.alloc.Reallocate(b, n)
	if err != nil {
		return nil, s.allocFailed(len(b), n, err)
	}
	return grown, nil
}

func (s *entryStore) allocFailed(old, n int, err error) error {
	s.log.Warn("allocation failed",
		zap.String("component", s.slots.component),
		zap.Int("old_capacity", old),
		zap.Int("new_capacity", n),
		zap.Error(err))
	return fmt.Errorf("%w: %s: entry block %d -> %d bytes: %w", ErrAllocation, s.slots.component, old, n, err)
}

// insertSpare makes the prepared spare visible at position pos.
func (s *entryStore) insertSpare(pos int) {
	items := s.slots.items
	spare := items[s.count]
	copy(items[pos+1:s.count+1], items[pos:s.count])
	items[pos] = spare
	s.count++
}

// removeAt hides entry pos, moving it past the last visible entry so its
// blocks are reused.
func (s *entryStore) removeAt(pos int) {
	items := s.slots.items
	vacated := items[pos]
	copy(items[pos:], items[pos+1:s.count])
	s.count--
	items[s.count] = vacated
}

// freeAt removes entry pos and returns its blocks to the allocator.
func (s *entryStore) freeAt(pos int) {
	s.removeAt(pos)
	s.freeEntry(s.at(s.count))
}

// freeAll frees the blocks of every slot, spares included.
func (s *entryStore) freeAll() {
	for i := range s.slots.items {
		s.freeEntry(&s.slots.items[i])
	}
	s.count = 0
}

func (s *entryStore) freeEntry(e *entry) {
	if len(e.key) > 0 {
		s.alloc.Free(e.key)
	}
	if len(e.value) > 0 {
		s.alloc.Free(e.value)
	}
	*e = entry{}
}

func (s *entryStore) all() iter.Seq2[[]byte, []byte] {
	return func(yield func([]byte, []byte) bool) {
		for i := 0; i < s.count; i++ {
			v := s.at(i).view()
			if !yield(v.Key, v.Value) {
				return
			}
		}
	}
}

func (s *entryStore) entry(i int) (Entry, error) {
	if i < 0 || i >= s.count {
		return Entry{}, fmt.Errorf("%w: entry %d, length %d", ErrOutOfRange, i, s.count)
	}
	return s.at(i).view(), nil
}

func (s *entryStore) hasValue(val []byte) bool {
	for i := 0; i < s.count; i++ {
		if bytes.Equal(s.at(i).view().Value, val) {
			return true
		}
	}
	return false
}

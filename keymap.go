package growbuf

import (
	"bytes"
	"iter"
)

// KeyMap is an unsorted key/value store searched linearly with exact key
// equality. It shares the Dictionary's entry reuse.
type KeyMap struct {
	entries *entryStore
}

// NewKeyMap returns a map with room for minCount entries, growing by rate (0 = fixed).
func NewKeyMap(minCount int, rate float64, opts ...Option) (*KeyMap, error) {
	entries, err := newEntryStore("keymap", minCount, rate, buildOptions(opts))
	if err != nil {
		return nil, err
	}
	return &KeyMap{entries: entries}, nil
}

// Push appends key and val without checking for an existing key.
// It returns a view of the stored value.
func (m *KeyMap) Push(key []byte, val Source) ([]byte, error) {
	if _, err := m.entries.prepareSpare(key, val); err != nil {
		return nil, err
	}
	m.entries.count++
	return m.entries.at(m.entries.count - 1).view().Value, nil
}

// Set stores val under key, appending the key if it is absent.
func (m *KeyMap) Set(key []byte, val Source) ([]byte, error) {
	pos := m.find(key)
	if pos == NotFound {
		return m.Push(key, val)
	}
	e := m.entries.at(pos)
	if err := m.entries.writeValue(e, val); err != nil {
		return nil, err
	}
	return e.view().Value, nil
}

// Get returns a view of the value stored under key.
func (m *KeyMap) Get(key []byte) ([]byte, bool) {
	pos := m.find(key)
	if pos == NotFound {
		return nil, false
	}
	return m.entries.at(pos).view().Value, true
}

// Has reports whether key is present.
func (m *KeyMap) Has(key []byte) bool {
	return m.find(key) != NotFound
}

// Delete removes the first entry with key. Its blocks stay allocated for reuse.
func (m *KeyMap) Delete(key []byte) bool {
	pos := m.find(key)
	if pos == NotFound {
		return false
	}
	m.entries.removeAt(pos)
	return true
}

// FreeKey removes every entry with key and frees their blocks.
func (m *KeyMap) FreeKey(key []byte) bool {
	freed := false
	for pos := m.find(key); pos != NotFound; pos = m.find(key) {
		m.entries.freeAt(pos)
		freed = true
	}
	return freed
}

// DeleteAll removes every entry, keeping all blocks for reuse.
func (m *KeyMap) DeleteAll() {
	m.entries.count = 0
}

// FreeEntries removes every entry and frees every key and value block.
func (m *KeyMap) FreeEntries() {
	m.entries.freeAll()
}

// Entry returns a view of the i-th entry in insertion order.
func (m *KeyMap) Entry(i int) (Entry, error) {
	return m.entries.entry(i)
}

// All yields every key and value in insertion order.
func (m *KeyMap) All() iter.Seq2[[]byte, []byte] {
	return m.entries.all()
}

// Len returns the number of entries.
func (m *KeyMap) Len() int { return m.entries.count }

// FreeBuffer frees every block and the entry array. The map stays usable.
func (m *KeyMap) FreeBuffer() {
	m.entries.freeAll()
	m.entries.slots.free()
}

// Release frees everything. Later inserts fail with ErrReleased.
func (m *KeyMap) Release() {
	m.entries.freeAll()
	m.entries.slots.release()
}

// Metrics returns a snapshot of the entry array, in slots.
func (m *KeyMap) Metrics() Metrics {
	return m.entries.slots.metrics(m.entries.count)
}

func (m *KeyMap) find(key []byte) int {
	for i := 0; i < m.entries.count; i++ {
		if bytes.Equal(m.entries.at(i).view().Key, key) {
			return i
		}
	}
	return NotFound
}

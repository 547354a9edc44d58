package growbuf

import (
	"iter"
)

// Dictionary is a sorted key/value store. Entries stay ordered by Compare, so
// lookups are binary searches and inserts shift the tail of the entry array.
//
// Each entry owns its key and value blocks. Deleted entries keep their blocks
// as spares for later inserts; FreeEntry and FreeEntries return them.
type Dictionary struct {
	entries *entryStore
	opts    options
}

// NewDictionary returns a dictionary with room for minCount entries, growing by rate (0 = fixed).
func NewDictionary(minCount int, rate float64, opts ...Option) (*Dictionary, error) {
	o := buildOptions(opts)
	entries, err := newEntryStore("dictionary", minCount, rate, o)
	if err != nil {
		return nil, err
	}
	return &Dictionary{entries: entries, opts: o}, nil
}

// Locate binary-searches key. When found is false, index is the slot where key
// would be inserted.
func (d *Dictionary) Locate(key []byte) (index int, found bool) {
	lo, hi := 0, d.entries.count
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch c := Compare(key, d.entries.at(mid).view().Key); {
		case c < 0:
			hi = mid
		case c > 0:
			lo = mid + 1
		default:
			return mid, true
		}
	}
	return lo, false
}

// Set stores val under key and returns a view of the stored value.
//
// An existing key keeps its key block and has its value rewritten in place.
// A new key takes the first spare slot, reusing its blocks, and is rotated
// into sorted position. On error the dictionary is unchanged.
func (d *Dictionary) Set(key []byte, val Source) ([]byte, error) {
	pos, found := d.Locate(key)
	if found {
		e := d.entries.at(pos)
		if err := d.entries.writeValue(e, val); err != nil {
			return nil, err
		}
		return e.view().Value, nil
	}
	if _, err := d.entries.prepareSpare(key, val); err != nil {
		return nil, err
	}
	d.entries.insertSpare(pos)
	return d.entries.at(pos).view().Value, nil
}

// Get returns a view of the value stored under key.
func (d *Dictionary) Get(key []byte) ([]byte, bool) {
	pos, found := d.Locate(key)
	if !found {
		return nil, false
	}
	return d.entries.at(pos).view().Value, true
}

// Has reports whether key is present.
func (d *Dictionary) Has(key []byte) bool {
	_, found := d.Locate(key)
	return found
}

// HasValue reports whether any entry holds exactly val.
func (d *Dictionary) HasValue(val []byte) bool {
	return d.entries.hasValue(val)
}

// Delete removes key. Its blocks stay allocated for reuse.
func (d *Dictionary) Delete(key []byte) bool {
	pos, found := d.Locate(key)
	if !found {
		return false
	}
	d.entries.removeAt(pos)
	return true
}

// FreeEntry removes key and frees its blocks.
func (d *Dictionary) FreeEntry(key []byte) bool {
	pos, found := d.Locate(key)
	if !found {
		return false
	}
	d.entries.freeAt(pos)
	return true
}

// DeleteAll removes every entry, keeping all blocks for reuse.
func (d *Dictionary) DeleteAll() {
	d.entries.count = 0
}

// FreeEntries removes every entry and frees every key and value block.
func (d *Dictionary) FreeEntries() {
	d.entries.freeAll()
}

// Merge sets every entry of src into d. Existing keys are overwritten only
// when overwrite is true. A failure stops the merge; entries set so far stay.
func (d *Dictionary) Merge(src *Dictionary, overwrite bool) error {
	for i := 0; i < src.entries.count; i++ {
		e := src.entries.at(i).view()
		if !overwrite && d.Has(e.Key) {
			continue
		}
		if _, err := d.Set(e.Key, CopyFrom(e.Value)); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns an independent copy with the same capacity, rate and entries.
func (d *Dictionary) Clone() (*Dictionary, error) {
	c, err := NewDictionary(d.entries.slots.capacity(), d.entries.slots.policy.Rate, d.cloneOptions()...)
	if err != nil {
		return nil, err
	}
	if err := c.Merge(d, true); err != nil {
		c.Release()
		return nil, err
	}
	return c, nil
}

func (d *Dictionary) cloneOptions() []Option {
	return []Option{WithAllocator(d.opts.alloc), WithLogger(d.opts.logger), WithRelocationHook(d.opts.hook)}
}

// Entry returns a view of the i-th entry in key order.
func (d *Dictionary) Entry(i int) (Entry, error) {
	return d.entries.entry(i)
}

// All yields every key and value in key order.
func (d *Dictionary) All() iter.Seq2[[]byte, []byte] {
	return d.entries.all()
}

// Len returns the number of entries.
func (d *Dictionary) Len() int { return d.entries.count }

// Cap returns the number of entry slots.
func (d *Dictionary) Cap() int { return d.entries.slots.capacity() }

// FreeBuffer frees every block and the entry array. The dictionary stays usable.
func (d *Dictionary) FreeBuffer() {
	d.entries.freeAll()
	d.entries.slots.free()
}

// Release frees everything. Later inserts fail with ErrReleased.
func (d *Dictionary) Release() {
	d.entries.freeAll()
	d.entries.slots.release()
}

// Metrics returns a snapshot of the entry array, in slots.
func (d *Dictionary) Metrics() Metrics {
	return d.entries.slots.metrics(d.entries.count)
}

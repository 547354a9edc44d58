package growbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect[T any](l *List[T]) []T {
	var out []T
	l.Each(func(v T) { out = append(out, v) })
	return out
}

func TestListAdd(t *testing.T) {
	var l List[int]
	assert.Nil(t, l.Front())
	assert.Nil(t, l.Back())

	first := l.Add(1)
	l.Add(2)
	last := l.Add(3)

	assert.Equal(t, 3, l.Len())
	assert.Same(t, first, l.Front())
	assert.Same(t, last, l.Back())
	assert.Equal(t, 2, first.Next().Value)
	assert.Nil(t, last.Next())
	assert.Equal(t, []int{1, 2, 3}, collect(&l))
}

func TestListDeleteFunc(t *testing.T) {
	tests := []struct {
		name    string
		values  []int
		target  int
		once    bool
		removed int
		want    []int
	}{
		{"first", []int{1, 2, 3}, 1, false, 1, []int{2, 3}},
		{"middle", []int{1, 2, 3}, 2, false, 1, []int{1, 3}},
		{"last", []int{1, 2, 3}, 3, false, 1, []int{1, 2}},
		{"all matches", []int{2, 1, 2, 2}, 2, false, 3, []int{1}},
		{"once", []int{2, 1, 2}, 2, true, 1, []int{1, 2}},
		{"missing", []int{1, 2}, 9, false, 0, []int{1, 2}},
		{"only node", []int{5}, 5, false, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l List[int]
			for _, v := range tt.values {
				l.Add(v)
			}
			got := l.DeleteFunc(func(v int) bool { return v == tt.target }, tt.once)
			assert.Equal(t, tt.removed, got)
			assert.Equal(t, tt.want, collect(&l))
			assert.Equal(t, len(tt.want), l.Len())
			if len(tt.want) == 0 {
				assert.Nil(t, l.Front())
				assert.Nil(t, l.Back())
			} else {
				assert.Equal(t, tt.want[len(tt.want)-1], l.Back().Value)
			}
		})
	}
}

func TestListCursor(t *testing.T) {
	var l List[string]
	for _, s := range []string{"a", "b", "c"} {
		l.Add(s)
	}

	l.Rewind()
	v, ok := l.Next()
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	// Deleting the node under the cursor moves the cursor on.
	l.DeleteFunc(func(s string) bool { return s == "b" }, true)
	v, ok = l.Next()
	assert.True(t, ok)
	assert.Equal(t, "c", v)

	_, ok = l.Next()
	assert.False(t, ok)

	// Deleting the last node while the cursor rests on it ends iteration.
	l.Rewind()
	l.Next()
	l.DeleteFunc(func(s string) bool { return s == "c" }, false)
	_, ok = l.Next()
	assert.False(t, ok)

	// Appending after the end is seen once rewound.
	l.Add("d")
	l.Rewind()
	var seen []string
	for v, ok := l.Next(); ok; v, ok = l.Next() {
		seen = append(seen, v)
	}
	assert.Equal(t, []string{"a", "d"}, seen)
}

func TestListClear(t *testing.T) {
	var l List[int]
	l.Add(1)
	l.Add(2)
	l.Rewind()

	l.Clear()
	assert.Zero(t, l.Len())
	assert.Nil(t, l.Front())
	_, ok := l.Next()
	assert.False(t, ok)

	l.Add(3)
	assert.Equal(t, []int{3}, collect(&l))
}

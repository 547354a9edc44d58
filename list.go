package growbuf

// Node is one element of a List.
type Node[T any] struct {
	Value T
	next  *Node[T]
}

// Next returns the following node, or nil at the end of the list.
func (n *Node[T]) Next() *Node[T] { return n.next }

// List is a singly linked list with an iteration cursor that survives deletion.
type List[T any] struct {
	first  *Node[T]
	last   *Node[T]
	cursor *Node[T]
	length int
}

// Add appends v and returns its node.
func (l *List[T]) Add(v T) *Node[T] {
	n := &Node[T]{Value: v}
	if l.last != nil {
		l.last.next = n
	} else {
		l.first = n
	}
	l.last = n
	l.length++
	return n
}

// DeleteFunc removes nodes whose value satisfies pred, only the first such node
// when once is set, and returns how many were removed. A cursor resting on a
// removed node moves to its successor.
func (l *List[T]) DeleteFunc(pred func(T) bool, once bool) int {
	removed := 0
	var prev *Node[T]
	for n := l.first; n != nil; {
		next := n.next
		if !pred(n.Value) {
			prev = n
			n = next
			continue
		}
		if prev != nil {
			prev.next = next
		} else {
			l.first = next
		}
		if l.last == n {
			l.last = prev
		}
		if l.cursor == n {
			l.cursor = next
		}
		n.next = nil
		l.length--
		removed++
		if once {
			break
		}
		n = next
	}
	return removed
}

// Each calls fn for every value in order.
func (l *List[T]) Each(fn func(T)) {
	for n := l.first; n != nil; n = n.next {
		fn(n.Value)
	}
}

// Rewind moves the cursor to the front.
func (l *List[T]) Rewind() { l.cursor = l.first }

// Next returns the value under the cursor and advances it.
// ok is false once the cursor has passed the last node.
func (l *List[T]) Next() (v T, ok bool) {
	if l.cursor == nil {
		return v, false
	}
	v = l.cursor.Value
	l.cursor = l.cursor.next
	return v, true
}

// Clear removes every node.
func (l *List[T]) Clear() {
	l.first, l.last, l.cursor = nil, nil, nil
	l.length = 0
}

// Len returns the number of nodes.
func (l *List[T]) Len() int { return l.length }

// Front returns the first node, or nil.
func (l *List[T]) Front() *Node[T] { return l.first }

// Back returns the last node, or nil.
func (l *List[T]) Back() *Node[T] { return l.last }

package growbuf

type sourceKind uint8

const (
	sourceCopy sourceKind = iota
	sourceFill
	sourceNoInit
)

// Source describes the bytes written by a store operation: a copy of a slice,
// n repetitions of one byte, or n bytes left as the store already holds them.
// The zero Source copies nothing.
type Source struct {
	kind sourceKind
	data []byte
	fill byte
	n    int
}

// CopyFrom copies b. b may alias the destination container.
func CopyFrom(b []byte) Source {
	return Source{kind: sourceCopy, data: b, n: len(b)}
}

// CopyString copies s.
func CopyString(s string) Source {
	return CopyFrom([]byte(s))
}

// Fill writes n copies of c.
func Fill(c byte, n int) Source {
	return Source{kind: sourceFill, fill: c, n: n}
}

// NoInit reserves n bytes without writing them. Their contents are unspecified
// unless the destination already held data there.
func NoInit(n int) Source {
	return Source{kind: sourceNoInit, n: n}
}

// Len returns the number of bytes the source produces.
func (s Source) Len() int {
	return s.n
}

func (s Source) valid() bool {
	return s.n >= 0
}

// writeTo writes the source into dst, which must be exactly s.Len() bytes.
func (s Source) writeTo(dst []byte) {
	switch s.kind {
	case sourceCopy:
		copy(dst, s.data)
	case sourceFill:
		for i := range dst {
			dst[i] = s.fill
		}
	}
}

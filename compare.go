package growbuf

// Compare orders keys as unsigned little-endian integers: byte 0 is least
// significant and a shorter key is zero-extended. It returns -1, 0 or +1.
//
// Keys that differ only by trailing zero bytes compare equal, so "a" and
// "a\x00" are the same dictionary key.
func Compare(a, b []byte) int {
	n := max(len(a), len(b))
	for i := n - 1; i >= 0; i-- {
		var x, y byte
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

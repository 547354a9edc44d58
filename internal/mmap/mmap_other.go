//go:build !unix

package mmap

import "fmt"

// Supported reports whether blocks are real memory mappings on this platform.
const Supported = false

// Map falls back to a heap block when anonymous mappings are unavailable.
func Map(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("mmap: invalid size %d", n)
	}
	return make([]byte, n), nil
}

// Unmap is a no-op for heap blocks.
func Unmap([]byte) error { return nil }

// Remap resizes a heap block.
func Remap(b []byte, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("mmap: invalid size %d", n)
	}
	if n <= cap(b) {
		return b[:n], nil
	}
	grown := make([]byte, n)
	copy(grown, b)
	return grown, nil
}

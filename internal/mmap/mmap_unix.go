//go:build unix

package mmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Supported reports whether blocks are real memory mappings on this platform.
const Supported = true

var pageSize = os.Getpagesize()

// Map returns a zeroed anonymous mapping of at least n bytes.
func Map(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("mmap: invalid size %d", n)
	}
	data, err := unix.Mmap(-1, 0, roundPage(n), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap: map %d bytes: %w", n, err)
	}
	return data[:n], nil
}

// Unmap releases a mapping returned by Map or Remap.
func Unmap(b []byte) error {
	if cap(b) == 0 {
		return nil
	}
	if err := unix.Munmap(b[:cap(b)]); err != nil {
		return fmt.Errorf("mmap: unmap: %w", err)
	}
	return nil
}

// Remap resizes a mapping to n bytes. Page slack is used in place; otherwise
// the mapping may move and the old slice must no longer be used.
func Remap(b []byte, n int) ([]byte, error) {
	if cap(b) == 0 {
		return Map(n)
	}
	if n <= 0 {
		return nil, fmt.Errorf("mmap: invalid size %d", n)
	}
	if n <= cap(b) {
		return b[:n], nil
	}
	grown, err := remap(b[:cap(b)], roundPage(n))
	if err != nil {
		return nil, fmt.Errorf("mmap: remap to %d bytes: %w", n, err)
	}
	return grown[:n], nil
}

func roundPage(n int) int {
	return (n + pageSize - 1) &^ (pageSize - 1)
}

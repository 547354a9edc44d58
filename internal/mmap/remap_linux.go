//go:build linux

package mmap

import "golang.org/x/sys/unix"

func remap(old []byte, size int) ([]byte, error) {
	return unix.Mremap(old, size, unix.MREMAP_MAYMOVE)
}

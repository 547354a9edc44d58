//go:build unix && !linux

package mmap

import "golang.org/x/sys/unix"

// remap emulates mremap with map, copy, unmap.
func remap(old []byte, size int) ([]byte, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	copy(data, old)
	if err := unix.Munmap(old); err != nil {
		_ = unix.Munmap(data)
		return nil, err
	}
	return data, nil
}

// Package mmap provides anonymous, private memory mappings used as relocatable
// backing blocks.
//
// Blocks are returned with len equal to the requested size and cap equal to the
// page-rounded mapping size; Remap and Unmap must be given a slice that still
// carries that cap.
package mmap

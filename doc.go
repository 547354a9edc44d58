// Package growbuf implements growable, allocator-backed containers for Go.
//
// # Overview
//
// Every container keeps its data in one contiguous block obtained from an
// Allocator and grows it by a configurable expansion rate. The containers are:
//
//   - BinaryBuilder: a byte sequence with a movable write cursor
//   - TextBuilder: a BinaryBuilder that keeps a NUL after its content
//   - StringVector: NUL-terminated strings packed back to back
//   - Dictionary: key/value pairs sorted by Compare
//   - KeyMap: unsorted key/value pairs with exact key matching
//   - Vector: fixed-size records stored contiguously
//
// A singly linked List with a deletion-safe cursor rounds out the set.
//
// # Basic Usage
//
//	b, err := growbuf.NewBinaryBuilder(64, 0.5) // grow by half when full
//	if err != nil {
//		return err
//	}
//	defer b.Release()
//
//	b.WriteString("Hello")
//	b.SetWriteOffset(2)
//	b.InsertBytes(growbuf.CopyString("XY")) // "HeXYllo"
//
// # Growth
//
// When a write does not fit, the block grows to
// (capacity + needed) * (1 + rate), and never below used + needed.
// A rate of 0 fixes the capacity: writes that do not fit fail with
// ErrFixedCapacity and leave the container unchanged.
//
// Containers address their block by offset, so growth only swaps the base
// slice. Views returned by Bytes, At or Get are invalidated by the next
// mutating call. Inputs that view the destination container are safe: they are
// re-derived from the grown block before being copied.
//
// # Allocators
//
// HeapAllocator uses the Go heap and is the default. Arena hands out blocks
// from large chunks and extends the most recent block in place.
// MappedAllocator uses anonymous memory mappings and, on Linux, mremap.
// BudgetAllocator caps the bytes outstanding through any of them.
//
//	a := growbuf.NewArena(0)
//	defer a.Release()
//	d, _ := growbuf.NewDictionary(32, 0.5, growbuf.WithAllocator(a))
//
// # Thread Safety
//
// No container is safe for concurrent use. Callers that share a container
// across goroutines must serialize access.
//
// # Metrics and Monitoring
//
// Every container reports a Metrics snapshot with its size in use, capacity,
// grow count and relocation count. WithRelocationHook observes each growth as
// it happens, and the promstats package exports snapshots to Prometheus.
package growbuf

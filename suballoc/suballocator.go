// Package suballoc implements a first-fit, power-of-two-agnostic free-list sub-allocator over a single
// RHI buffer (§4.5): callers carve named byte ranges out of one backing buffer instead of allocating a
// fresh RHI buffer per request.
package suballoc

import "sort"

// Allocation identifies one sub-allocated range within an Allocator's backing buffer.
type Allocation struct {
	Offset uint64
	Size   uint64
}

func alignUp(v, alignment uint64) uint64 {
	if alignment == 0 {
		return v
	}
	return (v + alignment - 1) &^ (alignment - 1)
}

type chunk struct {
	begin, end uint64
}

// Allocator partitions one buffer of a fixed total size into free chunks, kept sorted by begin so
// first-fit scanning and predecessor/successor coalescing on Free are both straightforward. Go has no
// built-in ordered set (the original implementation uses std::set<pair<uint64_t,uint64_t>>); a slice kept
// sorted by begin and mutated via sort.Search gives the same semantics.
type Allocator struct {
	free []chunk
}

// NewAllocator constructs an Allocator over a backing buffer of totalSize bytes, entirely free.
func NewAllocator(totalSize uint64) *Allocator {
	return &Allocator{free: []chunk{{begin: 0, end: totalSize}}}
}

// Reset discards all allocations, returning the allocator to a single free chunk spanning the whole
// buffer.
func (a *Allocator) Reset(totalSize uint64) {
	a.free = []chunk{{begin: 0, end: totalSize}}
}

// Allocate scans free chunks for the first one that fits size bytes at the given alignment, splitting the
// chosen chunk into at most two residual chunks (a left pad if the aligned start isn't the chunk's begin,
// a right residual if bytes remain after the allocation). Reports false when no chunk fits; the caller
// must fall back to a fresh allocation (§4.5).
func (a *Allocator) Allocate(size, alignment uint64) (Allocation, bool) {
	for i, c := range a.free {
		alignedBegin := alignUp(c.begin, alignment)
		allocEnd := alignedBegin + size
		if allocEnd > c.end {
			continue
		}

		var residual []chunk
		if alignedBegin != c.begin {
			residual = append(residual, chunk{begin: c.begin, end: alignedBegin})
		}
		if c.end != allocEnd {
			residual = append(residual, chunk{begin: allocEnd, end: c.end})
		}

		a.free = append(a.free[:i], append(residual, a.free[i+1:]...)...)
		return Allocation{Offset: alignedBegin, Size: size}, true
	}
	return Allocation{}, false
}

// Free returns alloc's byte range to the free list, coalescing with an immediate predecessor whose end
// equals alloc's begin and/or an immediate successor whose begin equals alloc's end (§4.5, property 7: no
// two free chunks are ever left adjacent).
func (a *Allocator) Free(alloc Allocation) {
	begin, end := alloc.Offset, alloc.Offset+alloc.Size

	idx := sort.Search(len(a.free), func(i int) bool { return a.free[i].begin >= begin })

	if idx > 0 && a.free[idx-1].end == begin {
		begin = a.free[idx-1].begin
		a.free = append(a.free[:idx-1], a.free[idx:]...)
		idx--
	}
	if idx < len(a.free) && a.free[idx].begin == end {
		end = a.free[idx].end
		a.free = append(a.free[:idx], a.free[idx+1:]...)
	}

	a.free = append(a.free, chunk{})
	copy(a.free[idx+1:], a.free[idx:])
	a.free[idx] = chunk{begin: begin, end: end}
}

// FreeChunks returns a copy of the current free chunks as (begin, end) pairs, sorted by begin. Exposed for
// tests asserting the no-overlap / no-adjacency invariants.
func (a *Allocator) FreeChunks() [][2]uint64 {
	out := make([][2]uint64, len(a.free))
	for i, c := range a.free {
		out[i] = [2]uint64{c.begin, c.end}
	}
	return out
}

// Package osmalloc implements a user-space heap allocator backed directly by
// the operating system's memory primitives. Small blocks are carved out of
// the program break with a best-fit free list; large blocks get their own
// anonymous mapping and are returned to the OS on Free.
//
// Every block the allocator has ever produced carries an in-band header and
// is threaded on a single intrusive list; free blocks are found by walking
// it. The break heap, once grown, is never shrunk.
//
// The allocator is single-threaded by design and assumes it is the only
// caller adjusting the program break. The package-level functions route
// through one process-wide default instance:
//
//	b := osmalloc.Malloc(100)
//	b = osmalloc.Realloc(b, 200)
//	osmalloc.Free(b)
package osmalloc

import "unsafe"

// Allocator is a free-list allocator over the break heap and anonymous
// mappings. The zero value is not usable; use New.
type Allocator struct {
	mem  memory
	head *blockMeta

	// preallocated flips permanently once the first small allocation has
	// reserved a full mmapThreshold chunk of break heap.
	preallocated bool
}

// New returns an allocator bound to the real break and mapping primitives.
// At most one allocator may drive the program break per process.
func New() *Allocator {
	return &Allocator{mem: osMemory{}}
}

// std backs the package-level functions.
var std = New()

// Malloc allocates size bytes through the default allocator.
func Malloc(size int) []byte { return std.Malloc(size) }

// Free releases a block through the default allocator.
func Free(b []byte) { std.Free(b) }

// Calloc allocates a zero-filled region through the default allocator.
func Calloc(n, size int) []byte { return std.Calloc(n, size) }

// Realloc resizes a block through the default allocator.
func Realloc(b []byte, size int) []byte { return std.Realloc(b, size) }

// Malloc returns a slice of at least size writable bytes whose data pointer
// is 8-byte aligned, or nil when size is zero or the OS refuses memory.
// The returned cap is the block's payload capacity.
func (a *Allocator) Malloc(size int) []byte {
	if size <= 0 {
		return nil
	}
	total := round8(size + headerSize)
	if a.head != nil {
		a.coalesce()
	}
	if b := a.findFree(total); b != nil {
		split(b, total)
		b.status = statusAlloc
		return payload(b, size)
	}
	if last := a.lastBlock(); total < mmapThreshold && last != nil && last.status == statusFree {
		if a.extendLast(last, total) {
			return payload(last, size)
		}
		return nil
	}
	b, err := a.newBlock(total, mmapThreshold)
	if err != nil {
		return nil
	}
	return payload(b, size)
}

// Free releases the block owning b's data pointer. A break-heap block is
// marked FREE and kept for reuse; a mapped block is unlinked and its whole
// region, header included, handed back to the OS. Slices with zero capacity,
// nil included, are ignored. Coalescing is deferred to the next allocation.
func (a *Allocator) Free(b []byte) {
	if cap(b) == 0 {
		return
	}
	a.freeBlock(metaOf(b))
}

// Calloc returns a zero-filled slice of n*size bytes, or nil when either
// count is zero. Totals of callocThreshold and up are served by the mapping
// backend, whose pages arrive already zeroed.
func (a *Allocator) Calloc(n, size int) []byte {
	if n <= 0 || size <= 0 {
		return nil
	}
	length := n * size
	total := round8(length + headerSize)
	if a.head != nil {
		a.coalesce()
	}
	if total < callocThreshold {
		if b := a.findFree(total); b != nil {
			split(b, total)
			b.status = statusAlloc
			return zeroFill(b, length)
		}
		if last := a.lastBlock(); last != nil && last.status == statusFree {
			if a.extendLast(last, total) {
				return zeroFill(last, length)
			}
			return nil
		}
	}
	b, err := a.newBlock(total, callocThreshold)
	if err != nil {
		return nil
	}
	if b.status == statusMapped {
		// fresh anonymous pages are already zero
		return payload(b, length)
	}
	return zeroFill(b, length)
}

// freeBlock is Free on a recovered header.
func (a *Allocator) freeBlock(m *blockMeta) {
	if m.status == statusMapped {
		a.unlink(m)
		a.mem.munmap(unsafe.Pointer(m), m.size)
		return
	}
	m.status = statusFree
}

// extendLast grows the FREE tail block in place to total by advancing the
// break, and marks it ALLOCATED. Reports whether the break moved.
func (a *Allocator) extendLast(last *blockMeta, total int) bool {
	if _, err := a.mem.sbrk(round8(total - last.size)); err != nil {
		return false
	}
	last.size = total
	last.status = statusAlloc
	return true
}

// newBlock obtains a fresh block of total bytes, linked at the tail of the
// list. Totals below threshold come from the break heap, with the one-time
// preallocation on first use; totals at or above it from a mapping.
func (a *Allocator) newBlock(total, threshold int) (*blockMeta, error) {
	if total < threshold {
		if !a.preallocated {
			return a.prealloc(total)
		}
		p, err := a.mem.sbrk(total)
		if err != nil {
			return nil, err
		}
		b := (*blockMeta)(p)
		b.status = statusAlloc
		b.size = total
		b.next = nil
		a.link(b)
		return b, nil
	}
	p, err := a.mem.mmap(total)
	if err != nil {
		return nil, err
	}
	b := (*blockMeta)(p)
	b.status = statusMapped
	b.size = total
	b.next = nil
	a.link(b)
	return b, nil
}

// prealloc reserves a full mmapThreshold chunk of break heap on the first
// small allocation, takes total for the caller and leaves the remainder as
// one FREE block. The header is written only after the break has moved.
func (a *Allocator) prealloc(total int) (*blockMeta, error) {
	p, err := a.mem.sbrk(mmapThreshold)
	if err != nil {
		return nil, err
	}
	a.preallocated = true
	b := (*blockMeta)(p)
	b.status = statusAlloc
	b.size = mmapThreshold
	b.next = nil
	a.link(b)
	split(b, total)
	return b, nil
}

// zeroFill clears the whole payload of b and returns its first size bytes.
func zeroFill(b *blockMeta, size int) []byte {
	p := payload(b, b.size-headerSize)
	for i := range p {
		p[i] = 0
	}
	return p[:size]
}

package osmalloc

import "unsafe"

type status uint32

const (
	// statusFree marks a break-heap block available for placement.
	statusFree status = iota
	// statusAlloc marks a break-heap block handed out to a caller.
	statusAlloc
	// statusMapped marks a block backed by its own anonymous mapping.
	// Mapped blocks never become FREE; they leave the list when unmapped.
	statusMapped
)

const (
	// mmapThreshold routes Malloc and Realloc: totals below it are carved
	// out of the break heap, totals at or above it get their own mapping.
	// A break-heap block that Realloc grows in place (at the break or by
	// absorbing a FREE neighbor) may end up larger than the threshold.
	mmapThreshold = 128 * 1024

	// callocThreshold is the lower routing threshold used by Calloc.
	// Anonymous pages arrive zeroed, so zeroed allocations switch to the
	// mapping backend from one page up and skip the explicit fill.
	callocThreshold = 4096

	// align is the unit every block size and payload address is rounded to.
	align = 8
)

// blockMeta is the in-band header preceding every payload. size counts the
// header plus the payload and is always a multiple of align. The field
// layout keeps headerSize itself a multiple of align so payloads come out
// aligned without extra padding.
type blockMeta struct {
	size   int
	status status
	_      uint32
	next   *blockMeta
}

const headerSize = int(unsafe.Sizeof(blockMeta{}))

// round8 rounds n up to the next multiple of align.
func round8(n int) int {
	return (n + align - 1) &^ (align - 1)
}

// payload returns the user slice of b: data pointer just past the header,
// len = size, cap = the block's full payload capacity.
func payload(b *blockMeta, size int) []byte {
	p := unsafe.Add(unsafe.Pointer(b), headerSize)
	return unsafe.Slice((*byte)(p), b.size-headerSize)[:size]
}

// metaOf recovers the header of the block whose payload is b's data pointer.
// Reads the slice header directly so resliced inputs still resolve.
func metaOf(b []byte) *blockMeta {
	data := *(*unsafe.Pointer)(unsafe.Pointer(&b))
	return (*blockMeta)(unsafe.Add(data, -headerSize))
}

// split carves the tail of b off into a new FREE block when the remainder
// beyond total strictly exceeds the header size; otherwise b is consumed
// whole. b shrinks to exactly total on a split.
func split(b *blockMeta, total int) {
	rest := b.size - total
	if rest <= headerSize {
		return
	}
	nb := (*blockMeta)(unsafe.Add(unsafe.Pointer(b), total))
	nb.status = statusFree
	nb.size = rest
	nb.next = b.next
	b.next = nb
	b.size = total
}

// findFree returns the smallest FREE block holding at least total bytes,
// earliest in the list on ties, or nil when none fits.
func (a *Allocator) findFree(total int) *blockMeta {
	var best *blockMeta
	for b := a.head; b != nil; b = b.next {
		if b.status != statusFree || b.size < total {
			continue
		}
		if best == nil || b.size < best.size {
			best = b
		}
	}
	return best
}

// lastBlock returns the tail of the list, nil when the list is empty.
func (a *Allocator) lastBlock() *blockMeta {
	b := a.head
	if b == nil {
		return nil
	}
	for b.next != nil {
		b = b.next
	}
	return b
}

// link appends b to the list. b.next must already be nil.
func (a *Allocator) link(b *blockMeta) {
	if a.head == nil {
		a.head = b
		return
	}
	a.lastBlock().next = b
}

// unlink removes b from the list by predecessor scan.
func (a *Allocator) unlink(b *blockMeta) {
	if a.head == b {
		a.head = b.next
		return
	}
	for p := a.head; p != nil; p = p.next {
		if p.next == b {
			p.next = b.next
			return
		}
	}
}

// coalesce merges every run of list-adjacent FREE blocks in one forward
// pass. Consecutive break-heap blocks are contiguous in memory, so summing
// sizes is enough; MAPPED blocks never take part.
func (a *Allocator) coalesce() {
	cur := a.head
	if cur == nil {
		return
	}
	next := cur.next
	for next != nil {
		if cur.status == statusFree && next.status == statusFree {
			cur.size += next.size
			cur.next = next.next
			next = cur.next
		} else {
			cur = next
			next = next.next
		}
	}
}

// lastFreeTail returns the last FREE block if every block after it in the
// list is MAPPED, i.e. the FREE block that ends at the current break.
// Returns nil otherwise.
func (a *Allocator) lastFreeTail() *blockMeta {
	var last *blockMeta
	for b := a.head; b != nil; b = b.next {
		if b.status == statusFree {
			last = b
		}
	}
	if last == nil {
		return nil
	}
	for b := last.next; b != nil; b = b.next {
		if b.status != statusMapped {
			return nil
		}
	}
	return last
}

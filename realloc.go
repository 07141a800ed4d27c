package osmalloc

// Realloc resizes the block owning b's data pointer to size bytes,
// preserving the common prefix of the payload. Realloc(nil, size) behaves
// like Malloc(size), Realloc(b, 0) like Free(b), and resizing a block that
// is already FREE returns nil.
//
// Break-heap blocks shrink by splitting in place and grow in place whenever
// the block ends at the break or its list neighbor is a large enough FREE
// block; otherwise the payload relocates. Mapped blocks always relocate,
// re-routed by size through the backend.
func (a *Allocator) Realloc(b []byte, size int) []byte {
	if size <= 0 {
		a.Free(b)
		return nil
	}
	if cap(b) == 0 {
		return a.Malloc(size)
	}
	old := metaOf(b)
	if old.status == statusFree {
		return nil
	}
	newTotal := round8(size + headerSize)
	if old.size == newTotal {
		return payload(old, size)
	}
	a.coalesce()

	if old.status == statusMapped {
		if old.size > newTotal {
			// shrinking out of a mapping: prefer landing in an existing
			// free heap block over asking the OS again
			if nb := a.findFree(newTotal); nb != nil {
				split(nb, newTotal)
				nb.status = statusAlloc
				return a.moveInto(nb, old, size)
			}
		}
		nb, err := a.newBlock(newTotal, mmapThreshold)
		if err != nil {
			return nil
		}
		return a.moveInto(nb, old, size)
	}

	if old.size > newTotal {
		// shrink in place, trailing fragment becomes FREE
		split(old, newTotal)
		return payload(old, size)
	}

	if old.next == nil {
		// the block ends at the break: grow in place
		if _, err := a.mem.sbrk(newTotal - old.size); err != nil {
			return nil
		}
		old.size = newTotal
		return payload(old, size)
	}
	if old.next.status == statusFree && old.size+old.next.size >= newTotal {
		// absorb the free neighbor, keep ALLOCATED
		old.size += old.next.size
		old.next = old.next.next
		return payload(old, size)
	}

	// relocate: best fit, then extending the free block at the break,
	// then a fresh block
	if nb := a.findFree(newTotal); nb != nil {
		split(nb, newTotal)
		nb.status = statusAlloc
		return a.moveInto(nb, old, size)
	}
	if lf := a.lastFreeTail(); lf != nil && newTotal < mmapThreshold {
		if a.extendLast(lf, newTotal) {
			return a.moveInto(lf, old, size)
		}
		return nil
	}
	nb, err := a.newBlock(newTotal, mmapThreshold)
	if err != nil {
		return nil
	}
	return a.moveInto(nb, old, size)
}

// moveInto copies the payload prefix of old into nb, releases old and
// returns nb's payload of len size. The copy never reads past the end of
// old's payload.
func (a *Allocator) moveInto(nb, old *blockMeta, size int) []byte {
	n := old.size - headerSize
	if size < n {
		n = size
	}
	dst := payload(nb, size)
	copy(dst, payload(old, n))
	a.freeBlock(old)
	return dst
}

package osmalloc

import (
	"unsafe"

	"github.com/cloudwego/osmalloc/internal/sys"
)

// memory is the contract the allocator needs from the OS: a break that
// moves by signed deltas and reports its previous position, anonymous
// zero-filled read/write private mappings, and exact unmapping.
type memory interface {
	sbrk(delta int) (unsafe.Pointer, error)
	mmap(length int) (unsafe.Pointer, error)
	munmap(addr unsafe.Pointer, length int) error
}

// osMemory binds the allocator to the process break and real mappings.
type osMemory struct{}

func (osMemory) sbrk(delta int) (unsafe.Pointer, error) {
	return sys.Sbrk(delta)
}

func (osMemory) mmap(length int) (unsafe.Pointer, error) {
	return sys.Mmap(length)
}

func (osMemory) munmap(addr unsafe.Pointer, length int) error {
	return sys.Munmap(addr, length)
}

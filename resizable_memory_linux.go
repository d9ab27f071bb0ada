//go:build linux

package mappedfile

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ResizableMemory is the anonymous analogue of ResizableFile: a growable
// region with no backing file, committed and decommitted on page
// boundaries. The reservation alone serves as both address space and
// backing store.
type ResizableMemory struct {
	reservation *Reservation
	size        uint64 // caller-visible length
	mappedSize  uint64 // page-aligned committed length
}

// NewResizableMemory reserves capacity bytes of address space and commits
// the first initialSize bytes of it.
func NewResizableMemory(initialSize, capacity uint64) (*ResizableMemory, error) {
	if initialSize > capacity {
		return nil, &ErrOutOfMemory{Requested: initialSize, Capacity: capacity}
	}
	reservation, err := Reserve(capacity)
	if err != nil {
		return nil, err
	}
	rm := &ResizableMemory{reservation: reservation}
	if err := rm.Resize(initialSize); err != nil {
		reservation.Release()
		return nil, err
	}
	runtime.SetFinalizer(rm, (*ResizableMemory).Close)
	return rm, nil
}

// Data returns a pointer to the committed region, or nil if size is 0.
func (rm *ResizableMemory) Data() *byte {
	if rm.size == 0 {
		return nil
	}
	return rm.reservation.Base()
}

// Memory returns the logical (size-bounded, not page-rounded) region as a
// byte slice.
func (rm *ResizableMemory) Memory() []byte {
	if rm.size == 0 {
		return nil
	}
	base := addrOf(rm.reservation.Base())
	return unsafe.Slice((*byte)(unsafe.Pointer(base)), int(rm.size))
}

// Size returns the caller-visible length in bytes.
func (rm *ResizableMemory) Size() uint64 { return rm.size }

// MappedSize returns the page-aligned committed length in bytes. Always a
// multiple of PageSize() and always >= Size().
func (rm *ResizableMemory) MappedSize() uint64 { return rm.mappedSize }

// Capacity returns the fixed maximum size this region can grow to.
func (rm *ResizableMemory) Capacity() uint64 { return rm.reservation.Capacity() }

// Writable always reports true.
func (rm *ResizableMemory) Writable() bool { return true }

// ReadAt implements io.ReaderAt over [0, Size()).
func (rm *ResizableMemory) ReadAt(buf []byte, offset int64) (int, error) {
	return readAtMemory(rm.Memory(), buf, offset)
}

// WriteAt implements io.WriterAt over [0, Size()).
func (rm *ResizableMemory) WriteAt(buf []byte, offset int64) (int, error) {
	return writeAtMemory(rm.Memory(), buf, offset)
}

// Begin starts a snapshot transaction over [offset, offset+length).
func (rm *ResizableMemory) Begin(offset int64, length uint64) (*Transaction, error) {
	return Begin(rm, offset, length)
}

// Resize grows or shrinks the logical size to exactly n bytes, committing
// or decommitting whole pages as needed. Data never moves. Bytes within
// [0, min(sizeOld, n)) survive a shrink-then-regrow unchanged, except for
// any page fully decommitted in between (spec.md §4.5's "data in the
// released range is logically lost").
func (rm *ResizableMemory) Resize(n uint64) error {
	capacity := rm.reservation.Capacity()
	if n > capacity {
		return &ErrOutOfMemory{Requested: n, Capacity: capacity}
	}
	mappedOld := ceilToPage(rm.mappedSize)
	mappedNew := ceilToPage(n)
	base := addrOf(rm.reservation.Base())

	switch {
	case mappedNew > mappedOld:
		grow := unsafe.Slice((*byte)(unsafe.Pointer(base+uintptr(mappedOld))), int(mappedNew-mappedOld))
		if err := unix.Mprotect(grow, unix.PROT_READ|unix.PROT_WRITE); err != nil {
			return &MappingError{Op: "mprotect(commit)", Err: err}
		}
	case mappedNew < mappedOld:
		shrink := unsafe.Slice((*byte)(unsafe.Pointer(base+uintptr(mappedNew))), int(mappedOld-mappedNew))
		if err := unix.Mprotect(shrink, unix.PROT_NONE); err != nil {
			return &MappingError{Op: "mprotect(decommit)", Err: err}
		}
		if err := unix.Madvise(shrink, unix.MADV_DONTNEED); err != nil {
			return &MappingError{Op: "madvise", Err: err}
		}
	}
	rm.size = n
	rm.mappedSize = mappedNew
	return nil
}

// Close releases the reservation backing this region.
func (rm *ResizableMemory) Close() error {
	if rm.reservation == nil {
		return &ErrClosed{}
	}
	err := rm.reservation.Release()
	rm.reservation = nil
	rm.size = 0
	rm.mappedSize = 0
	runtime.SetFinalizer(rm, nil)
	return err
}

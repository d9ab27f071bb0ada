//go:build windows

package mappedfile

import (
	"runtime"

	"golang.org/x/sys/windows"
)

// ResizableMemory is the anonymous analogue of ResizableFile.
//
// Windows strategy: unlike the file-backed case, anonymous growable memory
// needs no section at all — VirtualAlloc(MEM_RESERVE) reserves capacity
// bytes once, and each Resize commits or decommits whole pages in place
// with VirtualAlloc(MEM_COMMIT)/VirtualFree(MEM_DECOMMIT) over the affected
// sub-range. The reservation's base address never changes between those
// calls, which is the Windows equivalent of the POSIX mprotect-based
// commit/decommit spec.md §4.5 describes.
type ResizableMemory struct {
	reservation *Reservation
	base        uintptr
	size        uint64
	mappedSize  uint64
}

// NewResizableMemory reserves capacity bytes of address space and commits
// the first initialSize bytes of it.
func NewResizableMemory(initialSize, capacity uint64) (*ResizableMemory, error) {
	if initialSize > capacity {
		return nil, &ErrOutOfMemory{Requested: initialSize, Capacity: capacity}
	}
	reservation, _ := Reserve(capacity)
	base, err := windows.VirtualAlloc(0, uintptr(capacity), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return nil, &MappingError{Op: "VirtualAlloc(reserve)", Err: err}
	}
	reservation.materialize(base)
	rm := &ResizableMemory{reservation: reservation, base: base}
	if err := rm.Resize(initialSize); err != nil {
		windows.VirtualFree(base, 0, windows.MEM_RELEASE)
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

// Memory returns the logical (size-bounded) region as a byte slice.
func (rm *ResizableMemory) Memory() []byte {
	if rm.size == 0 {
		return nil
	}
	return unsafeSlice(rm.base, int(rm.size))
}

// Size returns the caller-visible length in bytes.
func (rm *ResizableMemory) Size() uint64 { return rm.size }

// MappedSize returns the page-aligned committed length in bytes.
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
// or decommitting whole pages as needed. Data never moves.
func (rm *ResizableMemory) Resize(n uint64) error {
	capacity := rm.reservation.Capacity()
	if n > capacity {
		return &ErrOutOfMemory{Requested: n, Capacity: capacity}
	}
	mappedOld := ceilToPage(rm.mappedSize)
	mappedNew := ceilToPage(n)

	switch {
	case mappedNew > mappedOld:
		_, err := windows.VirtualAlloc(rm.base+uintptr(mappedOld), uintptr(mappedNew-mappedOld), windows.MEM_COMMIT, windows.PAGE_READWRITE)
		if err != nil {
			return &MappingError{Op: "VirtualAlloc(commit)", Err: err}
		}
	case mappedNew < mappedOld:
		if err := windows.VirtualFree(rm.base+uintptr(mappedNew), uintptr(mappedOld-mappedNew), windows.MEM_DECOMMIT); err != nil {
			return &MappingError{Op: "VirtualFree(decommit)", Err: err}
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
	if err := windows.VirtualFree(rm.base, 0, windows.MEM_RELEASE); err != nil {
		logCloseError("VirtualFree(release)", err)
	}
	rm.reservation.Release()
	rm.reservation = nil
	rm.base = 0
	rm.size = 0
	rm.mappedSize = 0
	runtime.SetFinalizer(rm, nil)
	return nil
}

//go:build windows

package mappedfile

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

// ResizableFile is a growable file-backed mapping whose Data pointer is
// stable across Resize calls.
//
// Windows strategy (spec.md §4.4): on first grow, create a SEC_RESERVE
// section bound to the file with MaximumSize equal to the reservation's
// capacity, and map the whole of it once — that mapping's base address is
// the reservation's base for the rest of this object's life. Every Resize
// after that calls NtExtendSection to grow (or shrink) the section's valid
// length in place; the view is never unmapped or remapped, so Data never
// moves.
type ResizableFile struct {
	reservation *Reservation
	fileHandle  windows.Handle
	file        *FileHandle
	section     *Section
	base        uintptr
	size        uint64
}

// OpenResizableFile reserves capacity bytes of address space and opens (or
// creates) path as its backing file. If the file is already larger than
// capacity, this fails with ErrOutOfMemory and the file is left untouched.
func OpenResizableFile(path string, capacity uint64) (*ResizableFile, error) {
	reservation, _ := Reserve(capacity)
	file, err := OpenFile(path, FileCreateOrOpenReadWrite)
	if err != nil {
		return nil, err
	}
	existing, err := file.Size()
	if err != nil {
		file.Close()
		return nil, err
	}
	if existing > capacity {
		file.Close()
		return nil, &ErrOutOfMemory{Requested: existing, Capacity: capacity}
	}

	rf := &ResizableFile{reservation: reservation, file: file, fileHandle: windows.Handle(file.Fd())}
	if existing > 0 {
		if err := rf.ensureSection(); err != nil {
			file.Close()
			return nil, err
		}
		if err := rf.section.extend(existing); err != nil {
			file.Close()
			return nil, err
		}
		rf.size = existing
	}
	runtime.SetFinalizer(rf, (*ResizableFile).Close)
	return rf, nil
}

func (rf *ResizableFile) ensureSection() error {
	if rf.section != nil {
		return nil
	}
	sec, err := createSection(rf.fileHandle, rf.reservation.Capacity(), windows.PAGE_READWRITE)
	if err != nil {
		return err
	}
	base, err := sec.mapView(rf.reservation.Capacity(), windows.PAGE_READWRITE)
	if err != nil {
		sec.close()
		return err
	}
	rf.section = sec
	rf.base = base
	rf.reservation.materialize(base)
	return nil
}

// Data returns a pointer to the mapped memory, stable across Resize calls
// that do not pass through size 0.
func (rf *ResizableFile) Data() *byte {
	if rf.size == 0 {
		return nil
	}
	return (*byte)(unsafe.Pointer(rf.base))
}

// Memory returns the mapped memory as a byte slice.
func (rf *ResizableFile) Memory() []byte {
	if rf.size == 0 {
		return nil
	}
	return unsafeSlice(rf.base, int(rf.size))
}

// Size returns the caller-visible length in bytes.
func (rf *ResizableFile) Size() uint64 { return rf.size }

// Capacity returns the fixed maximum size this mapping can grow to.
func (rf *ResizableFile) Capacity() uint64 { return rf.reservation.Capacity() }

// Writable always reports true.
func (rf *ResizableFile) Writable() bool { return true }

// ReadAt implements io.ReaderAt over the current mapped memory.
func (rf *ResizableFile) ReadAt(buf []byte, offset int64) (int, error) {
	return readAtMemory(rf.Memory(), buf, offset)
}

// WriteAt implements io.WriterAt over the current mapped memory.
func (rf *ResizableFile) WriteAt(buf []byte, offset int64) (int, error) {
	return writeAtMemory(rf.Memory(), buf, offset)
}

// Begin starts a snapshot transaction over [offset, offset+length).
func (rf *ResizableFile) Begin(offset int64, length uint64) (*Transaction, error) {
	return Begin(rf, offset, length)
}

// Resize grows or shrinks the mapping to exactly n bytes. On success the
// backing file's length equals n and Data equals the reservation's base
// (unless n is 0).
func (rf *ResizableFile) Resize(n uint64) error {
	capacity := rf.reservation.Capacity()
	if n > capacity {
		return &ErrOutOfMemory{Requested: n, Capacity: capacity}
	}
	if err := rf.ensureSection(); err != nil {
		return err
	}
	if err := rf.section.extend(n); err != nil {
		return err
	}
	if err := rf.file.Truncate(n); err != nil {
		return err
	}
	rf.size = n
	return nil
}

// Sync flushes the sub-range [offset, offset+length) to the backing file
// synchronously.
func (rf *ResizableFile) Sync(offset, length int64) error {
	if rf.size == 0 {
		return nil
	}
	if offset < 0 || length < 0 || offset+length > int64(rf.size) {
		return &ErrInvalidRange{Offset: offset, Length: length, Size: int64(rf.size)}
	}
	if length == 0 {
		return nil
	}
	if err := windows.FlushViewOfFile(rf.base+uintptr(offset), uintptr(length)); err != nil {
		return &MappingError{Op: "FlushViewOfFile", Err: err}
	}
	if err := windows.FlushFileBuffers(rf.fileHandle); err != nil {
		return &MappingError{Op: "FlushFileBuffers", Err: err}
	}
	return nil
}

// Close tears down the mapping: view, then section/file, then reservation.
func (rf *ResizableFile) Close() error {
	if rf.reservation == nil {
		return &ErrClosed{}
	}
	if rf.section != nil {
		if err := unmapView(rf.base); err != nil {
			logCloseError("NtUnmapViewOfSection", err)
		}
		if err := rf.section.close(); err != nil {
			logCloseError("CloseHandle(section)", err)
		}
	}
	if err := rf.file.Close(); err != nil {
		logCloseError("close", err)
	}
	rf.reservation.Release()
	rf.reservation = nil
	rf.size = 0
	rf.base = 0
	runtime.SetFinalizer(rf, nil)
	return nil
}

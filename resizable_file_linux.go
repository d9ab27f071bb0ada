//go:build linux

package mappedfile

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// ResizableFile is a growable file-backed mapping whose Data pointer is
// stable across Resize calls. It reserves capacity bytes of address space
// once, then grows a file-backed commitment into the head of that range.
//
// POSIX strategy (spec.md §4.4, open question resolved as option (a)): each
// Resize drops the current view, truncates the file to the new size, then
// remaps at the reservation's base with MAP_FIXED|MAP_SHARED. The interval
// during which no mapping exists is serialized by this object being the
// sole owner of the reservation — no concurrent caller can observe it
// (spec.md §5 forbids concurrent mutation of one mapping anyway).
type ResizableFile struct {
	reservation *Reservation
	file        *FileHandle
	view        *View
	size        uint64
}

// OpenResizableFile reserves capacity bytes of address space and opens (or
// creates) path as its backing file. If the file is already larger than
// capacity, this fails with ErrOutOfMemory and the file is left untouched.
func OpenResizableFile(path string, capacity uint64) (*ResizableFile, error) {
	reservation, err := Reserve(capacity)
	if err != nil {
		return nil, err
	}
	file, err := OpenFile(path, FileCreateOrOpenReadWrite)
	if err != nil {
		reservation.Release()
		return nil, err
	}
	existing, err := file.Size()
	if err != nil {
		file.Close()
		reservation.Release()
		return nil, err
	}
	if existing > capacity {
		file.Close()
		reservation.Release()
		return nil, &ErrOutOfMemory{Requested: existing, Capacity: capacity}
	}

	rf := &ResizableFile{reservation: reservation, file: file}
	if existing > 0 {
		base := reservation.Base()
		view, err := mapFixed(addrOf(base), existing, int(file.Fd()), unix.PROT_READ|unix.PROT_WRITE)
		if err != nil {
			file.Close()
			reservation.Release()
			return nil, err
		}
		rf.view = view
		rf.size = existing
	}
	runtime.SetFinalizer(rf, (*ResizableFile).Close)
	return rf, nil
}

// Data returns a pointer to the mapped memory, stable across Resize calls
// that do not pass through size 0. Returns nil if the file is empty.
func (rf *ResizableFile) Data() *byte {
	if rf.view == nil || len(rf.view.bytes) == 0 {
		return nil
	}
	return &rf.view.bytes[0]
}

// Memory returns the mapped memory as a byte slice.
func (rf *ResizableFile) Memory() []byte {
	if rf.view == nil {
		return nil
	}
	return rf.view.bytes
}

// Size returns the caller-visible length in bytes.
func (rf *ResizableFile) Size() uint64 { return rf.size }

// Capacity returns the fixed maximum size this mapping can grow to.
func (rf *ResizableFile) Capacity() uint64 { return rf.reservation.Capacity() }

// Writable always reports true: ResizableFile only ever maps read-write.
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
// (unless n is 0, in which case Data is nil).
func (rf *ResizableFile) Resize(n uint64) error {
	capacity := rf.reservation.Capacity()
	if n > capacity {
		return &ErrOutOfMemory{Requested: n, Capacity: capacity}
	}

	if rf.view != nil {
		if err := rf.view.unmap(); err != nil {
			return err
		}
		rf.view = nil
		rf.size = 0
	}

	if err := rf.file.Truncate(n); err != nil {
		// The view is already gone (the narrow POSIX window spec.md §7
		// describes): leave the object unusable rather than guess at a
		// recovery. A subsequent Resize may be attempted.
		return err
	}

	if n == 0 {
		return nil
	}

	base := rf.reservation.Base()
	view, err := mapFixed(addrOf(base), n, int(rf.file.Fd()), unix.PROT_READ|unix.PROT_WRITE)
	if err != nil {
		return err
	}
	rf.view = view
	rf.size = n
	return nil
}

// Sync flushes the sub-range [offset, offset+length) to the backing file
// synchronously.
func (rf *ResizableFile) Sync(offset, length int64) error {
	if rf.view == nil || len(rf.view.bytes) == 0 {
		return nil
	}
	if offset < 0 || length < 0 || offset+length > int64(len(rf.view.bytes)) {
		return &ErrInvalidRange{Offset: offset, Length: length, Size: int64(len(rf.view.bytes))}
	}
	if length == 0 {
		return nil
	}
	if err := unix.Msync(rf.view.bytes[offset:offset+length], unix.MS_SYNC); err != nil {
		return &MappingError{Op: "msync", Err: err}
	}
	return nil
}

// Close tears down the mapping in the order required by spec.md §4.4's
// move-assignment note: the view must be released before the section/file,
// which must be released before the reservation, so that the OS never
// sees a reservation destroyed while a live view still covers part of it.
func (rf *ResizableFile) Close() error {
	if rf.reservation == nil {
		return &ErrClosed{}
	}
	if rf.view != nil {
		if err := rf.view.unmap(); err != nil {
			logCloseError("munmap", err)
		}
		rf.view = nil
	}
	if err := rf.file.Close(); err != nil {
		logCloseError("close", err)
	}
	err := rf.reservation.Release()
	rf.reservation = nil
	rf.size = 0
	runtime.SetFinalizer(rf, nil)
	if err != nil {
		return err
	}
	return nil
}

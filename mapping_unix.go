//go:build unix

package mappedfile

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// Mapping is a whole-file mapping: an existing file mapped at its current
// size, either read-only or writable.
type Mapping struct {
	mappingCommon
	locked bool
}

// OpenReadOnly maps the whole of the file at path read-only.
func OpenReadOnly(path string) (*Mapping, error) {
	return openMapping(path, ModeReadOnly)
}

// OpenWritable maps the whole of the file at path for reading and writing.
func OpenWritable(path string) (*Mapping, error) {
	return openMapping(path, ModeReadWrite)
}

func openMapping(path string, mode Mode) (*Mapping, error) {
	if !mode.valid() {
		return nil, &MappedFileError{Op: "open", Path: path, Err: &ErrInvalidOffset{}}
	}
	openMode := FileReadOnly
	if mode == ModeReadWrite {
		openMode = FileReadWrite
	}
	h, err := OpenFile(path, openMode)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	size, err := h.Size()
	if err != nil {
		return nil, err
	}

	m := &Mapping{}
	prot := unix.PROT_READ
	if mode == ModeReadWrite {
		prot |= unix.PROT_WRITE
		m.writable = true
	}

	if size == 0 {
		// Empty files map to a zero-length view; data() stays nil.
		runtime.SetFinalizer(m, (*Mapping).Close)
		return m, nil
	}

	mem, err := unix.Mmap(int(h.Fd()), 0, int(size), prot, unix.MAP_SHARED)
	if err != nil {
		return nil, &MappedFileError{Op: "mmap", Path: path, Err: err}
	}
	m.memory = mem

	runtime.SetFinalizer(m, (*Mapping).Close)
	return m, nil
}

// Lock locks the mapped memory pages, pinning them resident in RAM until
// Unlock is called.
func (m *Mapping) Lock() error {
	if m.closed {
		return &ErrClosed{}
	}
	if m.locked {
		return &ErrLocked{}
	}
	if len(m.memory) > 0 {
		if err := unix.Mlock(m.memory); err != nil {
			return &MappingError{Op: "mlock", Err: err}
		}
	}
	m.locked = true
	return nil
}

// Unlock unlocks previously locked mapped memory pages.
func (m *Mapping) Unlock() error {
	if m.closed {
		return &ErrClosed{}
	}
	if !m.locked {
		return &ErrUnlocked{}
	}
	if len(m.memory) > 0 {
		if err := unix.Munlock(m.memory); err != nil {
			return &MappingError{Op: "munlock", Err: err}
		}
	}
	m.locked = false
	return nil
}

// Sync flushes dirty pages to the underlying file synchronously.
func (m *Mapping) Sync() error {
	if m.closed {
		return &ErrClosed{}
	}
	if !m.writable {
		return &ErrNotWritable{Op: "sync"}
	}
	if len(m.memory) == 0 {
		return nil
	}
	if err := unix.Msync(m.memory, unix.MS_SYNC); err != nil {
		return &MappingError{Op: "msync", Err: err}
	}
	return nil
}

// Close unmaps the memory and releases all resources. A writable mapping
// performs a best-effort Sync first; Sync and Unlock failures encountered
// while closing are logged rather than returned, since Close has no caller to
// report to once the mapping is being torn down via the finalizer. A munmap
// failure is returned as a MappingError.
func (m *Mapping) Close() error {
	if m.closed {
		return &ErrClosed{}
	}
	if m.writable {
		if err := m.Sync(); err != nil {
			logCloseError("sync", err)
		}
	}
	if m.locked {
		if err := m.Unlock(); err != nil {
			logCloseError("munlock", err)
		}
	}
	var err error
	if len(m.memory) > 0 {
		err = unix.Munmap(m.memory)
	}
	*m = Mapping{}
	m.closed = true
	runtime.SetFinalizer(m, nil)
	if err != nil {
		return &MappingError{Op: "munmap", Err: err}
	}
	return nil
}

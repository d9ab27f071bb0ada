//go:build windows

package mappedfile

import (
	"runtime"

	"golang.org/x/sys/windows"
)

// Mapping is a whole-file mapping: an existing file mapped at its current
// size, either read-only or writable.
type Mapping struct {
	mappingCommon
	hFile    windows.Handle
	hMapping windows.Handle
	addr     uintptr
	locked   bool
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
		return nil, &MappedFileError{Op: "open", Path: path, Err: windows.ERROR_INVALID_PARAMETER}
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
	prot := uint32(windows.PAGE_READONLY)
	access := uint32(windows.FILE_MAP_READ)
	if mode == ModeReadWrite {
		prot = windows.PAGE_READWRITE
		access = windows.FILE_MAP_WRITE
		m.writable = true
	}

	if err := windows.DuplicateHandle(
		windows.CurrentProcess(), windows.Handle(h.Fd()),
		windows.CurrentProcess(), &m.hFile,
		0, true, windows.DUPLICATE_SAME_ACCESS,
	); err != nil {
		return nil, &MappedFileError{Op: "DuplicateHandle", Path: path, Err: err}
	}

	if size == 0 {
		runtime.SetFinalizer(m, (*Mapping).Close)
		return m, nil
	}

	sizeHigh := uint32(size >> 32)
	sizeLow := uint32(size & 0xffffffff)
	m.hMapping, err = windows.CreateFileMapping(m.hFile, nil, prot, sizeHigh, sizeLow, nil)
	if err != nil {
		return nil, &MappedFileError{Op: "CreateFileMapping", Path: path, Err: err}
	}
	m.addr, err = windows.MapViewOfFile(m.hMapping, access, 0, 0, uintptr(size))
	if err != nil {
		return nil, &MappedFileError{Op: "MapViewOfFile", Path: path, Err: err}
	}
	m.memory = unsafeSlice(m.addr, int(size))

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
		if err := windows.VirtualLock(m.addr, uintptr(len(m.memory))); err != nil {
			return &MappingError{Op: "VirtualLock", Err: err}
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
		if err := windows.VirtualUnlock(m.addr, uintptr(len(m.memory))); err != nil {
			return &MappingError{Op: "VirtualUnlock", Err: err}
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
	if err := windows.FlushViewOfFile(m.addr, uintptr(len(m.memory))); err != nil {
		return &MappingError{Op: "FlushViewOfFile", Err: err}
	}
	if err := windows.FlushFileBuffers(m.hFile); err != nil {
		return &MappingError{Op: "FlushFileBuffers", Err: err}
	}
	return nil
}

// Close unmaps the memory and releases all resources. A writable mapping
// performs a best-effort Sync first; failures encountered while closing are
// logged rather than returned.
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
			logCloseError("VirtualUnlock", err)
		}
	}
	if len(m.memory) > 0 {
		if err := windows.UnmapViewOfFile(m.addr); err != nil {
			logCloseError("UnmapViewOfFile", err)
		}
		windows.CloseHandle(m.hMapping)
	}
	windows.CloseHandle(m.hFile)
	*m = Mapping{}
	m.closed = true
	runtime.SetFinalizer(m, nil)
	return nil
}

package mappedfile

import "os"

// OpenMode selects how a backing file is opened.
type OpenMode int

const (
	// FileReadOnly opens an existing file for reading only.
	FileReadOnly OpenMode = iota
	// FileReadWrite opens an existing file for reading and writing.
	FileReadWrite
	// FileCreateOrOpenReadWrite opens the file for reading and writing,
	// creating it with mode 0644 if it does not already exist.
	FileCreateOrOpenReadWrite
)

// FileHandle wraps an OS file handle with guaranteed release. It owns the
// handle exclusively; closing it is idempotent.
type FileHandle struct {
	path string
	file *os.File
}

// OpenFile opens path in the given mode, mapping any OS failure to a
// MappedFileError carrying the path.
func OpenFile(path string, mode OpenMode) (*FileHandle, error) {
	var flags int
	switch mode {
	case FileReadOnly:
		flags = os.O_RDONLY
	case FileReadWrite:
		flags = os.O_RDWR
	case FileCreateOrOpenReadWrite:
		flags = os.O_RDWR | os.O_CREATE
	default:
		return nil, &MappedFileError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, &MappedFileError{Op: "open", Path: path, Err: err}
	}
	return &FileHandle{path: path, file: f}, nil
}

// Path returns the path this handle was opened with.
func (h *FileHandle) Path() string { return h.path }

// Fd returns the raw OS file descriptor/handle, for use by the platform
// mapping primitives.
func (h *FileHandle) Fd() uintptr { return h.file.Fd() }

// Size returns the current on-disk length of the file.
func (h *FileHandle) Size() (uint64, error) {
	info, err := h.file.Stat()
	if err != nil {
		return 0, &MappedFileError{Op: "stat", Path: h.path, Err: err}
	}
	return uint64(info.Size()), nil
}

// Truncate sets the on-disk length of the file exactly to n, growing or
// shrinking as necessary.
func (h *FileHandle) Truncate(n uint64) error {
	if err := h.file.Truncate(int64(n)); err != nil {
		return &MappedFileError{Op: "truncate", Path: h.path, Err: err}
	}
	return nil
}

// Close closes the underlying handle. No error is ever surfaced from a
// second Close; the library documents that callers should not rely on
// Close's return value for durability (use Sync instead).
func (h *FileHandle) Close() error {
	if h.file == nil {
		return nil
	}
	err := h.file.Close()
	h.file = nil
	if err != nil {
		return &MappedFileError{Op: "close", Path: h.path, Err: err}
	}
	return nil
}

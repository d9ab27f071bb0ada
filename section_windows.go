//go:build windows

package mappedfile

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Section wraps a kernel section object bound to a file, created with
// SEC_RESERVE so that its MaximumSize (the capacity of the owning
// reservation) can exceed the file's current valid length. Growing the
// section's valid length (NtExtendSection) commits more of the same view
// without moving it; the tail out to MaximumSize stays reserved but
// inaccessible. This is the mechanism spec.md §4.4 calls "SECTION_EXTEND_SIZE"
// growth, and is not reachable through the documented Win32
// CreateFileMapping surface — CreateFileMapping always commits its whole
// MaximumSize up front. x/sys/windows does not wrap the handful of ntdll
// entry points this needs, so they are loaded directly, the same lazy-DLL
// idiom x/sys/windows itself uses for calls outside the stable Win32 API.
type Section struct {
	handle windows.Handle
}

var (
	modntdll                 = windows.NewLazySystemDLL("ntdll.dll")
	procNtCreateSection      = modntdll.NewProc("NtCreateSection")
	procNtExtendSection      = modntdll.NewProc("NtExtendSection")
	procNtMapViewOfSection   = modntdll.NewProc("NtMapViewOfSection")
	procNtUnmapViewOfSection = modntdll.NewProc("NtUnmapViewOfSection")
)

const (
	sectionMapRead    = 0x0004
	sectionMapWrite   = 0x0002
	sectionExtendSize = 0x0010
	secReserve        = 0x04000000
	viewUnmap         = 2 // SECTION_INHERIT.ViewUnmap
)

type ntStatus uintptr

func (s ntStatus) Error() string { return fmt.Sprintf("NTSTATUS 0x%08x", uintptr(s)) }

// createSection creates a SEC_RESERVE section bound to fileHandle whose
// MaximumSize is capacity. No pages are committed by this call alone; the
// file's own current length is what is initially valid/accessible.
func createSection(fileHandle windows.Handle, capacity uint64, protect uint32) (*Section, error) {
	var h windows.Handle
	maxSize := int64(capacity)
	access := uint32(sectionMapRead | sectionMapWrite | sectionExtendSize)
	r1, _, _ := procNtCreateSection.Call(
		uintptr(unsafe.Pointer(&h)),
		uintptr(access),
		0,
		uintptr(unsafe.Pointer(&maxSize)),
		uintptr(protect),
		uintptr(secReserve),
		uintptr(fileHandle),
	)
	if r1 != 0 {
		return nil, &MappingError{Op: "NtCreateSection", Err: ntStatus(r1)}
	}
	return &Section{handle: h}, nil
}

// mapView maps the whole section (capacity bytes) into the process's
// address space once. The OS chooses the base address; that address
// becomes the owning reservation's permanent base.
func (s *Section) mapView(capacity uint64, protect uint32) (uintptr, error) {
	var baseAddr uintptr
	viewSize := uintptr(capacity)
	var sectionOffset int64
	r1, _, _ := procNtMapViewOfSection.Call(
		uintptr(s.handle),
		uintptr(windows.CurrentProcess()),
		uintptr(unsafe.Pointer(&baseAddr)),
		0,
		0,
		uintptr(unsafe.Pointer(&sectionOffset)),
		uintptr(unsafe.Pointer(&viewSize)),
		viewUnmap,
		0,
		uintptr(protect),
	)
	if r1 != 0 {
		return 0, &MappingError{Op: "NtMapViewOfSection", Err: ntStatus(r1)}
	}
	return baseAddr, nil
}

// extend grows or shrinks the section's valid (committed) length in place.
// The view's base address never changes.
func (s *Section) extend(newSize uint64) error {
	size := int64(newSize)
	r1, _, _ := procNtExtendSection.Call(uintptr(s.handle), uintptr(unsafe.Pointer(&size)))
	if r1 != 0 {
		return &MappingError{Op: "NtExtendSection", Err: ntStatus(r1)}
	}
	return nil
}

func unmapView(base uintptr) error {
	if base == 0 {
		return nil
	}
	r1, _, _ := procNtUnmapViewOfSection.Call(uintptr(windows.CurrentProcess()), base)
	if r1 != 0 {
		return &MappingError{Op: "NtUnmapViewOfSection", Err: ntStatus(r1)}
	}
	return nil
}

func (s *Section) close() error {
	if s.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(s.handle)
	s.handle = 0
	if err != nil {
		return &MappingError{Op: "CloseHandle(section)", Err: err}
	}
	return nil
}

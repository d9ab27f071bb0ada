//go:build linux

package mappedfile

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// View is a live mapping of [base, base+size) onto a backing object. The
// resizable-file algorithm always creates its views fixed to a location
// inside the owning Reservation.
type View struct {
	base  uintptr
	bytes []byte
	fixed bool
}

// mapFixed maps length bytes of fd at file offset 0 onto addr, which must
// lie inside an already-reserved range. This is the MAP_FIXED primitive
// spec.md's POSIX resize strategy depends on: golang.org/x/sys/unix's Mmap
// wrapper does not accept a caller-chosen address, so the raw mmap(2)
// syscall is issued directly, mirroring the teacher's own raw-syscall
// mmap_linux_amd64.go.
func mapFixed(addr uintptr, length uint64, fd int, prot int) (*View, error) {
	if length == 0 {
		return &View{base: addr, fixed: true}, nil
	}
	r1, _, errno := unix.Syscall6(
		unix.SYS_MMAP, addr, uintptr(length), uintptr(prot),
		uintptr(unix.MAP_SHARED|unix.MAP_FIXED), uintptr(fd), 0,
	)
	if errno != 0 {
		return nil, &MappingError{Op: "mmap(fixed)", Err: errno}
	}
	return &View{
		base:  r1,
		bytes: unsafe.Slice((*byte)(unsafe.Pointer(r1)), int(length)),
		fixed: true,
	}, nil
}

// unmap releases this view. It does not release the underlying
// reservation; the address range reverts to whatever state the
// reservation itself was in (PROT_NONE, in the resizable-file use).
func (v *View) unmap() error {
	if v == nil || len(v.bytes) == 0 {
		return nil
	}
	// Overlay the view with a fresh PROT_NONE anonymous mapping instead of
	// munmap-ing it, so the range never becomes a hole in the reservation.
	_, _, errno := unix.Syscall6(
		unix.SYS_MMAP, v.base, uintptr(len(v.bytes)), uintptr(unix.PROT_NONE),
		uintptr(unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_NORESERVE|unix.MAP_FIXED), ^uintptr(0), 0,
	)
	v.bytes = nil
	if errno != 0 {
		return &MappingError{Op: "mmap(unmap view)", Err: errno}
	}
	return nil
}

//go:build linux

package mappedfile

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// Reservation is a contiguous range of virtual address space with no
// accessible pages, reserved up front so that a resizable mapping can grow
// into it without its base address ever moving.
//
// Realized as an anonymous PROT_NONE, MAP_PRIVATE|MAP_ANONYMOUS|
// MAP_NORESERVE mapping of capacity bytes (spec POSIX strategy). Releasing
// it first reverts the whole range to PROT_NONE before unmapping, so that
// no committed pages from a fixed-address mapping installed inside it are
// left dangling.
type Reservation struct {
	mem      []byte
	capacity uint64
}

// Reserve reserves capacity bytes of virtual address space.
func Reserve(capacity uint64) (*Reservation, error) {
	if capacity == 0 {
		return &Reservation{}, nil
	}
	mem, err := unix.Mmap(-1, 0, int(capacity), unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_NORESERVE)
	if err != nil {
		return nil, &MappingError{Op: "mmap(reserve)", Err: err}
	}
	r := &Reservation{mem: mem, capacity: capacity}
	runtime.SetFinalizer(r, (*Reservation).Release)
	return r, nil
}

// Base returns the base address of the reserved range, or nil if nothing
// has been reserved.
func (r *Reservation) Base() *byte {
	if len(r.mem) == 0 {
		return nil
	}
	return &r.mem[0]
}

// Capacity returns the total size in bytes of the reserved range.
func (r *Reservation) Capacity() uint64 { return r.capacity }

// Release releases the entire reserved range. Safe to call more than once.
func (r *Reservation) Release() error {
	if r.mem == nil {
		return nil
	}
	// Revert to PROT_NONE first: if part of the range is currently
	// covered by a fixed-address MAP_SHARED view (ResizableFile's
	// resize window), dropping straight to munmap on a range that still
	// has a live view inside it would be relying on implementation
	// behavior we don't want to depend on.
	unix.Mprotect(r.mem, unix.PROT_NONE)
	err := unix.Munmap(r.mem)
	r.mem = nil
	runtime.SetFinalizer(r, nil)
	if err != nil {
		return &MappingError{Op: "munmap(reserve)", Err: err}
	}
	return nil
}

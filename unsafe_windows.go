//go:build windows

package mappedfile

import "unsafe"

// unsafeSlice turns a mapped view's base address and length into a byte
// slice. Mirrors the pattern used throughout the retrieved pack's Windows
// mapping code (e.g. buildbarn-bb-storage's memoryMappedBlockDevice), using
// unsafe.Slice instead of hand-rolled slice headers.
func unsafeSlice(addr uintptr, length int) []byte {
	if length == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), length)
}

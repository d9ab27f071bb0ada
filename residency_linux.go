//go:build linux

package mappedfile

import "golang.org/x/sys/unix"

// Resident reports whether every page backing region is currently resident
// in RAM, via mincore(2). region must be page-aligned at both ends for a
// meaningful answer; partial pages are rounded in by the caller's choice of
// region. This exists to make scenarios like spec.md §8's S6 ("assert the 4
// pages report as resident") mechanically testable rather than asserted by
// platform folklore.
func Resident(regionBytes []byte) (bool, error) {
	if len(regionBytes) == 0 {
		return true, nil
	}
	pageSize := PageSize()
	numPages := (uint64(len(regionBytes)) + pageSize - 1) / pageSize
	vec := make([]byte, numPages)
	if err := unix.Mincore(regionBytes, vec); err != nil {
		return false, &MappingError{Op: "mincore", Err: err}
	}
	for _, b := range vec {
		if b&1 == 0 {
			return false, nil
		}
	}
	return true, nil
}

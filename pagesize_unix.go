//go:build unix

package mappedfile

import "golang.org/x/sys/unix"

func queryPageSize() uint64 {
	return uint64(unix.Getpagesize())
}

// On POSIX systems there is no separate allocation-granularity concept;
// mmap views may start on any page boundary.
func queryAllocationGranularity() uint64 {
	return queryPageSize()
}

package mappedfile

import "sync"

var (
	pageSizeOnce sync.Once
	cachedPage   uint64

	allocGranularityOnce sync.Once
	cachedAllocGran      uint64
)

// PageSize returns the OS page size in bytes, queried once per process and
// cached thereafter. Callers must never assume a fixed value such as 4096.
func PageSize() uint64 {
	pageSizeOnce.Do(func() {
		cachedPage = queryPageSize()
	})
	return cachedPage
}

// AllocationGranularity returns the minimum alignment of a mapped view's
// base address. On POSIX systems this is the page size. On Windows it is
// typically 64KiB and may exceed the page size.
func AllocationGranularity() uint64 {
	allocGranularityOnce.Do(func() {
		cachedAllocGran = queryAllocationGranularity()
	})
	return cachedAllocGran
}

func ceilToPage(n uint64) uint64 {
	ps := PageSize()
	if n == 0 {
		return 0
	}
	return ((n + ps - 1) / ps) * ps
}

// Package mappedfile provides cross-platform memory mapped files and
// resizable memory regions whose user-visible data pointer remains stable
// across growth.
//
// Three kinds of object are exposed. A Mapping maps an existing file at its
// current size, either read-only or writable. A ResizableFile reserves a
// maximum virtual-address range up front and grows a file-backed commitment
// into it, so that Data never moves for the lifetime of the object. A
// ResizableMemory does the same over anonymous, non-file-backed pages.
//
// None of the types in this package are safe for concurrent mutation. Resize,
// Sync and Close are exclusive operations; concurrent read-only dereferencing
// of Data is fine.
package mappedfile

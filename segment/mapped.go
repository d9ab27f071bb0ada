package segment

import (
	"os"

	"github.com/decodeless/mappedfile"
)

// MappedSegment is a data segment on top of a whole-file mapping.
type MappedSegment struct {
	*mappedfile.Mapping
	*Segment
}

// NewMapped returns a new data segment on top of the given whole-file
// mapping.
func NewMapped(m *mappedfile.Mapping) *MappedSegment {
	return &MappedSegment{
		Mapping: m,
		Segment: New(m),
	}
}

// NewFile prepares a data segment file of the given fixed size, calling
// init if the file was just created, and returns a data segment on top of
// a writable mapping of it.
func NewFile(name string, perm os.FileMode, size uint64, init func(seg *MappedSegment) error) (*MappedSegment, error) {
	created := false
	if _, err := os.Stat(name); err != nil && os.IsNotExist(err) {
		created = true
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_RDWR, perm)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, err
	}
	f.Close()

	m, err := mappedfile.OpenWritable(name)
	if err != nil {
		return nil, err
	}
	seg := NewMapped(m)
	if created && init != nil {
		if err := init(seg); err != nil {
			m.Close()
			os.Remove(name)
			return nil, err
		}
	}
	return seg, nil
}

// ResizableSegment is a data segment on top of a ResizableFile: its
// accessors read through to whatever prefix of the file is currently
// mapped, surviving Resize.
type ResizableSegment struct {
	*mappedfile.ResizableFile
	*Segment
}

// NewResizable returns a new data segment on top of the given resizable
// file mapping.
func NewResizable(rf *mappedfile.ResizableFile) *ResizableSegment {
	return &ResizableSegment{
		ResizableFile: rf,
		Segment:       New(rf),
	}
}

// MappedSegmentTransaction is a data segment on top of a transaction over a
// whole-file mapping.
type MappedSegmentTransaction struct {
	*mappedfile.Transaction
	*Segment
}

// Begin starts a transaction over this segment's mapping.
func (seg *MappedSegment) Begin(offset int64, length uint64) (*MappedSegmentTransaction, error) {
	tx, err := seg.Mapping.Begin(offset, length)
	if err != nil {
		return nil, err
	}
	return &MappedSegmentTransaction{
		Transaction: tx,
		Segment:     New(tx),
	}, nil
}

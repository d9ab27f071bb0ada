package mappedfile

// Mode is a whole-file mapping mode.
type Mode int

const (
	// ModeReadOnly shares the mapping and allows read-only access.
	ModeReadOnly Mode = iota

	// ModeReadWrite shares the mapping. Updates to the mapping are visible
	// to other processes mapping the same region, and are carried through
	// to the underlying file. To precisely control when updates are
	// carried through to the file, use Sync.
	ModeReadWrite
)

func (m Mode) valid() bool {
	return m >= ModeReadOnly && m <= ModeReadWrite
}

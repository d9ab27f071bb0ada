package segment_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/decodeless/mappedfile"
	"github.com/decodeless/mappedfile/segment"
	"github.com/stretchr/testify/require"
)

func TestSegment_GetSetOverMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seg.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 32), 0644))

	m, err := mappedfile.OpenWritable(path)
	require.NoError(t, err)
	defer m.Close()

	seg := segment.NewMapped(m)
	require.NoError(t, seg.Set(0, uint32(0xCAFEBABE), uint16(7)))

	var a uint32
	var b uint16
	require.NoError(t, seg.Get(0, &a, &b))
	require.EqualValues(t, 0xCAFEBABE, a)
	require.EqualValues(t, 7, b)
}

func TestSegment_IncDec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seg-incdec.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 8), 0644))

	m, err := mappedfile.OpenWritable(path)
	require.NoError(t, err)
	defer m.Close()

	seg := segment.NewMapped(m)
	require.NoError(t, seg.Set(0, uint64(10)))
	require.NoError(t, seg.Inc(0, uint64(5)))

	var v uint64
	require.NoError(t, seg.Get(0, &v))
	require.EqualValues(t, 15, v)

	require.NoError(t, seg.Dec(0, uint64(3)))
	require.NoError(t, seg.Get(0, &v))
	require.EqualValues(t, 12, v)
}

func TestSegment_OverResizableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seg-resizable.bin")
	rf, err := mappedfile.OpenResizableFile(path, 4096)
	require.NoError(t, err)
	defer rf.Close()
	require.NoError(t, rf.Resize(64))

	seg := segment.NewResizable(rf)
	require.NoError(t, seg.Set(int64(0), uint32(1), uint32(2)))

	require.NoError(t, rf.Resize(128))
	var a, b uint32
	require.NoError(t, seg.Get(int64(0), &a, &b))
	require.EqualValues(t, 1, a)
	require.EqualValues(t, 2, b)
}

func TestSegment_NewFileRunsInitOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seg-newfile.bin")
	inits := 0

	seg, err := segment.NewFile(path, 0644, 16, func(seg *segment.MappedSegment) error {
		inits++
		return seg.Set(0, uint32(99))
	})
	require.NoError(t, err)
	defer seg.Close()

	var v uint32
	require.NoError(t, seg.Get(0, &v))
	require.EqualValues(t, 99, v)
	require.Equal(t, 1, inits)

	seg2, err := segment.NewFile(path, 0644, 16, func(seg *segment.MappedSegment) error {
		inits++
		return nil
	})
	require.NoError(t, err)
	defer seg2.Close()
	require.Equal(t, 1, inits, "init must not run again for an existing file")
}

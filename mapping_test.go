package mappedfile

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func tempPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0644))
}

// S1 — Read-only round trip.
func TestOpenReadOnly_RoundTrip(t *testing.T) {
	path := tempPath(t, "s1.bin")
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, 42)
	writeFile(t, path, buf)

	m, err := OpenReadOnly(path)
	require.NoError(t, err)
	defer m.Close()

	require.EqualValues(t, 4, m.Size())
	require.EqualValues(t, 42, binary.LittleEndian.Uint32(m.Memory()[:4]))
	require.False(t, m.Writable())
}

// S2 — Writable in-place mutation.
func TestOpenWritable_Mutate(t *testing.T) {
	path := tempPath(t, "s2.bin")
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, 42)
	writeFile(t, path, buf)

	m, err := OpenWritable(path)
	require.NoError(t, err)

	binary.LittleEndian.PutUint32(m.Memory()[:4], 123)
	require.NoError(t, m.Close())

	reread, err := os.ReadFile(path)
	require.NoError(t, err)
	require.EqualValues(t, 123, binary.LittleEndian.Uint32(reread))
}

func TestMapping_EmptyFile(t *testing.T) {
	path := tempPath(t, "empty.bin")
	writeFile(t, path, nil)

	m, err := OpenReadOnly(path)
	require.NoError(t, err)

	require.EqualValues(t, 0, m.Size())
	require.Nil(t, m.Data())

	require.NoError(t, m.Close())
}

func TestMapping_WriteAtRejectedOnReadOnly(t *testing.T) {
	path := tempPath(t, "ro.bin")
	writeFile(t, path, []byte("hello"))

	m, err := OpenReadOnly(path)
	require.NoError(t, err)
	defer m.Close()

	_, err = m.WriteAt([]byte("x"), 0)
	require.Error(t, err)
	var notWritable *ErrNotWritable
	require.ErrorAs(t, err, &notWritable)
}

func TestMapping_InvalidOffset(t *testing.T) {
	path := tempPath(t, "off.bin")
	writeFile(t, path, []byte("hello"))

	m, err := OpenReadOnly(path)
	require.NoError(t, err)
	defer m.Close()

	_, err = m.ReadAt(make([]byte, 1), -1)
	require.Error(t, err)
	var invalidOffset *ErrInvalidOffset
	require.ErrorAs(t, err, &invalidOffset)
}

func TestMapping_DoubleCloseReturnsClosed(t *testing.T) {
	path := tempPath(t, "close.bin")
	writeFile(t, path, []byte("hello"))

	m, err := OpenWritable(path)
	require.NoError(t, err)
	require.NoError(t, m.Close())

	err = m.Close()
	var closed *ErrClosed
	require.ErrorAs(t, err, &closed)
}

func TestMapping_Sync(t *testing.T) {
	path := tempPath(t, "sync.bin")
	writeFile(t, path, []byte("HELLO"))

	m, err := OpenWritable(path)
	require.NoError(t, err)
	defer m.Close()

	copy(m.Memory(), []byte("WORLD"))
	require.NoError(t, m.Sync())

	reread, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "WORLD", string(reread))
}

func TestMapping_LockUnlock(t *testing.T) {
	path := tempPath(t, "lock.bin")
	writeFile(t, path, make([]byte, int(PageSize())))

	m, err := OpenWritable(path)
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Lock())
	var locked *ErrLocked
	require.ErrorAs(t, m.Lock(), &locked)
	require.NoError(t, m.Unlock())
	var unlocked *ErrUnlocked
	require.ErrorAs(t, m.Unlock(), &unlocked)
}

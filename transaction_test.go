package mappedfile

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransaction_Rollback(t *testing.T) {
	path := tempPath(t, "tx-rollback.bin")
	writeFile(t, path, make([]byte, 16))

	m, err := OpenWritable(path)
	require.NoError(t, err)
	defer m.Close()

	tx, err := m.Begin(0, m.Size())
	require.NoError(t, err)
	_, err = tx.WriteAt([]byte("HELLO"), 0)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	buf := make([]byte, 5)
	_, err = m.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 5), buf)
}

func TestTransaction_Commit(t *testing.T) {
	path := tempPath(t, "tx-commit.bin")
	writeFile(t, path, make([]byte, 16))

	m, err := OpenWritable(path)
	require.NoError(t, err)
	defer m.Close()

	tx, err := m.Begin(0, m.Size())
	require.NoError(t, err)
	_, err = tx.WriteAt([]byte("HELLO"), 0)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	require.NoError(t, m.Sync())

	buf := make([]byte, 5)
	_, err = m.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "HELLO", string(buf))

	reread, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "HELLO", string(reread[:5]))
}

func TestTransaction_UseAfterCloseFails(t *testing.T) {
	path := tempPath(t, "tx-closed.bin")
	writeFile(t, path, make([]byte, 16))

	m, err := OpenWritable(path)
	require.NoError(t, err)

	tx, err := m.Begin(0, m.Size())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	var closedTx *ErrTransactionClosed
	require.ErrorAs(t, tx.Commit(), &closedTx)
	require.ErrorAs(t, tx.Rollback(), &closedTx)

	require.NoError(t, m.Close())
}

func TestTransaction_RejectedOnReadOnly(t *testing.T) {
	path := tempPath(t, "tx-ro.bin")
	writeFile(t, path, make([]byte, 16))

	m, err := OpenReadOnly(path)
	require.NoError(t, err)
	defer m.Close()

	_, err = m.Begin(0, m.Size())
	var notWritable *ErrNotWritable
	require.ErrorAs(t, err, &notWritable)
}

//go:build linux

package mappedfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// S6 — Decommit releases residency.
func TestResidency_DecommitReleasesPages(t *testing.T) {
	pageSize := PageSize()
	rm, err := NewResizableMemory(0, 64*pageSize)
	require.NoError(t, err)
	defer rm.Close()

	require.NoError(t, rm.Resize(4*pageSize))
	for i := range rm.Memory() {
		rm.Memory()[i] = 0xAB
	}
	resident, err := Resident(rm.Memory())
	require.NoError(t, err)
	require.True(t, resident)

	committed := unsafeView(rm.reservation.Base(), int(4*pageSize))
	require.NoError(t, rm.Resize(0))
	resident, err = Resident(committed)
	require.NoError(t, err)
	require.False(t, resident)
}

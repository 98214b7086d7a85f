package oids

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHasPrefix verifies arc-aware prefix matching with and without leading dots.
func TestHasPrefix(t *testing.T) {
	t.Parallel()

	require.True(t, HasPrefix(".1.3.6.1.4.1.534.1.7.3", UPSAlarms))
	require.True(t, HasPrefix(AlarmDescr+".12", "."+AlarmDescr))
	require.False(t, HasPrefix("1.3.6.1.4.1.534.1.70", UPSAlarms))
	require.False(t, HasPrefix(UPSAlarms, UPSAlarms))
}

// TestLastArc checks numeric suffix extraction and rejection of malformed input.
func TestLastArc(t *testing.T) {
	t.Parallel()

	got, ok := LastArc(".1.3.6.1.4.1.534.1.7.2.1.2.17")
	require.True(t, ok)
	require.Equal(t, 17, got)

	got, ok = LastArc("5")
	require.True(t, ok)
	require.Equal(t, 5, got)

	_, ok = LastArc("1.3.6.x")
	require.False(t, ok)

	_, ok = LastArc("")
	require.False(t, ok)

	require.Equal(t, "1.3.6", Normalize(" .1.3.6 "))
}

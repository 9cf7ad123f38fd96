package money

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromFloat(t *testing.T) {
	require.Equal(t, int64(100000), FromFloat(1))
	require.Equal(t, int64(1250000), FromFloat(12.5))
	require.Equal(t, int64(0), FromFloat(0))
	// Rounds, does not truncate
	require.Equal(t, int64(33333), FromFloat(0.333334))
}

func TestToFloat(t *testing.T) {
	require.InDelta(t, 12.5, ToFloat(1250000), 1e-9)
	require.InDelta(t, 0.0, ToFloat(0), 1e-9)
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "12.50", FormatAmount(1250000))
	require.Equal(t, "0.00", FormatAmount(0))
	require.Equal(t, "1.00", FormatAmount(100000))
}

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransactionKind_Parts(t *testing.T) {
	require.Equal(t, ChannelLocal, KindLocalCall.Channel())
	require.Equal(t, MediumCall, KindLocalCall.Medium())
	require.Equal(t, ChannelOutside, KindOutsideSMS.Channel())
	require.Equal(t, MediumSMS, KindOutsideSMS.Medium())
}

func TestTransactionKind_WithChannel(t *testing.T) {
	require.Equal(t, KindGlobeCall, KindLocalCall.WithChannel(ChannelGlobe))
	require.Equal(t, KindGlobeSMS, KindLocalSMS.WithChannel(ChannelGlobe))
	require.Equal(t, KindOutsideCall, KindGlobeCall.WithChannel(ChannelOutside))
	// No medium to preserve: kind stays as-is
	require.Equal(t, TransactionKind("bogus"), TransactionKind("bogus").WithChannel(ChannelGlobe))
}

func TestParseTransactionKind(t *testing.T) {
	for _, k := range AllTransactionKinds() {
		parsed, ok := ParseTransactionKind(string(k))
		require.True(t, ok)
		require.Equal(t, k, parsed)
		require.True(t, k.Valid())
	}
	_, ok := ParseTransactionKind("roaming_call")
	require.False(t, ok)
	require.False(t, TransactionKind("roaming_call").Valid())
}

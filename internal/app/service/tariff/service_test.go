package tariff

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/pcarivbts/vbts-billing/pkg/config"
	"github.com/pcarivbts/vbts-billing/pkg/types"
)

func newTestService(cfg *cfgpkg.Config) *Service {
	return NewService(cfg, zap.NewNop().Sugar())
}

func testConfig() *cfgpkg.Config {
	return &cfgpkg.Config{
		Tariffs: []cfgpkg.TariffEntry{
			{Kind: types.KindLocalSMS, Price: 100000},
			{Kind: types.KindLocalCall, Price: 200000},
			{Kind: types.KindOutsideSMS, Price: 500000},
			{Kind: types.KindOutsideCall, Price: 1000000},
		},
	}
}

func TestStripNumber(t *testing.T) {
	require.Equal(t, "639051234567", StripNumber("+63 905 123-4567"))
	require.Equal(t, "1234", StripNumber("1234"))
	require.Equal(t, "", StripNumber("abc"))
}

func TestOperatorChannel_DefaultPrefixes(t *testing.T) {
	svc := newTestService(testConfig())

	ch, ok := svc.OperatorChannel("639051234567")
	require.True(t, ok)
	require.Equal(t, types.ChannelGlobe, ch)

	ch, ok = svc.OperatorChannel("+63917 555 0199")
	require.True(t, ok)
	require.Equal(t, types.ChannelGlobe, ch)

	_, ok = svc.OperatorChannel("639990000000")
	require.False(t, ok)
}

func TestOperatorChannel_ConfigOverride(t *testing.T) {
	cfg := testConfig()
	cfg.OperatorPrefixes = []cfgpkg.OperatorPrefix{
		{Prefix: "44", Channel: types.ChannelOutside},
	}
	svc := newTestService(cfg)

	// Config table replaces the defaults entirely
	_, ok := svc.OperatorChannel("639051234567")
	require.False(t, ok)

	ch, ok := svc.OperatorChannel("447700900000")
	require.True(t, ok)
	require.Equal(t, types.ChannelOutside, ch)
}

func TestRegularRate(t *testing.T) {
	svc := newTestService(testConfig())

	require.Equal(t, int64(200000), svc.RegularRate(types.KindLocalCall))
	require.Equal(t, int64(500000), svc.RegularRate(types.KindOutsideSMS))
	// Globe has no table entry: bills at the outside rate
	require.Equal(t, int64(1000000), svc.RegularRate(types.KindGlobeCall))
	require.Equal(t, int64(500000), svc.RegularRate(types.KindGlobeSMS))
}

func TestRegularRate_Unconfigured(t *testing.T) {
	svc := newTestService(&cfgpkg.Config{})
	require.Equal(t, int64(0), svc.RegularRate(types.KindLocalCall))
}

func TestSecondsAvailable(t *testing.T) {
	svc := newTestService(testConfig())

	// Whole minutes only: 5.5 minutes of balance buys 5 minutes
	require.Equal(t, int64(5*60), svc.SecondsAvailable(1100000, types.KindLocalCall))
	require.Equal(t, int64(0), svc.SecondsAvailable(100000, types.KindLocalCall))
	require.Equal(t, int64(0), svc.SecondsAvailable(-1, types.KindLocalCall))

	// No configured rate reads as unmetered; callers cap it
	free := newTestService(&cfgpkg.Config{})
	require.Greater(t, free.SecondsAvailable(100, types.KindLocalCall), int64(1<<60))
}

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEffectiveTag_String(t *testing.T) {
	require.Equal(t, "U_local_call", EffectiveTag{PromoType: PromoTypeUnlimited, Kind: KindLocalCall}.String())
	require.Equal(t, "local_call", EffectiveTag{Kind: KindLocalCall}.String())
}

func TestParseEffectiveTag(t *testing.T) {
	tests := []struct {
		in   string
		want EffectiveTag
	}{
		{"U_local_call", EffectiveTag{PromoType: PromoTypeUnlimited, Kind: KindLocalCall}},
		{"B_globe_sms", EffectiveTag{PromoType: PromoTypeBulk, Kind: KindGlobeSMS}},
		{"D_outside_call", EffectiveTag{PromoType: PromoTypeDiscounted, Kind: KindOutsideCall}},
		{"G_local_sms", EffectiveTag{PromoType: PromoTypeGroupDiscount, Kind: KindLocalSMS}},
		// Bare kinds come through the same field
		{"local_call", EffectiveTag{Kind: KindLocalCall}},
		// "g" is not a promo prefix unless it is a known letter
		{"X_local_call", EffectiveTag{Kind: TransactionKind("X_local_call")}},
	}
	for _, tt := range tests {
		got := ParseEffectiveTag(tt.in)
		require.Equal(t, tt.want, got, tt.in)
		// String round-trips for valid tags
		require.Equal(t, tt.in, got.String())
	}
}

func TestEffectiveTag_Promo(t *testing.T) {
	require.True(t, EffectiveTag{PromoType: PromoTypeBulk, Kind: KindLocalCall}.Promo())
	require.False(t, EffectiveTag{Kind: KindLocalCall}.Promo())
}

func TestPromoTypePriority_Order(t *testing.T) {
	require.Equal(t, []PromoType{
		PromoTypeUnlimited, PromoTypeBulk, PromoTypeDiscounted, PromoTypeGroupDiscount,
	}, PromoTypePriority)
}

func TestNormalizeKeyword(t *testing.T) {
	require.Equal(t, "PROMO10", NormalizeKeyword("  promo10 "))
	require.Equal(t, "SAKTO", NormalizeKeyword("Sakto"))
}

package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pcarivbts/vbts-billing/internal/app/service/settings"
	"github.com/pcarivbts/vbts-billing/internal/app/service/tariff"
	"github.com/pcarivbts/vbts-billing/internal/models"
	cfgpkg "github.com/pcarivbts/vbts-billing/pkg/config"
	"github.com/pcarivbts/vbts-billing/pkg/types"
)

type fakeSubs struct {
	// subs holds at most one subscription per promo type
	subs map[types.PromoType]*models.PromoSubscription

	deductMatched bool
	deductErr     error
	deductedKind  types.TransactionKind
	deductedAmt   int64
}

func (f *fakeSubs) FirstActiveSubscription(_ context.Context, _ string, pt types.PromoType, _ types.TransactionKind) (*models.PromoSubscription, error) {
	return f.subs[pt], nil
}

func (f *fakeSubs) DeductQuota(_ context.Context, _ string, kind types.TransactionKind, amount int64) (bool, error) {
	f.deductedKind = kind
	f.deductedAmt = amount
	return f.deductMatched, f.deductErr
}

type fakeGroups struct {
	member bool
	err    error
}

func (f *fakeGroups) IsGroupMember(context.Context, string, string) (bool, error) {
	return f.member, f.err
}

type fakeDirectory struct {
	local map[string]string
}

func (f *fakeDirectory) IMSIFromNumber(_ context.Context, number string) (string, error) {
	if imsi, ok := f.local[number]; ok {
		return imsi, nil
	}
	return "", errors.New("not on network")
}

type fakeConfigStore struct{ values map[string]string }

func (f *fakeConfigStore) ConfigValue(_ context.Context, key string) (string, error) {
	return f.values[key], nil
}

func subWith(pt types.PromoType, kind types.TransactionKind, value int64) *models.PromoSubscription {
	sub := &models.PromoSubscription{
		ID:             "sub-" + string(pt),
		IMSI:           "001010000000001",
		PromoType:      pt,
		DateExpiration: time.Now().Add(time.Hour),
	}
	sub.Allocation.Set(kind, value)
	return sub
}

func newTestEngine(subs *fakeSubs, groups *fakeGroups, dir *fakeDirectory, cfgValues map[string]string) *Service {
	cfg := &cfgpkg.Config{
		Tariffs: []cfgpkg.TariffEntry{
			{Kind: types.KindLocalSMS, Price: 100000},
			{Kind: types.KindLocalCall, Price: 200000},
			{Kind: types.KindOutsideSMS, Price: 500000},
			{Kind: types.KindOutsideCall, Price: 1000000},
		},
	}
	log := zap.NewNop().Sugar()
	st := settings.NewService(&fakeConfigStore{values: cfgValues}, log)
	tf := tariff.NewService(cfg, log)
	return NewService(subs, groups, dir, tf, st, cfg, log)
}

const (
	testIMSI  = "001010000000001"
	localDest = "631234567"
	globeDest = "639051234567"
)

func localDir() *fakeDirectory {
	return &fakeDirectory{local: map[string]string{localDest: "001010000000002"}}
}

func TestClassify_NoPromoReturnsBareKind(t *testing.T) {
	engine := newTestEngine(&fakeSubs{}, &fakeGroups{}, localDir(), nil)

	tag := engine.Classify(context.Background(), testIMSI, types.KindLocalCall, localDest)
	require.Equal(t, types.EffectiveTag{Kind: types.KindLocalCall}, tag)
}

func TestClassify_PriorityOrder(t *testing.T) {
	subs := &fakeSubs{subs: map[types.PromoType]*models.PromoSubscription{
		types.PromoTypeUnlimited:  subWith(types.PromoTypeUnlimited, types.KindLocalCall, 1),
		types.PromoTypeBulk:       subWith(types.PromoTypeBulk, types.KindLocalCall, 50),
		types.PromoTypeDiscounted: subWith(types.PromoTypeDiscounted, types.KindLocalCall, 120000),
	}}
	engine := newTestEngine(subs, &fakeGroups{}, localDir(), nil)

	tag := engine.Classify(context.Background(), testIMSI, types.KindLocalCall, localDest)
	require.Equal(t, types.PromoTypeUnlimited, tag.PromoType)

	delete(subs.subs, types.PromoTypeUnlimited)
	tag = engine.Classify(context.Background(), testIMSI, types.KindLocalCall, localDest)
	require.Equal(t, types.PromoTypeBulk, tag.PromoType)

	delete(subs.subs, types.PromoTypeBulk)
	tag = engine.Classify(context.Background(), testIMSI, types.KindLocalCall, localDest)
	require.Equal(t, types.PromoTypeDiscounted, tag.PromoType)
}

func TestClassify_GroupRequiresMembership(t *testing.T) {
	subs := &fakeSubs{subs: map[types.PromoType]*models.PromoSubscription{
		types.PromoTypeGroupDiscount: subWith(types.PromoTypeGroupDiscount, types.KindLocalCall, 100000),
	}}

	nonMember := newTestEngine(subs, &fakeGroups{member: false}, localDir(), nil)
	tag := nonMember.Classify(context.Background(), testIMSI, types.KindLocalCall, localDest)
	require.Equal(t, types.EffectiveTag{Kind: types.KindLocalCall}, tag)

	member := newTestEngine(subs, &fakeGroups{member: true}, localDir(), nil)
	tag = member.Classify(context.Background(), testIMSI, types.KindLocalCall, localDest)
	require.Equal(t, types.PromoTypeGroupDiscount, tag.PromoType)
}

func TestClassify_GlobeRemap(t *testing.T) {
	subs := &fakeSubs{subs: map[types.PromoType]*models.PromoSubscription{
		types.PromoTypeBulk: subWith(types.PromoTypeBulk, types.KindGlobeCall, 30),
	}}
	engine := newTestEngine(subs, &fakeGroups{}, localDir(), nil)

	// Destination is off-network and matches a Globe prefix: the kind is
	// remapped and the globe-keyed bulk quota wins.
	tag := engine.Classify(context.Background(), testIMSI, types.KindLocalCall, globeDest)
	require.Equal(t, types.EffectiveTag{PromoType: types.PromoTypeBulk, Kind: types.KindGlobeCall}, tag)

	// A locally-resolvable destination keeps the reported kind.
	tag = engine.Classify(context.Background(), testIMSI, types.KindLocalCall, localDest)
	require.Equal(t, types.KindLocalCall, tag.Kind)
}

func TestClassify_DrainedWinnerFallsBackToRegular(t *testing.T) {
	subs := &fakeSubs{subs: map[types.PromoType]*models.PromoSubscription{
		types.PromoTypeBulk: subWith(types.PromoTypeBulk, types.KindLocalCall, 0),
	}}
	engine := newTestEngine(subs, &fakeGroups{}, localDir(), nil)

	tag := engine.Classify(context.Background(), testIMSI, types.KindLocalCall, localDest)
	require.Equal(t, types.EffectiveTag{Kind: types.KindLocalCall}, tag)
}

func TestRequiredMinimumBalance(t *testing.T) {
	engine := newTestEngine(&fakeSubs{}, &fakeGroups{}, localDir(),
		map[string]string{settings.KeyPromoReqMinBalance: "50000"})
	ctx := context.Background()

	uTag := types.EffectiveTag{PromoType: types.PromoTypeUnlimited, Kind: types.KindLocalCall}
	bTag := types.EffectiveTag{PromoType: types.PromoTypeBulk, Kind: types.KindLocalCall}
	dTag := types.EffectiveTag{PromoType: types.PromoTypeDiscounted, Kind: types.KindLocalCall}
	bare := types.EffectiveTag{Kind: types.KindLocalCall}

	require.Equal(t, "50000", engine.RequiredMinimumBalance(ctx, uTag, "200000"))
	require.Equal(t, "50000", engine.RequiredMinimumBalance(ctx, bTag, "200000"))
	require.Equal(t, "200000", engine.RequiredMinimumBalance(ctx, dTag, "200000"))
	require.Equal(t, "200000", engine.RequiredMinimumBalance(ctx, bare, "200000"))
}

func TestRequiredMinimumBalance_UnsetDefaultsToZero(t *testing.T) {
	engine := newTestEngine(&fakeSubs{}, &fakeGroups{}, localDir(), nil)
	ctx := context.Background()

	// Prepaid regimes are not gated by the regular tariff floor
	uTag := types.EffectiveTag{PromoType: types.PromoTypeUnlimited, Kind: types.KindLocalCall}
	bTag := types.EffectiveTag{PromoType: types.PromoTypeBulk, Kind: types.KindLocalCall}
	require.Equal(t, "0", engine.RequiredMinimumBalance(ctx, uTag, "200000"))
	require.Equal(t, "0", engine.RequiredMinimumBalance(ctx, bTag, "200000"))

	bare := types.EffectiveTag{Kind: types.KindLocalCall}
	require.Equal(t, "200000", engine.RequiredMinimumBalance(ctx, bare, "200000"))
}

func TestServiceTariff(t *testing.T) {
	subs := &fakeSubs{subs: map[types.PromoType]*models.PromoSubscription{
		types.PromoTypeDiscounted:    subWith(types.PromoTypeDiscounted, types.KindLocalCall, 120000),
		types.PromoTypeGroupDiscount: subWith(types.PromoTypeGroupDiscount, types.KindLocalCall, 80000),
	}}
	ctx := context.Background()

	engine := newTestEngine(subs, &fakeGroups{member: true}, localDir(), nil)
	require.Equal(t, int64(0), engine.ServiceTariff(ctx, testIMSI,
		types.EffectiveTag{PromoType: types.PromoTypeUnlimited, Kind: types.KindLocalCall}, localDest))
	require.Equal(t, int64(0), engine.ServiceTariff(ctx, testIMSI,
		types.EffectiveTag{PromoType: types.PromoTypeBulk, Kind: types.KindLocalCall}, localDest))
	require.Equal(t, int64(120000), engine.ServiceTariff(ctx, testIMSI,
		types.EffectiveTag{PromoType: types.PromoTypeDiscounted, Kind: types.KindLocalCall}, localDest))
	require.Equal(t, int64(80000), engine.ServiceTariff(ctx, testIMSI,
		types.EffectiveTag{PromoType: types.PromoTypeGroupDiscount, Kind: types.KindLocalCall}, localDest))
	require.Equal(t, int64(200000), engine.ServiceTariff(ctx, testIMSI,
		types.EffectiveTag{Kind: types.KindLocalCall}, localDest))

	// A non-member never bills at the group rate
	nonMember := newTestEngine(subs, &fakeGroups{member: false}, localDir(), nil)
	require.Equal(t, int64(200000), nonMember.ServiceTariff(ctx, testIMSI,
		types.EffectiveTag{PromoType: types.PromoTypeGroupDiscount, Kind: types.KindLocalCall}, localDest))
}

func TestSecondsAvailable(t *testing.T) {
	subs := &fakeSubs{subs: map[types.PromoType]*models.PromoSubscription{
		types.PromoTypeBulk:       subWith(types.PromoTypeBulk, types.KindLocalCall, 25),
		types.PromoTypeDiscounted: subWith(types.PromoTypeDiscounted, types.KindLocalCall, 100000),
	}}
	engine := newTestEngine(subs, &fakeGroups{}, localDir(),
		map[string]string{settings.KeyMaxCallDuration: "3600"})
	ctx := context.Background()

	// Unlimited gets the full cap
	require.Equal(t, int64(3600), engine.SecondsAvailable(ctx, testIMSI,
		types.EffectiveTag{PromoType: types.PromoTypeUnlimited, Kind: types.KindLocalCall}, 0, localDest))

	// Bulk converts quota minutes, capped
	require.Equal(t, int64(25*60), engine.SecondsAvailable(ctx, testIMSI,
		types.EffectiveTag{PromoType: types.PromoTypeBulk, Kind: types.KindLocalCall}, 0, localDest))
	subs.subs[types.PromoTypeBulk].Allocation.Set(types.KindLocalCall, 500)
	require.Equal(t, int64(3600), engine.SecondsAvailable(ctx, testIMSI,
		types.EffectiveTag{PromoType: types.PromoTypeBulk, Kind: types.KindLocalCall}, 0, localDest))

	// Discounted divides the balance by the promo rate in whole minutes
	require.Equal(t, int64(5*60), engine.SecondsAvailable(ctx, testIMSI,
		types.EffectiveTag{PromoType: types.PromoTypeDiscounted, Kind: types.KindLocalCall}, 550000, localDest))

	// Regular billing uses the tariff table
	require.Equal(t, int64(2*60), engine.SecondsAvailable(ctx, testIMSI,
		types.EffectiveTag{Kind: types.KindLocalCall}, 500000, localDest))
}

func TestSecondsAvailable_ZeroRatePromoKeepsBase(t *testing.T) {
	subs := &fakeSubs{subs: map[types.PromoType]*models.PromoSubscription{
		types.PromoTypeDiscounted: subWith(types.PromoTypeDiscounted, types.KindLocalCall, 0),
	}}
	engine := newTestEngine(subs, &fakeGroups{}, localDir(), nil)

	// Rate 0 on the subscription must not divide by zero; the regular
	// affordability stands.
	sec := engine.SecondsAvailable(context.Background(), testIMSI,
		types.EffectiveTag{PromoType: types.PromoTypeDiscounted, Kind: types.KindLocalCall}, 400000, localDest)
	require.Equal(t, int64(2*60), sec)
}

func TestDeduct(t *testing.T) {
	ctx := context.Background()

	subs := &fakeSubs{deductMatched: true}
	engine := newTestEngine(subs, &fakeGroups{}, localDir(), nil)

	bTag := types.EffectiveTag{PromoType: types.PromoTypeBulk, Kind: types.KindLocalSMS}
	require.NoError(t, engine.Deduct(ctx, testIMSI, bTag, 1))
	require.Equal(t, types.KindLocalSMS, subs.deductedKind)
	require.Equal(t, int64(1), subs.deductedAmt)

	// Non-bulk tags are rejected before touching the store
	uTag := types.EffectiveTag{PromoType: types.PromoTypeUnlimited, Kind: types.KindLocalSMS}
	require.ErrorIs(t, engine.Deduct(ctx, testIMSI, uTag, 1), ErrNotBulkPromo)
	bare := types.EffectiveTag{Kind: types.KindLocalSMS}
	require.ErrorIs(t, engine.Deduct(ctx, testIMSI, bare, 1), ErrNotBulkPromo)

	// A deduct that matched nothing still reports success
	subs.deductMatched = false
	require.NoError(t, engine.Deduct(ctx, testIMSI, bTag, 1))

	subs.deductErr = errors.New("db down")
	require.Error(t, engine.Deduct(ctx, testIMSI, bTag, 1))
}

func TestResolve_Consolidated(t *testing.T) {
	subs := &fakeSubs{subs: map[types.PromoType]*models.PromoSubscription{
		types.PromoTypeBulk: subWith(types.PromoTypeBulk, types.KindLocalCall, 10),
	}}
	engine := newTestEngine(subs, &fakeGroups{}, localDir(),
		map[string]string{settings.KeyPromoReqMinBalance: "0"})

	res := engine.Resolve(context.Background(), testIMSI, types.KindLocalCall, localDest, 500000)
	require.Equal(t, types.PromoTypeBulk, res.Tag.PromoType)
	require.Equal(t, int64(0), res.Tariff)
	require.Equal(t, "0", res.MinBalance)
	require.Equal(t, int64(10*60), res.Seconds)
}

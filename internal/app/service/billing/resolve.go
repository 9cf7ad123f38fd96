package billing

import (
	"context"
	"strconv"

	"github.com/pcarivbts/vbts-billing/internal/app/service/settings"
	"github.com/pcarivbts/vbts-billing/pkg/metrics"
	"github.com/pcarivbts/vbts-billing/pkg/types"
)

// Resolution is the consolidated answer for one call attempt: everything
// the dialplan asks for across its individual lookups, computed from a
// single classification pass.
type Resolution struct {
	Tag        types.EffectiveTag `json:"tag"`
	MinBalance string             `json:"min_balance"`
	Tariff     int64              `json:"tariff"`
	Seconds    int64              `json:"seconds"`
}

// RequiredMinimumBalance returns the balance floor the switch enforces
// before connecting. Unlimited and bulk promos substitute the operator
// policy value, zero when none is configured since those calls are
// prepaid; every other regime keeps the tariff-derived floor the caller
// already computed.
func (s *Service) RequiredMinimumBalance(ctx context.Context, tag types.EffectiveTag, tariffFloor string) string {
	switch tag.PromoType {
	case types.PromoTypeUnlimited, types.PromoTypeBulk:
		return s.settings.String(ctx, settings.KeyPromoReqMinBalance, "0")
	}
	return tariffFloor
}

// ServiceTariff returns the per-unit price in millicents for a
// classified transaction. Unlimited and bulk are prepaid so the unit
// price is zero; discounted and group promos bill at the rate stored in
// the subscription's allocation field; everything else bills regular.
func (s *Service) ServiceTariff(ctx context.Context, imsi string, tag types.EffectiveTag, dest string) int64 {
	rate := s.tariffs.RegularRate(tag.Kind)
	switch tag.PromoType {
	case types.PromoTypeUnlimited, types.PromoTypeBulk:
		return 0
	case types.PromoTypeDiscounted, types.PromoTypeGroupDiscount:
		if sub := s.activeSub(ctx, imsi, tag.PromoType, tag.Kind, dest); sub != nil {
			return sub.Allocation.Get(tag.Kind)
		}
	}
	return rate
}

// SecondsAvailable returns how long the switch may keep a call up, in
// seconds, always capped by the operator's max call duration. Unlimited
// promos get the full cap; bulk converts remaining quota units to
// minutes; discounted and group divide the balance by the promo rate.
func (s *Service) SecondsAvailable(ctx context.Context, imsi string, tag types.EffectiveTag, balance int64, dest string) int64 {
	sec := s.tariffs.SecondsAvailable(balance, tag.Kind)
	maxDur := s.settings.MaxCallDuration(ctx)

	switch tag.PromoType {
	case types.PromoTypeUnlimited:
		sec = maxDur
	case types.PromoTypeBulk:
		if sub := s.activeSub(ctx, imsi, tag.PromoType, tag.Kind, dest); sub != nil {
			sec = sub.Allocation.Get(tag.Kind) * 60
		}
	case types.PromoTypeDiscounted, types.PromoTypeGroupDiscount:
		if sub := s.activeSub(ctx, imsi, tag.PromoType, tag.Kind, dest); sub != nil {
			if rate := sub.Allocation.Get(tag.Kind); rate > 0 {
				sec = (balance / rate) * 60
			}
		}
	}

	if sec > maxDur {
		sec = maxDur
	}
	if sec < 0 {
		sec = 0
	}
	return sec
}

// Deduct consumes bulk quota after a completed transaction. A deduct
// that matches no qualifying subscription is reported as success so the
// switch never retries or blocks teardown; the counter keeps those
// visible to the operator.
func (s *Service) Deduct(ctx context.Context, imsi string, tag types.EffectiveTag, amount int64) error {
	if tag.PromoType != types.PromoTypeBulk {
		return ErrNotBulkPromo
	}
	matched, err := s.subs.DeductQuota(ctx, imsi, tag.Kind, amount)
	if err != nil {
		s.log.Errorw("quota deduct failed", "imsi", imsi, "kind", tag.Kind, "err", err)
		return err
	}
	if !matched {
		metrics.QuotaDeductNoop.WithLabelValues(string(tag.Kind)).Inc()
		s.log.Infow("quota deduct matched nothing", "imsi", imsi, "kind", tag.Kind, "amount", amount)
	}
	return nil
}

// Resolve classifies once and answers every per-call question in one
// round trip for dialplans that can consume a combined response.
func (s *Service) Resolve(ctx context.Context, imsi string, kind types.TransactionKind, dest string, balance int64) Resolution {
	tag := s.Classify(ctx, imsi, kind, dest)
	tariffRate := s.ServiceTariff(ctx, imsi, tag, dest)
	return Resolution{
		Tag:        tag,
		MinBalance: s.RequiredMinimumBalance(ctx, tag, strconv.FormatInt(tariffRate, 10)),
		Tariff:     tariffRate,
		Seconds:    s.SecondsAvailable(ctx, imsi, tag, balance, dest),
	}
}

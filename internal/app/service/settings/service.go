// Package settings reads operator-tunable policy values from the config
// table. Every getter takes an explicit fallback: a missing key, a dead
// database, or a malformed value must never fail a billing decision.
package settings

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Well-known keys.
const (
	KeyPromoLimitType       = "promo_limit_type"
	KeyMaxPromoSubscription = "max_promo_subscription"
	KeyMinBalanceRequired   = "min_balance_required"
	KeyPromoReqMinBalance   = "promo_req_min_balance"
	KeyMaxCallDuration      = "max_call_duration"
	KeyTimezone             = "timezone"
)

// Subscription limit policies.
const (
	LimitPerPromo  = "A"
	LimitAggregate = "B"
)

const (
	DefaultMaxPromoSubscription = 1
	// DefaultMaxCallDuration caps any single call at one day.
	DefaultMaxCallDuration = 24 * 60 * 60
)

type Store interface {
	ConfigValue(ctx context.Context, key string) (string, error)
}

type Service struct {
	store Store
	log   *zap.SugaredLogger
}

func NewService(store Store, log *zap.SugaredLogger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) String(ctx context.Context, key, fallback string) string {
	v, err := s.store.ConfigValue(ctx, key)
	if err != nil {
		s.log.Warnw("config read failed, using fallback", "key", key, "err", err)
		return fallback
	}
	if v == "" {
		return fallback
	}
	return v
}

func (s *Service) Int64(ctx context.Context, key string, fallback int64) int64 {
	v := s.String(ctx, key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		s.log.Warnw("non-numeric config value, using fallback", "key", key, "value", v)
		return fallback
	}
	return n
}

// MaxCallDuration returns the configured per-call cap in seconds. A
// non-positive configured value is invalid and yields the default.
func (s *Service) MaxCallDuration(ctx context.Context) int64 {
	n := s.Int64(ctx, KeyMaxCallDuration, DefaultMaxCallDuration)
	if n <= 0 {
		return DefaultMaxCallDuration
	}
	return n
}

// Location resolves the display timezone for subscriber-facing expiry
// times. Falls back to the static default, then UTC.
func (s *Service) Location(ctx context.Context, defaultTZ string) *time.Location {
	name := s.String(ctx, KeyTimezone, defaultTZ)
	loc, err := time.LoadLocation(name)
	if err != nil {
		s.log.Warnw("bad timezone, using UTC", "name", name)
		return time.UTC
	}
	return loc
}

var Module = fx.Options(
	fx.Provide(NewService),
)

// Package tariff is the regular (non-promo) price table plus the
// call-affordability math and the external-operator prefix map.
package tariff

import (
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/pcarivbts/vbts-billing/pkg/config"
	"github.com/pcarivbts/vbts-billing/pkg/types"
)

// Prefixes of the Globe operator's number ranges, used when the config
// file does not carry its own operator_prefixes table.
var defaultOperatorPrefixes = []cfgpkg.OperatorPrefix{
	{Prefix: "63905", Channel: types.ChannelGlobe},
	{Prefix: "63906", Channel: types.ChannelGlobe},
	{Prefix: "63915", Channel: types.ChannelGlobe},
	{Prefix: "63916", Channel: types.ChannelGlobe},
	{Prefix: "63917", Channel: types.ChannelGlobe},
	{Prefix: "63926", Channel: types.ChannelGlobe},
	{Prefix: "63927", Channel: types.ChannelGlobe},
	{Prefix: "63935", Channel: types.ChannelGlobe},
	{Prefix: "63936", Channel: types.ChannelGlobe},
	{Prefix: "63937", Channel: types.ChannelGlobe},
	{Prefix: "63945", Channel: types.ChannelGlobe},
	{Prefix: "63955", Channel: types.ChannelGlobe},
	{Prefix: "63956", Channel: types.ChannelGlobe},
	{Prefix: "63966", Channel: types.ChannelGlobe},
	{Prefix: "63975", Channel: types.ChannelGlobe},
	{Prefix: "63976", Channel: types.ChannelGlobe},
	{Prefix: "63977", Channel: types.ChannelGlobe},
	{Prefix: "63995", Channel: types.ChannelGlobe},
	{Prefix: "63996", Channel: types.ChannelGlobe},
	{Prefix: "63997", Channel: types.ChannelGlobe},
}

type Service struct {
	cfg      *cfgpkg.Config
	prefixes []cfgpkg.OperatorPrefix
	log      *zap.SugaredLogger
}

func NewService(cfg *cfgpkg.Config, log *zap.SugaredLogger) *Service {
	prefixes := cfg.OperatorPrefixes
	if len(prefixes) == 0 {
		prefixes = defaultOperatorPrefixes
	}
	return &Service{cfg: cfg, prefixes: prefixes, log: log}
}

// StripNumber reduces a dial string to its canonical digits.
func StripNumber(dest string) string {
	var b strings.Builder
	for _, r := range dest {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// OperatorChannel matches a destination against the external-operator
// prefix table. Only meaningful for destinations already known to be
// off-network.
func (s *Service) OperatorChannel(dest string) (types.Channel, bool) {
	digits := StripNumber(dest)
	for _, p := range s.prefixes {
		if strings.HasPrefix(digits, p.Prefix) {
			return p.Channel, true
		}
	}
	return "", false
}

// RegularRate is the non-promo price per unit (per SMS, per call
// minute) in millicents. Operator channels without their own table
// entry bill at the outside rate, as the switch does.
func (s *Service) RegularRate(kind types.TransactionKind) int64 {
	if rate, ok := s.cfg.TariffFor(kind); ok {
		return rate
	}
	if kind.Channel() != types.ChannelLocal && kind.Channel() != types.ChannelOutside {
		fallback := kind.WithChannel(types.ChannelOutside)
		if rate, ok := s.cfg.TariffFor(fallback); ok {
			return rate
		}
	}
	s.log.Warnw("no tariff configured", "kind", kind)
	return 0
}

// SecondsAvailable converts a balance into whole affordable minutes at
// the regular rate, expressed in seconds. A zero rate means the channel
// is not billed per minute; callers cap the result regardless.
func (s *Service) SecondsAvailable(balance int64, kind types.TransactionKind) int64 {
	rate := s.RegularRate(kind)
	if rate <= 0 {
		return settingsFreeSeconds
	}
	if balance < 0 {
		return 0
	}
	return (balance / rate) * 60
}

// settingsFreeSeconds stands in for "unmetered" before the max call
// duration cap is applied; it must exceed any sane configured cap.
const settingsFreeSeconds = int64(1<<62 - 1)

var Module = fx.Options(
	fx.Provide(NewService),
)

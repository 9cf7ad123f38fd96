// Package billing is the per-transaction decision engine: it classifies
// every call/SMS attempt into a charging regime, resolves the tariff,
// minimum balance and affordable call seconds, and consumes bulk quota.
// All operations degrade to regular rates instead of failing: the switch
// must always get an answer.
package billing

import (
	"context"
	"errors"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pcarivbts/vbts-billing/internal/app/service/settings"
	"github.com/pcarivbts/vbts-billing/internal/app/service/tariff"
	"github.com/pcarivbts/vbts-billing/internal/models"
	cfgpkg "github.com/pcarivbts/vbts-billing/pkg/config"
	"github.com/pcarivbts/vbts-billing/pkg/types"
)

// ErrNotBulkPromo is returned when a quota deduct names a non-bulk tag.
var ErrNotBulkPromo = errors.New("not bulk promo")

// SubscriptionStore is the slice of the ledger store the engine reads.
type SubscriptionStore interface {
	FirstActiveSubscription(ctx context.Context, imsi string, pt types.PromoType, kind types.TransactionKind) (*models.PromoSubscription, error)
	DeductQuota(ctx context.Context, imsi string, kind types.TransactionKind, amount int64) (bool, error)
}

// GroupStore answers the read-only membership predicate behind
// GroupDiscount gating.
type GroupStore interface {
	IsGroupMember(ctx context.Context, ownerIMSI, destCallerID string) (bool, error)
}

// Directory resolves dialed numbers to on-network SIMs; resolution
// failure means the destination is not local.
type Directory interface {
	IMSIFromNumber(ctx context.Context, number string) (string, error)
}

type Service struct {
	subs      SubscriptionStore
	groups    GroupStore
	directory Directory
	tariffs   *tariff.Service
	settings  *settings.Service
	cfg       *cfgpkg.Config
	log       *zap.SugaredLogger
}

func NewService(subs SubscriptionStore, groups GroupStore, directory Directory,
	tariffs *tariff.Service, st *settings.Service, cfg *cfgpkg.Config, log *zap.SugaredLogger) *Service {
	return &Service{
		subs:      subs,
		groups:    groups,
		directory: directory,
		tariffs:   tariffs,
		settings:  st,
		cfg:       cfg,
		log:       log,
	}
}

var Module = fx.Options(
	fx.Provide(NewService),
)

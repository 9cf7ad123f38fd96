// Package promo runs the subscription lifecycle: keyword subscribe with
// limit and balance gating, unsubscribe, status and info replies, and
// the expiry purge that removes subscriptions when their validity ends.
package promo

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pcarivbts/vbts-billing/internal/app/service/settings"
	"github.com/pcarivbts/vbts-billing/internal/models"
	"github.com/pcarivbts/vbts-billing/internal/platform/scheduler"
	"github.com/pcarivbts/vbts-billing/internal/platform/sms"
	cfgpkg "github.com/pcarivbts/vbts-billing/pkg/config"
)

var (
	// ErrNotFound means the subscriber has no contact record.
	ErrNotFound = errors.New("contact not registered")
	// ErrBadKeyword means no promo matches the requested keyword.
	ErrBadKeyword = errors.New("unknown promo keyword")
	// ErrTooManySubscriptions means the limit policy blocked the request.
	ErrTooManySubscriptions = errors.New("subscription limit reached")
	// ErrInsufficientBalance means the account cannot cover the price and
	// still keep the required minimum balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrNoSubscription means unsubscribe found nothing to remove.
	ErrNoSubscription = errors.New("no active subscription")
)

// Store is the persistence surface of the lifecycle manager.
type Store interface {
	ContactByIMSI(ctx context.Context, imsi string) (*models.Contact, error)
	PromoByKeyword(ctx context.Context, keyword string) (*models.Promo, error)
	CountActiveSubscriptions(ctx context.Context, imsi, keyword string) (int64, error)
	CreateSubscription(ctx context.Context, sub *models.PromoSubscription) error
	DeleteSubscription(ctx context.Context, id string) error
	SubscriptionsByKeyword(ctx context.Context, imsi, keyword string) ([]*models.PromoSubscription, error)
	TakeSubscription(ctx context.Context, id string) (*models.PromoSubscription, error)
	AllSubscriptionIDs(ctx context.Context) (map[string]time.Time, error)
}

// Ledger is the money-side surface: balance reads, debits, and the
// accounting events written for every lifecycle transition.
type Ledger interface {
	Balance(ctx context.Context, imsi string) (int64, error)
	SubtractCredit(ctx context.Context, imsi string, amount int64) error
	CreateSMSEvent(ctx context.Context, imsi string, balanceBefore, amount int64, reason, shortCode string) error
}

type Service struct {
	store     Store
	ledger    Ledger
	notifier  sms.Sender
	scheduler scheduler.Scheduler
	settings  *settings.Service
	cfg       *cfgpkg.Config
	log       *zap.SugaredLogger
}

func NewService(store Store, ledger Ledger, notifier sms.Sender, sched scheduler.Scheduler,
	st *settings.Service, cfg *cfgpkg.Config, log *zap.SugaredLogger) *Service {
	return &Service{
		store:     store,
		ledger:    ledger,
		notifier:  notifier,
		scheduler: sched,
		settings:  st,
		cfg:       cfg,
		log:       log,
	}
}

// expiryText renders an expiration instant in the operator timezone for
// subscriber-facing SMS.
func (s *Service) expiryText(ctx context.Context, at time.Time) string {
	loc := s.settings.Location(ctx, s.cfg.DefaultTimezone)
	return at.In(loc).Format("01/02/06 03:04PM")
}

var Module = fx.Options(
	fx.Provide(NewService),
)

package app

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/pcarivbts/vbts-billing/internal/app/api/server"
	"github.com/pcarivbts/vbts-billing/internal/app/service/billing"
	"github.com/pcarivbts/vbts-billing/internal/app/service/promo"
	"github.com/pcarivbts/vbts-billing/internal/app/service/report"
	"github.com/pcarivbts/vbts-billing/internal/app/service/settings"
	"github.com/pcarivbts/vbts-billing/internal/app/service/statistics"
	"github.com/pcarivbts/vbts-billing/internal/app/service/tariff"
	"github.com/pcarivbts/vbts-billing/internal/app/service/vas"
	"github.com/pcarivbts/vbts-billing/internal/platform/db"
	"github.com/pcarivbts/vbts-billing/internal/platform/ledger"
	"github.com/pcarivbts/vbts-billing/internal/platform/scheduler"
	"github.com/pcarivbts/vbts-billing/internal/platform/sms"
	"github.com/pcarivbts/vbts-billing/internal/store"
	"github.com/pcarivbts/vbts-billing/pkg/config"
	"github.com/pcarivbts/vbts-billing/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

// bindings narrows *store.Store and ledger.Client onto the per-service
// consumer interfaces so each service only sees the surface it uses.
var bindings = fx.Options(
	fx.Provide(
		func(s *store.Store) settings.Store { return s },
		func(s *store.Store) sms.MessageLogStore { return s },
		func(s *store.Store) billing.SubscriptionStore { return s },
		func(s *store.Store) billing.GroupStore { return s },
		func(s *store.Store) promo.Store { return s },
		func(s *store.Store) vas.Store { return s },
		func(s *store.Store) report.Store { return s },
		func(c ledger.Client) billing.Directory { return c },
		func(c ledger.Client) promo.Ledger { return c },
		func(c ledger.Client) vas.Ledger { return c },
	),
)

// lifecycle connects the purge pipeline: expired subscription timers
// fire into the promo service, and timers are rebuilt from the table at
// startup.
var lifecycle = fx.Options(
	fx.Invoke(func(lc fx.Lifecycle, sched *scheduler.TimerScheduler, svc *promo.Service) {
		sched.SetHandler(svc.HandlePurge)
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return svc.ReschedulePurges(ctx)
			},
		})
	}),
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	store.Module,
	ledger.Module,
	sms.Module,
	scheduler.Module,
	settings.Module,
	tariff.Module,
	billing.Module,
	promo.Module,
	vas.Module,
	report.Module,
	statistics.Module,
	server.Module,
	bindings,
	lifecycle,
)

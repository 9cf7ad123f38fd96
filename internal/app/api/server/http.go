package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pcarivbts/vbts-billing/docs"
	"github.com/pcarivbts/vbts-billing/internal/app/api/handlers"
	mw "github.com/pcarivbts/vbts-billing/internal/app/api/middleware"
	"github.com/pcarivbts/vbts-billing/internal/app/service/billing"
	"github.com/pcarivbts/vbts-billing/internal/app/service/promo"
	"github.com/pcarivbts/vbts-billing/internal/app/service/report"
	"github.com/pcarivbts/vbts-billing/internal/app/service/statistics"
	"github.com/pcarivbts/vbts-billing/internal/app/service/vas"
	"github.com/pcarivbts/vbts-billing/internal/platform/sms"
	"github.com/pcarivbts/vbts-billing/internal/store"
	cfgpkg "github.com/pcarivbts/vbts-billing/pkg/config"
	metrics "github.com/pcarivbts/vbts-billing/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

type routeDeps struct {
	fx.In

	Engine  *gin.Engine
	Log     *zap.SugaredLogger
	Cfg     *cfgpkg.Config
	Store   *store.Store
	Billing *billing.Service
	Promo   *promo.Service
	VAS     *vas.Service
	Report  *report.Service
	Stats   *statistics.Service
	SMS     sms.Sender
}

func registerRoutes(d routeDeps) {
	r, log, cfg := d.Engine, d.Log, d.Cfg

	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)
		metrics.RegisterBusinessMetrics()

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Switch-facing group: the dialplan and chatplan scripts call these
	// with form bodies and consume raw response bodies.
	api := r.Group("/api")
	api.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterBillingRoutes(api, d.Billing)
	handlers.RegisterPromoRoutes(api, d.Promo)
	handlers.RegisterServiceRoutes(api, d.VAS)
	handlers.RegisterReportRoutes(api, d.Report)
	handlers.RegisterContactRoutes(api, d.Store, d.SMS)

	// Admin console APIs, JWT guarded
	admin := r.Group("/api/v1/admin")
	admin.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.AdminAuthMiddleware(cfg))
	handlers.RegisterAdminRoutes(admin, d.Store, d.Stats)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)

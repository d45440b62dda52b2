package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/hospital-admin/internal/config"
	dashboardhandler "github.com/jwalitptl/hospital-admin/internal/handler/dashboard"
	"github.com/jwalitptl/hospital-admin/internal/handler/health"
	panelhandler "github.com/jwalitptl/hospital-admin/internal/handler/panel"
	promhandler "github.com/jwalitptl/hospital-admin/internal/handler/prometheus"
	"github.com/jwalitptl/hospital-admin/internal/middleware"
	"github.com/jwalitptl/hospital-admin/internal/repository/sqlstore"
	"github.com/jwalitptl/hospital-admin/internal/router"
	"github.com/jwalitptl/hospital-admin/internal/schema"
	"github.com/jwalitptl/hospital-admin/internal/service/audit"
	"github.com/jwalitptl/hospital-admin/internal/service/dashboard"
	"github.com/jwalitptl/hospital-admin/internal/service/panel"
	"github.com/jwalitptl/hospital-admin/internal/shell"
	"github.com/jwalitptl/hospital-admin/pkg/logger"
	"github.com/jwalitptl/hospital-admin/pkg/messaging"
	"github.com/jwalitptl/hospital-admin/pkg/messaging/redis"
	"github.com/jwalitptl/hospital-admin/pkg/metrics"
	"github.com/jwalitptl/hospital-admin/pkg/security"
)

const metricsNamespace = "hospital"

// app is everything the surfaces share: one store handle, the audit
// recorder and the services built on them.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	store     *sqlstore.Store
	broker    messaging.Broker
	panels    map[string]*panel.Service
	dashboard *dashboard.Service
}

func bootstrap(ctx context.Context, configPath string, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.App.LogLevel),
		Output: logOut,
	}).With("app", cfg.App.Name)

	registry := prometheus.NewRegistry()
	m := metrics.New(metricsNamespace, registry)

	store, err := sqlstore.Open(ctx, cfg.Database, sqlstore.WithLogger(log), sqlstore.WithMetrics(m))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		registry: registry,
		metrics:  m,
		store:    store,
	}

	if cfg.Redis.URL != "" {
		broker, err := redis.NewRedisBroker(ctx, redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, log.Zerolog())
		if err != nil {
			log.Warn(err, "audit events will only be logged")
		} else {
			a.broker = broker
		}
	}

	recorder := audit.NewService(a.broker, cfg.Redis.Channel, log.With("component", "audit"), m)
	a.panels = panel.NewServices(store, recorder, log)
	a.dashboard = dashboard.NewService(store.Stats(), log)

	log.Info("started", "driver", cfg.Database.Driver, "env", cfg.App.Env)
	return a, nil
}

func (a *app) Close() {
	if a.broker != nil {
		if err := a.broker.Close(); err != nil {
			a.log.Warn(err, "failed to close message broker")
		}
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn(err, "failed to close database")
	}
}

func runShell(ctx context.Context, configPath string, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := bootstrap(ctx, configPath, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	return shell.New(in, out, a.panels, a.dashboard, a.log).Run(ctx)
}

func runMigrate(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := bootstrap(ctx, configPath, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	a.log.Info("tables are up to date", "driver", a.store.Dialect().Driver)
	return nil
}

func runServer(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, configPath, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	apiHandlers := make([]router.Handler, 0, len(schema.All())+1)
	for _, e := range schema.All() {
		apiHandlers = append(apiHandlers, panelhandler.NewHandler(a.panels[e.Slug]))
	}
	apiHandlers = append(apiHandlers, dashboardhandler.NewHandler(a.dashboard))

	timeout := time.Duration(a.cfg.Server.TimeoutSeconds) * time.Second
	r := router.NewRouter(
		middleware.NewAPIKeyMiddleware(a.cfg.Server.APIKeyHash, security.NewBcryptHasher(0)),
		health.NewHandler(a.store),
		promhandler.New(a.registry),
		apiHandlers,
		router.RouterConfig{
			RateLimit: rate.Limit(a.cfg.Server.RateLimitRPS),
			RateBurst: a.cfg.Server.RateLimitBurst,
			Timeout:   timeout,
			Metrics:   a.metrics,
		},
	)
	r.Setup()

	if a.cfg.Server.APIKeyHash == "" {
		a.log.Warn(nil, "server.api_key_hash is empty, the API is unauthenticated")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           r.Engine(),
		ReadHeaderTimeout: timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.log.Info("server exited properly")
	return nil
}

func runHashKey(out io.Writer, key string) error {
	hash, err := security.NewBcryptHasher(0).Hash(key)
	if err != nil {
		if errors.Is(err, security.ErrKeyTooShort) {
			return fmt.Errorf("api key must be at least %d characters", security.MinKeyLen)
		}
		return err
	}
	fmt.Fprintln(out, hash)
	return nil
}

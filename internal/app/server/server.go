package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hrleave/internal/domain/audit"
	"hrleave/internal/domain/leave"
	"hrleave/internal/platform/config"
	"hrleave/internal/platform/db"
	"hrleave/internal/platform/lock"
	"hrleave/internal/platform/logging"
	"hrleave/internal/platform/metrics"
	audithandler "hrleave/internal/transport/http/handlers/audit"
	leavehandler "hrleave/internal/transport/http/handlers/leave"
	"hrleave/internal/transport/http/middleware"
)

const (
	lockPrefix      = "hrleave:"
	readyTimeout    = 2 * time.Second
	shutdownTimeout = 15 * time.Second
)

type App struct {
	Config config.Config
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	Router http.Handler
	Logger *zap.Logger
}

// RouterDeps is everything the HTTP surface needs. Collector and Gatherer are
// nil when metrics are disabled.
type RouterDeps struct {
	Config    config.Config
	Logger    *zap.Logger
	Leave     *leave.Service
	Activity  audithandler.Lister
	Collector *metrics.Collector
	Gatherer  prometheus.Gatherer
	Ready     func(ctx context.Context) error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(pool, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}

	app := &App{Config: cfg, Pool: pool, Logger: logger}

	var locker leave.Locker = lock.NewMemory()
	if cfg.RedisURL != "" {
		client, err := lock.Connect(ctx, cfg.RedisURL)
		if err != nil {
			pool.Close()
			return nil, err
		}
		app.Redis = client
		locker = lock.NewRedis(client, lockPrefix)
	} else {
		logger.Warn("REDIS_URL not set, generation lock only guards this process")
	}

	var (
		collector *metrics.Collector
		gatherer  prometheus.Gatherer
		recorder  leave.Metrics
	)
	if cfg.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector = metrics.New(registry)
		gatherer = registry
		recorder = collector
	}

	store := leave.NewStore(pool)
	activity := audit.New(pool)
	service := leave.NewService(leave.Deps{
		Repositories: store.Repositories(),
		Tx:           db.NewTxManager(pool, logger),
		Activity:     activity,
		Eligibility:  leave.NewEmployeeDirectory(store),
		Locker:       locker,
		Metrics:      recorder,
		Logger:       logger,
		LockTTL:      cfg.LockTTL,
	})

	app.Router = NewRouter(RouterDeps{
		Config:    cfg,
		Logger:    logger,
		Leave:     service,
		Activity:  activity,
		Collector: collector,
		Gatherer:  gatherer,
		Ready:     app.ready,
	})
	return app, nil
}

func (a *App) ready(ctx context.Context) error {
	if err := a.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if a.Redis != nil {
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func NewRouter(d RouterDeps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var recorder middleware.RequestRecorder
	if d.Collector != nil {
		recorder = d.Collector
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Actor)
	router.Use(middleware.Logger(logger, recorder))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.SecureHeaders(d.Config.IsProduction()))
	if d.Config.MaxBodyBytes > 0 {
		router.Use(middleware.BodyLimit(d.Config.MaxBodyBytes))
	}
	if d.Config.RequestTimeout > 0 {
		router.Use(chimiddleware.Timeout(d.Config.RequestTimeout))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()
			if err := d.Ready(ctx); err != nil {
				logging.FromContext(r.Context(), logger).Warn("readiness check failed", zap.Error(err))
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if d.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		leavehandler.NewHandler(d.Leave, logger).RegisterRoutes(r)
		if d.Activity != nil {
			audithandler.NewHandler(d.Activity, logger).RegisterRoutes(r)
		}
	})
	return router
}

// Serve listens until ctx is cancelled, then drains in-flight requests.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("hrleave server listening", zap.String("addr", a.Config.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("redis close failed", zap.Error(err))
		}
	}
	a.Pool.Close()
	_ = a.Logger.Sync()
}

func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Serve(ctx)
}

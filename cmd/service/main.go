// Package main is the entry point for the motivation service.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/motivationapp/motivation-service/internal/adapters/clients"
	"github.com/motivationapp/motivation-service/internal/adapters/clients/acl"
	"github.com/motivationapp/motivation-service/internal/adapters/flags"
	"github.com/motivationapp/motivation-service/internal/adapters/http"
	"github.com/motivationapp/motivation-service/internal/adapters/http/handlers"
	"github.com/motivationapp/motivation-service/internal/adapters/notifications"
	"github.com/motivationapp/motivation-service/internal/adapters/store"
	"github.com/motivationapp/motivation-service/internal/adapters/store/memory"
	"github.com/motivationapp/motivation-service/internal/adapters/store/postgres"
	"github.com/motivationapp/motivation-service/internal/adapters/store/redisstore"
	"github.com/motivationapp/motivation-service/internal/app"
	"github.com/motivationapp/motivation-service/internal/domain"
	"github.com/motivationapp/motivation-service/internal/platform/config"
	"github.com/motivationapp/motivation-service/internal/platform/logging"
	"github.com/motivationapp/motivation-service/internal/platform/telemetry"
	"github.com/motivationapp/motivation-service/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// authAuditBuffer absorbs bursts of sign-ins; the audit log drops events
// rather than slow down logins.
const authAuditBuffer = 64

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("store_backend", cfg.Store.Backend),
		slog.String("notifications_backend", cfg.Notifications.Backend),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     true,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create health registry and domain metrics
	healthRegistry := ports.NewHealthRegistry()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := telemetry.NewDomainMetrics(registry)
	if err != nil {
		return fmt.Errorf("registering domain metrics: %w", err)
	}

	// 6. Open storage backends
	backends, err := openBackends(ctx, cfg, logger, healthRegistry)
	if err != nil {
		return err
	}
	defer backends.Close()

	featureFlags := flags.NewStatic(cfg.Features)
	for name, value := range cfg.FeatureInts {
		featureFlags.SetInt(name, value)
	}

	// 7. Create remote API clients (ACL pattern)
	quoteClient, authClient, err := newRemoteClients(cfg, logger)
	if err != nil {
		return err
	}

	if err := healthRegistry.Register(quoteClient); err != nil {
		return fmt.Errorf("registering quote client health check: %w", err)
	}

	// 8. Create application services
	services, err := newServices(cfg, logger, metrics, featureFlags, backends, quoteClient, authClient)
	if err != nil {
		return err
	}

	// 9. Create HTTP server and router
	server := http.New(&cfg.Server, logger)
	server.OnShutdown(backends.Close)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:          logger,
		AppConfig:       &cfg.App,
		APIConfig:       &cfg.API,
		Timeout:         cfg.Server.RequestTimeout,
		HealthHandler:   handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime), registry),
		QuoteHandler:    handlers.NewQuoteHandler(services.feed),
		ReminderHandler: handlers.NewReminderHandler(services.reminders),
		WidgetHandler:   handlers.NewWidgetHandler(services.widget),
		AuthHandler:     handlers.NewAuthHandler(services.auth),
	})

	stopAudit := auditAuthState(logger, services.auth.Holder())
	server.OnShutdown(stopAudit)

	// 10. Start server (non-blocking)
	serverErr := server.Start()

	// 11. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// auditAuthState logs every sign-in and sign-out until the returned stop
// function runs.
func auditAuthState(logger *slog.Logger, holder *app.AuthStateHolder) (stop func()) {
	events, cancel := holder.Subscribe("", authAuditBuffer)
	done := make(chan struct{})

	go func() {
		defer close(done)

		for ev := range events {
			attrs := []any{
				slog.String("device_id", ev.DeviceID),
				slog.String("state", string(ev.State)),
				slog.Time("at", ev.At),
			}
			if ev.User != nil {
				attrs = append(attrs, slog.Int("user_id", ev.User.ID))
			}

			logger.Info("auth state changed", attrs...)
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// backends holds the opened storage and notification backends.
type backends struct {
	kv      ports.KeyValueStore
	centers ports.NotificationCenters
	closers []io.Closer
	pool    *pgxpool.Pool
	once    sync.Once
}

// Close releases every backend once; it runs as a shutdown hook and again
// on the deferred path.
func (b *backends) Close() {
	b.once.Do(func() {
		for _, c := range b.closers {
			_ = c.Close()
		}

		if b.pool != nil {
			b.pool.Close()
		}
	})
}

func openBackends(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	health ports.HealthRegistry,
) (*backends, error) {
	out := &backends{}

	var rdb *redis.Client

	if cfg.Store.Backend == "redis" || cfg.Notifications.Backend == "redis" {
		client, err := openRedis(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}

		rdb = client
		out.closers = append(out.closers, client)

		if err := health.Register(redisstore.New(client)); err != nil {
			return nil, fmt.Errorf("registering redis health check: %w", err)
		}

		logger.Info("connected to redis", slog.String("addr", cfg.Redis.Addr))
	}

	switch cfg.Store.Backend {
	case "redis":
		out.kv = redisstore.New(rdb)
	case "postgres":
		pool, err := openPostgres(ctx, &cfg.Postgres)
		if err != nil {
			out.Close()
			return nil, err
		}

		out.pool = pool

		pg := postgres.New(pool, cfg.Postgres.Table, nil)
		if err := pg.Migrate(ctx); err != nil {
			out.Close()
			return nil, fmt.Errorf("migrating postgres store: %w", err)
		}

		if err := health.Register(pg); err != nil {
			out.Close()
			return nil, fmt.Errorf("registering postgres health check: %w", err)
		}

		out.kv = pg

		logger.Info("connected to postgres", slog.String("table", cfg.Postgres.Table))
	default:
		mem := memory.New(nil)
		if err := health.Register(mem); err != nil {
			return nil, fmt.Errorf("registering store health check: %w", err)
		}

		out.kv = mem
	}

	opts := notifications.Options{GrantByDefault: cfg.Notifications.GrantByDefault}

	switch cfg.Notifications.Backend {
	case "redis":
		out.centers = notifications.NewRedisCenters(rdb, cfg.Store.KeyPrefix, opts)
	default:
		mem := notifications.NewMemoryCenters(opts)
		if err := health.Register(mem); err != nil {
			out.Close()
			return nil, fmt.Errorf("registering notifications health check: %w", err)
		}

		out.centers = mem
	}

	return out, nil
}

func openRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := redisotel.InstrumentTracing(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("instrumenting redis tracing: %w", err)
	}

	if err := redisotel.InstrumentMetrics(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("instrumenting redis metrics: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}

func openPostgres(ctx context.Context, cfg *config.PostgresConfig) (*pgxpool.Pool, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres store selected but postgres.dsn is empty")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	return pool, nil
}

func newRemoteClients(cfg *config.Config, logger *slog.Logger) (*acl.QuoteClient, *acl.AuthClient, error) {
	userAgent := fmt.Sprintf("%s/%s", cfg.App.Name, Version)

	quoteHTTP, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Quote.BaseURL,
		ServiceName: cfg.Services.Quote.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		UserAgent:   userAgent,
		Logger:      logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating quote API client: %w", err)
	}

	authHTTP, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Auth.BaseURL,
		ServiceName: cfg.Services.Auth.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		UserAgent:   userAgent,
		Logger:      logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating auth API client: %w", err)
	}

	quoteClient := acl.NewQuoteClient(acl.QuoteClientConfig{
		Client:      quoteHTTP,
		ServiceName: cfg.Services.Quote.Name,
		Logger:      logger,
	})

	authClient := acl.NewAuthClient(acl.AuthClientConfig{
		Client:      authHTTP,
		ServiceName: cfg.Services.Auth.Name,
		ClientTag:   cfg.Services.Auth.Client,
		Logger:      logger,
	})

	return quoteClient, authClient, nil
}

type appServices struct {
	feed      *app.FeedService
	reminders *app.ReminderService
	widget    *app.WidgetService
	auth      *app.AuthService
}

func newServices(
	cfg *config.Config,
	logger *slog.Logger,
	metrics app.Metrics,
	featureFlags ports.FeatureFlags,
	b *backends,
	quotes ports.QuoteSource,
	auth ports.AuthClient,
) (*appServices, error) {
	stores := store.NewRepository(b.kv, cfg.Store.KeyPrefix, logger)

	start, err := domain.ParseTimeOfDay(cfg.Reminders.DefaultStart)
	if err != nil {
		return nil, fmt.Errorf("reminders.default_start: %w", err)
	}

	end, err := domain.ParseTimeOfDay(cfg.Reminders.DefaultEnd)
	if err != nil {
		return nil, fmt.Errorf("reminders.default_end: %w", err)
	}

	feed := app.NewFeedService(app.FeedConfig{
		Source:               quotes,
		Stores:               stores,
		Flags:                featureFlags,
		RetentionWindow:      cfg.Quotes.RetentionWindow,
		PageAdvanceThreshold: cfg.Quotes.PageAdvanceThreshold,
		DefaultPage:          cfg.Quotes.DefaultPage,
		Metrics:              metrics,
		Logger:               logger,
	})

	reminders := app.NewReminderService(app.ReminderConfig{
		Feed:                feed,
		Stores:              stores,
		Centers:             b.centers,
		Flags:               featureFlags,
		Bounds:              domain.ReminderBounds{Min: cfg.Reminders.MinCount, Max: cfg.Reminders.MaxCount},
		Defaults:            domain.ReminderPreferences{HowMany: cfg.Reminders.DefaultCount, StartTime: start, EndTime: end},
		RegisterConcurrency: cfg.Reminders.RegisterConcurrency,
		Metrics:             metrics,
		Logger:              logger,
	})

	widget := app.NewWidgetService(app.WidgetConfig{
		Feed:              feed,
		Stores:            stores,
		EntryInterval:     cfg.Widget.EntryInterval,
		TimelineSpan:      cfg.Widget.TimelineSpan,
		CacheTTL:          cfg.Widget.CacheTTL,
		RetryWithCache:    cfg.Widget.RetryWithCache,
		RetryWithFallback: cfg.Widget.RetryWithFallback,
		Metrics:           metrics,
		Logger:            logger,
	})

	accounts := app.NewAuthService(app.AuthConfig{
		Client: auth,
		Stores: stores,
		Logger: logger,
	})

	return &appServices{feed: feed, reminders: reminders, widget: widget, auth: accounts}, nil
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err == nil {
			return nil
		}

		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}

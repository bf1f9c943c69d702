package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/motivationapp/motivation-service/internal/adapters/http/handlers"
	"github.com/motivationapp/motivation-service/internal/adapters/http/middleware"
	"github.com/motivationapp/motivation-service/internal/platform/config"
	"github.com/motivationapp/motivation-service/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains everything SetupRouter mounts.
type RouterConfig struct {
	Logger    *slog.Logger
	AppConfig *config.AppConfig
	APIConfig *config.APIConfig

	// Timeout is the deadline of every /api/v1 request.
	Timeout time.Duration

	HealthHandler   *handlers.HealthHandler
	QuoteHandler    *handlers.QuoteHandler
	ReminderHandler *handlers.ReminderHandler
	WidgetHandler   *handlers.WidgetHandler
	AuthHandler     *handlers.AuthHandler
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Context logger - request-scoped slog logger
//  3. Request ID - generate/extract request ID
//  4. Correlation ID - handle distributed tracing correlation
//  5. OpenTelemetry - tracing and metrics
//  6. Logging - request logging (skips health endpoints)
//
// Route groups:
//   - /-/ (internal): health, build and metrics, no device required
//   - /api/v1/ (public API): device-scoped endpoints with a request deadline
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		middleware.ContextLogger(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.AppConfig.Name)...)
	engine.Use(middleware.Logging())

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(engine)
	}

	apiV1 := engine.Group("/api/v1",
		middleware.Timeout(cfg.Timeout),
		middleware.RequireDevice(deviceConfig(cfg.APIConfig)),
	)

	setupAPIRoutes(apiV1, cfg)
}

func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterRoutes(rg)
	}

	if cfg.ReminderHandler != nil {
		cfg.ReminderHandler.RegisterRoutes(rg)
	}

	if cfg.WidgetHandler != nil {
		cfg.WidgetHandler.RegisterRoutes(rg)
	}

	if cfg.AuthHandler != nil {
		cfg.AuthHandler.RegisterRoutes(rg)
	}
}

func deviceConfig(api *config.APIConfig) middleware.DeviceConfig {
	if api == nil {
		return middleware.DeviceConfig{}
	}

	return middleware.DeviceConfig{Header: api.DeviceHeader, RequireUUID: api.RequireUUIDDevice}
}

// SetupMinimalRouter mounts only the health endpoints.
func SetupMinimalRouter(engine *gin.Engine, logger *slog.Logger, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(),
		middleware.ContextLogger(logger),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.RegisterRoutes(engine)
	}
}

package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/userhub/accounts-api/internal/api/handler"
	"github.com/userhub/accounts-api/internal/api/middleware"
	"github.com/userhub/accounts-api/internal/core/ports"
)

const defaultAPIPrefix = "/api/v1"

// Dependencies are the collaborators the router mounts.
type Dependencies struct {
	Accounts ports.AccountService
	Health   *handler.HealthHandler
	Logger   zerolog.Logger

	// APIPrefix is the mount point of the account routes. Defaults to /api/v1.
	APIPrefix string
	// MetricsEnabled installs the Prometheus HTTP middleware and /metrics.
	// The collectors register with the default registry, so enable it at
	// most once per process.
	MetricsEnabled bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORS())
	if deps.MetricsEnabled {
		e.Use(echoprometheus.NewMiddleware("accounts"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Health probes and docs (no auth required) ---
	health := deps.Health
	if health == nil {
		health = handler.NewHealthHandler(nil, nil)
	}
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Account routes ---
	accounts := handler.NewAccountHandler(deps.Accounts)
	v1 := e.Group(apiPrefix(deps.APIPrefix), middleware.BearerToken())

	v1.GET("", handler.Demo)
	v1.GET("/", handler.Demo)
	v1.POST("/users", accounts.Register)
	v1.POST("/users/login", accounts.Login)
	v1.GET("/users", accounts.List)
	v1.GET("/users/:id", accounts.Get)
	v1.PATCH("/users/:id", accounts.Update)
	v1.DELETE("/users/:id", accounts.Delete)
	v1.GET("/account", accounts.Account)

	return e
}

func apiPrefix(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p == "" {
		return defaultAPIPrefix
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// requestLogger emits one zerolog record per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

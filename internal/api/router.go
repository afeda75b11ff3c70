package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/prescripto/clinic-session/internal/api/handler"
	"github.com/prescripto/clinic-session/internal/api/middleware"
	"github.com/prescripto/clinic-session/internal/core/ports"
	"github.com/prescripto/clinic-session/internal/infrastructure/http/handlers"
)

// RouterConfig carries what NewRouter wires into routes.
type RouterConfig struct {
	AdminService ports.AdminService
	JWTSecret    string
	AdminEmail   string
	// Checks are probed by /health/ready, keyed by dependency name.
	Checks map[string]handlers.Check
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// HTTP metrics live in their own registry so several routers can coexist
	// in one process; /metrics serves it together with the default one.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(cfg.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "clinic",
		Registerer: reg,
	}))

	// --- Dependencies ---
	adminHandler := handler.NewAdminHandler(cfg.AdminService)
	doctorHandler := handler.NewDoctorHandler(cfg.AdminService)
	adminGate := middleware.AdminAuth(cfg.JWTSecret, cfg.AdminEmail, cfg.Log)

	// --- Admin routes ---
	e.POST("/api/admin/login", adminHandler.Login)

	admin := e.Group("/api/admin", adminGate)
	admin.GET("/all-doctors", adminHandler.AllDoctors)
	admin.POST("/change-availability", adminHandler.ChangeAvailability)
	admin.GET("/appointments", adminHandler.Appointments)
	admin.POST("/cancel-appointment", adminHandler.CancelAppointment)
	admin.GET("/dashboard", adminHandler.Dashboard)

	// --- Public routes ---
	e.GET("/api/doctor/list", doctorHandler.List)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(cfg.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))

	return e
}

// requestLogger logs one line per request through zerolog.
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
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

package api

import (
	"net"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/consitech/event-manager/docs"
	"github.com/consitech/event-manager/internal/api/handler"
	"github.com/consitech/event-manager/internal/api/metrics"
	"github.com/consitech/event-manager/internal/api/middleware"
	"github.com/consitech/event-manager/internal/core/domain"
	"github.com/consitech/event-manager/internal/core/ports"
	"github.com/consitech/event-manager/internal/infrastructure/http/handlers"
)

// Dependencies is everything the HTTP layer needs from the outside.
type Dependencies struct {
	Auth    ports.AuthService
	Users   ports.UserService
	Events  ports.EventService
	Tokens  middleware.TokenParser
	Limiter middleware.Limiter

	// TrustedProxies are the only peers whose X-Forwarded-For is believed.
	// When empty the client IP is the TCP peer address.
	TrustedProxies []*net.IPNet

	// ReadinessChecks are probed by GET /health/ready, keyed by dependency name.
	ReadinessChecks map[string]handlers.Check

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.IPExtractor = ipExtractor(deps.TrustedProxies)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if err := metrics.Register(registerer); err != nil {
		deps.Logger.Error().Err(err).Msg("register business metrics")
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 metrics.Namespace,
		Subsystem:                 "http",
		Registerer:                registerer,
		DoNotUseRequestPathFor404: true,
	}))
	e.Use(echomiddleware.BodyLimit("6M"))

	// --- Operational routes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.ReadinessChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users, deps.Events)
	eventHandler := handler.NewEventHandler(deps.Events)

	requireAuth := middleware.Auth(deps.Tokens)
	managerOnly := middleware.RBAC(domain.RoleEventManager)

	v1 := e.Group("/api/v1")

	// --- Auth routes ---
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register, middleware.RateLimit(deps.Limiter, "register", deps.Logger))
	auth.POST("/login", authHandler.Login, middleware.RateLimit(deps.Limiter, "login", deps.Logger))

	// --- Users ---
	users := v1.Group("/users", requireAuth)
	users.GET("/me", userHandler.GetMe)
	users.PUT("/me", userHandler.UpdateMe)
	users.DELETE("/me", userHandler.DeleteMe)
	users.PATCH("/me/password", userHandler.ChangePassword)
	users.PATCH("/me/avatar", userHandler.ChangeAvatar)
	users.GET("/me/events", userHandler.MyEvents)

	users.GET("", userHandler.List, managerOnly)
	users.GET("/:id", userHandler.Get, managerOnly)
	users.PUT("/:id", userHandler.Update, managerOnly)
	users.DELETE("/:id", userHandler.Delete, managerOnly)
	users.PATCH("/:id/role", userHandler.ChangeRole, managerOnly)
	users.GET("/:id/events", userHandler.Events, managerOnly)

	// --- Events ---
	events := v1.Group("/events", requireAuth)
	events.GET("", eventHandler.List)
	events.GET("/:id", eventHandler.Get)
	events.POST("", eventHandler.Create, managerOnly)
	events.PUT("/:id", eventHandler.Update, managerOnly)
	events.DELETE("/:id", eventHandler.Delete, managerOnly)

	events.POST("/:id/attendees", eventHandler.Join)
	events.DELETE("/:id/attendees/me", eventHandler.Leave)
	events.POST("/:id/attendees/:userId", eventHandler.AddAttendee, managerOnly)
	events.DELETE("/:id/attendees/:userId", eventHandler.RemoveAttendee, managerOnly)

	return e
}

// ipExtractor resolves c.RealIP(), which keys the rate limiter. Forwarding
// headers are ignored unless they come through a trusted proxy.
func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

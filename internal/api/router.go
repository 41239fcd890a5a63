package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/learnhub/lms-platform/internal/api/docs"
	"github.com/learnhub/lms-platform/internal/api/handler"
	"github.com/learnhub/lms-platform/internal/api/middleware"
	"github.com/learnhub/lms-platform/internal/core/authz"
	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/ports"
	"github.com/learnhub/lms-platform/internal/infrastructure/http/handlers"
)

// RouterDeps is everything the HTTP surface needs.
type RouterDeps struct {
	Auth     ports.AuthService
	Accounts ports.AccountService
	Codec    ports.SessionCodec
	// Resolver reloads callers on role-gated routes. Nil trusts token roles.
	Resolver ports.PrincipalResolver
	Checks   []handlers.Check
	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
	Log        zerolog.Logger
}

var (
	authenticated = authz.Authenticated()
	adminOnly     = authz.AnyRole(domain.RoleAdmin)
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "lms",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	gate := func(req authz.Requirement) []echo.MiddlewareFunc {
		return middleware.Gate(deps.Codec, deps.Resolver, req, deps.Log)
	}

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Log)
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/authenticate", authHandler.Authenticate)
	auth.GET("/activate-account", authHandler.ActivateAccount)
	auth.POST("/resend-activation", authHandler.ResendActivation)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.POST("/create-admin", authHandler.CreateAdmin)
	auth.POST("/register-admin", authHandler.RegisterAdmin, gate(adminOnly)...)

	// --- Profile routes ---
	profileHandler := handler.NewProfileHandler(deps.Accounts)
	profile := auth.Group("/profile", gate(authenticated)...)
	profile.GET("", profileHandler.Get)
	profile.PUT("", profileHandler.Update)
	profile.PUT("/change-password", profileHandler.ChangePassword)

	// --- Admin routes ---
	adminHandler := handler.NewAdminHandler(deps.Accounts)
	admin := e.Group("/admin/users", gate(adminOnly)...)
	admin.GET("", adminHandler.List)
	admin.GET("/:id", adminHandler.Get)
	admin.PUT("/:id", adminHandler.Update)
	admin.DELETE("/:id", adminHandler.Delete)

	// --- Health, metrics and docs (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(deps.Checks...).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

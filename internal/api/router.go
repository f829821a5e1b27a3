package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"gorm.io/gorm"

	_ "github.com/dtplatform/auth-service/docs"
	"github.com/dtplatform/auth-service/internal/api/handler"
	"github.com/dtplatform/auth-service/internal/api/middleware"
	"github.com/dtplatform/auth-service/internal/core/domain"
	"github.com/dtplatform/auth-service/internal/core/ports"
	"github.com/dtplatform/auth-service/internal/infrastructure/http/handlers"
)

// Dependencies carries the constructed collaborators the router wires into
// handlers.
type Dependencies struct {
	DB           *gorm.DB
	AuthService  ports.AuthService
	AdminService ports.AdminService
	Authorizer   *middleware.Authorizer
	Log          zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.AuthService, d.AdminService)
	userHandler := handler.NewUserHandler(d.AdminService)
	roleHandler := handler.NewRoleHandler(d.AdminService)

	// Per-route guards: authenticated-only for self-service, admin role for
	// everything administrative. The admin role itself always passes.
	authed := d.Authorizer.Require()
	adminOnly := d.Authorizer.Require(domain.AdminName)

	// --- Token ---
	e.POST("/token", authHandler.Login)

	// --- Self service ---
	e.GET("/users/me", authHandler.Me, authed)
	e.PATCH("/users/me", authHandler.UpdateMe, authed)

	// --- User administration ---
	e.GET("/users", userHandler.List, adminOnly)
	e.GET("/users/search", userHandler.Search, adminOnly)
	e.POST("/users", userHandler.Create, adminOnly)
	e.DELETE("/users/:user_id", userHandler.Delete, adminOnly)

	// --- Role administration ---
	e.GET("/roles", roleHandler.List, adminOnly)
	e.GET("/roles/:role_name/users", roleHandler.Members, adminOnly)
	e.POST("/roles/:role_name", roleHandler.Create, adminOnly)
	e.DELETE("/roles/:role_name", roleHandler.Delete, adminOnly)
	e.POST("/users/:user_id/roles/:role_name", roleHandler.Assign, adminOnly)
	e.DELETE("/users/:user_id/roles/:role_name", roleHandler.Remove, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.DB)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/expenspend/expenspend-api/docs"
	"github.com/expenspend/expenspend-api/internal/api/handler"
	"github.com/expenspend/expenspend-api/internal/api/middleware"
	"github.com/expenspend/expenspend-api/internal/core/ports"
)

// Dependencies carries the already-constructed collaborators the router wires
// into handlers. Construction happens in main, in dependency order; the
// router only attaches routes.
type Dependencies struct {
	Auth        ports.AuthService
	Auth0       ports.Auth0Service
	Tokens      ports.TokenService
	Friendships ports.FriendshipService
	Email       ports.EmailSender
	Revocations middleware.RevocationChecker

	Mongo *mongo.Database
	Redis *redis.Client
	Log   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("expenspend"))

	authRequired := middleware.Auth(deps.Tokens, deps.Revocations)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Auth0, deps.Email, deps.Log)
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, authRequired)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.GET("/confirm-email", authHandler.ConfirmEmail)
	auth.GET("/auth0-login", authHandler.Auth0Login)

	// --- Friendship routes (authenticated) ---
	friendshipHandler := handler.NewFriendshipHandler(deps.Friendships)
	friendships := e.Group("/api/friendships", authRequired)
	friendships.POST("", friendshipHandler.Create)
	friendships.GET("", friendshipHandler.List)
	friendships.PATCH("/:id", friendshipHandler.Respond)
	friendships.DELETE("/:id", friendshipHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}

// NewServer wraps the router in an http.Server with sane timeouts.
func NewServer(addr string, e *echo.Echo) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

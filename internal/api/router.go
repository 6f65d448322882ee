package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shohjahon1code/telegram-parser/internal/api/handler"
	"github.com/shohjahon1code/telegram-parser/internal/api/middleware"
	"github.com/shohjahon1code/telegram-parser/internal/core/domain"
	"github.com/shohjahon1code/telegram-parser/internal/core/ports"
	"github.com/shohjahon1code/telegram-parser/internal/core/service"
	mongodb "github.com/shohjahon1code/telegram-parser/internal/infrastructure/db/mongo"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, loadRepo ports.LoadRepository, publisher ports.LoadPublisher, geocoder ports.Geocoder, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Dependencies ---
	authRepo := mongodb.NewAuthRepository(db)
	authService := service.NewAuthService(authRepo, jwtSecret, 24*time.Hour)
	authHandler := handler.NewAuthHandler(authService)
	loadHandler := handler.NewLoadHandler(loadRepo, publisher)
	locationHandler := handler.NewLocationHandler(geocoder)
	authMiddleware := middleware.Auth(jwtSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Load routes ---
	v1 := e.Group("/v1", authMiddleware)
	v1.GET("/loads", loadHandler.List, middleware.RBAC(domain.RoleAdmin, domain.RoleOperator))
	v1.POST("/loads/publish", loadHandler.Publish, middleware.RBAC(domain.RoleAdmin))
	v1.POST("/loads/unpublish", loadHandler.Unpublish, middleware.RBAC(domain.RoleAdmin))
	v1.GET("/locations/suggest", locationHandler.Suggest, middleware.RBAC(domain.RoleAdmin, domain.RoleOperator))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

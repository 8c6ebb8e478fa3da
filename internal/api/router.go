package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookloop/bookloop-api/internal/api/handler"
	"github.com/bookloop/bookloop-api/internal/api/middleware"
	"github.com/bookloop/bookloop-api/internal/core/service"
	"github.com/bookloop/bookloop-api/internal/infrastructure/config"
	mongodb "github.com/bookloop/bookloop-api/internal/infrastructure/db/mongo"
	redisdb "github.com/bookloop/bookloop-api/internal/infrastructure/db/redis"
	"github.com/bookloop/bookloop-api/internal/infrastructure/storage"
	"github.com/bookloop/bookloop-api/pkg/logger"
)

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Get())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("bookloop"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	bookRepo := mongodb.NewBookRepository(db)
	walletRepo := mongodb.NewWalletRepository(db)
	exchangeRepo := mongodb.NewExchangeRepository(db)
	bookCache := redisdb.NewBookCache(rdb)

	images, err := storage.NewLocalImageStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, log)
	bookService := service.NewBookService(bookRepo, userRepo, bookCache, log)
	walletService := service.NewWalletService(walletRepo, log)
	exchangeService := service.NewExchangeService(exchangeRepo, bookRepo, log)

	authHandler := handler.NewAuthHandler(authService, cfg.TokenTTL)
	bookHandler := handler.NewBookHandler(bookService, images)
	walletHandler := handler.NewWalletHandler(walletService)
	exchangeHandler := handler.NewExchangeHandler(exchangeService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	authRequired := middleware.Auth(cfg.JWTSecret)

	// --- Root ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"message":   "Bookloop backend is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/whoami", authHandler.WhoAmI, authRequired)
	e.POST("/auth/logout", authHandler.Logout)

	// --- Book routes ---
	// Creation carries no auth: the owner is asserted through the form body
	// and checked for existence.
	e.POST("/books/create", bookHandler.Create)
	e.GET("/books", bookHandler.List)
	e.GET("/books/:id", bookHandler.Get)
	e.PUT("/books/:id", bookHandler.Update, authRequired)
	e.DELETE("/books/:id", bookHandler.Delete, authRequired)

	// --- Wallet routes ---
	e.GET("/wallets/me", walletHandler.Me, authRequired)
	e.GET("/wallets/me/movements", walletHandler.Movements, authRequired)

	// --- Exchange routes ---
	e.POST("/exchanges", exchangeHandler.Create, authRequired)
	e.GET("/exchanges", exchangeHandler.List, authRequired)

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness)    // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Uploaded book covers ---
	e.Static("/uploads", cfg.UploadDir)

	return e, nil
}

package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"movie-discovery-backend/internal/auth"
	"movie-discovery-backend/internal/cache"
	"movie-discovery-backend/internal/config"
	"movie-discovery-backend/internal/database"
	"movie-discovery-backend/internal/handler"
	"movie-discovery-backend/internal/middleware"
	"movie-discovery-backend/internal/repository"
	"movie-discovery-backend/internal/service"
	"movie-discovery-backend/internal/tmdb"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis (non-fatal if unavailable)
	var resultCache cache.Cache
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, using in-process cache", "error", err)
		resultCache = cache.NewMemoryCache(cfg.Cache.MemorySize, cfg.Cache.TrendingTTL)
	} else {
		defer rdb.Close()
		resultCache = cache.NewRedisCache(rdb, "movies:")
	}

	tokens, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	if err != nil {
		slog.Error("failed to initialize tokens", "error", err)
		os.Exit(1)
	}

	// Initialize TMDB client
	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithRateLimit(cfg.TMDB.RatePerSecond),
	)

	// Initialize layers
	movieRepo := repository.NewMovieRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	userRepo := repository.NewUserRepository(db)

	movieSvc := service.NewMovieService(movieRepo, tmdbClient, resultCache, cfg.Cache.TrendingTTL)
	favoriteSvc := service.NewFavoriteService(favoriteRepo, movieRepo, movieSvc)
	userSvc := service.NewUserService(userRepo, tokens)

	movieHandler := handler.NewMovieHandler(movieSvc, favoriteSvc)
	userHandler := handler.NewUserHandler(userSvc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Movie Discovery Backend",
		ServerHeader: "Movie-Discovery",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				slog.Error("unhandled error", "error", err, "status", code)
			}
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	if rdb != nil {
		app.Use(middleware.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.WindowSeconds).Handler())
	}

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	handler.RegisterRoutes(app, movieHandler, userHandler, middleware.RequireAuth(tokens))

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down movie discovery backend...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting movie discovery backend", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

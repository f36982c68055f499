package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/openfolio/showcase-engine/pkg/auth"
	"github.com/openfolio/showcase-engine/pkg/cache"
	"github.com/openfolio/showcase-engine/pkg/config"
	"github.com/openfolio/showcase-engine/pkg/database"
	"github.com/openfolio/showcase-engine/pkg/gallery"
	"github.com/openfolio/showcase-engine/pkg/handlers"
	"github.com/openfolio/showcase-engine/pkg/layout"
	"github.com/openfolio/showcase-engine/pkg/middleware"
	"github.com/openfolio/showcase-engine/pkg/repositories"
	"github.com/openfolio/showcase-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Database.Database),
		zap.String("gallery_scope", cfg.Gallery.Scope),
		zap.String("layout_mode", cfg.Gallery.LayoutMode),
		zap.Bool("cache_enabled", cfg.Redis.Host != ""),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.RunMigrations(cfg.Database.URL(), cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	rdb, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	// Repositories
	projectRepo := repositories.NewProjectRepository(db)
	userRepo := repositories.NewUserRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	// Services
	tokens := auth.NewTokenManager([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	projectCache := cache.NewProjectCache(rdb, cfg.Gallery.CacheTTL, logger)
	projectService := services.NewProjectService(projectRepo, projectCache, cfg.Gallery.Scope == config.ScopeOwner, logger)
	authService := services.NewAuthService(userRepo, tokens, logger)
	reviewService := services.NewReviewService(reviewRepo, projectRepo, logger)

	engine := layout.NewEngine(cfg.Gallery.Radius, layout.Mode(cfg.Gallery.LayoutMode))
	coordinator := gallery.NewCoordinator(projectService, engine, logger)

	// HTTP surface
	authMiddleware := auth.NewMiddleware(tokens, logger)
	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(authService, logger).RegisterRoutes(mux)
	handlers.NewProjectsHandler(projectService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewReviewsHandler(reviewService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewGalleryHandler(coordinator, logger).RegisterRoutes(mux, authMiddleware)

	handler := middleware.Recovery(logger)(middleware.RequestLogger(logger)(mux))

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting showcase-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

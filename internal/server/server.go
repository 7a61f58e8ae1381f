// Package server boots the inventory API: config, logging, database,
// cache, and the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/inventory/app/controllers"
	"github.com/shashiranjanraj/inventory/app/repositories"
	"github.com/shashiranjanraj/inventory/app/routes"
	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/config"
	"github.com/shashiranjanraj/inventory/pkg/cache"
	"github.com/shashiranjanraj/inventory/pkg/database"
	"github.com/shashiranjanraj/inventory/pkg/logger"
	"github.com/shashiranjanraj/inventory/pkg/metrics"
	"github.com/shashiranjanraj/inventory/pkg/middleware"
	"github.com/shashiranjanraj/inventory/pkg/reqid"
	"github.com/shashiranjanraj/inventory/pkg/router"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

// Start boots the service and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	// Optional MongoDB log sink; stdout logging continues without it.
	if uri := config.LogMongoURI(); uri != "" {
		sink, err := logger.AttachMongo(uri, config.LogMongoDB(), "logs")
		if err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		} else {
			defer sink.Close()
		}
	}

	db, err := database.Connect()
	if err != nil {
		return err
	}

	store, err := openCache()
	if err != nil {
		return err
	}

	limiter := middleware.NewLimiter(300, time.Minute)
	defer limiter.Close()

	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(limiter.Middleware())

	routes.RegisterAPI(r, buildControllers(db, store))

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("inventory API listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}

	return nil
}

// openCache picks the cache driver from configuration. A Redis that is
// down at boot degrades to the in-process cache instead of aborting.
func openCache() (cache.Store, error) {
	if config.CacheDriver() != "redis" {
		return cache.NewMemory(), nil
	}

	store, err := cache.NewRedis(config.RedisAddr(), config.RedisPassword())
	if err != nil {
		logger.Warn("redis unavailable, using in-process cache", "error", err)
		return cache.NewMemory(), nil
	}
	return store, nil
}

func buildControllers(db *gorm.DB, store cache.Store) routes.Controllers {
	ttl := config.CacheTTL()
	maxPageSize := config.MaxPageSize()

	products := services.NewProductService(
		repositories.NewProductRepository(db), store, logger.L, ttl, maxPageSize)
	categories := services.NewCategoryService(
		repositories.NewCategoryRepository(db), store, logger.L, ttl)
	auth := services.NewAuthService(repositories.NewUserRepository(db), logger.L)

	return routes.Controllers{
		Products:   controllers.NewProductController(products),
		Categories: controllers.NewCategoryController(categories),
		Auth:       controllers.NewAuthController(auth),
	}
}

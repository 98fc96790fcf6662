package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recipebox/recipe-api/internal/api"
	"github.com/recipebox/recipe-api/internal/api/handlers"
	"github.com/recipebox/recipe-api/internal/auth"
	"github.com/recipebox/recipe-api/internal/config"
	"github.com/recipebox/recipe-api/internal/db"
	"github.com/recipebox/recipe-api/internal/logger"
	"github.com/recipebox/recipe-api/internal/metrics"
	"github.com/recipebox/recipe-api/internal/middleware"
	"github.com/recipebox/recipe-api/internal/models"
	"github.com/recipebox/recipe-api/internal/repository/postgres"
	"github.com/recipebox/recipe-api/internal/services"
	"github.com/recipebox/recipe-api/internal/storage"
	"github.com/recipebox/recipe-api/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	var store storage.Store
	switch cfg.StorageDriver {
	case "s3":
		store, err = storage.NewS3(ctx, storage.S3Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			log.Error("s3 storage", "err", err)
			os.Exit(1)
		}
	default:
		store = storage.NewLocal(cfg.MediaDir)
	}

	metrics.Init()

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	userSvc := services.NewUserService(repos.Users)

	// Optional bootstrap admin; an already-registered email is fine.
	if email := os.Getenv("APP_SUPERUSER_EMAIL"); email != "" {
		_, err := userSvc.CreateSuperuser(ctx, email, os.Getenv("APP_SUPERUSER_PASSWORD"))
		if err != nil && !errors.Is(err, models.ErrEmailTaken) {
			log.Error("superuser bootstrap", "err", err)
			os.Exit(1)
		}
	}

	recipeSvc := services.NewRecipeService(repos.Recipes, store, wp, log)
	tagSvc := services.NewTagService(repos.Tags)
	ingredientSvc := services.NewIngredientService(repos.Ingredients)

	r := api.NewRouter(api.RouterDeps{
		Cfg:        cfg,
		AuthMW:     middleware.NewAuthMiddleware(tm),
		User:       handlers.NewUserHandler(userSvc, tm),
		Recipe:     handlers.NewRecipeHandler(recipeSvc),
		Tag:        handlers.NewTagHandler(tagSvc),
		Ingredient: handlers.NewIngredientHandler(ingredientSvc),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

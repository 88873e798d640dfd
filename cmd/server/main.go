package main

import (
	"context"
	"delivery-time-service/internal/adapters/cache"
	"delivery-time-service/internal/adapters/dataset"
	"delivery-time-service/internal/adapters/model"
	"delivery-time-service/internal/adapters/repositories"
	"delivery-time-service/internal/api"
	"delivery-time-service/internal/config"
	"delivery-time-service/internal/platform/db"
	"delivery-time-service/internal/ports"
	"delivery-time-service/internal/services"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (dataset, model, Redis, SQL) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// The dataset backs every chart; refuse to start without it.
	store, err := dataset.Open(cfg.DatasetPath)
	if err != nil {
		log.Fatal(err)
	}

	// The model is read on first prediction; a bad artifact fails requests, not startup.
	predictor := model.NewLazyModel(cfg.ModelPath)
	log.Printf("model artifact path=%s (loaded on first prediction)", predictor.Path())

	predictionLog, closeLog, err := openPredictionLog(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLog.Close()

	predictionCache, closeCache := openPredictionCache(cfg)
	defer closeCache.Close()

	if cfg.LogRetention > 0 && cfg.PruneSchedule != "" {
		retention := &services.Retention{Log: predictionLog, MaxAge: cfg.LogRetention}
		scheduler, err := retention.Schedule(cfg.PruneSchedule)
		if err != nil {
			log.Fatal(err)
		}
		defer scheduler.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.WatchDataset {
		go func() {
			if err := store.Watch(ctx); err != nil {
				log.Printf("dataset watch stopped: %v", err)
			}
		}()
	}

	router := api.NewRouter(api.RouterDeps{
		Predict: services.PredictDeps{
			Predictor: predictor,
			Cache:     predictionCache,
			Log:       predictionLog,
		},
		EDA:     &services.EDA{Source: store},
		Dataset: store,
		Locale:  cfg.DisplayLocale,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server listening addr=:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.Printf("server failed: %v", err)
		return
	case <-ctx.Done():
		log.Println("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown failed: %v", err)
	}
	log.Println("Server exited")
}

// openPredictionLog uses PostgreSQL when DATABASE_URL is set and SQLite otherwise.
func openPredictionLog(cfg config.Config) (ports.PredictionLog, io.Closer, error) {
	if cfg.DatabaseURL != "" {
		pg, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := repositories.InitPostgresSchema(ctx, pg); err != nil {
			_ = pg.Close()
			return nil, nil, err
		}
		log.Println("prediction log backend=postgres")
		return repositories.NewSQLPredictionLog(pg), pg, nil
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("open prediction log: create %q: %w", dir, err)
		}
	}

	lite, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitSchema(lite); err != nil {
		_ = lite.Close()
		return nil, nil, err
	}
	log.Printf("prediction log backend=sqlite path=%s", cfg.DBPath)
	return repositories.NewSqlitePredictionLog(lite), lite, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openPredictionCache falls back to no caching when Redis is unset or unreachable.
func openPredictionCache(cfg config.Config) (ports.PredictionCache, io.Closer) {
	if cfg.RedisAddr == "" {
		return cache.NoopPredictionCache{}, nopCloser{}
	}

	rc := cache.NewRedisPredictionCache(cfg.RedisAddr, cfg.CacheTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		log.Printf("prediction cache disabled: %v", err)
		_ = rc.Close()
		return cache.NoopPredictionCache{}, nopCloser{}
	}

	log.Printf("prediction cache backend=redis addr=%s ttl=%s", cfg.RedisAddr, cfg.CacheTTL)
	return rc, rc
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	Port          string
	ModelPath     string
	DatasetPath   string
	DBPath        string
	DatabaseURL   string
	RedisAddr     string
	CacheTTL      time.Duration
	LogRetention  time.Duration
	PruneSchedule string
	WatchDataset  bool
	DisplayLocale string
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads Config from the environment. Call godotenv.Load first if a
// .env file should be honoured.
func Load() (Config, error) {
	cacheTTL, err := duration("CACHE_TTL", 10*time.Minute)
	if err != nil {
		return Config{}, err
	}
	retention, err := duration("LOG_RETENTION", 30*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	watch, err := boolean("WATCH_DATASET", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:          Get("PORT", "8080"),
		ModelPath:     Get("MODEL_PATH", "data/model/delivery_time_xgb.json"),
		DatasetPath:   Get("DATASET_PATH", "data/Food_Delivery_Times.csv"),
		DBPath:        Get("DB_PATH", "data/app.db"),
		DatabaseURL:   Get("DATABASE_URL", ""),
		RedisAddr:     Get("REDIS_ADDR", ""),
		CacheTTL:      cacheTTL,
		LogRetention:  retention,
		PruneSchedule: Get("PRUNE_SCHEDULE", "@every 1h"),
		WatchDataset:  watch,
		DisplayLocale: Get("DISPLAY_LOCALE", "en"),
	}

	if cfg.LogRetention <= 0 {
		log.Printf("config: LOG_RETENTION=%s disables pruning", cfg.LogRetention)
	}

	return cfg, nil
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, raw, err)
	}
	return d, nil
}

func boolean(key string, fallback bool) (bool, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("config: parse %s=%q: %w", key, raw, err)
	}
	return b, nil
}

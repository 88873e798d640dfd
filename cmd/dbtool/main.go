package main

import (
	"context"
	"delivery-time-service/internal/adapters/repositories"
	"delivery-time-service/internal/config"
	"delivery-time-service/internal/platform/db"
	"delivery-time-service/internal/services"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	prune := flag.Bool("prune", false, "delete prediction log entries older than LOG_RETENTION")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log.Println("Initializing database schema...")
	if err := repositories.InitPostgresSchema(ctx, pg); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if !*prune {
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	retention := &services.Retention{Log: repositories.NewSQLPredictionLog(pg), MaxAge: cfg.LogRetention}
	n, err := retention.PruneOnce(ctx)
	if err != nil {
		log.Fatalf("prune failed: %v", err)
	}
	log.Printf("Pruned %d prediction log rows.", n)
}

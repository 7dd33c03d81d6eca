package main

import (
	"database/sql"
	"log"
	"net/http"
	"school-route-service/internal/adapters/lock"
	"school-route-service/internal/adapters/repositories"
	"school-route-service/internal/adapters/travel"
	"school-route-service/internal/api"
	"school-route-service/internal/config"
	"school-route-service/internal/platform/db"
	"school-route-service/internal/ports"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (Postgres/SQLite, Redis, haversine) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	conn, repo, err := openHistoryStore(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := repositories.InitSchema(conn); err != nil {
		log.Fatal(err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	locks := lock.NewRedisRouteLock(redisClient)
	estimator := travel.NewHaversineEstimator(cfg.Optimizer.AvgSpeedKmh)

	router := api.NewRouter(repo, estimator, locks, cfg.Optimizer)

	log.Printf("Server listening addr=:%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openHistoryStore prefers Postgres when DATABASE_URL is set and falls
// back to a local SQLite file for single-node runs.
func openHistoryStore(cfg config.DatabaseConfig) (*sql.DB, ports.OptimizationRepository, error) {
	if cfg.URL != "" {
		conn, err := db.OpenPostgres(cfg.URL)
		if err != nil {
			return nil, nil, err
		}
		return conn, repositories.NewSQLOptimizationRepository(conn), nil
	}

	conn, err := db.OpenSqlite(cfg.SqlitePath)
	if err != nil {
		return nil, nil, err
	}
	return conn, repositories.NewSqliteOptimizationRepository(conn), nil
}

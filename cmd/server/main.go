package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"starroute-service/internal/adapters/cache"
	"starroute-service/internal/adapters/edsm"
	"starroute-service/internal/adapters/repositories"
	"starroute-service/internal/api"
	"starroute-service/internal/config"
	"starroute-service/internal/platform/db"
	"starroute-service/internal/ports"
	"starroute-service/internal/resolve"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Redis, EDSM) behind ports and starts
// the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/starroute.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/systems.csv")
	port := config.Get("PORT", "8080")

	sqldb, err := db.OpenSqlite(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqldb.Close()

	if err := initAndSeed(sqldb, seedPath); err != nil {
		log.Fatal(err)
	}

	store := newCoordinateStore(sqldb)
	resolver := resolve.New(edsm.NewClient(), store)
	resolver.Warnf = log.Printf
	history := repositories.NewSqliteHistoryRepository(sqldb)

	router := api.NewRouter(resolver, history)

	// Write timeout allows for cold-cache EDSM lookups on large routes.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// newCoordinateStore prefers Redis when REDIS_ADDR is set, falling back to
// the embedded SQLite cache otherwise.
func newCoordinateStore(sqldb *sql.DB) ports.CoordinateStore {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return cache.NewSqliteCoordinateStore(sqldb)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	log.Printf("Using redis coordinate cache addr=%s", addr)
	return cache.NewRedisCoordinateStore(client)
}

func initAndSeed(sqldb *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(sqldb); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	n, err := repositories.SeedFromCSV(sqldb, seedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	if n > 0 {
		log.Printf("Seeded coordinate cache count=%d path=%s", n, seedPath)
	}

	return nil
}

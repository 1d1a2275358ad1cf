package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"starroute-service/internal/adapters/cache"
	"starroute-service/internal/adapters/csvio"
	"starroute-service/internal/adapters/repositories"
	"starroute-service/internal/config"
	"starroute-service/internal/domain"
	"starroute-service/internal/platform/db"
)

// dbtool prepares a shared Postgres coordinate cache: it creates the schema
// and loads known system coordinates from a CSV file.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pg, err := db.OpenPostgres(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitPostgresSchema(pg); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	seedPath := config.Get("SEED_PATH", "data/seeds/systems.csv")
	log.Println("Seeding coordinate cache...")
	n, err := seedCoordinates(pg, seedPath)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("Seeding complete count=%d", n)
}

// seedCoordinates loads system coordinates from a CSV file into the Postgres
// store. A missing file is not an error: the cache simply starts cold.
func seedCoordinates(pg *sql.DB, csvPath string) (int, error) {
	f, err := os.Open(csvPath)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("seed coordinates: open %q: %w", csvPath, err)
	}
	defer f.Close()

	points, err := csvio.ReadPoints(f)
	if err != nil {
		return 0, fmt.Errorf("seed coordinates: %w", err)
	}
	if len(points) == 0 {
		return 0, nil
	}

	keyed := make(map[string]domain.SystemPoint, len(points))
	for _, p := range points {
		keyed[domain.NormalizeName(p.Name)] = p
	}

	store := cache.NewSQLCoordinateStore(pg)
	if err := store.Put(context.Background(), keyed); err != nil {
		return 0, fmt.Errorf("seed coordinates: %w", err)
	}

	return len(keyed), nil
}

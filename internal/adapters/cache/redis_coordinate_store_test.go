package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"starroute-service/internal/domain"
)

func redisStore(t *testing.T) *RedisCoordinateStore {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisCoordinateStore(client)
}

func TestRedisCoordinateStoreRoundTrip(t *testing.T) {
	store := redisStore(t)
	ctx := context.Background()

	points := map[string]domain.SystemPoint{
		"sol":  {Name: "Sol"},
		"lave": {Name: "Lave", Coords: domain.Coordinates{X: 75.75, Y: 48.75, Z: 70.75}},
	}
	if err := store.Put(ctx, points); err != nil {
		t.Fatalf("put: %v", err)
	}

	p, ok, err := store.Get(ctx, "lave")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("lave missing after put")
	}
	if p.Name != "Lave" || p.Coords.Z != 70.75 {
		t.Fatalf("point = %+v", p)
	}
}

func TestRedisCoordinateStoreGetMiss(t *testing.T) {
	store := redisStore(t)

	_, ok, err := store.Get(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected miss for unknown name")
	}
}

func TestRedisCoordinateStoreGetMany(t *testing.T) {
	store := redisStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, map[string]domain.SystemPoint{
		"sol":    {Name: "Sol"},
		"alioth": {Name: "Alioth", Coords: domain.Coordinates{X: -33.65625}},
	}); err != nil {
		t.Fatalf("put: %v", err)
	}

	hits, err := store.GetMany(ctx, []string{"sol", "alioth", "lave", "sol"})
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	if hits["alioth"].Coords.X != -33.65625 {
		t.Fatalf("alioth = %+v", hits["alioth"])
	}
}

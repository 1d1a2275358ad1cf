package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"starroute-service/internal/domain"
)

const redisKeyPrefix = "system:"

// storedPoint is the JSON shape persisted per system.
type storedPoint struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

// RedisCoordinateStore is a Redis-backed store mapping normalized system
// names to coordinates, for deployments sharing one coordinate cache across
// instances. Entries never expire; star coordinates do not change.
type RedisCoordinateStore struct {
	client *redis.Client
}

func NewRedisCoordinateStore(client *redis.Client) *RedisCoordinateStore {
	return &RedisCoordinateStore{client: client}
}

// Fetch the cached point for a single normalized name.
func (s *RedisCoordinateStore) Get(ctx context.Context, name string) (domain.SystemPoint, bool, error) {
	if s.client == nil {
		return domain.SystemPoint{}, false, errors.New("coordinate store: redis client is nil")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.SystemPoint{}, false, errors.New("get coordinate store: name must not be empty")
	}

	raw, err := s.client.Get(ctx, redisKeyPrefix+name).Result()
	if errors.Is(err, redis.Nil) {
		return domain.SystemPoint{}, false, nil
	}
	if err != nil {
		return domain.SystemPoint{}, false, fmt.Errorf("get coordinate store: redis get %q: %w", name, err)
	}

	p, err := decodeStoredPoint(raw)
	if err != nil {
		return domain.SystemPoint{}, false, fmt.Errorf("get coordinate store: %q: %w", name, err)
	}
	return p, true, nil
}

// Fetch cached points for the given normalized names.
func (s *RedisCoordinateStore) GetMany(ctx context.Context, names []string) (map[string]domain.SystemPoint, error) {
	if s.client == nil {
		return nil, errors.New("coordinate store: redis client is nil")
	}

	if len(names) == 0 {
		return map[string]domain.SystemPoint{}, nil
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(names))
	keys := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}

		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		uniq = append(uniq, n)
		keys = append(keys, redisKeyPrefix+n)
	}

	if len(uniq) == 0 {
		return map[string]domain.SystemPoint{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get coordinate store: redis mget: %w", err)
	}

	out := make(map[string]domain.SystemPoint, len(uniq))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		p, err := decodeStoredPoint(raw)
		if err != nil {
			return nil, fmt.Errorf("get coordinate store: %q: %w", uniq[i], err)
		}
		out[uniq[i]] = p
	}

	return out, nil
}

// Store name -> point mappings.
func (s *RedisCoordinateStore) Put(ctx context.Context, points map[string]domain.SystemPoint) error {
	if s.client == nil {
		return errors.New("coordinate store: redis client is nil")
	}

	if len(points) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for name, p := range points {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("insert coordinate store: empty name key")
		}

		payload, err := json.Marshal(storedPoint{
			Name: p.Name,
			X:    p.Coords.X,
			Y:    p.Coords.Y,
			Z:    p.Coords.Z,
		})
		if err != nil {
			return fmt.Errorf("insert coordinate store name=%q: marshal: %w", name, err)
		}
		pipe.Set(ctx, redisKeyPrefix+name, payload, 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert coordinate store: redis pipeline: %w", err)
	}

	return nil
}

func decodeStoredPoint(raw string) (domain.SystemPoint, error) {
	var sp storedPoint
	if err := json.Unmarshal([]byte(raw), &sp); err != nil {
		return domain.SystemPoint{}, fmt.Errorf("decode stored point: %w", err)
	}
	return domain.SystemPoint{
		Name:   sp.Name,
		Coords: domain.Coordinates{X: sp.X, Y: sp.Y, Z: sp.Z},
	}, nil
}

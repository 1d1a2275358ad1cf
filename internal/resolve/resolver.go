package resolve

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"starroute-service/internal/domain"
	"starroute-service/internal/ports"
)

// resolveAllConcurrency bounds parallel external lookups in ResolveAll.
const resolveAllConcurrency = 5

// Resolver maps system names to coordinates.
//
// Lookup order: process-lifetime in-memory cache -> optional persistent
// CoordinateStore -> external CoordinateSource. Batch resolution reads the
// persistent store once for all misses before fanning out to the external
// source. Successful lookups populate both caches; failures are never
// cached, so transient errors can be retried. A singleflight.Group coalesces
// concurrent lookups for the same normalized name while unrelated names
// proceed in parallel.
//
// The resolver is safe for concurrent use. It applies no retry policy of
// its own; that belongs to the caller.
type Resolver struct {
	source ports.CoordinateSource
	store  ports.CoordinateStore // optional
	group  singleflight.Group

	// Warnf receives non-fatal events (persistent-store read or write
	// failures that resolution recovers from). The resolver never logs on
	// its own; callers that want these surfaced set Warnf, e.g. to
	// log.Printf. Set before first use.
	Warnf func(format string, args ...any)

	mu    sync.RWMutex
	cache map[string]domain.SystemPoint
}

func New(source ports.CoordinateSource, store ports.CoordinateStore) *Resolver {
	return &Resolver{
		source: source,
		store:  store,
		cache:  make(map[string]domain.SystemPoint),
	}
}

// Resolve returns the coordinates for one system name.
//
// Fails with ports.ErrSystemNotFound when the external source does not know
// the system and ports.ErrLookupFailed on transport-level failure.
func (r *Resolver) Resolve(ctx context.Context, name string) (domain.SystemPoint, error) {
	key := domain.NormalizeName(name)
	if key == "" {
		return domain.SystemPoint{}, errors.New("resolve: system name must be non-empty")
	}

	r.mu.RLock()
	p, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return p, nil
	}

	// At most one in-flight lookup per normalized name; concurrent callers
	// for the same name share the result.
	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		return r.lookup(ctx, key, name)
	})
	if err != nil {
		return domain.SystemPoint{}, err
	}
	return v.(domain.SystemPoint), nil
}

// lookup is the path behind singleflight: recheck memory, then the
// persistent store, then the external source.
func (r *Resolver) lookup(ctx context.Context, key, name string) (domain.SystemPoint, error) {
	r.mu.RLock()
	p, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return p, nil
	}

	if r.store != nil {
		stored, ok, err := r.store.Get(ctx, key)
		if err != nil {
			// A broken store must not block resolution; the external
			// source remains authoritative.
			r.warnf("coordinate store read failed name=%q err=%v", key, err)
		} else if ok {
			r.remember(key, stored)
			return stored, nil
		}
	}

	fresh, err := r.source.Lookup(ctx, name)
	if err != nil {
		return domain.SystemPoint{}, fmt.Errorf("resolve %q: %w", name, err)
	}

	r.remember(key, fresh)
	if r.store != nil {
		if err := r.store.Put(ctx, map[string]domain.SystemPoint{key: fresh}); err != nil {
			r.warnf("coordinate store write failed name=%q err=%v", key, err)
		}
	}

	return fresh, nil
}

// ResolveAll resolves a batch of names, preserving input order. Names not in
// the in-memory cache are batch-read from the persistent store in one call;
// only the remaining misses fan out to the external source, concurrently
// with bounded parallelism. The first failure cancels outstanding lookups
// and aborts the batch.
func (r *Resolver) ResolveAll(ctx context.Context, names []string) ([]domain.SystemPoint, error) {
	out := make([]domain.SystemPoint, len(names))

	missing := make([]int, 0, len(names))
	keys := make([]string, 0, len(names))
	for i, name := range names {
		key := domain.NormalizeName(name)
		if key == "" {
			return nil, errors.New("resolve all: system name must be non-empty")
		}

		r.mu.RLock()
		p, ok := r.cache[key]
		r.mu.RUnlock()
		if ok {
			out[i] = p
			continue
		}

		missing = append(missing, i)
		keys = append(keys, key)
	}

	if r.store != nil && len(missing) > 0 {
		hits, err := r.store.GetMany(ctx, keys)
		if err != nil {
			r.warnf("coordinate store batch read failed err=%v", err)
		} else if len(hits) > 0 {
			rem := make([]int, 0, len(missing))
			for n, i := range missing {
				if p, ok := hits[keys[n]]; ok {
					r.remember(keys[n], p)
					out[i] = p
					continue
				}
				rem = append(rem, i)
			}
			missing = rem
		}
	}

	if len(missing) == 0 {
		return out, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveAllConcurrency)
	for _, i := range missing {
		g.Go(func() error {
			p, err := r.Resolve(ctx, names[i])
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// Seed adds already-resolved points (e.g. from a CSV import) to the
// in-memory cache so later resolves skip the external source.
func (r *Resolver) Seed(points []domain.SystemPoint) {
	for _, p := range points {
		key := domain.NormalizeName(p.Name)
		if key == "" {
			continue
		}
		r.remember(key, p)
	}
}

func (r *Resolver) remember(key string, p domain.SystemPoint) {
	r.mu.Lock()
	r.cache[key] = p
	r.mu.Unlock()
}

func (r *Resolver) warnf(format string, args ...any) {
	if r.Warnf != nil {
		r.Warnf(format, args...)
	}
}

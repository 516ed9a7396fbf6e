package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/oarkflow/permit"
)

// CachedScopeStore is a TTL read-through decorator over another ScopeStore,
// backed by ristretto. It belongs to the storage side: the engine's own
// per-decision cache stays decision-scoped, this one trades a bounded amount
// of staleness for fewer storage round trips across requests. Keep the TTL
// short.
type CachedScopeStore struct {
	inner permit.ScopeStore
	cache *ristretto.Cache
	ttl   time.Duration
}

// CachedScopeStoreConfig sizes the ristretto cache; zero values fall back to
// defaults suitable for a mid-size tenant population.
type CachedScopeStoreConfig struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	TTL         time.Duration
}

func NewCachedScopeStore(inner permit.ScopeStore, cfg CachedScopeStoreConfig) (*CachedScopeStore, error) {
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = 100_000
	}
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = 1 << 24
	}
	if cfg.BufferItems <= 0 {
		cfg.BufferItems = 64
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &CachedScopeStore{inner: inner, cache: cache, ttl: cfg.TTL}, nil
}

func (s *CachedScopeStore) ListSitesForActor(ctx context.Context, tenantID string, q permit.SiteScopeQuery) ([]string, error) {
	key := fmt.Sprintf("sites:%s:%s:%s:%d", tenantID, q.Role, q.ActorID, q.Limit)
	if v, ok := s.cache.Get(key); ok {
		return v.([]string), nil
	}
	ids, err := s.inner.ListSitesForActor(ctx, tenantID, q)
	if err != nil {
		return nil, err
	}
	s.cache.SetWithTTL(key, ids, int64(len(ids)+1), s.ttl)
	return ids, nil
}

func (s *CachedScopeStore) ListAssetsForSite(ctx context.Context, tenantID, siteID string) ([]string, error) {
	key := fmt.Sprintf("assets:%s:%s", tenantID, siteID)
	if v, ok := s.cache.Get(key); ok {
		return v.([]string), nil
	}
	ids, err := s.inner.ListAssetsForSite(ctx, tenantID, siteID)
	if err != nil {
		return nil, err
	}
	s.cache.SetWithTTL(key, ids, int64(len(ids)+1), s.ttl)
	return ids, nil
}

// Invalidate drops all cached scopes, e.g. after bulk membership changes.
func (s *CachedScopeStore) Invalidate() {
	s.cache.Clear()
}

// Close releases the underlying cache resources.
func (s *CachedScopeStore) Close() {
	s.cache.Close()
}

package permit

import (
	"context"
	"sync"

	"github.com/oarkflow/permit/logger"
)

// countingScopeStore is an in-memory ScopeStore that counts storage calls so
// tests can observe caching, short-circuiting and cross-record isolation.
type countingScopeStore struct {
	mu         sync.Mutex
	sites      map[SiteRole]map[string][]string // role -> actor -> site IDs
	siteAssets map[string][]string              // site -> asset IDs
	err        error

	siteCalls  int
	assetCalls int
}

func newCountingScopeStore() *countingScopeStore {
	return &countingScopeStore{
		sites:      make(map[SiteRole]map[string][]string),
		siteAssets: make(map[string][]string),
	}
}

func (s *countingScopeStore) assign(actorID string, role SiteRole, siteIDs ...string) {
	byActor, ok := s.sites[role]
	if !ok {
		byActor = make(map[string][]string)
		s.sites[role] = byActor
	}
	byActor[actorID] = append(byActor[actorID], siteIDs...)
}

func (s *countingScopeStore) setAssets(siteID string, assetIDs ...string) {
	s.siteAssets[siteID] = assetIDs
}

func (s *countingScopeStore) ListSitesForActor(_ context.Context, _ string, q SiteScopeQuery) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.siteCalls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]string(nil), s.sites[q.Role][q.ActorID]...), nil
}

func (s *countingScopeStore) ListAssetsForSite(_ context.Context, _, siteID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assetCalls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]string(nil), s.siteAssets[siteID]...), nil
}

func (s *countingScopeStore) calls() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.siteCalls, s.assetCalls
}

// recordingFilter is a configurable DynamicFilter for combinator tests.
type recordingFilter struct {
	kind       FilterKind
	authorized bool
	filterKey  FilterKey
	filterVal  any
	err        error
	calls      int
}

func (f *recordingFilter) Kind() FilterKind { return f.kind }

func (f *recordingFilter) Process(_ context.Context, ev *Evaluation) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if f.filterKey != "" {
		ev.Decision.SetFilter(f.filterKey, f.filterVal)
	}
	ev.Decision.Authorized = f.authorized
	return nil
}

func testTenant() *Tenant {
	return &Tenant{ID: "tenant-1", Name: "Acme", OrganizationEnabled: true}
}

func basicActor(id string) *Actor {
	return &Actor{ID: id, Role: RoleBasic, TenantID: "tenant-1"}
}

func adminActor(id string) *Actor {
	return &Actor{ID: id, Role: RoleAdmin, TenantID: "tenant-1"}
}

func newTestEngine(store ScopeStore, opts ...EngineOption) *Engine {
	opts = append([]EngineOption{WithLogger(logger.NewNullLogger())}, opts...)
	e, err := NewEngine(store, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

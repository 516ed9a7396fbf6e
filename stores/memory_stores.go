package stores

import (
	"context"
	"sync"

	"github.com/oarkflow/permit"
)

// MemoryScopeStore implements permit.ScopeStore in-memory for testing/demo.
// Site membership is kept per relationship kind so the same user can be
// assigned, admin and owner of different sites at once.
type MemoryScopeStore struct {
	mu         sync.RWMutex
	sites      map[string]map[permit.SiteRole]map[string][]string // tenant -> role -> actor -> site IDs
	siteAssets map[string]map[string][]string                     // tenant -> site -> asset IDs
}

func NewMemoryScopeStore() *MemoryScopeStore {
	return &MemoryScopeStore{
		sites:      make(map[string]map[permit.SiteRole]map[string][]string),
		siteAssets: make(map[string]map[string][]string),
	}
}

// AssignSite records that actor has the given relationship to site.
func (s *MemoryScopeStore) AssignSite(tenantID, actorID string, role permit.SiteRole, siteID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byRole, ok := s.sites[tenantID]
	if !ok {
		byRole = make(map[permit.SiteRole]map[string][]string)
		s.sites[tenantID] = byRole
	}
	byActor, ok := byRole[role]
	if !ok {
		byActor = make(map[string][]string)
		byRole[role] = byActor
	}
	for _, id := range byActor[actorID] {
		if id == siteID {
			return
		}
	}
	byActor[actorID] = append(byActor[actorID], siteID)
}

// SetSiteAssets replaces the asset IDs assigned to site.
func (s *MemoryScopeStore) SetSiteAssets(tenantID, siteID string, assetIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bySite, ok := s.siteAssets[tenantID]
	if !ok {
		bySite = make(map[string][]string)
		s.siteAssets[tenantID] = bySite
	}
	bySite[siteID] = append([]string(nil), assetIDs...)
}

func (s *MemoryScopeStore) ListSitesForActor(ctx context.Context, tenantID string, q permit.SiteScopeQuery) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	limit := clampLimit(q.Limit, permit.MaxScopeLimit)
	ids := s.sites[tenantID][q.Role][q.ActorID]
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return append([]string(nil), ids...), nil
}

func (s *MemoryScopeStore) ListAssetsForSite(ctx context.Context, tenantID, siteID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.siteAssets[tenantID][siteID]...), nil
}

// MemoryAuditStore keeps decision audit entries in-memory.
type MemoryAuditStore struct {
	mu      sync.RWMutex
	entries []*permit.AuditEntry
}

func NewMemoryAuditStore() *MemoryAuditStore {
	return &MemoryAuditStore{entries: make([]*permit.AuditEntry, 0)}
}

func (s *MemoryAuditStore) LogDecision(ctx context.Context, entry *permit.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryAuditStore) GetDecisionLog(ctx context.Context, filter permit.AuditFilter) ([]*permit.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*permit.AuditEntry, 0)
	for _, entry := range s.entries {
		if filter.ActorID != "" && entry.ActorID != filter.ActorID {
			continue
		}
		if filter.Entity != "" && entry.Entity != filter.Entity {
			continue
		}
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		if !filter.StartTime.IsZero() && entry.Timestamp.Before(filter.StartTime) {
			continue
		}
		if !filter.EndTime.IsZero() && entry.Timestamp.After(filter.EndTime) {
			continue
		}
		result = append(result, entry)
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}
	return result, nil
}

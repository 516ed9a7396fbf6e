package stores

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/oarkflow/permit"
)

// RedisScopeStore keeps site membership and site-asset assignment in Redis
// sets (keys: scope:{tenant}:{role}:{actor}, siteassets:{tenant}:{site}).
// Useful as a low-latency mirror in front of the SQL store.
type RedisScopeStore struct {
	client *redis.Client
}

func NewRedisScopeStore(client *redis.Client) *RedisScopeStore {
	return &RedisScopeStore{client: client}
}

func (r *RedisScopeStore) scopeKey(tenantID string, role permit.SiteRole, actorID string) string {
	return fmt.Sprintf("scope:%s:%s:%s", tenantID, role, actorID)
}

func (r *RedisScopeStore) assetsKey(tenantID, siteID string) string {
	return fmt.Sprintf("siteassets:%s:%s", tenantID, siteID)
}

// AssignSite adds siteID to the actor's scope set for the given relationship.
func (r *RedisScopeStore) AssignSite(ctx context.Context, tenantID, actorID string, role permit.SiteRole, siteID string) error {
	return r.client.SAdd(ctx, r.scopeKey(tenantID, role, actorID), siteID).Err()
}

// UnassignSite removes siteID from the actor's scope set.
func (r *RedisScopeStore) UnassignSite(ctx context.Context, tenantID, actorID string, role permit.SiteRole, siteID string) error {
	return r.client.SRem(ctx, r.scopeKey(tenantID, role, actorID), siteID).Err()
}

// AssignAssetToSite adds assetID to the site's asset set.
func (r *RedisScopeStore) AssignAssetToSite(ctx context.Context, tenantID, siteID, assetID string) error {
	return r.client.SAdd(ctx, r.assetsKey(tenantID, siteID), assetID).Err()
}

// RemoveAssetFromSite removes assetID from the site's asset set.
func (r *RedisScopeStore) RemoveAssetFromSite(ctx context.Context, tenantID, siteID, assetID string) error {
	return r.client.SRem(ctx, r.assetsKey(tenantID, siteID), assetID).Err()
}

func (r *RedisScopeStore) ListSitesForActor(ctx context.Context, tenantID string, q permit.SiteScopeQuery) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.scopeKey(tenantID, q.Role, q.ActorID)).Result()
	if err != nil {
		return nil, err
	}
	// Redis sets are unordered; sort for deterministic decisions.
	sort.Strings(ids)
	limit := clampLimit(q.Limit, permit.MaxScopeLimit)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *RedisScopeStore) ListAssetsForSite(ctx context.Context, tenantID, siteID string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.assetsKey(tenantID, siteID)).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

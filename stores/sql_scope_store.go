package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/oarkflow/permit"
	"github.com/oarkflow/squealx"
)

// SQLScopeStore persists site membership and site-asset assignment in SQL
// (squealx).
type SQLScopeStore struct {
	db *squealx.DB
}

func NewSQLScopeStore(db *squealx.DB) *SQLScopeStore {
	return &SQLScopeStore{db: db}
}

// AssignSiteMember upserts one actor/site relationship row.
func (s *SQLScopeStore) AssignSiteMember(ctx context.Context, tenantID, siteID, userID string, siteAdmin, siteOwner bool) error {
	q := `INSERT INTO site_members(tenant_id, site_id, user_id, site_admin, site_owner, created_at)
	      VALUES(:tenant_id, :site_id, :user_id, :site_admin, :site_owner, :created_at)
	      ON CONFLICT(tenant_id, site_id, user_id)
	      DO UPDATE SET site_admin = :site_admin, site_owner = :site_owner`
	_, err := s.db.NamedExecContext(ctx, q, map[string]any{
		"tenant_id":  tenantID,
		"site_id":    siteID,
		"user_id":    userID,
		"site_admin": boolToInt(siteAdmin),
		"site_owner": boolToInt(siteOwner),
		"created_at": time.Now(),
	})
	return err
}

// UnassignSiteMember deletes one actor/site relationship row.
func (s *SQLScopeStore) UnassignSiteMember(ctx context.Context, tenantID, siteID, userID string) error {
	q := `DELETE FROM site_members WHERE tenant_id = :tenant_id AND site_id = :site_id AND user_id = :user_id`
	_, err := s.db.NamedExecContext(ctx, q, map[string]any{
		"tenant_id": tenantID,
		"site_id":   siteID,
		"user_id":   userID,
	})
	return err
}

// AssignAssetToSite records that an asset is assigned to a site.
func (s *SQLScopeStore) AssignAssetToSite(ctx context.Context, tenantID, siteID, assetID string) error {
	q := `INSERT INTO site_assets(tenant_id, site_id, asset_id, created_at)
	      VALUES(:tenant_id, :site_id, :asset_id, :created_at)
	      ON CONFLICT(tenant_id, site_id, asset_id) DO NOTHING`
	_, err := s.db.NamedExecContext(ctx, q, map[string]any{
		"tenant_id":  tenantID,
		"site_id":    siteID,
		"asset_id":   assetID,
		"created_at": time.Now(),
	})
	return err
}

// RemoveAssetFromSite removes an asset assignment.
func (s *SQLScopeStore) RemoveAssetFromSite(ctx context.Context, tenantID, siteID, assetID string) error {
	q := `DELETE FROM site_assets WHERE tenant_id = :tenant_id AND site_id = :site_id AND asset_id = :asset_id`
	_, err := s.db.NamedExecContext(ctx, q, map[string]any{
		"tenant_id": tenantID,
		"site_id":   siteID,
		"asset_id":  assetID,
	})
	return err
}

func (s *SQLScopeStore) ListSitesForActor(ctx context.Context, tenantID string, q permit.SiteScopeQuery) ([]string, error) {
	cond := ""
	switch q.Role {
	case permit.SiteRoleAdmin:
		cond = " AND site_admin = 1"
	case permit.SiteRoleOwner:
		cond = " AND site_owner = 1"
	case permit.SiteRoleAssigned:
	default:
		return nil, fmt.Errorf("unknown site role %q", q.Role)
	}
	query := `SELECT site_id FROM site_members WHERE tenant_id = :tenant_id AND user_id = :user_id` +
		cond + ` ORDER BY site_id LIMIT :limit`
	r, err := s.db.NamedQueryContext(ctx, query, map[string]any{
		"tenant_id": tenantID,
		"user_id":   q.ActorID,
		"limit":     clampLimit(q.Limit, permit.MaxScopeLimit),
	})
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out := make([]string, 0)
	for r.Next() {
		var siteID string
		if err := r.Scan(&siteID); err != nil {
			return nil, err
		}
		out = append(out, siteID)
	}
	return out, nil
}

func (s *SQLScopeStore) ListAssetsForSite(ctx context.Context, tenantID, siteID string) ([]string, error) {
	query := `SELECT asset_id FROM site_assets WHERE tenant_id = :tenant_id AND site_id = :site_id ORDER BY asset_id`
	r, err := s.db.NamedQueryContext(ctx, query, map[string]any{
		"tenant_id": tenantID,
		"site_id":   siteID,
	})
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out := make([]string, 0)
	for r.Next() {
		var assetID string
		if err := r.Scan(&assetID); err != nil {
			return nil, err
		}
		out = append(out, assetID)
	}
	return out, nil
}

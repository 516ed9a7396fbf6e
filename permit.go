// Package permit is an access-control decision engine for a multi-tenant
// resource-management platform (companies, sites, site areas, users, tags,
// assets, vehicles, charging stations). For every attempted operation it
// answers three questions in one pass: whether the actor's role statically
// permits the action on the entity type, which instances a data-dependent
// dynamic filter leaves visible or mutable, and which record fields may be
// returned.
package permit

import (
	"context"
	"time"
)

// ============================================================================
// DOMAIN OBJECTS
// ============================================================================

// Role is the closed set of platform roles.
type Role string

const (
	// RoleAdmin bypasses all dynamic site scoping.
	RoleAdmin Role = "admin"
	RoleBasic Role = "basic"
	RoleDemo  Role = "demo"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleBasic, RoleDemo:
		return true
	}
	return false
}

// Entity identifies the type of record an action targets.
type Entity string

const (
	EntityCompany         Entity = "company"
	EntitySite            Entity = "site"
	EntitySiteArea        Entity = "siteArea"
	EntityUser            Entity = "user"
	EntityTag             Entity = "tag"
	EntityAsset           Entity = "asset"
	EntityVehicle         Entity = "vehicle"
	EntityChargingStation Entity = "chargingStation"
)

// Valid reports whether e is one of the known entities.
func (e Entity) Valid() bool {
	switch e {
	case EntityCompany, EntitySite, EntitySiteArea, EntityUser, EntityTag,
		EntityAsset, EntityVehicle, EntityChargingStation:
		return true
	}
	return false
}

// Action identifies what the actor is attempting. Structurally similar
// operations on different entities keep distinct values (assigning assets to a
// site area is not the generic "assign") so the grant table can never conflate
// them.
type Action string

const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"

	ActionAssignUsersToSite          Action = "assignUsersToSite"
	ActionUnassignUsersFromSite      Action = "unassignUsersFromSite"
	ActionAssignAssetsToSiteArea     Action = "assignAssetsToSiteArea"
	ActionUnassignAssetsFromSiteArea Action = "unassignAssetsFromSiteArea"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionList, ActionRead, ActionCreate, ActionUpdate, ActionDelete,
		ActionAssignUsersToSite, ActionUnassignUsersFromSite,
		ActionAssignAssetsToSiteArea, ActionUnassignAssetsFromSiteArea:
		return true
	}
	return false
}

// Tenant is the organization the decision runs under. When the organization
// component is disabled, site-scoping filters grant unconditional access
// instead of narrowing.
type Tenant struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	OrganizationEnabled bool   `json:"organization_enabled"`
}

// Actor is the authenticated identity attempting an action. Authentication
// happens upstream; the engine only reads these fields.
type Actor struct {
	ID       string `json:"id"`
	Role     Role   `json:"role"`
	TenantID string `json:"tenant_id"`
}

// FilterParams carries caller-supplied parameters that dynamic filters narrow
// against. SiteIDs is a pipe-delimited list of requested site IDs; SiteID is a
// single target site (record-scoped checks set it to the record's site).
type FilterParams struct {
	SiteIDs    string   `json:"site_ids"`
	SiteID     string   `json:"site_id"`
	SiteAreaID string   `json:"site_area_id"`
	AssetIDs   []string `json:"asset_ids"`
	UserID     string   `json:"user_id"`
}

// AuthorizationRequest is the optional caller input to a decision: extra
// filter parameters plus a requested field projection.
type AuthorizationRequest struct {
	Params FilterParams `json:"params"`
	Fields []string     `json:"fields"`
}

// ============================================================================
// STORAGE COLLABORATOR
// ============================================================================

// MaxScopeLimit bounds how many site IDs a single scope resolution may pull
// from storage.
const MaxScopeLimit = 500

// SiteRole selects which relationship between actor and site a scope query
// resolves.
type SiteRole string

const (
	SiteRoleAssigned SiteRole = "assigned"
	SiteRoleAdmin    SiteRole = "admin"
	SiteRoleOwner    SiteRole = "owner"
)

// SiteScopeQuery parameterizes ListSitesForActor.
type SiteScopeQuery struct {
	ActorID string
	Role    SiteRole
	Limit   int
}

// ScopeStore is the storage collaborator resolving ID scopes. Implementations
// live in the stores package; the engine issues at most one call per scope
// kind per decision through the DataSourceCache.
type ScopeStore interface {
	ListSitesForActor(ctx context.Context, tenantID string, q SiteScopeQuery) ([]string, error)
	ListAssetsForSite(ctx context.Context, tenantID, siteID string) ([]string, error)
}

// ============================================================================
// AUDIT
// ============================================================================

// AuditEntry records one top-level authorization decision.
type AuditEntry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	TenantID   string    `json:"tenant_id"`
	ActorID    string    `json:"actor_id"`
	Role       Role      `json:"role"`
	Entity     Entity    `json:"entity"`
	Action     Action    `json:"action"`
	Authorized bool      `json:"authorized"`
	Context    string    `json:"context"`
	TraceID    string    `json:"trace_id"`
}

// AuditFilter for querying the decision log.
type AuditFilter struct {
	ActorID   string
	Entity    Entity
	Action    Action
	StartTime time.Time
	EndTime   time.Time
	Limit     int
}

// AuditStore persists decision audit entries.
type AuditStore interface {
	LogDecision(ctx context.Context, entry *AuditEntry) error
	GetDecisionLog(ctx context.Context, filter AuditFilter) ([]*AuditEntry, error)
}

package permit

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/oarkflow/permit/utils"
)

// ============================================================================
// DYNAMIC FILTERS
// ============================================================================

// Evaluation bundles everything one decision needs: the immutable inputs, the
// mutable Decision (with its decision-scoped DataSourceCache) and the storage
// collaborator.
type Evaluation struct {
	Tenant   *Tenant
	Actor    *Actor
	Entity   Entity
	Action   Action
	Params   FilterParams
	Decision *Decision
	Store    ScopeStore
}

// DynamicFilter narrows an authorization result using resolved scope data and
// caller-supplied parameters. Process may flip Decision.Authorized either way
// and add filter constraints; storage failures are returned unchanged, never
// converted into a denial.
type DynamicFilter interface {
	Kind() FilterKind
	Process(ctx context.Context, ev *Evaluation) error
}

// FilterRegistry maps filter kinds to implementations. The set is fixed at
// engine construction.
type FilterRegistry struct {
	filters map[FilterKind]DynamicFilter
}

func NewFilterRegistry(filters ...DynamicFilter) *FilterRegistry {
	r := &FilterRegistry{filters: make(map[FilterKind]DynamicFilter, len(filters))}
	for _, f := range filters {
		r.Register(f)
	}
	return r
}

// DefaultFilterRegistry returns a registry with all built-in filters.
func DefaultFilterRegistry() *FilterRegistry {
	return NewFilterRegistry(
		AssignedSitesFilter{},
		SiteAdminOrOwnerFilter{},
		AssetAssignmentFilter{},
		OwnUserFilter{},
	)
}

// Register installs f, replacing any previous implementation of its kind.
func (r *FilterRegistry) Register(f DynamicFilter) {
	r.filters[f.Kind()] = f
}

// Resolve returns the implementation for kind or ErrFilterNotRegistered.
func (r *FilterRegistry) Resolve(kind FilterKind) (DynamicFilter, error) {
	f, ok := r.filters[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFilterNotRegistered, kind)
	}
	return f, nil
}

// Apply evaluates the ordered AND-of-OR filter expression against ev,
// mutating ev.Decision. Each OR-group authorizes when any alternative
// authorizes; only authorized alternatives contribute filters. A failed
// AND-group stops evaluation immediately. A filter kind with no
// implementation is a configuration defect and aborts with a ForbiddenError,
// never a silent pass.
func (r *FilterRegistry) Apply(ctx context.Context, ev *Evaluation, groups [][]FilterKind) error {
	for _, group := range groups {
		groupAuthorized := false
		merged := make(map[FilterKey]any)
		for _, kind := range group {
			f, err := r.Resolve(kind)
			if err != nil {
				return forbidden(ev, "declared dynamic filter has no implementation", err)
			}
			alt := newDecision(true, ev.Decision.Sources)
			alt.ProjectFields = ev.Decision.ProjectFields
			altEv := *ev
			altEv.Decision = alt
			if err := f.Process(ctx, &altEv); err != nil {
				return err
			}
			if !alt.Authorized {
				continue
			}
			groupAuthorized = true
			for k, v := range alt.Filters {
				if prev, ok := merged[k]; ok && !sameFilterValue(prev, v) {
					return forbidden(ev,
						fmt.Sprintf("alternatives of one OR-group disagree on filter key %q", k),
						ErrConflictingFilters)
				}
				merged[k] = v
			}
		}
		ev.Decision.Authorized = groupAuthorized
		if !groupAuthorized {
			return nil
		}
		for k, v := range merged {
			mergeFilterValue(ev.Decision, k, v)
		}
		if !ev.Decision.Authorized {
			return nil
		}
	}
	return nil
}

// mergeFilterValue folds a group contribution into the decision. When both
// the existing and the new value are ID sets the result is their
// intersection, so accumulated filters can only narrow; an empty intersection
// denies.
func mergeFilterValue(dec *Decision, key FilterKey, v any) {
	prev, ok := dec.Filters[key]
	if !ok {
		dec.SetFilter(key, v)
		return
	}
	prevIDs, prevOK := prev.([]string)
	nextIDs, nextOK := v.([]string)
	if prevOK && nextOK {
		effective := utils.Intersect(prevIDs, nextIDs)
		dec.SetFilter(key, effective)
		if len(effective) == 0 {
			dec.Authorized = false
		}
		return
	}
	dec.SetFilter(key, v)
}

func sameFilterValue(a, b any) bool {
	aIDs, aOK := a.([]string)
	bIDs, bOK := b.([]string)
	if aOK && bOK {
		if len(aIDs) != len(bIDs) {
			return false
		}
		sa := slices.Clone(aIDs)
		sb := slices.Clone(bIDs)
		slices.Sort(sa)
		slices.Sort(sb)
		return slices.Equal(sa, sb)
	}
	return reflect.DeepEqual(a, b)
}

// ============================================================================
// SCOPE RESOLUTION HELPERS
// ============================================================================

func scopeKindFor(role SiteRole) ScopeKind {
	switch role {
	case SiteRoleAdmin:
		return ScopeAdminSites
	case SiteRoleOwner:
		return ScopeOwnedSites
	default:
		return ScopeAssignedSites
	}
}

// resolveSiteScope returns the actor's site IDs for the given relationship,
// memoized in the decision cache so multiple filter kinds needing the same
// scope within one decision issue at most one storage call.
func resolveSiteScope(ctx context.Context, ev *Evaluation, role SiteRole) ([]string, error) {
	key := scopeKey(ev.Tenant.ID, ev.Actor.ID, scopeKindFor(role))
	return ev.Decision.Sources.LoadIDs(key, func() ([]string, error) {
		return ev.Store.ListSitesForActor(ctx, ev.Tenant.ID, SiteScopeQuery{
			ActorID: ev.Actor.ID,
			Role:    role,
			Limit:   MaxScopeLimit,
		})
	})
}

// resolveSiteAssets returns the asset IDs currently assigned to siteID,
// memoized in the decision cache.
func resolveSiteAssets(ctx context.Context, ev *Evaluation, siteID string) ([]string, error) {
	key := siteAssetsKey(ev.Tenant.ID, siteID)
	return ev.Decision.Sources.LoadIDs(key, func() ([]string, error) {
		return ev.Store.ListAssetsForSite(ctx, ev.Tenant.ID, siteID)
	})
}

// requestedSiteIDs folds the caller's pipe-delimited list and single-site
// parameter into one request set.
func requestedSiteIDs(p FilterParams) []string {
	ids := utils.SplitIDList(p.SiteIDs, "|")
	if p.SiteID != "" && !utils.Contains(ids, p.SiteID) {
		ids = append(ids, p.SiteID)
	}
	return ids
}

// narrowToSites applies the intersection rule: when the caller requested
// specific site IDs, the effective set is the intersection of scope and
// request. An out-of-scope request is dropped silently, never an error. An
// empty effective set denies.
func narrowToSites(ev *Evaluation, scope []string) {
	requested := requestedSiteIDs(ev.Params)
	effective := scope
	if len(requested) > 0 {
		effective = utils.Intersect(scope, requested)
	}
	if effective == nil {
		effective = []string{}
	}
	ev.Decision.SetFilter(FilterSiteIDs, effective)
	ev.Decision.Authorized = len(effective) > 0
}

// ============================================================================
// BUILT-IN FILTERS
// ============================================================================

// AssignedSitesFilter restricts visibility to the sites the actor is assigned
// to. Admin-tier actors are never site-scoped, and a tenant without the
// organization component grants unconditional access instead of narrowing.
type AssignedSitesFilter struct{}

func (AssignedSitesFilter) Kind() FilterKind { return FilterKindAssignedSites }

func (AssignedSitesFilter) Process(ctx context.Context, ev *Evaluation) error {
	if ev.Actor.Role == RoleAdmin || !ev.Tenant.OrganizationEnabled {
		ev.Decision.Authorized = true
		return nil
	}
	scope, err := resolveSiteScope(ctx, ev, SiteRoleAssigned)
	if err != nil {
		return err
	}
	narrowToSites(ev, scope)
	return nil
}

// SiteAdminOrOwnerFilter restricts mutation to the union of sites the actor
// administers and sites the actor owns.
type SiteAdminOrOwnerFilter struct{}

func (SiteAdminOrOwnerFilter) Kind() FilterKind { return FilterKindSiteAdminOrOwner }

func (SiteAdminOrOwnerFilter) Process(ctx context.Context, ev *Evaluation) error {
	if ev.Actor.Role == RoleAdmin || !ev.Tenant.OrganizationEnabled {
		ev.Decision.Authorized = true
		return nil
	}
	adminSites, err := resolveSiteScope(ctx, ev, SiteRoleAdmin)
	if err != nil {
		return err
	}
	ownedSites, err := resolveSiteScope(ctx, ev, SiteRoleOwner)
	if err != nil {
		return err
	}
	narrowToSites(ev, utils.Union(adminSites, ownedSites))
	return nil
}

// AssetAssignmentFilter guards assigning and unassigning assets to a site
// area. A non-admin actor must administer the target site, and the whole
// batch must be directionally consistent: every asset being added must be
// currently unassigned, every asset being removed must be currently assigned.
// A single inconsistent ID fails the batch.
type AssetAssignmentFilter struct{}

func (AssetAssignmentFilter) Kind() FilterKind { return FilterKindAssetAssignment }

func (AssetAssignmentFilter) Process(ctx context.Context, ev *Evaluation) error {
	if !ev.Tenant.OrganizationEnabled {
		ev.Decision.Authorized = true
		return nil
	}
	siteID := ev.Params.SiteID
	if siteID == "" {
		ev.Decision.Authorized = false
		return nil
	}
	if ev.Actor.Role != RoleAdmin {
		adminSites, err := resolveSiteScope(ctx, ev, SiteRoleAdmin)
		if err != nil {
			return err
		}
		if !utils.Contains(adminSites, siteID) {
			ev.Decision.Authorized = false
			return nil
		}
	}
	assigned, err := resolveSiteAssets(ctx, ev, siteID)
	if err != nil {
		return err
	}
	removing := ev.Action == ActionUnassignAssetsFromSiteArea
	for _, assetID := range ev.Params.AssetIDs {
		if utils.Contains(assigned, assetID) != removing {
			ev.Decision.Authorized = false
			return nil
		}
	}
	ev.Decision.Authorized = true
	ev.Decision.SetFilter(FilterSiteIDs, []string{siteID})
	return nil
}

// OwnUserFilter restricts user-owned records to the acting user itself.
type OwnUserFilter struct{}

func (OwnUserFilter) Kind() FilterKind { return FilterKindOwnUser }

func (OwnUserFilter) Process(_ context.Context, ev *Evaluation) error {
	if ev.Actor.Role == RoleAdmin {
		ev.Decision.Authorized = true
		return nil
	}
	if ev.Params.UserID != "" && ev.Params.UserID != ev.Actor.ID {
		ev.Decision.Authorized = false
		return nil
	}
	ev.Decision.SetFilter(FilterUserID, ev.Actor.ID)
	ev.Decision.Authorized = true
	return nil
}

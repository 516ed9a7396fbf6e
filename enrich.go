package permit

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ============================================================================
// RECORD ENRICHMENT
// ============================================================================

// capabilityCheck binds one action to the setter of the flag it controls. The
// per-entity tables below replace switch dispatch on action enums, keeping
// the flag/action pairing in one place per entity.
type capabilityCheck struct {
	action Action
	set    func(bool)
}

// applyCapabilities runs one decision per capability flag for a single
// record. All flags of one record share one DataSourceCache; the cache never
// outlives the record, so scope resolutions cannot leak into another record's
// decisions.
func (e *Engine) applyCapabilities(ctx context.Context, tenant *Tenant, actor *Actor, entity Entity, params FilterParams, checks []capabilityCheck) error {
	sources := NewDataSourceCache()
	req := &AuthorizationRequest{Params: params}
	for _, c := range checks {
		dec, err := e.evaluate(ctx, tenant, actor, entity, c.action, req, sources)
		if err != nil {
			return err
		}
		c.set(dec.Authorized)
	}
	return nil
}

// addCollectionAuthorizations computes the root create flag once, then
// enriches every record over a bounded worker pool. Records are independent:
// each gets its own decision-scoped cache inside enrich.
func addCollectionAuthorizations[T any](ctx context.Context, e *Engine, tenant *Tenant, actor *Actor, entity Entity, col *Collection[T], enrich func(context.Context, T) error) error {
	createDec, err := e.evaluate(ctx, tenant, actor, entity, ActionCreate, nil, NewDataSourceCache())
	if err != nil {
		return err
	}
	col.CanCreate = createDec.Authorized

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.enrichWorkers)
	for _, rec := range col.Result {
		g.Go(func() error {
			return enrich(gctx, rec)
		})
	}
	return g.Wait()
}

// AddCompanyAuthorizations sets capability flags on one company. Companies
// are scoped through the sites assigned to the actor, so the record carries
// no extra parameters beyond its own identity. A company replicated from
// another organization is read-only without any lookups.
func (e *Engine) AddCompanyAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, company *Company) error {
	if !company.Issuer {
		company.readOnly()
		return nil
	}
	return e.applyCapabilities(ctx, tenant, actor, EntityCompany, FilterParams{}, []capabilityCheck{
		{ActionRead, func(v bool) { company.CanRead = v }},
		{ActionUpdate, func(v bool) { company.CanUpdate = v }},
		{ActionDelete, func(v bool) { company.CanDelete = v }},
	})
}

// AddCompaniesAuthorizations enriches a company collection.
func (e *Engine) AddCompaniesAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, col *Collection[*Company]) error {
	return addCollectionAuthorizations(ctx, e, tenant, actor, EntityCompany, col, func(gctx context.Context, c *Company) error {
		return e.AddCompanyAuthorizations(gctx, tenant, actor, c)
	})
}

// AddSiteAuthorizations sets capability flags on one site. Every decision is
// scoped to the site's own ID so the site filters narrow against it. A site
// belonging to another organization is read-only without any lookups.
func (e *Engine) AddSiteAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, site *Site) error {
	if !site.Issuer {
		site.readOnly()
		site.CanAssignUsers = false
		site.CanUnassignUsers = false
		return nil
	}
	params := FilterParams{SiteID: site.ID}
	return e.applyCapabilities(ctx, tenant, actor, EntitySite, params, []capabilityCheck{
		{ActionRead, func(v bool) { site.CanRead = v }},
		{ActionUpdate, func(v bool) { site.CanUpdate = v }},
		{ActionDelete, func(v bool) { site.CanDelete = v }},
		{ActionAssignUsersToSite, func(v bool) { site.CanAssignUsers = v }},
		{ActionUnassignUsersFromSite, func(v bool) { site.CanUnassignUsers = v }},
	})
}

// AddSitesAuthorizations enriches a site collection.
func (e *Engine) AddSitesAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, col *Collection[*Site]) error {
	return addCollectionAuthorizations(ctx, e, tenant, actor, EntitySite, col, func(gctx context.Context, s *Site) error {
		return e.AddSiteAuthorizations(gctx, tenant, actor, s)
	})
}

// AddSiteAreaAuthorizations sets capability flags on one site area. The
// decisions carry both the area's ID and its parent site's ID, since dynamic
// filters may scope by either. An area of a foreign site is read-only without
// any lookups.
func (e *Engine) AddSiteAreaAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, area *SiteArea) error {
	if !area.Issuer {
		area.readOnly()
		area.CanAssignAssets = false
		area.CanUnassignAssets = false
		return nil
	}
	params := FilterParams{SiteID: area.SiteID, SiteAreaID: area.ID}
	return e.applyCapabilities(ctx, tenant, actor, EntitySiteArea, params, []capabilityCheck{
		{ActionRead, func(v bool) { area.CanRead = v }},
		{ActionUpdate, func(v bool) { area.CanUpdate = v }},
		{ActionDelete, func(v bool) { area.CanDelete = v }},
		{ActionAssignAssetsToSiteArea, func(v bool) { area.CanAssignAssets = v }},
		{ActionUnassignAssetsFromSiteArea, func(v bool) { area.CanUnassignAssets = v }},
	})
}

// AddSiteAreasAuthorizations enriches a site-area collection.
func (e *Engine) AddSiteAreasAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, col *Collection[*SiteArea]) error {
	return addCollectionAuthorizations(ctx, e, tenant, actor, EntitySiteArea, col, func(gctx context.Context, a *SiteArea) error {
		return e.AddSiteAreaAuthorizations(gctx, tenant, actor, a)
	})
}

// AddUserAuthorizations sets capability flags on one user record.
func (e *Engine) AddUserAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, user *User) error {
	params := FilterParams{UserID: user.ID}
	return e.applyCapabilities(ctx, tenant, actor, EntityUser, params, []capabilityCheck{
		{ActionRead, func(v bool) { user.CanRead = v }},
		{ActionUpdate, func(v bool) { user.CanUpdate = v }},
		{ActionDelete, func(v bool) { user.CanDelete = v }},
	})
}

// AddUsersAuthorizations enriches a user collection.
func (e *Engine) AddUsersAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, col *Collection[*User]) error {
	return addCollectionAuthorizations(ctx, e, tenant, actor, EntityUser, col, func(gctx context.Context, u *User) error {
		return e.AddUserAuthorizations(gctx, tenant, actor, u)
	})
}

// AddTagAuthorizations sets capability flags on one tag. A tag issued by
// another organization is read-only without any lookups.
func (e *Engine) AddTagAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, tag *Tag) error {
	if !tag.Issuer {
		tag.readOnly()
		return nil
	}
	params := FilterParams{UserID: tag.UserID}
	return e.applyCapabilities(ctx, tenant, actor, EntityTag, params, []capabilityCheck{
		{ActionRead, func(v bool) { tag.CanRead = v }},
		{ActionUpdate, func(v bool) { tag.CanUpdate = v }},
		{ActionDelete, func(v bool) { tag.CanDelete = v }},
	})
}

// AddTagsAuthorizations enriches a tag collection.
func (e *Engine) AddTagsAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, col *Collection[*Tag]) error {
	return addCollectionAuthorizations(ctx, e, tenant, actor, EntityTag, col, func(gctx context.Context, t *Tag) error {
		return e.AddTagAuthorizations(gctx, tenant, actor, t)
	})
}

// AddAssetAuthorizations sets capability flags on one asset, scoped by the
// site it belongs to. An asset of another organization is read-only without
// any lookups.
func (e *Engine) AddAssetAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, asset *Asset) error {
	if !asset.Issuer {
		asset.readOnly()
		return nil
	}
	params := FilterParams{SiteID: asset.SiteID, SiteAreaID: asset.SiteAreaID}
	return e.applyCapabilities(ctx, tenant, actor, EntityAsset, params, []capabilityCheck{
		{ActionRead, func(v bool) { asset.CanRead = v }},
		{ActionUpdate, func(v bool) { asset.CanUpdate = v }},
		{ActionDelete, func(v bool) { asset.CanDelete = v }},
	})
}

// AddAssetsAuthorizations enriches an asset collection.
func (e *Engine) AddAssetsAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, col *Collection[*Asset]) error {
	return addCollectionAuthorizations(ctx, e, tenant, actor, EntityAsset, col, func(gctx context.Context, a *Asset) error {
		return e.AddAssetAuthorizations(gctx, tenant, actor, a)
	})
}

// AddVehicleAuthorizations sets capability flags on one vehicle. Externally
// sourced vehicles are read-only without lookups.
func (e *Engine) AddVehicleAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, vehicle *Vehicle) error {
	if !vehicle.Issuer {
		vehicle.readOnly()
		return nil
	}
	params := FilterParams{UserID: vehicle.UserID}
	return e.applyCapabilities(ctx, tenant, actor, EntityVehicle, params, []capabilityCheck{
		{ActionRead, func(v bool) { vehicle.CanRead = v }},
		{ActionUpdate, func(v bool) { vehicle.CanUpdate = v }},
		{ActionDelete, func(v bool) { vehicle.CanDelete = v }},
	})
}

// AddVehiclesAuthorizations enriches a vehicle collection.
func (e *Engine) AddVehiclesAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, col *Collection[*Vehicle]) error {
	return addCollectionAuthorizations(ctx, e, tenant, actor, EntityVehicle, col, func(gctx context.Context, v *Vehicle) error {
		return e.AddVehicleAuthorizations(gctx, tenant, actor, v)
	})
}

// AddChargingStationAuthorizations sets capability flags on one charging
// station. Roaming stations (issuer=false) are read-only without lookups.
func (e *Engine) AddChargingStationAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, station *ChargingStation) error {
	if !station.Issuer {
		station.readOnly()
		return nil
	}
	params := FilterParams{SiteID: station.SiteID, SiteAreaID: station.SiteAreaID}
	return e.applyCapabilities(ctx, tenant, actor, EntityChargingStation, params, []capabilityCheck{
		{ActionRead, func(v bool) { station.CanRead = v }},
		{ActionUpdate, func(v bool) { station.CanUpdate = v }},
		{ActionDelete, func(v bool) { station.CanDelete = v }},
	})
}

// AddChargingStationsAuthorizations enriches a charging-station collection.
func (e *Engine) AddChargingStationsAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, col *Collection[*ChargingStation]) error {
	return addCollectionAuthorizations(ctx, e, tenant, actor, EntityChargingStation, col, func(gctx context.Context, s *ChargingStation) error {
		return e.AddChargingStationAuthorizations(gctx, tenant, actor, s)
	})
}

package permit

import "context"

// Per-entity convenience wrappers mirroring how request handlers call the
// engine: the plural form is the non-throwing listing decision, the singular
// form raises ForbiddenError on denial.

func (e *Engine) CheckAndGetCompaniesAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, req *AuthorizationRequest) (*Decision, error) {
	return e.CheckAndGetAuthorizationFilters(ctx, tenant, actor, EntityCompany, ActionList, req)
}

func (e *Engine) CheckAndGetCompanyAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, req *AuthorizationRequest) (*Decision, error) {
	return e.CheckAndGetSingleAuthorizationFilters(ctx, tenant, actor, EntityCompany, ActionRead, req)
}

func (e *Engine) CheckAndGetSitesAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, req *AuthorizationRequest) (*Decision, error) {
	return e.CheckAndGetAuthorizationFilters(ctx, tenant, actor, EntitySite, ActionList, req)
}

func (e *Engine) CheckAndGetSiteAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, req *AuthorizationRequest) (*Decision, error) {
	return e.CheckAndGetSingleAuthorizationFilters(ctx, tenant, actor, EntitySite, ActionRead, req)
}

func (e *Engine) CheckAndGetSiteAreasAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, req *AuthorizationRequest) (*Decision, error) {
	return e.CheckAndGetAuthorizationFilters(ctx, tenant, actor, EntitySiteArea, ActionList, req)
}

func (e *Engine) CheckAndGetSiteAreaAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, req *AuthorizationRequest) (*Decision, error) {
	return e.CheckAndGetSingleAuthorizationFilters(ctx, tenant, actor, EntitySiteArea, ActionRead, req)
}

func (e *Engine) CheckAndGetUsersAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, req *AuthorizationRequest) (*Decision, error) {
	return e.CheckAndGetAuthorizationFilters(ctx, tenant, actor, EntityUser, ActionList, req)
}

func (e *Engine) CheckAndGetUserAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, req *AuthorizationRequest) (*Decision, error) {
	return e.CheckAndGetSingleAuthorizationFilters(ctx, tenant, actor, EntityUser, ActionRead, req)
}

func (e *Engine) CheckAndGetTagsAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, req *AuthorizationRequest) (*Decision, error) {
	return e.CheckAndGetAuthorizationFilters(ctx, tenant, actor, EntityTag, ActionList, req)
}

func (e *Engine) CheckAndGetTagAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, req *AuthorizationRequest) (*Decision, error) {
	return e.CheckAndGetSingleAuthorizationFilters(ctx, tenant, actor, EntityTag, ActionRead, req)
}

func (e *Engine) CheckAndGetAssetsAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, req *AuthorizationRequest) (*Decision, error) {
	return e.CheckAndGetAuthorizationFilters(ctx, tenant, actor, EntityAsset, ActionList, req)
}

func (e *Engine) CheckAndGetAssetAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, req *AuthorizationRequest) (*Decision, error) {
	return e.CheckAndGetSingleAuthorizationFilters(ctx, tenant, actor, EntityAsset, ActionRead, req)
}

func (e *Engine) CheckAndGetVehiclesAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, req *AuthorizationRequest) (*Decision, error) {
	return e.CheckAndGetAuthorizationFilters(ctx, tenant, actor, EntityVehicle, ActionList, req)
}

func (e *Engine) CheckAndGetVehicleAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, req *AuthorizationRequest) (*Decision, error) {
	return e.CheckAndGetSingleAuthorizationFilters(ctx, tenant, actor, EntityVehicle, ActionRead, req)
}

func (e *Engine) CheckAndGetChargingStationsAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, req *AuthorizationRequest) (*Decision, error) {
	return e.CheckAndGetAuthorizationFilters(ctx, tenant, actor, EntityChargingStation, ActionList, req)
}

func (e *Engine) CheckAndGetChargingStationAuthorizations(ctx context.Context, tenant *Tenant, actor *Actor, req *AuthorizationRequest) (*Decision, error) {
	return e.CheckAndGetSingleAuthorizationFilters(ctx, tenant, actor, EntityChargingStation, ActionRead, req)
}

package permit

// ============================================================================
// STATIC PERMISSION TABLE
// ============================================================================

// FilterKind tags one dynamic filter implementation. The set is closed; grant
// configuration referencing an unknown kind is a configuration defect.
type FilterKind string

const (
	FilterKindAssignedSites    FilterKind = "AssignedSites"
	FilterKindSiteAdminOrOwner FilterKind = "SiteAdminOrOwner"
	FilterKindAssetAssignment  FilterKind = "AssetAssignment"
	FilterKindOwnUser          FilterKind = "OwnUser"
)

// Valid reports whether k is one of the known filter kinds.
func (k FilterKind) Valid() bool {
	switch k {
	case FilterKindAssignedSites, FilterKindSiteAdminOrOwner,
		FilterKindAssetAssignment, FilterKindOwnUser:
		return true
	}
	return false
}

// StaticGrant is the fixed (role, entity, action) outcome: whether the action
// is allowed at all, which fields may be returned, and which dynamic filters
// further narrow instance visibility. FilterRefs is an ordered AND of ordered
// OR-groups.
type StaticGrant struct {
	Authorized bool
	Fields     []string
	FilterRefs [][]FilterKind
}

// GrantTable resolves static grants. It is built once at process start and
// treated as immutable afterward; lookups are pure and perform no I/O. There
// is no fallback grant: absence means not authorized.
type GrantTable struct {
	grants map[Role]map[Entity]map[Action]StaticGrant
}

func NewGrantTable() *GrantTable {
	return &GrantTable{grants: make(map[Role]map[Entity]map[Action]StaticGrant)}
}

// Set installs the grant for (role, entity, action), replacing any previous
// definition so each triple keeps exactly one grant.
func (t *GrantTable) Set(role Role, entity Entity, action Action, g StaticGrant) {
	byEntity, ok := t.grants[role]
	if !ok {
		byEntity = make(map[Entity]map[Action]StaticGrant)
		t.grants[role] = byEntity
	}
	byAction, ok := byEntity[entity]
	if !ok {
		byAction = make(map[Action]StaticGrant)
		byEntity[entity] = byAction
	}
	byAction[action] = g
}

// Resolve returns the grant for (role, entity, action). The second return is
// false when no grant is defined, which callers must treat as not authorized.
func (t *GrantTable) Resolve(role Role, entity Entity, action Action) (StaticGrant, bool) {
	byEntity, ok := t.grants[role]
	if !ok {
		return StaticGrant{}, false
	}
	byAction, ok := byEntity[entity]
	if !ok {
		return StaticGrant{}, false
	}
	g, ok := byAction[action]
	return g, ok
}

// Field sets per entity. The demo role gets the reduced variants.
var (
	companyFields  = []string{"id", "name", "address", "logo", "issuer"}
	siteFields     = []string{"id", "name", "address", "companyID", "public", "autoUserSiteAssignment", "issuer"}
	siteAreaFields = []string{"id", "name", "siteID", "maximumPower", "accessControl", "issuer"}
	userFields     = []string{"id", "name", "firstName", "email", "role", "status", "locale"}
	tagFields      = []string{"id", "visualID", "description", "active", "userID", "issuer", "default"}
	assetFields    = []string{"id", "name", "siteAreaID", "siteID", "assetType", "dynamicAsset", "issuer"}
	vehicleFields  = []string{"id", "vin", "licensePlate", "userID", "vehicleModel", "issuer"}
	stationFields  = []string{"id", "chargePointVendor", "chargePointModel", "siteAreaID", "siteID", "public", "issuer", "inactive"}

	companyFieldsDemo  = []string{"id", "name", "logo"}
	siteFieldsDemo     = []string{"id", "name", "address", "companyID", "public"}
	siteAreaFieldsDemo = []string{"id", "name", "siteID", "maximumPower"}
	stationFieldsDemo  = []string{"id", "chargePointVendor", "chargePointModel", "siteAreaID", "siteID", "public"}
	assetFieldsDemo    = []string{"id", "name", "siteAreaID", "siteID", "assetType"}
)

func grant(fields []string, refs ...[]FilterKind) StaticGrant {
	return StaticGrant{Authorized: true, Fields: fields, FilterRefs: refs}
}

func or(kinds ...FilterKind) []FilterKind { return kinds }

// DefaultGrantTable builds the compiled-in role/entity/action table. Admin
// grants carry no filter refs: the admin tier is never site-scoped. Basic
// users see assigned sites only and manage the ones they administer or own.
// Demo users are read-only on non-personal entities.
func DefaultGrantTable() *GrantTable {
	t := NewGrantTable()

	// admin: full access, no dynamic narrowing
	adminGrants := []struct {
		entity  Entity
		fields  []string
		actions []Action
	}{
		{EntityCompany, companyFields, []Action{ActionList, ActionRead, ActionCreate, ActionUpdate, ActionDelete}},
		{EntitySite, siteFields, []Action{ActionList, ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionAssignUsersToSite, ActionUnassignUsersFromSite}},
		{EntitySiteArea, siteAreaFields, []Action{ActionList, ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionAssignAssetsToSiteArea, ActionUnassignAssetsFromSiteArea}},
		{EntityUser, userFields, []Action{ActionList, ActionRead, ActionCreate, ActionUpdate, ActionDelete}},
		{EntityTag, tagFields, []Action{ActionList, ActionRead, ActionCreate, ActionUpdate, ActionDelete}},
		{EntityAsset, assetFields, []Action{ActionList, ActionRead, ActionCreate, ActionUpdate, ActionDelete}},
		{EntityVehicle, vehicleFields, []Action{ActionList, ActionRead, ActionCreate, ActionUpdate, ActionDelete}},
		{EntityChargingStation, stationFields, []Action{ActionList, ActionRead, ActionCreate, ActionUpdate, ActionDelete}},
	}
	for _, ag := range adminGrants {
		for _, action := range ag.actions {
			t.Set(RoleAdmin, ag.entity, action, grant(ag.fields))
		}
	}

	// basic
	t.Set(RoleBasic, EntityCompany, ActionList, grant(companyFields, or(FilterKindAssignedSites)))
	t.Set(RoleBasic, EntityCompany, ActionRead, grant(companyFields, or(FilterKindAssignedSites)))

	t.Set(RoleBasic, EntitySite, ActionList, grant(siteFields, or(FilterKindAssignedSites)))
	t.Set(RoleBasic, EntitySite, ActionRead, grant(siteFields, or(FilterKindAssignedSites)))
	t.Set(RoleBasic, EntitySite, ActionUpdate, grant(siteFields, or(FilterKindSiteAdminOrOwner)))
	t.Set(RoleBasic, EntitySite, ActionAssignUsersToSite, grant(siteFields, or(FilterKindSiteAdminOrOwner)))
	t.Set(RoleBasic, EntitySite, ActionUnassignUsersFromSite, grant(siteFields, or(FilterKindSiteAdminOrOwner)))

	t.Set(RoleBasic, EntitySiteArea, ActionList, grant(siteAreaFields, or(FilterKindAssignedSites)))
	t.Set(RoleBasic, EntitySiteArea, ActionRead, grant(siteAreaFields, or(FilterKindAssignedSites)))
	t.Set(RoleBasic, EntitySiteArea, ActionUpdate, grant(siteAreaFields, or(FilterKindSiteAdminOrOwner)))
	t.Set(RoleBasic, EntitySiteArea, ActionAssignAssetsToSiteArea, grant(siteAreaFields, or(FilterKindAssetAssignment)))
	t.Set(RoleBasic, EntitySiteArea, ActionUnassignAssetsFromSiteArea, grant(siteAreaFields, or(FilterKindAssetAssignment)))

	t.Set(RoleBasic, EntityUser, ActionRead, grant(userFields, or(FilterKindOwnUser)))
	t.Set(RoleBasic, EntityUser, ActionUpdate, grant(userFields, or(FilterKindOwnUser)))

	t.Set(RoleBasic, EntityTag, ActionList, grant(tagFields, or(FilterKindOwnUser)))
	t.Set(RoleBasic, EntityTag, ActionRead, grant(tagFields, or(FilterKindOwnUser)))

	t.Set(RoleBasic, EntityAsset, ActionList, grant(assetFields, or(FilterKindAssignedSites)))
	t.Set(RoleBasic, EntityAsset, ActionRead, grant(assetFields, or(FilterKindAssignedSites)))

	t.Set(RoleBasic, EntityVehicle, ActionList, grant(vehicleFields, or(FilterKindOwnUser)))
	t.Set(RoleBasic, EntityVehicle, ActionRead, grant(vehicleFields, or(FilterKindOwnUser)))

	t.Set(RoleBasic, EntityChargingStation, ActionList, grant(stationFields, or(FilterKindAssignedSites)))
	t.Set(RoleBasic, EntityChargingStation, ActionRead, grant(stationFields, or(FilterKindAssignedSites)))
	t.Set(RoleBasic, EntityChargingStation, ActionUpdate, grant(stationFields, or(FilterKindSiteAdminOrOwner)))

	// demo: read-only, no personal entities
	t.Set(RoleDemo, EntityCompany, ActionList, grant(companyFieldsDemo, or(FilterKindAssignedSites)))
	t.Set(RoleDemo, EntityCompany, ActionRead, grant(companyFieldsDemo, or(FilterKindAssignedSites)))
	t.Set(RoleDemo, EntitySite, ActionList, grant(siteFieldsDemo, or(FilterKindAssignedSites)))
	t.Set(RoleDemo, EntitySite, ActionRead, grant(siteFieldsDemo, or(FilterKindAssignedSites)))
	t.Set(RoleDemo, EntitySiteArea, ActionList, grant(siteAreaFieldsDemo, or(FilterKindAssignedSites)))
	t.Set(RoleDemo, EntitySiteArea, ActionRead, grant(siteAreaFieldsDemo, or(FilterKindAssignedSites)))
	t.Set(RoleDemo, EntityAsset, ActionList, grant(assetFieldsDemo, or(FilterKindAssignedSites)))
	t.Set(RoleDemo, EntityAsset, ActionRead, grant(assetFieldsDemo, or(FilterKindAssignedSites)))
	t.Set(RoleDemo, EntityChargingStation, ActionList, grant(stationFieldsDemo, or(FilterKindAssignedSites)))
	t.Set(RoleDemo, EntityChargingStation, ActionRead, grant(stationFieldsDemo, or(FilterKindAssignedSites)))

	return t
}

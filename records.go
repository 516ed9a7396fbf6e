package permit

// ============================================================================
// RECORDS
// ============================================================================

// AuthorizationFlags are the capability flags the enricher sets on every
// record before it leaves the platform.
type AuthorizationFlags struct {
	CanRead   bool `json:"canRead"`
	CanUpdate bool `json:"canUpdate"`
	CanDelete bool `json:"canDelete"`
}

func (f *AuthorizationFlags) readOnly() {
	f.CanRead = true
	f.CanUpdate = false
	f.CanDelete = false
}

// Company groups sites under one operator. Issuer=false marks a company
// replicated from another organization: visible but read-only here.
type Company struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Logo    string `json:"logo"`
	Issuer  bool   `json:"issuer"`
	AuthorizationFlags
}

// Site is a geographic location holding site areas, users and stations.
// Issuer=false marks a site belonging to another organization, always
// read-only.
type Site struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	Address                string `json:"address"`
	CompanyID              string `json:"companyID"`
	Public                 bool   `json:"public"`
	AutoUserSiteAssignment bool   `json:"autoUserSiteAssignment"`
	Issuer                 bool   `json:"issuer"`
	AuthorizationFlags
	CanAssignUsers   bool `json:"canAssignUsers"`
	CanUnassignUsers bool `json:"canUnassignUsers"`
}

// SiteArea is a sub-division of a site; assets and stations attach to it.
// Issuer=false marks an area of a foreign site, always read-only.
type SiteArea struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	SiteID        string  `json:"siteID"`
	MaximumPower  float64 `json:"maximumPower"`
	AccessControl bool    `json:"accessControl"`
	Issuer        bool    `json:"issuer"`
	AuthorizationFlags
	CanAssignAssets   bool `json:"canAssignAssets"`
	CanUnassignAssets bool `json:"canUnassignAssets"`
}

// User is a platform account.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Status    string `json:"status"`
	Locale    string `json:"locale"`
	AuthorizationFlags
}

// Tag is an RFID badge. Issuer=false marks a tag issued by another
// organization: it is visible but read-only here regardless of grants.
type Tag struct {
	ID          string `json:"id"`
	VisualID    string `json:"visualID"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
	UserID      string `json:"userID"`
	Issuer      bool   `json:"issuer"`
	Default     bool   `json:"default"`
	AuthorizationFlags
}

// Asset is a site-attached producer or consumer (battery, solar panel, ...).
// Issuer=false marks an asset of another organization, always read-only.
type Asset struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SiteAreaID   string `json:"siteAreaID"`
	SiteID       string `json:"siteID"`
	AssetType    string `json:"assetType"`
	DynamicAsset bool   `json:"dynamicAsset"`
	Issuer       bool   `json:"issuer"`
	AuthorizationFlags
}

// Vehicle is a user-owned electric vehicle. Issuer=false marks an externally
// sourced catalog record, always read-only.
type Vehicle struct {
	ID           string `json:"id"`
	VIN          string `json:"vin"`
	LicensePlate string `json:"licensePlate"`
	UserID       string `json:"userID"`
	VehicleModel string `json:"vehicleModel"`
	Issuer       bool   `json:"issuer"`
	AuthorizationFlags
}

// ChargingStation is a charge point. Issuer=false marks a roaming station
// belonging to another organization, always read-only.
type ChargingStation struct {
	ID                string `json:"id"`
	ChargePointVendor string `json:"chargePointVendor"`
	ChargePointModel  string `json:"chargePointModel"`
	SiteAreaID        string `json:"siteAreaID"`
	SiteID            string `json:"siteID"`
	Public            bool   `json:"public"`
	Inactive          bool   `json:"inactive"`
	Issuer            bool   `json:"issuer"`
	AuthorizationFlags
}

// Collection is a paginated result set plus its root-level capability flags.
type Collection[T any] struct {
	Count     int  `json:"count"`
	Result    []T  `json:"result"`
	CanCreate bool `json:"canCreate"`
}

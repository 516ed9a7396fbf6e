package permit

// ============================================================================
// DATA SOURCE CACHE (decision-scoped memoization)
// ============================================================================

// ScopeKind names a logical data source a dynamic filter may resolve.
type ScopeKind string

const (
	ScopeAssignedSites ScopeKind = "assignedSites"
	ScopeAdminSites    ScopeKind = "adminSites"
	ScopeOwnedSites    ScopeKind = "ownedSites"
	ScopeSiteAssets    ScopeKind = "siteAssets"
)

// DataSourceKey addresses one memoized resolution inside a DataSourceCache.
type DataSourceKey string

func scopeKey(tenantID, actorID string, kind ScopeKind) DataSourceKey {
	return DataSourceKey(tenantID + ":" + actorID + ":" + string(kind))
}

func siteAssetsKey(tenantID, siteID string) DataSourceKey {
	return DataSourceKey(tenantID + ":" + siteID + ":" + string(ScopeSiteAssets))
}

// DataSourceCache memoizes scope resolutions for the lifetime of exactly one
// decision. It is constructed fresh per top-level decision (or per record
// during enrichment), passed by reference through the evaluation, and
// discarded afterward. It is never shared across concurrent decisions and is
// not safe for concurrent use; a single decision runs on one goroutine.
type DataSourceCache struct {
	entries map[DataSourceKey][]string
	loads   int
}

func NewDataSourceCache() *DataSourceCache {
	return &DataSourceCache{entries: make(map[DataSourceKey][]string)}
}

// Get returns the memoized ID set for key.
func (c *DataSourceCache) Get(key DataSourceKey) ([]string, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Set stores an ID set under key, replacing any previous value.
func (c *DataSourceCache) Set(key DataSourceKey, ids []string) {
	c.entries[key] = ids
}

// LoadIDs returns the memoized value for key, invoking load on first use.
// A successful load is committed before returning, so later filters in the
// same decision reuse it even if the decision ultimately denies.
func (c *DataSourceCache) LoadIDs(key DataSourceKey, load func() ([]string, error)) ([]string, error) {
	if v, ok := c.entries[key]; ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return nil, err
	}
	c.loads++
	c.entries[key] = v
	return v, nil
}

// Len returns the number of memoized entries.
func (c *DataSourceCache) Len() int { return len(c.entries) }

// Loads returns how many loader invocations the cache has performed.
func (c *DataSourceCache) Loads() int { return c.loads }

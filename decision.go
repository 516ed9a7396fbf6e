package permit

// ============================================================================
// DECISION
// ============================================================================

// FilterKey names a constraint a decision accumulates for the caller to apply
// to its own query.
type FilterKey string

const (
	// FilterSiteIDs restricts results to the given site IDs.
	FilterSiteIDs FilterKey = "siteIDs"
	// FilterUserID restricts results to records owned by the given user.
	FilterUserID FilterKey = "userID"
)

// Decision is the mutable result threaded through one authorization
// evaluation. It lives for the duration of that evaluation only. Filters only
// ever narrow the universe of accessible instances, never widen it.
type Decision struct {
	Authorized    bool              `json:"authorized"`
	Filters       map[FilterKey]any `json:"filters"`
	ProjectFields []string          `json:"project_fields"`
	Sources       *DataSourceCache  `json:"-"`
}

func newDecision(authorized bool, sources *DataSourceCache) *Decision {
	return &Decision{
		Authorized: authorized,
		Filters:    make(map[FilterKey]any),
		Sources:    sources,
	}
}

// SetFilter records a constraint on the decision.
func (d *Decision) SetFilter(key FilterKey, value any) {
	d.Filters[key] = value
}

// SiteIDs returns the accumulated site-ID constraint, nil when no site
// scoping applies.
func (d *Decision) SiteIDs() []string {
	v, ok := d.Filters[FilterSiteIDs]
	if !ok {
		return nil
	}
	ids, _ := v.([]string)
	return ids
}

// UserID returns the accumulated owner constraint, empty when none applies.
func (d *Decision) UserID() string {
	v, ok := d.Filters[FilterUserID]
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

// ProjectFields intersects the statically allowed fields with a caller
// requested projection. The static list's order is authoritative; the
// requested list only filters membership, it never reorders or adds fields.
// An empty request returns the static list unchanged.
func ProjectFields(staticFields, requestedFields []string) []string {
	if len(requestedFields) == 0 {
		return staticFields
	}
	requested := make(map[string]struct{}, len(requestedFields))
	for _, f := range requestedFields {
		requested[f] = struct{}{}
	}
	out := make([]string, 0, len(staticFields))
	for _, f := range staticFields {
		if _, ok := requested[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

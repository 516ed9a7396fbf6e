package permit

import (
	"reflect"
	"strings"
	"testing"
)

func TestResolveKnownGrant(t *testing.T) {
	table := DefaultGrantTable()

	g, ok := table.Resolve(RoleAdmin, EntitySite, ActionDelete)
	if !ok || !g.Authorized {
		t.Fatalf("expected admin site delete to be granted")
	}
	if len(g.FilterRefs) != 0 {
		t.Fatalf("admin grants must not carry dynamic filters, got %v", g.FilterRefs)
	}

	g, ok = table.Resolve(RoleBasic, EntitySite, ActionUpdate)
	if !ok || !g.Authorized {
		t.Fatalf("expected basic site update to be granted")
	}
	if len(g.FilterRefs) == 0 {
		t.Fatalf("basic site update must be dynamically scoped")
	}
}

func TestAbsenceMeansNotAuthorized(t *testing.T) {
	table := DefaultGrantTable()

	if _, ok := table.Resolve(RoleDemo, EntitySite, ActionCreate); ok {
		t.Fatalf("demo site create must have no grant")
	}
	if _, ok := table.Resolve(RoleBasic, EntityCompany, ActionDelete); ok {
		t.Fatalf("basic company delete must have no grant")
	}
	if _, ok := table.Resolve(Role("ghost"), EntitySite, ActionRead); ok {
		t.Fatalf("unknown role must have no grant")
	}
}

func TestAssignmentActionsStayEntitySpecific(t *testing.T) {
	table := DefaultGrantTable()

	if _, ok := table.Resolve(RoleBasic, EntitySiteArea, ActionAssignAssetsToSiteArea); !ok {
		t.Fatalf("basic must be able to assign assets to a site area")
	}
	if _, ok := table.Resolve(RoleBasic, EntitySite, ActionAssignAssetsToSiteArea); ok {
		t.Fatalf("asset assignment must not leak onto the site entity")
	}
	if _, ok := table.Resolve(RoleBasic, EntitySiteArea, ActionAssignUsersToSite); ok {
		t.Fatalf("user assignment must not leak onto the site-area entity")
	}
}

func TestGrantedFieldsExistOnRecords(t *testing.T) {
	recordTypes := map[Entity]reflect.Type{
		EntityCompany:         reflect.TypeOf(Company{}),
		EntitySite:            reflect.TypeOf(Site{}),
		EntitySiteArea:        reflect.TypeOf(SiteArea{}),
		EntityUser:            reflect.TypeOf(User{}),
		EntityTag:             reflect.TypeOf(Tag{}),
		EntityAsset:           reflect.TypeOf(Asset{}),
		EntityVehicle:         reflect.TypeOf(Vehicle{}),
		EntityChargingStation: reflect.TypeOf(ChargingStation{}),
	}
	tags := make(map[Entity]map[string]struct{}, len(recordTypes))
	for entity, typ := range recordTypes {
		tags[entity] = jsonFieldNames(typ)
	}

	for role, byEntity := range DefaultGrantTable().grants {
		for entity, byAction := range byEntity {
			known, ok := tags[entity]
			if !ok {
				t.Fatalf("no record type for entity %q", entity)
			}
			for action, grant := range byAction {
				for _, field := range grant.Fields {
					if _, ok := known[field]; !ok {
						t.Fatalf("%s/%s/%s grants field %q that %s records do not carry",
							role, entity, action, field, entity)
					}
				}
			}
		}
	}
}

func jsonFieldNames(t reflect.Type) map[string]struct{} {
	names := make(map[string]struct{})
	var walk func(reflect.Type)
	walk = func(t reflect.Type) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Anonymous {
				walk(f.Type)
				continue
			}
			tag := strings.Split(f.Tag.Get("json"), ",")[0]
			if tag != "" && tag != "-" {
				names[tag] = struct{}{}
			}
		}
	}
	walk(t)
	return names
}

func TestSetReplacesGrant(t *testing.T) {
	table := NewGrantTable()
	table.Set(RoleBasic, EntityTag, ActionRead, StaticGrant{Authorized: true, Fields: []string{"id"}})
	table.Set(RoleBasic, EntityTag, ActionRead, StaticGrant{Authorized: false})

	g, ok := table.Resolve(RoleBasic, EntityTag, ActionRead)
	if !ok {
		t.Fatalf("grant should still exist after replacement")
	}
	if g.Authorized {
		t.Fatalf("replacement grant should deny")
	}
}

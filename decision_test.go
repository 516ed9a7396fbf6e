package permit

import (
	"reflect"
	"testing"
)

func TestProjectFieldsEmptyRequest(t *testing.T) {
	static := []string{"id", "name", "address"}
	got := ProjectFields(static, nil)
	if !reflect.DeepEqual(got, static) {
		t.Fatalf("empty request must return static fields unchanged, got %v", got)
	}
}

func TestProjectFieldsSubsetInStaticOrder(t *testing.T) {
	static := []string{"id", "name", "address", "public"}

	got := ProjectFields(static, []string{"public", "id"})
	want := []string{"id", "public"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v in static order, got %v", want, got)
	}
}

func TestProjectFieldsNeverAdds(t *testing.T) {
	static := []string{"id", "name"}

	got := ProjectFields(static, []string{"name", "email", "password"})
	want := []string{"name"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("requested fields outside the static set must be dropped, got %v", got)
	}

	if got := ProjectFields(static, []string{"password"}); len(got) != 0 {
		t.Fatalf("expected empty projection, got %v", got)
	}
}

func TestDecisionFilterAccessors(t *testing.T) {
	dec := newDecision(true, NewDataSourceCache())
	if dec.SiteIDs() != nil {
		t.Fatalf("no site filter yet")
	}
	dec.SetFilter(FilterSiteIDs, []string{"site-A"})
	dec.SetFilter(FilterUserID, "alice")
	if !reflect.DeepEqual(dec.SiteIDs(), []string{"site-A"}) {
		t.Fatalf("unexpected site IDs %v", dec.SiteIDs())
	}
	if dec.UserID() != "alice" {
		t.Fatalf("unexpected user ID %q", dec.UserID())
	}
}

package permit_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	. "github.com/oarkflow/permit"
	"github.com/oarkflow/permit/stores"
)

func TestStaticOnlyDecisionMatchesGrant(t *testing.T) {
	ctx := context.Background()
	e := NewTestEngine(NewCountingScopeStore())

	dec, err := e.CheckAndGetAuthorizationFilters(ctx, TestingTenant(), AdminTestActor("root"), EntityCompany, ActionDelete, nil)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !dec.Authorized {
		t.Fatalf("admin company delete is a static grant, expected authorized")
	}
	if len(dec.Filters) != 0 {
		t.Fatalf("static-only decision must carry no filters, got %v", dec.Filters)
	}

	dec, err = e.CheckAndGetAuthorizationFilters(ctx, TestingTenant(), BasicTestActor("alice"), EntityCompany, ActionDelete, nil)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if dec.Authorized {
		t.Fatalf("basic company delete has no grant, expected denial")
	}
}

func TestListingDenialIsNotAnError(t *testing.T) {
	ctx := context.Background()
	store := NewCountingScopeStore() // alice has no sites
	e := NewTestEngine(store)

	dec, err := e.CheckAndGetSitesAuthorizations(ctx, TestingTenant(), BasicTestActor("alice"), nil)
	if err != nil {
		t.Fatalf("listing denial must not error: %v", err)
	}
	if dec.Authorized {
		t.Fatalf("expected denial with empty scope")
	}
}

func TestSingleEntityDenialRaisesForbidden(t *testing.T) {
	ctx := context.Background()
	store := NewCountingScopeStore()
	store.Assign("alice", SiteRoleAssigned, "site-A")
	e := NewTestEngine(store)

	_, err := e.CheckAndGetSiteAuthorizations(ctx, TestingTenant(), BasicTestActor("alice"), &AuthorizationRequest{
		Params: FilterParams{SiteID: "site-Z"},
	})
	if err == nil {
		t.Fatalf("expected ForbiddenError")
	}
	var fe *ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("expected ForbiddenError, got %T: %v", err, err)
	}
	if fe.ActorID != "alice" || fe.Entity != EntitySite || fe.Action != ActionRead || fe.TenantID != "tenant-1" {
		t.Fatalf("forbidden error must carry the calling context, got %+v", fe)
	}
}

func TestFieldProjectionOnDecision(t *testing.T) {
	ctx := context.Background()
	store := NewCountingScopeStore()
	store.Assign("alice", SiteRoleAssigned, "site-A")
	e := NewTestEngine(store)

	dec, err := e.CheckAndGetSitesAuthorizations(ctx, TestingTenant(), BasicTestActor("alice"), &AuthorizationRequest{
		Fields: []string{"public", "id", "vin"},
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	want := []string{"id", "public"}
	if !reflect.DeepEqual(dec.ProjectFields, want) {
		t.Fatalf("expected projection %v, got %v", want, dec.ProjectFields)
	}
}

func TestDecisionDeterminism(t *testing.T) {
	ctx := context.Background()
	store := NewCountingScopeStore()
	store.Assign("alice", SiteRoleAssigned, "site-A", "site-B")
	e := NewTestEngine(store)

	req := &AuthorizationRequest{Params: FilterParams{SiteIDs: "site-B|site-A"}, Fields: []string{"id", "name"}}
	first, err := e.CheckAndGetSitesAuthorizations(ctx, TestingTenant(), BasicTestActor("alice"), req)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := e.CheckAndGetSitesAuthorizations(ctx, TestingTenant(), BasicTestActor("alice"), req)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.Authorized != second.Authorized ||
		!reflect.DeepEqual(first.Filters, second.Filters) ||
		!reflect.DeepEqual(first.ProjectFields, second.ProjectFields) {
		t.Fatalf("identical inputs must yield identical decisions:\n%+v\n%+v", first, second)
	}
}

func TestDecisionsUseIndependentCaches(t *testing.T) {
	ctx := context.Background()
	store := NewCountingScopeStore()
	store.Assign("alice", SiteRoleAssigned, "site-A")
	e := NewTestEngine(store)

	for i := 0; i < 3; i++ {
		if _, err := e.CheckAndGetSitesAuthorizations(ctx, TestingTenant(), BasicTestActor("alice"), nil); err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
	}
	if calls, _ := store.Calls(); calls != 3 {
		t.Fatalf("each top-level decision must resolve its own scope, got %d calls", calls)
	}
}

func TestEngineOptionValidation(t *testing.T) {
	if _, err := NewEngine(nil); err == nil {
		t.Fatalf("nil store must be rejected")
	}
	if _, err := NewEngine(NewCountingScopeStore(), WithEnrichWorkers(0)); err == nil {
		t.Fatalf("zero workers must be rejected")
	}
	if _, err := NewEngine(NewCountingScopeStore(), WithGrantTable(nil)); err == nil {
		t.Fatalf("nil grant table must be rejected")
	}
}

func TestEngineCloseDrainsAudit(t *testing.T) {
	ctx := context.Background()
	store := NewCountingScopeStore()
	store.Assign("alice", SiteRoleAssigned, "site-A")
	audit := stores.NewMemoryAuditStore()
	e := NewTestEngine(store, WithAuditStore(audit))

	for i := 0; i < 5; i++ {
		if _, err := e.CheckAndGetSitesAuthorizations(ctx, TestingTenant(), BasicTestActor("alice"), nil); err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
	}
	e.Close()

	// After Close every queued entry has been persisted; no polling needed.
	entries, err := audit.GetDecisionLog(ctx, AuditFilter{ActorID: "alice"})
	if err != nil {
		t.Fatalf("get log: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 drained entries, got %d", len(entries))
	}

	// Close is idempotent.
	e.Close()
}

func TestAuditTrailRecordsDecisions(t *testing.T) {
	ctx := context.Background()
	store := NewCountingScopeStore()
	store.Assign("alice", SiteRoleAssigned, "site-A")
	audit := stores.NewMemoryAuditStore()
	e := NewTestEngine(store, WithAuditStore(audit))

	if _, err := e.CheckAndGetSitesAuthorizations(ctx, TestingTenant(), BasicTestActor("alice"), nil); err != nil {
		t.Fatalf("check: %v", err)
	}

	// The audit trail is asynchronous; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for {
		entries, err := audit.GetDecisionLog(ctx, AuditFilter{ActorID: "alice"})
		if err != nil {
			t.Fatalf("get log: %v", err)
		}
		if len(entries) == 1 {
			entry := entries[0]
			if entry.Entity != EntitySite || entry.Action != ActionList || !entry.Authorized {
				t.Fatalf("unexpected audit entry %+v", entry)
			}
			if entry.ID == "" || entry.TraceID == "" {
				t.Fatalf("audit entry must carry IDs, got %+v", entry)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("audit entry never arrived")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

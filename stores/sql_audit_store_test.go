package stores

import (
	"context"
	"testing"
	"time"

	"github.com/oarkflow/permit"
)

func TestSQLAuditStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := NewSQLAuditStore(newTestDB(t))

	entries := []*permit.AuditEntry{
		{
			ID:         "evt-1",
			Timestamp:  time.Now().Add(-time.Minute),
			TenantID:   "tenant-1",
			ActorID:    "alice",
			Role:       permit.RoleBasic,
			Entity:     permit.EntitySite,
			Action:     permit.ActionList,
			Authorized: true,
			Context:    "list",
			TraceID:    "trace-abc-123",
		},
		{
			ID:         "evt-2",
			Timestamp:  time.Now(),
			TenantID:   "tenant-1",
			ActorID:    "bob",
			Role:       permit.RoleBasic,
			Entity:     permit.EntitySite,
			Action:     permit.ActionRead,
			Authorized: false,
			Context:    "single",
			TraceID:    "trace-def-456",
		},
	}
	for _, entry := range entries {
		if err := store.LogDecision(ctx, entry); err != nil {
			t.Fatalf("log %s: %v", entry.ID, err)
		}
	}

	logs, err := store.GetDecisionLog(ctx, permit.AuditFilter{ActorID: "alice", Limit: 10})
	if err != nil {
		t.Fatalf("get log: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 entry for alice, got %d", len(logs))
	}
	got := logs[0]
	if got.ID != "evt-1" || !got.Authorized || got.TraceID != "trace-abc-123" {
		t.Fatalf("unexpected entry %+v", got)
	}
	if got.Entity != permit.EntitySite || got.Action != permit.ActionList || got.Role != permit.RoleBasic {
		t.Fatalf("enum columns did not round-trip: %+v", got)
	}

	logs, err = store.GetDecisionLog(ctx, permit.AuditFilter{Action: permit.ActionRead})
	if err != nil {
		t.Fatalf("get log: %v", err)
	}
	if len(logs) != 1 || logs[0].Authorized {
		t.Fatalf("expected the single denied read, got %+v", logs)
	}
}

func TestSQLAuditStoreTimeWindow(t *testing.T) {
	ctx := context.Background()
	store := NewSQLAuditStore(newTestDB(t))

	base := time.Now()
	for i, ts := range []time.Time{base.Add(-2 * time.Hour), base.Add(-time.Hour), base} {
		entry := &permit.AuditEntry{
			ID:         string(rune('a' + i)),
			Timestamp:  ts,
			TenantID:   "tenant-1",
			ActorID:    "alice",
			Role:       permit.RoleBasic,
			Entity:     permit.EntityTag,
			Action:     permit.ActionList,
			Authorized: true,
			Context:    "list",
			TraceID:    "t",
		}
		if err := store.LogDecision(ctx, entry); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	logs, err := store.GetDecisionLog(ctx, permit.AuditFilter{
		StartTime: base.Add(-90 * time.Minute),
		EndTime:   base.Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("get log: %v", err)
	}
	if len(logs) != 1 || logs[0].ID != "b" {
		t.Fatalf("expected only the middle entry, got %+v", logs)
	}
}

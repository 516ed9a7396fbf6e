package stores

import (
	"context"

	"github.com/oarkflow/permit"
	"github.com/oarkflow/squealx"
)

// SQLAuditStore persists decision audit entries in SQL (squealx).
type SQLAuditStore struct {
	db *squealx.DB
}

func NewSQLAuditStore(db *squealx.DB) *SQLAuditStore {
	return &SQLAuditStore{db: db}
}

func (s *SQLAuditStore) LogDecision(ctx context.Context, entry *permit.AuditEntry) error {
	q := `INSERT INTO decision_log(id, timestamp, tenant_id, actor_id, role, entity, action, authorized, context, trace_id)
	      VALUES(:id, :timestamp, :tenant_id, :actor_id, :role, :entity, :action, :authorized, :context, :trace_id)`
	_, err := s.db.NamedExecContext(ctx, q, map[string]any{
		"id":         entry.ID,
		"timestamp":  entry.Timestamp,
		"tenant_id":  entry.TenantID,
		"actor_id":   entry.ActorID,
		"role":       string(entry.Role),
		"entity":     string(entry.Entity),
		"action":     string(entry.Action),
		"authorized": boolToInt(entry.Authorized),
		"context":    entry.Context,
		"trace_id":   entry.TraceID,
	})
	return err
}

func (s *SQLAuditStore) GetDecisionLog(ctx context.Context, filter permit.AuditFilter) ([]*permit.AuditEntry, error) {
	q := `SELECT id, timestamp, tenant_id, actor_id, role, entity, action, authorized, context, trace_id
	      FROM decision_log
	      WHERE (:actor_id = '' OR actor_id = :actor_id)
	        AND (:entity = '' OR entity = :entity)
	        AND (:action = '' OR action = :action)
	      ORDER BY timestamp`
	r, err := s.db.NamedQueryContext(ctx, q, map[string]any{
		"actor_id": filter.ActorID,
		"entity":   string(filter.Entity),
		"action":   string(filter.Action),
	})
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out := make([]*permit.AuditEntry, 0)
	for r.Next() {
		var id, tenantID, actorID, role, entity, action, decisionCtx, traceID string
		var authorized int
		var tsRaw interface{}
		if err := r.Scan(&id, &tsRaw, &tenantID, &actorID, &role, &entity, &action, &authorized, &decisionCtx, &traceID); err != nil {
			return nil, err
		}
		entry := &permit.AuditEntry{
			ID:         id,
			Timestamp:  scanTime(tsRaw),
			TenantID:   tenantID,
			ActorID:    actorID,
			Role:       permit.Role(role),
			Entity:     permit.Entity(entity),
			Action:     permit.Action(action),
			Authorized: authorized != 0,
			Context:    decisionCtx,
			TraceID:    traceID,
		}
		if !filter.StartTime.IsZero() && entry.Timestamp.Before(filter.StartTime) {
			continue
		}
		if !filter.EndTime.IsZero() && entry.Timestamp.After(filter.EndTime) {
			continue
		}
		out = append(out, entry)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

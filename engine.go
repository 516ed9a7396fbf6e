package permit

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/oarkflow/permit/logger"
)

// ============================================================================
// ENGINE
// ============================================================================

// Engine evaluates authorization decisions. It holds only immutable
// configuration (grant table, filter registry, collaborators); all per-decision
// state lives in the Decision and its DataSourceCache, so concurrent decisions
// never observe each other.
type Engine struct {
	grants        *GrantTable
	registry      *FilterRegistry
	store         ScopeStore
	audit         AuditStore
	logger        logger.Logger
	traceIDFunc   logger.TraceIDFunc
	enrichWorkers int
	auditCh       chan AuditEntry
	auditDone     chan struct{}
}

// EngineOption configures an Engine at construction.
type EngineOption func(*Engine) error

// WithLogger installs a Logger on the Engine.
func WithLogger(l logger.Logger) EngineOption {
	return func(e *Engine) error {
		e.logger = l
		return nil
	}
}

// WithTraceIDFunc installs a custom trace ID generator on the engine.
func WithTraceIDFunc(f logger.TraceIDFunc) EngineOption {
	return func(e *Engine) error {
		e.traceIDFunc = f
		return nil
	}
}

// WithGrantTable replaces the compiled-in grant table.
func WithGrantTable(t *GrantTable) EngineOption {
	return func(e *Engine) error {
		if t == nil {
			return fmt.Errorf("nil grant table")
		}
		e.grants = t
		return nil
	}
}

// WithFilterRegistry replaces the built-in filter registry.
func WithFilterRegistry(r *FilterRegistry) EngineOption {
	return func(e *Engine) error {
		if r == nil {
			return fmt.Errorf("nil filter registry")
		}
		e.registry = r
		return nil
	}
}

// WithAuditStore enables the asynchronous decision audit trail.
func WithAuditStore(s AuditStore) EngineOption {
	return func(e *Engine) error {
		e.audit = s
		return nil
	}
}

// WithEnrichWorkers bounds the worker pool used for collection enrichment.
func WithEnrichWorkers(n int) EngineOption {
	return func(e *Engine) error {
		if n < 1 {
			return fmt.Errorf("enrich worker count must be >= 1, got %d", n)
		}
		e.enrichWorkers = n
		return nil
	}
}

// NewEngine builds an engine over the given storage collaborator. Defaults:
// compiled-in grant table, built-in filters, phuslu logging, GOMAXPROCS
// enrichment workers, no audit trail.
func NewEngine(store ScopeStore, opts ...EngineOption) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("nil scope store")
	}
	e := &Engine{
		grants:        DefaultGrantTable(),
		registry:      DefaultFilterRegistry(),
		store:         store,
		logger:        logger.NewPhusluLogger(),
		traceIDFunc:   uuid.NewString,
		enrichWorkers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.audit != nil {
		e.auditCh = make(chan AuditEntry, 1024)
		e.auditDone = make(chan struct{})
		go func() {
			defer close(e.auditDone)
			bg := context.Background()
			for entry := range e.auditCh {
				if err := e.audit.LogDecision(bg, &entry); err != nil {
					e.logger.Error("audit log failed", "error", err.Error(), "entry", entry.ID)
				}
			}
		}()
	}
	return e, nil
}

// Close stops the audit worker after draining every queued entry. It must not
// run concurrently with decision methods. Engines without an audit store need
// no Close.
func (e *Engine) Close() {
	if e.auditCh == nil {
		return
	}
	close(e.auditCh)
	<-e.auditDone
	e.auditCh = nil
}

// evaluate runs one full decision: static grant resolution, dynamic filter
// application, field projection. sources is the decision-scoped cache; callers
// that evaluate several actions for one record pass the same cache, everything
// else passes a fresh one.
func (e *Engine) evaluate(ctx context.Context, tenant *Tenant, actor *Actor, entity Entity, action Action, req *AuthorizationRequest, sources *DataSourceCache) (*Decision, error) {
	if tenant == nil || actor == nil {
		return nil, fmt.Errorf("permit: tenant and actor are required")
	}
	if req == nil {
		req = &AuthorizationRequest{}
	}
	grant, ok := e.grants.Resolve(actor.Role, entity, action)
	dec := newDecision(ok && grant.Authorized, sources)
	dec.ProjectFields = ProjectFields(grant.Fields, req.Fields)
	if dec.Authorized && len(grant.FilterRefs) > 0 {
		ev := &Evaluation{
			Tenant:   tenant,
			Actor:    actor,
			Entity:   entity,
			Action:   action,
			Params:   req.Params,
			Decision: dec,
			Store:    e.store,
		}
		if err := e.registry.Apply(ctx, ev, grant.FilterRefs); err != nil {
			return nil, err
		}
	}
	e.logger.Debug("authorization decision",
		"tenant", tenant.ID,
		"actor", actor.ID,
		"role", string(actor.Role),
		"entity", string(entity),
		"action", string(action),
		"authorized", dec.Authorized,
	)
	return dec, nil
}

// CheckAndGetAuthorizationFilters makes a decision for a listing-style
// operation. It never fails on denial: callers inspect Authorized and apply
// Filters and ProjectFields to their own query. Storage failures and
// configuration defects are returned as errors.
func (e *Engine) CheckAndGetAuthorizationFilters(ctx context.Context, tenant *Tenant, actor *Actor, entity Entity, action Action, req *AuthorizationRequest) (*Decision, error) {
	dec, err := e.evaluate(ctx, tenant, actor, entity, action, req, NewDataSourceCache())
	if err != nil {
		return nil, err
	}
	e.auditDecision(tenant, actor, entity, action, dec.Authorized, "list")
	return dec, nil
}

// CheckAndGetSingleAuthorizationFilters makes a decision for a single-entity
// operation. Denial is returned as a ForbiddenError since a single-entity
// read has no sensible empty fallback.
func (e *Engine) CheckAndGetSingleAuthorizationFilters(ctx context.Context, tenant *Tenant, actor *Actor, entity Entity, action Action, req *AuthorizationRequest) (*Decision, error) {
	dec, err := e.evaluate(ctx, tenant, actor, entity, action, req, NewDataSourceCache())
	if err != nil {
		return nil, err
	}
	e.auditDecision(tenant, actor, entity, action, dec.Authorized, "single")
	if !dec.Authorized {
		return nil, &ForbiddenError{
			TenantID: tenant.ID,
			ActorID:  actor.ID,
			Role:     actor.Role,
			Entity:   entity,
			Action:   action,
			Context:  "single entity access denied",
		}
	}
	return dec, nil
}

// auditDecision queues one audit entry; it never blocks the decision path and
// drops when the channel is full.
func (e *Engine) auditDecision(tenant *Tenant, actor *Actor, entity Entity, action Action, authorized bool, context string) {
	if e.auditCh == nil {
		return
	}
	entry := AuditEntry{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		TenantID:   tenant.ID,
		ActorID:    actor.ID,
		Role:       actor.Role,
		Entity:     entity,
		Action:     action,
		Authorized: authorized,
		Context:    context,
		TraceID:    e.traceIDFunc(),
	}
	select {
	case e.auditCh <- entry:
	default:
	}
}

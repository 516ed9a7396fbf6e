package permit

import (
	"errors"
	"fmt"
)

// ErrFilterNotRegistered marks a configuration defect: a grant declared a
// dynamic filter the registry cannot resolve. Continuing would silently
// under- or over-authorize, so evaluation aborts.
var ErrFilterNotRegistered = errors.New("dynamic filter not registered")

// ErrConflictingFilters marks a configuration defect: two alternatives of one
// OR-group produced different values for the same filter key.
var ErrConflictingFilters = errors.New("conflicting filter contributions")

// ForbiddenError is returned when access is denied on a single-entity path or
// when a configuration defect forces a hard stop. It carries the full calling
// context; transports are expected to surface only a generic forbidden
// failure.
type ForbiddenError struct {
	TenantID string
	ActorID  string
	Role     Role
	Entity   Entity
	Action   Action
	Context  string
	Err      error
}

func (e *ForbiddenError) Error() string {
	msg := fmt.Sprintf("forbidden: role %q may not %q %q (tenant=%s actor=%s)",
		e.Role, e.Action, e.Entity, e.TenantID, e.ActorID)
	if e.Context != "" {
		msg += ": " + e.Context
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ForbiddenError) Unwrap() error { return e.Err }

// IsForbidden reports whether err is (or wraps) a ForbiddenError.
func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}

func forbidden(ev *Evaluation, context string, cause error) *ForbiddenError {
	return &ForbiddenError{
		TenantID: ev.Tenant.ID,
		ActorID:  ev.Actor.ID,
		Role:     ev.Actor.Role,
		Entity:   ev.Entity,
		Action:   ev.Action,
		Context:  context,
		Err:      cause,
	}
}

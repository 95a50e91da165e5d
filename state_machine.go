package authclient

import (
	goerrors "github.com/goliatone/go-errors"
)

const textCodeInvalidTransition = "INVALID_SESSION_TRANSITION"

// ErrInvalidTransition is returned when a requested status change is not allowed.
var ErrInvalidTransition = goerrors.New("invalid session state transition", goerrors.CategoryConflict).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeConflict)

// TransitionHook observes committed status changes. Hooks run after the
// session has been updated and must not call back into the controller.
type TransitionHook func(from, to Status, session Session)

// allowedTransitions is the full transition graph. Only the controller
// assigns statuses, and only through this table.
var allowedTransitions = map[Status][]Status{
	StatusIdle:            {StatusLoading, StatusUnauthenticated},
	StatusLoading:         {StatusAuthenticated, StatusUnauthenticated},
	StatusUnauthenticated: {StatusAuthenticated, StatusUnauthenticated},
	StatusAuthenticated:   {StatusUnauthenticated, StatusAuthenticated},
}

type sessionStateMachine struct {
	hooks []TransitionHook
}

func newSessionStateMachine(hooks ...TransitionHook) *sessionStateMachine {
	filtered := make([]TransitionHook, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			filtered = append(filtered, h)
		}
	}
	return &sessionStateMachine{hooks: filtered}
}

// CanTransition reports whether from -> to is in the transition graph.
// Self transitions within Unauthenticated and Authenticated are legal so a
// failed login or a token refresh does not need a special case.
func (m *sessionStateMachine) CanTransition(from, to Status) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// transition validates the status change, applies fn to mutate the session,
// then notifies hooks. The caller holds the controller lock.
func (m *sessionStateMachine) transition(session *Session, to Status, fn func(*Session)) error {
	from := session.Status
	if !m.CanTransition(from, to) {
		return ErrInvalidTransition.Clone().WithMetadata(map[string]any{
			"from": string(from),
			"to":   string(to),
		})
	}

	session.Status = to
	if fn != nil {
		fn(session)
	}

	snapshot := session.snapshot()
	for _, hook := range m.hooks {
		hook(from, to, snapshot)
	}
	return nil
}

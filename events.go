package authclient

import (
	"context"
	"time"
)

// SessionEventType enumerates the side effects the controller announces to
// the surrounding application.
type SessionEventType string

const (
	// EventLoginSuccess asks the UI for a "signed in" notification.
	EventLoginSuccess SessionEventType = "session.login.success"
	// EventLoggedOut asks the UI for a "signed out" notification.
	EventLoggedOut SessionEventType = "session.logout"
	// EventSessionExpired carries the generic sign-in-again message.
	EventSessionExpired SessionEventType = "session.expired"
	// EventNavigateLogin asks the router to show the login screen.
	EventNavigateLogin SessionEventType = "session.navigate.login"
)

// SessionEvent captures one announced side effect.
type SessionEvent struct {
	EventType  SessionEventType
	Message    string
	UserID     string
	OccurredAt time.Time
}

// EventSink consumes session events. Sinks run best-effort: errors are
// logged, never propagated into the session transition that emitted them.
// Sinks are invoked inside the transition and must not call back into the
// controller.
type EventSink interface {
	Record(ctx context.Context, event SessionEvent) error
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(ctx context.Context, event SessionEvent) error

// Record implements EventSink.
func (f EventSinkFunc) Record(ctx context.Context, event SessionEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopEventSink struct{}

func (noopEventSink) Record(context.Context, SessionEvent) error {
	return nil
}

func normalizeEventSink(s EventSink) EventSink {
	if s == nil {
		return noopEventSink{}
	}
	return s
}

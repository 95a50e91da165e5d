package authclient

// Status is the lifecycle phase of a session.
type Status string

const (
	// StatusIdle is the state before bootstrap has started.
	StatusIdle Status = "idle"
	// StatusLoading means bootstrap is restoring a persisted credential.
	StatusLoading Status = "loading"
	// StatusAuthenticated means a credential and server-confirmed profile are held.
	StatusAuthenticated Status = "authenticated"
	// StatusUnauthenticated means no usable credential is held.
	StatusUnauthenticated Status = "unauthenticated"
)

// Resolved reports whether bootstrap reached a terminal state. Route
// decisions are only meaningful once this is true.
func (s Status) Resolved() bool {
	return s == StatusAuthenticated || s == StatusUnauthenticated
}

// Session is a point-in-time snapshot of the aggregate authentication state.
// Exactly one live session exists per controller; snapshots are values and
// safe to hold across status changes.
//
// Invariants: Profile is non-nil iff Status is StatusAuthenticated; Token is
// non-empty only for StatusLoading (when a stored credential was found) and
// StatusAuthenticated.
type Session struct {
	Status  Status
	Token   string
	Profile *Profile
	LastErr error
}

// Authenticated reports whether the session holds a confirmed identity.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

func (s Session) snapshot() Session {
	out := s
	if s.Profile != nil {
		profile := *s.Profile
		out.Profile = &profile
	}
	return out
}

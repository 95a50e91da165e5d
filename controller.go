package authclient

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Controller owns the session state machine. It is the only component that
// assigns a session status, and every status change updates the credential
// store and the bearer source inside the same call, so no concurrent request
// ever observes the two out of sync.
type Controller struct {
	mu        sync.Mutex
	store     Store
	validator TokenValidator
	bearer    *BearerSource
	api       AuthAPI
	sink      EventSink
	logger    Logger
	now       func() time.Time
	machine   *sessionStateMachine

	session      Session
	refreshToken string
	booting      bool
	loggingIn    bool
}

// NewController wires the session components together. The zero-value session
// starts Idle; call Bootstrap before sampling state for route decisions.
func NewController(store Store, bearer *BearerSource, api AuthAPI) *Controller {
	return &Controller{
		store:     store,
		validator: NewUnverifiedValidator(),
		bearer:    bearer,
		api:       api,
		sink:      noopEventSink{},
		logger:    defLogger{},
		now:       time.Now,
		machine:   newSessionStateMachine(),
		session:   Session{Status: StatusIdle},
	}
}

// WithLogger sets the controller logger.
func (c *Controller) WithLogger(logger Logger) *Controller {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithTokenValidator replaces the default unverified decoder, e.g. with a
// JWKSValidator when the backend publishes its key set.
func (c *Controller) WithTokenValidator(validator TokenValidator) *Controller {
	if validator != nil {
		c.validator = validator
	}
	return c
}

// WithEventSink configures the sink that receives notification and
// navigation side effects.
func (c *Controller) WithEventSink(sink EventSink) *Controller {
	c.sink = normalizeEventSink(sink)
	return c
}

// WithClock injects a custom clock (useful for tests).
func (c *Controller) WithClock(clock func() time.Time) *Controller {
	if clock != nil {
		c.now = clock
	}
	return c
}

// WithTransitionHooks registers observers for committed status changes.
func (c *Controller) WithTransitionHooks(hooks ...TransitionHook) *Controller {
	c.machine = newSessionStateMachine(hooks...)
	return c
}

// Current returns a snapshot of the session. The snapshot is a value; it
// never mutates under the caller.
func (c *Controller) Current() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.snapshot()
}

// Gate maps the current session status to a route decision.
func (c *Controller) Gate() Decision {
	return Decide(c.Current().Status)
}

// Bootstrap restores a persisted credential, validates it, and confirms it
// against the profile endpoint. Every failure path degrades to
// Unauthenticated with the store and bearer source cleared; bootstrap never
// fails the application start.
func (c *Controller) Bootstrap(ctx context.Context) error {
	c.mu.Lock()
	if c.booting {
		c.mu.Unlock()
		return ErrBootstrapPending
	}
	if err := c.machine.transition(&c.session, StatusLoading, nil); err != nil {
		c.mu.Unlock()
		return err
	}
	c.booting = true
	c.mu.Unlock()

	token, found := c.loadStored(ctx)
	if !found {
		return c.resolveBootstrap(ctx, StatusUnauthenticated, "", nil, nil, false)
	}

	claims, err := c.validator.Validate(token)
	if err != nil {
		c.logger.Info("Stored credential rejected: %s", err)
		return c.resolveBootstrap(ctx, StatusUnauthenticated, "", nil, err, true)
	}

	// the header has to be live before the profile fetch
	c.mu.Lock()
	c.session.Token = token
	c.bearer.SetBearer(token)
	c.mu.Unlock()

	profile, err := c.api.Me(ctx)
	if err != nil {
		c.logger.Error("Bootstrap profile fetch failed for subject %s: %s", claims.Subject(), err)
		return c.resolveBootstrap(ctx, StatusUnauthenticated, "", nil, err, true)
	}

	return c.resolveBootstrap(ctx, StatusAuthenticated, token, profile, nil, false)
}

// resolveBootstrap commits the terminal bootstrap state. When wipe is set the
// persisted credential was present but unusable, so store and bearer are
// cleared and a sign-in-again message is announced, worded for whether the
// credential was rejected or merely unverifiable.
func (c *Controller) resolveBootstrap(ctx context.Context, to Status, token string, profile *Profile, cause error, wipe bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.booting = false

	if wipe {
		c.clearStored(ctx)
	}

	err := c.machine.transition(&c.session, to, func(s *Session) {
		s.Token = token
		s.Profile = profile
		s.LastErr = cause
		if to == StatusAuthenticated {
			c.bearer.SetBearer(token)
		} else {
			c.bearer.Clear()
		}
	})
	if err != nil {
		return err
	}

	if wipe {
		message := SignInAgainMessage
		if IsNetworkError(cause) {
			// the credential was never proven bad, the service was unreachable
			message = SessionUnverifiedMessage
		}
		c.emit(ctx, SessionEvent{
			EventType: EventSessionExpired,
			Message:   message,
		})
	}
	return nil
}

// Login validates the payload, calls the login endpoint, and applies token,
// profile, store, and bearer source together. On failure the session is left
// exactly as it was, apart from LastErr.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	payload := LoginPayload{Email: email, Password: password}
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload")
	}

	c.mu.Lock()
	if c.booting || c.session.Status == StatusLoading {
		c.mu.Unlock()
		return ErrBootstrapPending
	}
	if c.loggingIn {
		c.mu.Unlock()
		return ErrLoginPending
	}
	if !c.machine.CanTransition(c.session.Status, StatusAuthenticated) {
		c.mu.Unlock()
		return ErrInvalidTransition.Clone().WithMetadata(map[string]any{
			"from": string(c.session.Status),
			"to":   string(StatusAuthenticated),
		})
	}
	c.loggingIn = true
	c.mu.Unlock()

	resp, err := c.api.Login(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loggingIn = false

	if err != nil {
		c.session.LastErr = err
		c.logger.Info("Login failed for %s: %s", email, err)
		return err
	}
	if resp == nil || resp.AccessToken == "" || resp.User == nil {
		err := goerrors.New("login response missing token or user", goerrors.CategoryInternal)
		c.session.LastErr = err
		return err
	}

	c.saveStored(ctx, resp.AccessToken)
	c.refreshToken = resp.RefreshToken

	if err := c.machine.transition(&c.session, StatusAuthenticated, func(s *Session) {
		s.Token = resp.AccessToken
		s.Profile = resp.User
		s.LastErr = nil
		c.bearer.SetBearer(resp.AccessToken)
	}); err != nil {
		return err
	}

	c.emit(ctx, SessionEvent{
		EventType: EventLoginSuccess,
		Message:   "Signed in",
		UserID:    resp.User.Email,
	})
	return nil
}

// Logout clears the persisted credential and the bearer source. It is
// idempotent: calling it while already Unauthenticated repeats the clears
// without re-emitting notifications or navigation.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.booting || c.session.Status == StatusLoading {
		return ErrBootstrapPending
	}

	wasAuthenticated := c.session.Authenticated()
	c.clearStored(ctx)
	c.refreshToken = ""

	if err := c.machine.transition(&c.session, StatusUnauthenticated, func(s *Session) {
		s.Token = ""
		s.Profile = nil
		s.LastErr = nil
		c.bearer.Clear()
	}); err != nil {
		return err
	}

	if wasAuthenticated {
		c.emit(ctx, SessionEvent{EventType: EventLoggedOut, Message: "You have been signed out"})
		c.emit(ctx, SessionEvent{EventType: EventNavigateLogin})
	}
	return nil
}

// CheckExpiry re-evaluates the held credential on demand and reports whether
// it was found invalid. An expired or malformed credential triggers the same
// cleanup as logout, announced with the generic sign-in-again message instead
// of a signed-out notification. The controller never schedules this itself;
// see RunExpiryWatch.
func (c *Controller) CheckExpiry(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.session.Authenticated() {
		return false, nil
	}

	if _, err := c.validator.Validate(c.session.Token); err != nil {
		c.logger.Info("Held credential no longer valid: %s", err)
		if expireErr := c.expireLocked(ctx, err); expireErr != nil {
			return true, expireErr
		}
		return true, nil
	}
	return false, nil
}

// RunExpiryWatch re-checks expiry every interval until ctx is done. It is an
// opt-in extension point: callers that want periodic revalidation start it in
// its own goroutine, everyone else keeps the validate-once-at-bootstrap
// behavior.
func (c *Controller) RunExpiryWatch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.CheckExpiry(ctx); err != nil {
				c.logger.Error("Expiry check failed: %s", err)
			}
		}
	}
}

// Refresh exchanges the held refresh token for a new access token, rotating
// the store, bearer source, and session token together. A rejected refresh
// token expires the session; an unreachable service leaves it untouched.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if !c.session.Authenticated() {
		c.mu.Unlock()
		return ErrInvalidTransition.Clone().WithMetadata(map[string]any{
			"from": string(c.session.Status),
			"to":   string(StatusAuthenticated),
		})
	}
	refreshToken := c.refreshToken
	c.mu.Unlock()

	if refreshToken == "" {
		return ErrNoRefreshToken
	}

	token, err := c.api.Refresh(ctx, refreshToken)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		if c.session.Authenticated() && (IsTokenExpiredError(err) || IsCredentialsError(err)) {
			if expireErr := c.expireLocked(ctx, err); expireErr != nil {
				return expireErr
			}
		}
		return err
	}

	if !c.session.Authenticated() {
		// session ended while the exchange was in flight, discard the result
		return nil
	}

	c.saveStored(ctx, token)
	return c.machine.transition(&c.session, StatusAuthenticated, func(s *Session) {
		s.Token = token
		s.LastErr = nil
		c.bearer.SetBearer(token)
	})
}

// expireLocked performs the logout side effects for a credential that went
// invalid, with the expiry notification instead of the user-initiated one.
// The caller holds the lock.
func (c *Controller) expireLocked(ctx context.Context, cause error) error {
	c.clearStored(ctx)
	c.refreshToken = ""

	if err := c.machine.transition(&c.session, StatusUnauthenticated, func(s *Session) {
		s.Token = ""
		s.Profile = nil
		s.LastErr = cause
		c.bearer.Clear()
	}); err != nil {
		return err
	}

	c.emit(ctx, SessionEvent{EventType: EventSessionExpired, Message: SignInAgainMessage})
	c.emit(ctx, SessionEvent{EventType: EventNavigateLogin})
	return nil
}

// loadStored reads the persisted credential, degrading a storage failure to
// "no credential".
func (c *Controller) loadStored(ctx context.Context) (string, bool) {
	token, ok, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Error("Credential load failed, treating as absent: %s", err)
		return "", false
	}
	return token, ok
}

func (c *Controller) saveStored(ctx context.Context, token string) {
	if err := c.store.Save(ctx, token); err != nil {
		c.logger.Error("Credential save failed: %s", err)
	}
}

func (c *Controller) clearStored(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error("Credential clear failed: %s", err)
	}
}

func (c *Controller) emit(ctx context.Context, event SessionEvent) {
	event.OccurredAt = c.now()
	if err := c.sink.Record(ctx, event); err != nil {
		c.logger.Error("Event sink rejected %s: %s", event.EventType, err)
	}
}

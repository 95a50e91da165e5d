package authclient

import (
	stderrors "errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to sentinel errors so callers can branch on a stable
// identifier instead of a message string.
const (
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeAuthUnreachable    = "AUTH_UNREACHABLE"
	TextCodeBootstrapPending   = "BOOTSTRAP_PENDING"
	TextCodeLoginPending       = "LOGIN_PENDING"
	TextCodeRefreshUnavailable = "REFRESH_UNAVAILABLE"
)

// SignInAgainMessage is the only text shown to end users when a stored
// credential turns out to be malformed or expired. Decode details stay in
// logs and error metadata.
const SignInAgainMessage = "Your session has expired, please sign in again"

// SessionUnverifiedMessage is announced when a stored credential could not be
// confirmed because the service was unreachable, as opposed to being expired
// or malformed.
const SessionUnverifiedMessage = "Could not verify your session, please sign in again"

// ErrTokenMalformed is returned when a credential cannot be parsed into claims.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned when a credential parses but its expiry has passed.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidCredentials is returned when the auth endpoint rejects a login.
var ErrInvalidCredentials = goerrors.New("invalid email or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrAuthUnreachable is returned when the auth endpoint cannot be reached.
// Callers may retry; nothing about the session has changed.
var ErrAuthUnreachable = goerrors.New("authentication service unreachable", goerrors.CategoryOperation).
	WithTextCode(TextCodeAuthUnreachable)

// ErrBootstrapPending rejects operations that arrive while the startup
// credential restore is still in flight.
var ErrBootstrapPending = goerrors.New("bootstrap still in flight", goerrors.CategoryConflict).
	WithTextCode(TextCodeBootstrapPending).
	WithCode(goerrors.CodeConflict)

// ErrLoginPending rejects a second login attempt while one is pending.
var ErrLoginPending = goerrors.New("login already in flight", goerrors.CategoryConflict).
	WithTextCode(TextCodeLoginPending).
	WithCode(goerrors.CodeConflict)

// ErrNoRefreshToken is returned by Refresh when the session holds no
// refresh token to exchange.
var ErrNoRefreshToken = goerrors.New("session has no refresh token", goerrors.CategoryConflict).
	WithTextCode(TextCodeRefreshUnavailable).
	WithCode(goerrors.CodeConflict)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if hasTextCode(err, TextCodeTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for decode failures
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if hasTextCode(err, TextCodeTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "token contains an invalid number of segments")
}

// IsNetworkError reports whether err means the auth service was unreachable.
func IsNetworkError(err error) bool {
	return hasTextCode(err, TextCodeAuthUnreachable)
}

// IsCredentialsError reports whether err means the server rejected the
// submitted email/password pair.
func IsCredentialsError(err error) bool {
	return hasTextCode(err, TextCodeInvalidCredentials)
}

func hasTextCode(err error, code string) bool {
	var rich *goerrors.Error
	if stderrors.As(err, &rich) {
		return rich.TextCode == code
	}
	return false
}

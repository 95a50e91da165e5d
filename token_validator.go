package authclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenValidator decodes a credential into claims without tying callers to a
// specific verification strategy.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (AuthClaims, error)

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(tokenString string) (AuthClaims, error) {
	if f == nil {
		return nil, ErrTokenMalformed
	}
	return f(tokenString)
}

// IsExpired reports whether claims expired before now. A missing expiry claim
// never counts as expired here; UnverifiedValidator rejects such tokens as
// malformed before this check matters.
func IsExpired(claims AuthClaims, now time.Time) bool {
	exp := claims.Expires()
	return !exp.IsZero() && exp.Before(now)
}

// UnverifiedValidator decodes claims without checking the signature. The
// client holds no signing key; it only needs the sub and exp claims to decide
// whether a stored credential is worth presenting to the server, which stays
// the sole authority on token authenticity.
type UnverifiedValidator struct {
	parser *jwt.Parser
	now    func() time.Time
}

// UnverifiedValidatorOption customizes an UnverifiedValidator.
type UnverifiedValidatorOption func(*UnverifiedValidator)

// WithValidatorClock injects a custom clock (useful for tests).
func WithValidatorClock(clock func() time.Time) UnverifiedValidatorOption {
	return func(v *UnverifiedValidator) {
		if clock != nil {
			v.now = clock
		}
	}
}

// NewUnverifiedValidator returns a validator that decodes claims and
// evaluates expiry locally.
func NewUnverifiedValidator(opts ...UnverifiedValidatorOption) *UnverifiedValidator {
	v := &UnverifiedValidator{
		parser: jwt.NewParser(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate satisfies the TokenValidator interface.
func (v *UnverifiedValidator) Validate(tokenString string) (AuthClaims, error) {
	token, _, err := v.parser.ParseUnverified(tokenString, &JWTClaims{})
	if err != nil {
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok {
		return nil, ErrTokenMalformed
	}

	if claims.Subject() == "" || claims.Expires().IsZero() {
		return nil, ErrTokenMalformed.Clone().WithMetadata(map[string]any{
			"reason": "missing sub or exp claim",
		})
	}

	if IsExpired(claims, v.now()) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

// MultiTokenValidator tries validators in order until one succeeds.
// It treats malformed-token errors as "try next" and returns the last
// malformed error if all validators fail.
type MultiTokenValidator struct {
	validators []TokenValidator
}

// NewMultiTokenValidator filters nil validators and returns a composite validator.
func NewMultiTokenValidator(validators ...TokenValidator) *MultiTokenValidator {
	filtered := make([]TokenValidator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			filtered = append(filtered, v)
		}
	}
	return &MultiTokenValidator{validators: filtered}
}

// Validate satisfies the TokenValidator interface.
func (m *MultiTokenValidator) Validate(tokenString string) (AuthClaims, error) {
	var lastErr error
	for _, v := range m.validators {
		claims, err := v.Validate(tokenString)
		if err == nil {
			return claims, nil
		}
		if IsMalformedError(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrTokenMalformed
}

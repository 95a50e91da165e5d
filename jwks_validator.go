package authclient

import (
	stderrors "errors"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// JWKSValidator verifies credentials against a published JWK Set. Deployments
// that expose their key set get full signature verification on the client;
// everything else falls back to UnverifiedValidator.
type JWKSValidator struct {
	jwks   *keyfunc.JWKS
	logger Logger
}

// NewJWKSValidator fetches the JWK Set at jwksURL and keeps it refreshed in
// the background.
func NewJWKSValidator(jwksURL string, logger Logger) (*JWKSValidator, error) {
	if logger == nil {
		logger = defLogger{}
	}

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			logger.Error("JWKS background refresh failed: %s", err)
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to fetch JWK Set")
	}

	return &JWKSValidator{jwks: jwks, logger: logger}, nil
}

// Validate satisfies the TokenValidator interface.
func (v *JWKSValidator) Validate(tokenString string) (AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, v.jwks.Keyfunc)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	v.logger.Error("JWKS validator could not decode claims")
	return nil, ErrTokenMalformed
}

// EndBackground stops the background JWK Set refresh goroutine.
func (v *JWKSValidator) EndBackground() {
	v.jwks.EndBackground()
}

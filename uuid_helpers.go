package authclient

import "github.com/google/uuid"

// HasSubjectUUID reports whether the claims subject parses as a UUID.
func HasSubjectUUID(claims AuthClaims) bool {
	if claims == nil {
		return false
	}
	_, err := uuid.Parse(claims.Subject())
	return err == nil
}

package middleware

import (
	"errors"
	"strings"

	"github.com/najimahamed22/sportZoneAcademy-server/pkg/utils"
)

var ErrUnauthorized = errors.New("unauthorized")

// CredentialVerifier checks bearer credentials against the shared signing
// secret. It never issues tokens.
type CredentialVerifier struct {
	secret string
}

func NewCredentialVerifier(secret string) *CredentialVerifier {
	return &CredentialVerifier{secret: secret}
}

// Verify validates an Authorization header value of the form "Bearer <token>"
// and returns the identity claim embedded in the token.
func (v *CredentialVerifier) Verify(authHeader string) (*utils.Claims, error) {
	if authHeader == "" {
		return nil, ErrUnauthorized
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, ErrUnauthorized
	}

	claims, err := utils.ValidateToken(parts[1], v.secret)
	if err != nil {
		return nil, ErrUnauthorized
	}
	claims.Email = strings.ToLower(strings.TrimSpace(claims.Email))
	return claims, nil
}

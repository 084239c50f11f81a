package auth

import (
	"testing"
	"time"

	"aidanwoods.dev/go-paseto"
)

// issueWithSubject builds a token with an arbitrary subject string.
func issueWithSubject(t *testing.T, v *TokenVerifier, sub string) string {
	t.Helper()
	token := paseto.NewToken()
	token.SetIssuer(v.issuer)
	token.SetSubject(sub)
	token.SetExpiration(time.Now().Add(time.Hour))
	return token.V4Encrypt(v.key, nil)
}

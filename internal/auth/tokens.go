package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"aidanwoods.dev/go-paseto"
)

// DefaultIssuer is the issuer claim expected when none is configured.
const DefaultIssuer = "promptlab"

// ErrInvalidToken is returned for any token that fails to decrypt or validate.
var ErrInvalidToken = errors.New("invalid token")

// TokenVerifier checks PASETO v4.local bearer tokens.
type TokenVerifier struct {
	key    paseto.V4SymmetricKey
	issuer string
	now    func() time.Time
}

// NewTokenVerifier creates a verifier for tokens encrypted with keyHex.
func NewTokenVerifier(keyHex, issuer string) (*TokenVerifier, error) {
	keyBytes, err := DecodeKeyHex(keyHex)
	if err != nil {
		return nil, err
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("create PASETO symmetric key: %w", err)
	}

	if issuer == "" {
		issuer = DefaultIssuer
	}

	return &TokenVerifier{key: key, issuer: issuer, now: time.Now}, nil
}

// Verify decrypts the token, checks issuer and expiry, and returns the user id
// carried in the subject claim.
func (v *TokenVerifier) Verify(tokenString string) (int64, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.IssuedBy(v.issuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(v.now()))

	token, err := parser.ParseV4Local(v.key, tokenString, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := token.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, sub)
	}

	return userID, nil
}

// Issue creates a token for userID valid for ttl.
func (v *TokenVerifier) Issue(userID int64, ttl time.Duration) string {
	now := v.now()

	token := paseto.NewToken()
	token.SetIssuer(v.issuer)
	token.SetSubject(strconv.FormatInt(userID, 10))
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(ttl))

	return token.V4Encrypt(v.key, nil)
}

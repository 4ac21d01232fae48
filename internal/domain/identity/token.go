package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the validity window for issued credentials.
const TokenTTL = time.Hour

// tokenClaims is the internal claims type used for JWT signing and parsing.
// Only the user ID and role are carried; everything else about the identity
// is re-resolved from the store on verification.
type tokenClaims struct {
	jwt.RegisteredClaims
	Role Role `json:"role"`
}

// TokenCodec signs and verifies credential tokens with an HMAC secret.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec creates a codec for the given signing secret.
func NewTokenCodec(secret []byte) *TokenCodec {
	return &TokenCodec{
		secret: secret,
		ttl:    TokenTTL,
		now:    time.Now,
	}
}

// Sign issues a token embedding the user ID and role, valid for the
// configured window.
func (c *TokenCodec) Sign(userID string, role Role) (string, error) {
	now := c.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify validates the signature and expiry and returns the embedded user ID
// and role. Malformed, expired and badly signed tokens all map to
// ErrInvalidToken.
func (c *TokenCodec) Verify(token string) (userID string, role Role, err error) {
	var claims tokenClaims
	_, err = jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", "", ErrInvalidToken
	}
	return claims.Subject, claims.Role, nil
}

package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, expired, or has a bad signature or issuer.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims holds the JWT claims for a simulator identity token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// TokenProvider issues and verifies identity JWTs signed with a symmetric HS256 secret.
// Tokens carry a fixed issuer, the username as subject, and the user id as a claim.
// Expiry is the only invalidation mechanism; there is no revocation list.
type TokenProvider struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenProvider returns a TokenProvider that signs with secret and stamps issuer
// on every token. ttl is the token lifetime from issuance (24h in production).
func NewTokenProvider(secret []byte, issuer string, ttl time.Duration) *TokenProvider {
	return &TokenProvider{secret: secret, issuer: issuer, ttl: ttl}
}

// Issue signs a token for the given user. Deterministic given identical inputs
// and timestamp; a new token is issued per login.
func (p *TokenProvider) Issue(userID, username string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
		UserID: userID,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(p.secret)
}

// Verify parses and validates the token (signature, exp, iss) and returns the
// user id and username from its claims. Any failure is ErrInvalidToken; no
// detail about the failure mode is surfaced to callers.
func (p *TokenProvider) Verify(tokenString string) (userID, username string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	}, jwt.WithIssuer(p.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", ErrInvalidToken
	}
	if claims.UserID == "" || claims.Subject == "" {
		return "", "", ErrInvalidToken
	}
	return claims.UserID, claims.Subject, nil
}

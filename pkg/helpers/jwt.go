package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/classhub/user-service/internal/domain/entity"
)

// ErrIncompleteIdentity is returned when Issue is called with an identity
// that is missing a required claim. That is a programming-contract violation
// on the caller's side, not a runtime failure path.
var ErrIncompleteIdentity = errors.New("identity is missing required claims")

// AuthClaims is the decoded content of a bearer credential. It carries enough
// identity to reconstruct a requester without a store lookup.
type AuthClaims struct {
	UserID     string `json:"uid"`
	Username   string `json:"username"`
	GlobalRole string `json:"role"`
	jwt.RegisteredClaims
}

// IsAuthenticated satisfies the requester capability set.
func (c *AuthClaims) IsAuthenticated() bool { return c.UserID != "" }

// Role satisfies the requester capability set. Unknown role strings stay
// unknown; the permission gate rejects them.
func (c *AuthClaims) Role() entity.GlobalRole { return entity.GlobalRole(c.GlobalRole) }

// SubjectID returns the aggregate id the claims describe.
func (c *AuthClaims) SubjectID() (uuid.UUID, error) { return uuid.Parse(c.UserID) }

// TokenCodec encodes a user identity into a signed, expiring credential and
// decodes it back. It is stateless and safe for unlimited concurrent use; the
// signing key is injected once at construction.
type TokenCodec struct {
	secret  []byte
	subject string
	ttl     time.Duration
}

// NewTokenCodec builds a codec with the process-wide signing key, the fixed
// subject marker required on every token, and the credential lifetime.
func NewTokenCodec(secret, subject string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), subject: subject, ttl: ttl}
}

// Issue embeds the identity's claims plus issued-at and expiry into a signed
// token. The identity must be fully loaded.
func (tc *TokenCodec) Issue(u *entity.User) (string, time.Time, error) {
	if u == nil || !u.Persisted() || u.Username == "" || !u.GlobalRole.Valid() {
		return "", time.Time{}, ErrIncompleteIdentity
	}
	now := time.Now()
	exp := now.Add(tc.ttl)
	claims := &AuthClaims{
		UserID:     u.ID.String(),
		Username:   u.Username,
		GlobalRole: u.GlobalRole.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tc.subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(tc.secret)
	return s, exp, err
}

// Validate verifies signature, expiry, and the subject marker. It never does
// a store lookup; a well-formed, currently-valid token always succeeds.
func (tc *TokenCodec) Validate(raw string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Header["alg"])
		}
		return tc.secret, nil
	}, jwt.WithSubject(tc.subject))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

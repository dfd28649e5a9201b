package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the name of the session cookie holding the signed JWT.
const SessionCookie = "linkly_session"

// SessionTTL is how long an issued session stays valid.
const SessionTTL = 24 * time.Hour

// ErrInvalidSession is returned when a session token cannot be verified.
var ErrInvalidSession = errors.New("invalid session token")

// NewSessionToken issues a signed session token whose subject is the
// authenticated user's email.
func NewSessionToken(secret []byte, email string) (string, time.Time, error) {
	expiresAt := time.Now().Add(SessionTTL)

	claims := &jwt.RegisteredClaims{
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// ParseSessionToken verifies a session token and returns the email subject.
func ParseSessionToken(secret []byte, tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidSession
	}

	return claims.Subject, nil
}

type identityKey struct{}

// ContextWithIdentity adds the authenticated owner email to the context.
func ContextWithIdentity(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, identityKey{}, email)
}

// IdentityFromContext extracts the authenticated owner email, if present.
func IdentityFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(identityKey{}).(string)

	return email, ok && email != ""
}

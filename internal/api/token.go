package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of a backend token the client cares about.
type Claims struct {
	Subject   string
	Email     string
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that has passed.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// TokenClaims decodes a bearer token without verifying its signature. The
// client has no key; this is only used to show who is signed in and when the
// token expires.
func TokenClaims(token string) (Claims, error) {
	if token == "" {
		return Claims{}, errors.New("token is empty")
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("token is not a JWT: %w", err)
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("unexpected claims type")
	}

	var c Claims
	c.Subject, _ = mc.GetSubject()
	c.Email, _ = mc["email"].(string)
	switch id := mc["userId"].(type) {
	case float64:
		c.UserID = fmt.Sprintf("%d", int64(id))
	case string:
		c.UserID = id
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// Package token issues and verifies the short-lived access tokens.
// Tokens are self-contained: verification is signature plus expiry,
// never a storage lookup, so an issued token stays valid until its TTL
// elapses even after logout.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dom/web-ads-backend/internal/apperror"
)

type Claims struct {
	UserID   uuid.UUID
	Username string
}

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue mints a signed compact token for the given identity.
func (m *Manager) Issue(userID uuid.UUID, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"name": username,
		"exp":  now.Add(m.ttl).Unix(),
		"iat":  now.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify checks signature and expiry and returns the embedded identity.
// Expired tokens fail with apperror.ErrTokenExpired; everything else
// (malformed, bad signature, wrong algorithm, bad claims) fails with
// apperror.ErrInvalidToken, so callers can tell "refresh" apart from
// "log in again".
func (m *Manager) Verify(raw string) (*Claims, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.Wrap(apperror.ErrTokenExpired, err, "access token expired")
		}
		return nil, apperror.Wrap(apperror.ErrInvalidToken, err, "invalid access token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok || !t.Valid {
		return nil, apperror.New(apperror.ErrInvalidToken, "invalid access token")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, apperror.New(apperror.ErrInvalidToken, "missing subject claim")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrInvalidToken, err, "malformed subject claim")
	}
	username, _ := claims["name"].(string)

	return &Claims{UserID: userID, Username: username}, nil
}

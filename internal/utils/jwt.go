// Package utils provides helpers for staff token creation and
// password verification.
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StaffToken is a signed HS256 JWT issued to a staff member after
// login, together with its expiry.  The token carries the staff_id,
// issued-at and expiration claims; protected endpoints present it as
// a Bearer token.
type StaffToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// ErrTokenExpired is returned by ParseStaffToken when the token's
// expiration has passed.
var ErrTokenExpired = errors.New("token has expired")

// ErrTokenInvalid is returned by ParseStaffToken for any other parse
// or validation failure (bad signature, wrong algorithm, malformed
// claims).
var ErrTokenInvalid = errors.New("invalid token")

// NewStaffToken builds and signs a token for a staff member.  ttlHours
// controls the lifetime; the issuing path passes 24.
func NewStaffToken(secret string, staffID uint64, ttlHours int) (StaffToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlHours) * time.Hour)
	claims := jwt.MapClaims{
		"staff_id": staffID,
		"iat":      now.Unix(),
		"exp":      exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return StaffToken{}, err
	}
	return StaffToken{Token: signed, Exp: exp}, nil
}

// ParseStaffToken validates a raw token string and extracts the
// staff_id claim.  Expiry is reported separately from every other
// failure so callers can surface distinct error messages.
func ParseStaffToken(secret, raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}
	if !tok.Valid {
		return 0, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrTokenInvalid
	}
	// Numeric JSON claims decode as float64.
	if v, ok := claims["staff_id"].(float64); ok && v > 0 {
		return uint64(v), nil
	}
	return 0, ErrTokenInvalid
}

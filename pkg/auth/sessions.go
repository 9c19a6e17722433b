// Package auth issues and verifies session credentials and carries the
// HTTP gateway middleware (CORS, rate limiting, request logging).
//
// A credential is a signed JWT naming the user and a per-login session
// id. The session id list lives on the stored user, so logout revokes a
// single token server-side and an admin removal kills them all; the JWT
// signature alone is never enough.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"parley/pkg/errdefs"
)

// Sessions signs and parses session tokens.
type Sessions struct {
	secret []byte
}

func NewSessions(secret string) *Sessions {
	return &Sessions{secret: []byte(secret)}
}

// Issue mints a token for uid bound to a fresh session id. The caller
// persists the session id on the user.
func (s *Sessions) Issue(uid int64) (token, sid string, err error) {
	sid = uuid.NewString()
	claims := jwt.MapClaims{
		"uid": uid,
		"sid": sid,
		"iat": time.Now().Unix(),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	return token, sid, nil
}

// Parse verifies the signature and returns the user and session ids. The
// session id must still be checked against the stored user.
func (s *Sessions) Parse(token string) (uid int64, sid string, err error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errdefs.Unauthorized("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, "", errdefs.Unauthorized("invalid token")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errdefs.Unauthorized("invalid token claims")
	}
	fuid, ok := claims["uid"].(float64)
	if !ok {
		return 0, "", errdefs.Unauthorized("invalid token claims")
	}
	ssid, ok := claims["sid"].(string)
	if !ok {
		return 0, "", errdefs.Unauthorized("invalid token claims")
	}
	return int64(fuid), ssid, nil
}

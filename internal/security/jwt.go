package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the whole session: no server-side session row exists, the
// signed token carries everything the app needs about the signed-in user.
type SessionClaims struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Image      string `json:"image,omitempty"`
	VerifiedAt int64  `json:"verified_at,omitempty"`
	jwt.RegisteredClaims
}

func (c *SessionClaims) UserID() (uint, error) {
	id64, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse session subject: %w", err)
	}
	return uint(id64), nil
}

type JWTManager struct {
	issuer string
	secret []byte
}

func NewJWTManager(issuer, secret string) *JWTManager {
	return &JWTManager{issuer: issuer, secret: []byte(secret)}
}

// SignSessionToken issues a session token with a fixed absolute lifetime.
// There is no sliding renewal; expiry forces a fresh sign-in.
func (m *JWTManager) SignSessionToken(userID uint, email, name, image string, verifiedAt time.Time, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &SessionClaims{
		Email: email,
		Name:  name,
		Image: image,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if !verifiedAt.IsZero() {
		claims.VerifiedAt = verifiedAt.Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *JWTManager) ParseSessionToken(raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

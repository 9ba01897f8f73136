// Package auth issues and verifies the bearer tokens that identify users on
// both the HTTP API and realtime connection handshakes.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"scory/internal/apperr"
	"scory/internal/config"
)

// ErrUnauthenticated is returned for every verification failure. Callers must
// not be able to distinguish a missing token from an expired or forged one.
var ErrUnauthenticated = apperr.New(apperr.KindUnauthenticated, "not authorized")

type accessClaims struct {
	jwt.RegisteredClaims
	UserID uint `json:"user_id"`
}

// Manager is a stateless verifier/issuer bound to the server secrets.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	audience      string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewManager(cfg config.Config) *Manager {
	return &Manager{
		accessSecret:  []byte(cfg.JWTAccessSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		issuer:        cfg.JWTIssuer,
		audience:      cfg.JWTAudience,
		accessTTL:     time.Duration(cfg.AccessTokenMinutes) * time.Minute,
		refreshTTL:    time.Duration(cfg.RefreshTokenDays) * 24 * time.Hour,
		now:           time.Now,
	}
}

func (m *Manager) GenerateAccess(userID uint) (string, error) {
	return m.generate(userID, m.accessSecret, m.accessTTL)
}

func (m *Manager) GenerateRefresh(userID uint) (string, error) {
	return m.generate(userID, m.refreshSecret, m.refreshTTL)
}

func (m *Manager) generate(userID uint, secret []byte, ttl time.Duration) (string, error) {
	now := m.now().UTC()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccess validates an access token and returns the bound user ID.
func (m *Manager) VerifyAccess(token string) (uint, error) {
	return m.verify(token, m.accessSecret)
}

// VerifyRefresh validates a refresh token and returns the bound user ID.
func (m *Manager) VerifyRefresh(token string) (uint, error) {
	return m.verify(token, m.refreshSecret)
}

func (m *Manager) verify(token string, secret []byte) (uint, error) {
	if token == "" {
		return 0, ErrUnauthenticated
	}
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return m.now() }),
	)
	if err != nil || !parsed.Valid || claims.UserID == 0 {
		return 0, ErrUnauthenticated
	}
	return claims.UserID, nil
}

package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is how long an admin session stays valid.
const DefaultTTL = 24 * time.Hour

// Claims represents admin session claims structure
type Claims struct {
	Username string `json:"username"`
	Type     string `json:"type"` // always "admin_session"
	jwt.RegisteredClaims
}

// Manager signs and validates admin session tokens. Tokens are stateless:
// logout is cookie deletion on the client, not server-side revocation.
type Manager struct {
	secret string
	ttl    time.Duration
}

// NewManager creates new session manager
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: secret, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue generates a signed session token for an authenticated admin
func (m *Manager) Issue(username string) (string, error) {
	claims := Claims{
		Username: username,
		Type:     "admin_session",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// Validate parses a session token and returns the admin username
func (m *Manager) Validate(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})

	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	if claims.Type != "admin_session" {
		return "", fmt.Errorf("invalid token type: expected admin_session, got %s", claims.Type)
	}

	return claims.Username, nil
}

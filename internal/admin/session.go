package admin

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"digitora/internal/util"
)

// ErrInvalidCredentials indicates a failed admin login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// DefaultSessionTTL is the lifetime of an admin session token.
const DefaultSessionTTL = 12 * time.Hour

// SessionManager issues and verifies HS256 admin session tokens. The
// storefront has a single admin identity protected by a shared password.
type SessionManager struct {
	password     string
	passwordHash string
	secret       []byte
	ttl          time.Duration
}

// NewSessionManager configures admin auth. Exactly one of password or
// passwordHash (bcrypt) must be set; the JWT secret is always required.
func NewSessionManager(password, passwordHash, jwtSecret string, ttl time.Duration) (*SessionManager, error) {
	password = strings.TrimSpace(password)
	passwordHash = strings.TrimSpace(passwordHash)
	if password == "" && passwordHash == "" {
		return nil, fmt.Errorf("admin password or password hash is required")
	}
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, fmt.Errorf("admin jwt secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		password:     password,
		passwordHash: passwordHash,
		secret:       []byte(jwtSecret),
		ttl:          ttl,
	}, nil
}

// Login checks the password and issues a session token.
func (m *SessionManager) Login(password string) (string, error) {
	if !m.checkPassword(password) {
		return "", ErrInvalidCredentials
	}
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		ID:        util.NewID(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Verify validates a session token.
func (m *SessionManager) Verify(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidCredentials
	}
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unsupported signing method")
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
	)
	if err != nil || !parsed.Valid || claims.Subject != "admin" {
		return ErrInvalidCredentials
	}
	return nil
}

func (m *SessionManager) checkPassword(password string) bool {
	if m.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(m.passwordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(m.password), []byte(password)) == 1
}

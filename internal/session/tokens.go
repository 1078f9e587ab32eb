// Package session issues and verifies session tokens, manages the session
// cookie and tracks revoked tokens.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the typed view of a session token.
type Claims struct {
	UserID    uuid.UUID
	Email     string
	Role      models.Role
	JTI       string
	ExpiresAt time.Time
}

type Manager struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewManager(secret string, expiry time.Duration) *Manager {
	return &Manager{secret: []byte(secret), expiry: expiry, now: time.Now}
}

func (m *Manager) Secret() []byte {
	return m.secret
}

func (m *Manager) Expiry() time.Duration {
	return m.expiry
}

// Issue signs a HS256 token for the account with a fresh jti.
func (m *Manager) Issue(a *models.Account) (string, Claims, error) {
	now := m.now()
	c := Claims{
		UserID:    a.ID,
		Email:     a.Email,
		Role:      a.Role,
		JTI:       uuid.NewString(),
		ExpiresAt: now.Add(m.expiry),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   c.UserID.String(),
		"email": c.Email,
		"role":  string(c.Role),
		"jti":   c.JTI,
		"iat":   now.Unix(),
		"exp":   c.ExpiresAt.Unix(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, c, nil
}

// Parse verifies the signature and expiry of raw.
func (m *Manager) Parse(raw string) (Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	return FromToken(token)
}

// FromToken reads Claims out of a token already verified by the JWT middleware.
func FromToken(token *jwt.Token) (Claims, error) {
	if token == nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	sub, _ := mc["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	jti, _ := mc["jti"].(string)
	if jti == "" {
		return Claims{}, ErrInvalidToken
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, ErrInvalidToken
	}
	email, _ := mc["email"].(string)
	role, _ := mc["role"].(string)

	return Claims{
		UserID:    userID,
		Email:     email,
		Role:      models.Role(role),
		JTI:       jti,
		ExpiresAt: exp.Time,
	}, nil
}

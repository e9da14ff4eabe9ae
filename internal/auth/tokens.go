package auth

import (
	"errors"
	"fmt"
	"time"

	"shopfront/internal/config"
	"shopfront/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the caller resolved from a verified credential
type Identity struct {
	AccountID string
	Role      domain.Role
}

// Claims represents the JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies signed credentials
type Tokens struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewTokens creates a Tokens from the JWT settings
func NewTokens(cfg config.JWTConfig) *Tokens {
	return &Tokens{
		secret: []byte(cfg.Secret),
		expiry: cfg.Expiry,
		now:    time.Now,
	}
}

// Expiry returns the lifetime of issued tokens
func (t *Tokens) Expiry() time.Duration {
	return t.expiry
}

// Issue generates a signed HS256 token for the account
func (t *Tokens) Issue(account *domain.Account) (string, error) {
	now := t.now()
	claims := &Claims{
		UserID: account.ID,
		Role:   string(account.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a token and resolves it to an identity
func (t *Tokens) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, domain.ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, domain.ErrTokenExpired
		}
		return Identity{}, domain.ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return Identity{}, domain.ErrInvalidToken
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return Identity{}, domain.ErrInvalidToken
	}

	return Identity{AccountID: claims.UserID, Role: role}, nil
}

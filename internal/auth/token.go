// Package auth provides credential hashing and JWT issue/validate glue for
// the admin backend. Users persist through the core collection repository.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lhpaul/finadmin/internal/admin/domain/model"
	"github.com/lhpaul/finadmin/internal/shared/errors"
)

// Claims carried inside an access token.
type Claims struct {
	UserID    string         `json:"uid"`
	Email     string         `json:"email"`
	Role      model.UserRole `json:"role"`
	CompanyID string         `json:"companyId,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates HS256 access tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenManager(secret, issuer string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.NewInternalError("jwt secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// Issue signs a token for the user.
func (m *TokenManager) Issue(userID string, user model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		Email:     user.Email,
		Role:      user.Role,
		CompanyID: user.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", errors.NewInternalError("signing token").WithCause(err)
	}
	return signed, nil
}

// Validate parses and verifies a token, returning its claims.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.NewUnauthorizedError("missing token")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.NewUnauthorizedError("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.NewUnauthorizedError("invalid token").WithCause(err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.NewUnauthorizedError("invalid token claims")
	}
	return claims, nil
}

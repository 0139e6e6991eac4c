package authorization

import (
	"time"

	"github.com/cristalhq/jwt/v4"
	"github.com/google/uuid"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

type Claims struct {
	jwt.RegisteredClaims
	Role domain.Role `json:"role"`
}

// TokenManager issues and verifies HS256 bearer tokens.
type TokenManager struct {
	signer   jwt.Signer
	verifier jwt.Verifier
	ttl      time.Duration
	now      func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	key := []byte(secret)
	signer, err := jwt.NewSignerHS(jwt.HS256, key)
	if err != nil {
		return nil, err
	}
	verifier, err := jwt.NewVerifierHS(jwt.HS256, key)
	if err != nil {
		return nil, err
	}
	return &TokenManager{signer: signer, verifier: verifier, ttl: ttl, now: time.Now}, nil
}

func (m *TokenManager) GenerateToken(user *domain.User) (string, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Role: user.Role,
	}

	token, err := jwt.NewBuilder(m.signer).Build(claims)
	if err != nil {
		return "", errors.Internal(err)
	}
	return token.String(), nil
}

func (m *TokenManager) ParseToken(raw string) (*Claims, error) {
	var claims Claims
	if err := jwt.ParseClaims([]byte(raw), m.verifier, &claims); err != nil {
		return nil, errors.Authentication(errors.InvalidTokenError)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(m.now()) {
		return nil, errors.Authentication(errors.ExpiredTokenError)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, errors.Authentication(errors.InvalidTokenError)
	}
	return &claims, nil
}

// Remaining is how long the token stays valid.
func (m *TokenManager) Remaining(claims *Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	return claims.ExpiresAt.Sub(m.now())
}

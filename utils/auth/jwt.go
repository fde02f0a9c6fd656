package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Principal kinds carried in token claims. Account tokens and admin tokens
// live in disjoint spaces: each is signed with its own secret, and a token
// from one space never validates against the other space's manager.
const (
	PrincipalAccount = "account"
	PrincipalAdmin   = "admin"
)

// JWTConfig holds JWT configuration for one token space
type JWTConfig struct {
	Secret    string
	Expiry    time.Duration
	Issuer    string
	Principal string // PrincipalAccount or PrincipalAdmin
}

// Claims represents JWT claims for either principal kind
type Claims struct {
	PrincipalID uint   `json:"principal_id"`
	Username    string `json:"username"`
	FullName    string `json:"full_name,omitempty"`
	Role        string `json:"role"`
	Principal   string `json:"principal"` // "account" or "admin"
	jwt.RegisteredClaims
}

// JWTManager signs and verifies tokens for a single principal space
type JWTManager struct {
	config JWTConfig
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(config JWTConfig) *JWTManager {
	return &JWTManager{
		config: config,
	}
}

// GenerateToken issues a signed token for the manager's principal space
func (j *JWTManager) GenerateToken(id uint, username, fullName, role string) (string, error) {
	now := time.Now()
	expiresAt := now.Add(j.config.Expiry)

	claims := Claims{
		PrincipalID: id,
		Username:    username,
		FullName:    fullName,
		Role:        role,
		Principal:   j.config.Principal,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.config.Issuer,
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.Secret))
}

// ValidateToken validates a JWT token and returns claims. Tokens signed for
// the other principal space fail here even before the principal check,
// because the secrets differ.
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(j.config.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.Principal != j.config.Principal {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StaffClaims are the claims carried in staff access tokens. Tokens are
// issued by the external identity service; this API only validates them and
// extracts the actor's role and store membership.
type StaffClaims struct {
	StaffID uuid.UUID `json:"staff_id"`
	StoreID uuid.UUID `json:"store_id"`
	Role    string    `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager validates staff access tokens against the shared signing key.
type JWTManager struct {
	secretKey []byte
	expiry    time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, expiry time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secret),
		expiry:    expiry,
	}
}

// GenerateAccessToken signs a token for the given staff member. Production
// tokens come from the identity service; this is used by tests and local
// tooling.
func (m *JWTManager) GenerateAccessToken(staffID, storeID uuid.UUID, role string) (string, error) {
	claims := &StaffClaims{
		StaffID: staffID,
		StoreID: storeID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "tablewise-api",
			Subject:   staffID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// ValidateAccessToken parses and validates a token, returning its claims.
func (m *JWTManager) ValidateAccessToken(tokenString string) (*StaffClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&StaffClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return m.secretKey, nil
		},
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*StaffClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

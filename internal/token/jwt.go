package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/m2m-server/internal/model"
)

const (
	issuer      = "m2m"
	typeSession = "session"
)

// Claims represents JWT claims carried by a device session token.
type Claims struct {
	jwt.RegisteredClaims
	ProfileID uuid.UUID `json:"profile_id"`
	TokenType string    `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
// Session tokens carry no expiry; they stay usable until the device logs out.
type JWT struct {
	secretKey string
	now       func() time.Time
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) model.TokenManager {
	return &JWT{secretKey: secretKey, now: time.Now}
}

// GenerateSessionToken signs a session token for the given profile.
func (j *JWT) GenerateSessionToken(profileID uuid.UUID) (string, error) {
	if profileID == uuid.Nil {
		return "", errors.New("profile id is required")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(j.now()),
		},
		ProfileID: profileID,
		TokenType: typeSession,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ParseSessionToken validates a session token and returns its profile ID.
func (j *JWT) ParseSessionToken(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse session token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, fmt.Errorf("session token is invalid")
	}
	if claims.TokenType != typeSession {
		return uuid.Nil, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	if claims.ProfileID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("session token has no profile")
	}
	return claims.ProfileID, nil
}

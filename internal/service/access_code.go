package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// AccessCode verifies the shared access code handed out by the center.
// Only its bcrypt hash is kept in memory.
type AccessCode struct {
	hash []byte
}

// NewAccessCode builds a verifier from a bcrypt hash, or from the plain code
// when no hash is configured.
func NewAccessCode(plain, hash string) (*AccessCode, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("invalid access code hash: %w", err)
		}
		return &AccessCode{hash: []byte(hash)}, nil
	}

	if plain == "" {
		return nil, errors.New("access code is not configured")
	}

	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash access code: %w", err)
	}
	return &AccessCode{hash: h}, nil
}

// Match reports whether code is the access code.
func (a *AccessCode) Match(code string) bool {
	if code == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.hash, []byte(code)) == nil
}

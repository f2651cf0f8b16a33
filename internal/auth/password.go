package auth

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when BCRYPT_COST is unset (~250ms per hash).
const DefaultCost = 12

// Password length policy shared by user registration and BD staff records.
//
// MinPasswordLength counts characters. MaxPasswordBytes is bcrypt's input
// limit in bytes; longer passwords are rejected rather than silently
// truncated, so a multi-byte password hits the ceiling sooner.
const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

var (
	// ErrPasswordMismatch is returned by Verify when the password is wrong.
	// Any other Verify error means the stored hash itself is unusable.
	ErrPasswordMismatch = errors.New("auth: invalid password")

	ErrPasswordTooShort = fmt.Errorf("auth: password must be at least %d characters long", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("auth: password must be at most %d bytes long", MaxPasswordBytes)
)

// CheckPolicy reports whether plaintext is an acceptable password.
func CheckPolicy(plaintext string) error {
	if utf8.RuneCountInString(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(plaintext) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// PasswordService provides bcrypt hashing and verification for user
// accounts and BD staff.
//
// It's a struct (not free functions) so the cost comes from configuration
// and tests can run at bcrypt.MinCost.
type PasswordService struct {
	cost int
}

// NewPasswordServiceWithCost creates a PasswordService with a configured
// cost, rejecting values bcrypt would refuse.
func NewPasswordServiceWithCost(cost int) (*PasswordService, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("auth: bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	return &PasswordService{cost: cost}, nil
}

// Hash hashes the given plaintext password with bcrypt. The result embeds
// the salt and cost and can be stored as-is. Only the byte ceiling is
// enforced here; callers apply CheckPolicy to new passwords.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks a plaintext password against a stored bcrypt hash.
// Returns ErrPasswordMismatch for a wrong password. The comparison is
// constant-time.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}

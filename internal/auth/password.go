package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"hiringdesk/resume-intake/internal/config"
)

// maxBcryptInput is the most bytes bcrypt accepts; the pepper counts against it.
const maxBcryptInput = 72

var ErrPasswordTooLong = errors.New("password is too long")

type PasswordHasher struct {
	cost   int
	pepper string
}

func NewPasswordHasher(cfg config.PasswordConfig) *PasswordHasher {
	return &PasswordHasher{cost: cfg.BcryptCost, pepper: cfg.Pepper}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password)+len(h.pepper) > maxBcryptInput {
		return "", fmt.Errorf("%w: at most %d bytes", ErrPasswordTooLong, h.MaxPasswordBytes())
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password+h.pepper), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h *PasswordHasher) Verify(password, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password+h.pepper)) == nil
}

// MaxPasswordBytes is the longest password Hash accepts with the configured pepper.
func (h *PasswordHasher) MaxPasswordBytes() int {
	return max(maxBcryptInput-len(h.pepper), 0)
}

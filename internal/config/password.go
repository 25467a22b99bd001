package config

import (
	"crypto/subtle"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// PasswordConfig holds the admin password and how to check it. When Hash is set the
// password is verified with bcrypt; otherwise Plain is compared in constant time.
type PasswordConfig struct {
	Plain      string
	Hash       string
	BcryptCost int
	Pepper     string // optional global secret appended before hashing
}

// NewPasswordConfig creates a password configuration from environment variables.
// It reads ADMIN_PASSWORD_HASH or ADMIN_PASSWORD, BCRYPT_COST (default: 12) and
// optionally PASSWORD_PEPPER.
func NewPasswordConfig() (*PasswordConfig, error) {
	costStr := os.Getenv("BCRYPT_COST")
	if costStr == "" {
		costStr = "12" // default
	}

	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
	}

	config := &PasswordConfig{
		Plain:      os.Getenv("ADMIN_PASSWORD"),
		Hash:       os.Getenv("ADMIN_PASSWORD_HASH"),
		BcryptCost: cost,
		Pepper:     os.Getenv("PASSWORD_PEPPER"), // empty if not set
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *PasswordConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	if c.Hash != "" {
		if _, err := bcrypt.Cost([]byte(c.Hash)); err != nil {
			return fmt.Errorf("invalid ADMIN_PASSWORD_HASH: %w", err)
		}
	}
	return nil
}

// Configured reports whether any admin password is set.
func (c *PasswordConfig) Configured() bool {
	return c.Hash != "" || c.Plain != ""
}

// HashPassword hashes a password using bcrypt (with optional pepper).
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(c.pepper(pw)), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// Verify reports whether pw is the admin password. An empty password or an
// unconfigured admin password never matches.
func (c *PasswordConfig) Verify(pw string) bool {
	if pw == "" {
		return false
	}
	if c.Hash != "" {
		return c.VerifyPassword(pw, c.Hash)
	}
	if c.Plain == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(pw), []byte(c.Plain)) == 1
}

// VerifyPassword verifies a password against a stored hash (with optional pepper).
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(c.pepper(pw)))
	return err == nil
}

func (c *PasswordConfig) pepper(pw string) string {
	if c.Pepper != "" {
		return pw + c.Pepper
	}
	return pw
}

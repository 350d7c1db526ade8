package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when an empty password is hashed. Hashing
// failures abort the calling operation; registration must not proceed with
// an unusable credential.
var ErrEmptyPassword = errors.New("password must not be empty")

// Hasher hashes and verifies passwords with bcrypt at a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher. Costs outside bcrypt's valid range fall back
// to the default cost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a salted, non-reversible credential from a plaintext
// password. Each call salts independently, so hashing the same password
// twice yields different credentials.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether the password matches the stored credential. A
// mismatch or a malformed credential is a normal negative result, never an
// error.
func (h *Hasher) Verify(password, hashedCredential string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedCredential), []byte(password)) == nil
}

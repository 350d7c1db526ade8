package auth

import (
	"errors"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	hasher := NewHasher(4) // minimum cost keeps the test fast

	hashed, err := hasher.Hash("hunter2")
	if err != nil {
		t.Fatalf("failed to hash password: %s", err)
	}
	if hashed == "hunter2" || hashed == "" {
		t.Fatalf("hash must not echo the plaintext, got %q", hashed)
	}

	if !hasher.Verify("hunter2", hashed) {
		t.Error("expected the original password to verify")
	}
	if hasher.Verify("hunter3", hashed) {
		t.Error("expected a different password to fail verification")
	}
}

func TestHashSaltsPerCall(t *testing.T) {
	hasher := NewHasher(4)

	first, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("failed to hash password: %s", err)
	}
	second, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("failed to hash password: %s", err)
	}
	if first == second {
		t.Error("expected two hashes of the same password to differ")
	}
}

func TestHashEmptyPassword(t *testing.T) {
	hasher := NewHasher(4)
	if _, err := hasher.Hash(""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestVerifyMalformedCredential(t *testing.T) {
	hasher := NewHasher(4)

	testCases := []struct {
		description string
		credential  string
	}{
		{"empty credential", ""},
		{"not a bcrypt hash", "plainly not a hash"},
		{"truncated hash", "$2a$10$abc"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if hasher.Verify("anything", tc.credential) {
				t.Error("expected verification to return false")
			}
		})
	}
}

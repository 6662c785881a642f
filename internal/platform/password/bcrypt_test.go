package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hashed, err := hasher.Hash("secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hashed == "secret123" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !hasher.Compare(hashed, "secret123") {
		t.Errorf("expected matching password to verify")
	}
	if hasher.Compare(hashed, "secret124") {
		t.Errorf("expected wrong password to fail verification")
	}
}

func TestInvalidCostFallsBack(t *testing.T) {
	hasher := NewBcryptHasher(0)
	if hasher.cost != bcrypt.DefaultCost {
		t.Errorf("expected default cost, got %d", hasher.cost)
	}
}

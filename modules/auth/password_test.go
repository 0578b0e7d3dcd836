package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// testHasher uses the minimum bcrypt cost to keep the suite fast.
func testHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcrypt.MinCost}
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := testHasher()

	hash, err := hasher.Hash("correct-horse-battery")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "correct-horse-battery" {
		t.Error("hash must not equal the plaintext password")
	}

	if !hasher.Verify("correct-horse-battery", hash) {
		t.Error("Verify() should accept the original password")
	}
	if hasher.Verify("wrong-password", hash) {
		t.Error("Verify() should reject a different password")
	}
	if hasher.Verify("correct-horse-battery", "not-a-bcrypt-hash") {
		t.Error("Verify() should reject a malformed hash")
	}
}

func TestPasswordHasher_UniqueSalts(t *testing.T) {
	hasher := testHasher()

	first, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if first == second {
		t.Error("hashing the same password twice should produce different hashes")
	}
}

package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("hunter22", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if hash == "hunter22" {
		t.Fatal("hash must not equal plaintext")
	}
	if err := ComparePassword(hash, "hunter22"); err != nil {
		t.Fatalf("expected match: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch")
	}
}

func TestHashPasswordDistinctSalts(t *testing.T) {
	first, err := HashPassword("hunter22", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	second, err := HashPassword("hunter22", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("two hashes of the same password must differ by salt")
	}
}

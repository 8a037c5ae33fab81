package bcrypt

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	b := NewWithCost(bcrypt.MinCost)

	hash, err := b.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals the plaintext")
	}

	if err := b.ComparePassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("ComparePassword with the right password: %v", err)
	}
	if err := b.ComparePassword(hash, "wrong password"); err == nil {
		t.Error("ComparePassword accepted the wrong password")
	}
}

func TestNewWithCostClampsOutOfRange(t *testing.T) {
	b := NewWithCost(bcrypt.MaxCost + 1)

	// An out-of-range cost falls back to the default instead of failing
	// every hash.
	if _, err := b.HashPassword("pw"); err != nil {
		t.Errorf("HashPassword with clamped cost: %v", err)
	}
}

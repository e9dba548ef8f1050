package utils

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hashed == "s3cret-pass" {
		t.Fatal("password stored in the clear")
	}
	if !strings.HasPrefix(hashed, "$2") {
		t.Fatalf("not a bcrypt hash: %q", hashed)
	}

	if !CheckPassword(hashed, "s3cret-pass") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hashed, "wrong-pass") {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	b, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if a == b {
		t.Error("identical hashes for identical inputs; salt missing")
	}
}

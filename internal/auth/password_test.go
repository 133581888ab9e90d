package auth

import "testing"

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	second, err := HashPassword("password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if first == second {
		t.Error("expected different hashes for the same plaintext")
	}
	if !VerifyPassword("password", first) {
		t.Error("first hash did not verify")
	}
	if !VerifyPassword("password", second) {
		t.Error("second hash did not verify")
	}
}

func TestVerifyPasswordMismatch(t *testing.T) {
	hash, err := HashPassword("password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if VerifyPassword("wrong", hash) {
		t.Error("wrong password verified")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if VerifyPassword("password", "not-a-bcrypt-hash") {
		t.Error("malformed hash verified")
	}
	if VerifyPassword("password", "") {
		t.Error("empty hash verified")
	}
}

package auth

import "testing"

func TestHashPassword_ProducesVerifiableHash(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if hash == "password123" {
		t.Fatal("hash must not equal the plaintext password")
	}
	if !VerifyPassword(hash, "password123") {
		t.Error("hash should verify against original password")
	}
	if VerifyPassword(hash, "password124") {
		t.Error("hash should not verify against a different password")
	}
}

func TestHashPassword_SamePasswordDifferentHashes(t *testing.T) {
	h1, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	h2, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// bcryptはソルト付きのため同一パスワードでもハッシュは異なる
	if h1 == h2 {
		t.Error("two hashes of the same password should differ")
	}
}

func TestVerifyPassword_InvalidHash_ReturnsFalse(t *testing.T) {
	if VerifyPassword("not-a-bcrypt-hash", "password123") {
		t.Error("invalid hash should not verify")
	}
}

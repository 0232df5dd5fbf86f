package handlers

import "testing"

func TestHashTokenIsStable(t *testing.T) {
	a := hashToken("some-token")
	b := hashToken("some-token")
	if a != b {
		t.Fatal("expected identical input to hash identically")
	}
	if a == hashToken("other-token") {
		t.Fatal("expected different inputs to hash differently")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestGenerateRandomToken(t *testing.T) {
	a := generateRandomToken()
	b := generateRandomToken()
	if a == "" || b == "" {
		t.Fatal("expected non-empty tokens")
	}
	if a == b {
		t.Fatal("expected tokens to differ")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

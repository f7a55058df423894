package auth

import (
	"strings"
	"testing"
	"time"
)

func newTestService(t *testing.T, ttl time.Duration) *AuthService {
	t.Helper()
	svc, err := NewAuthService("test-secret", ttl)
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return svc
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	if _, err := NewAuthService("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewAuthService("secret", 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour)

	hash, err := svc.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}
	if !svc.CheckPasswordHash("correct horse battery staple", hash) {
		t.Fatal("expected password to verify")
	}
	if svc.CheckPasswordHash("wrong password 123", hash) {
		t.Fatal("expected mismatch to fail")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, err := svc.GenerateToken("alice@example.com")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.Subject != "alice@example.com" {
		t.Fatalf("subject = %q, want alice@example.com", claims.Subject)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("email claim = %q, want alice@example.com", claims.Email)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService(t, time.Millisecond)

	token, err := svc.GenerateToken("bob@example.com")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expected expired token to fail validation")
	}
}

func TestValidateToken_Tampered(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, err := svc.GenerateToken("carol@example.com")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	if _, err := svc.ValidateToken(tampered); err == nil {
		t.Fatal("expected tampered token to fail validation")
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestService(t, time.Hour)
	other, err := NewAuthService("different-secret", time.Hour)
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}

	token, err := svc.GenerateToken("dave@example.com")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected token signed with another secret to fail")
	}
}

func TestValidateToken_Empty(t *testing.T) {
	svc := newTestService(t, time.Hour)
	if _, err := svc.ValidateToken(""); err == nil {
		t.Fatal("expected empty token to fail")
	}
}

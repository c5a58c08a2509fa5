package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSignAndVerify(t *testing.T) {
	s, err := NewSigner("secret", time.Hour, false)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	token, err := s.Sign(Claims{UserID: "user-1", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "a@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject defaulted to id, got %q", claims.Subject)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	a, _ := NewSigner("secret-a", time.Hour, false)
	b, _ := NewSigner("secret-b", time.Hour, false)
	token, err := a.Sign(Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := b.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyReportsExpiry(t *testing.T) {
	s, _ := NewSigner("secret", time.Minute, false)
	issued := time.Now().Add(-2 * time.Hour)
	s.now = func() time.Time { return issued }
	token, err := s.Sign(Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	s.now = time.Now
	if _, err := s.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	s, _ := NewSigner("secret", time.Hour, false)
	for _, raw := range []string{"", "abc", "a.b.c"} {
		if _, err := s.Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Verify(%q): expected ErrInvalidToken, got %v", raw, err)
		}
	}
}

func TestNewSignerRequiresSecretInProduction(t *testing.T) {
	if _, err := NewSigner("", time.Hour, true); err == nil {
		t.Fatalf("expected error without secret in production")
	}
	if _, err := NewSigner("", time.Hour, false); err != nil {
		t.Fatalf("expected dev fallback, got %v", err)
	}
}

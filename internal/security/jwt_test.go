package security

import (
	"strings"
	"testing"
	"time"

	"github.com/carefleet/carefleet-backend/internal/domain"
)

func newTestJWTManager() *JWTManager {
	return NewJWTManager("carefleet-test", "carefleet-api",
		"test-access-secret-0123456789abcdef", "test-refresh-secret-0123456789abcdef")
}

func TestJWTManagerRoundTrip(t *testing.T) {
	m := newTestJWTManager()

	raw, err := m.SignAccessToken(42, "doc@carefleet.example", domain.RoleDoctor, time.Hour)
	if err != nil {
		t.Fatalf("SignAccessToken: %v", err)
	}

	claims, err := m.ParseAccessToken(raw)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Subject != "42" {
		t.Fatalf("subject = %q, want %q", claims.Subject, "42")
	}
	if claims.Email != "doc@carefleet.example" {
		t.Fatalf("email = %q", claims.Email)
	}
	if claims.Role != domain.RoleDoctor {
		t.Fatalf("role = %q", claims.Role)
	}

	id, err := UserIDFromClaims(claims)
	if err != nil {
		t.Fatalf("UserIDFromClaims: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d, want 42", id)
	}
}

func TestJWTManagerKindSeparation(t *testing.T) {
	m := newTestJWTManager()

	access, err := m.SignAccessToken(1, "a@b.example", domain.RoleNurse, time.Hour)
	if err != nil {
		t.Fatalf("SignAccessToken: %v", err)
	}
	refresh, err := m.SignRefreshToken(1, "a@b.example", domain.RoleNurse, time.Hour)
	if err != nil {
		t.Fatalf("SignRefreshToken: %v", err)
	}

	if _, err := m.ParseRefreshToken(access); err == nil {
		t.Fatalf("access token must not parse as refresh token")
	}
	if _, err := m.ParseAccessToken(refresh); err == nil {
		t.Fatalf("refresh token must not parse as access token")
	}
	if _, err := m.ParseRefreshToken(refresh); err != nil {
		t.Fatalf("ParseRefreshToken: %v", err)
	}
}

func TestJWTManagerRejectsExpired(t *testing.T) {
	m := newTestJWTManager()

	raw, err := m.SignAccessToken(1, "a@b.example", domain.RoleNurse, -time.Minute)
	if err != nil {
		t.Fatalf("SignAccessToken: %v", err)
	}
	if _, err := m.ParseAccessToken(raw); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestJWTManagerRejectsForeignIssuer(t *testing.T) {
	other := NewJWTManager("someone-else", "carefleet-api",
		"test-access-secret-0123456789abcdef", "test-refresh-secret-0123456789abcdef")
	raw, err := other.SignAccessToken(1, "a@b.example", domain.RoleNurse, time.Hour)
	if err != nil {
		t.Fatalf("SignAccessToken: %v", err)
	}
	if _, err := newTestJWTManager().ParseAccessToken(raw); err == nil {
		t.Fatalf("expected token from a different issuer to be rejected")
	}
}

func TestJWTManagerRejectsTamperedSignature(t *testing.T) {
	m := newTestJWTManager()

	raw, err := m.SignAccessToken(1, "a@b.example", domain.RoleNurse, time.Hour)
	if err != nil {
		t.Fatalf("SignAccessToken: %v", err)
	}
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := m.ParseAccessToken(tampered); err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}
}

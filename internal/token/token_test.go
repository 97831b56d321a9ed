package token

import (
	"errors"
	"testing"
	"time"
)

func TestSignAndParse(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	signed, err := issuer.Sign("test@localhost", true)
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}

	claims, err := issuer.Parse(signed)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.UID != "test@localhost" {
		t.Fatalf("UID = %q, want test@localhost", claims.UID)
	}
	if !claims.Admin {
		t.Fatalf("Admin = false, want true")
	}
}

func TestParse_WrongSecret(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	other := NewIssuer("other-secret", time.Hour)

	signed, err := issuer.Sign("test@localhost", false)
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}

	_, err = other.Parse(signed)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParse_Expired(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	issuer.ttl = -time.Minute

	signed, err := issuer.Sign("test@localhost", false)
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}

	_, err = issuer.Parse(signed)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken for expired token", err)
	}
}

func TestParse_Garbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	_, err := issuer.Parse("not.a.token")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestNewIssuer_Defaults(t *testing.T) {
	issuer := NewIssuer("", 0)

	if len(issuer.secret) == 0 {
		t.Fatalf("empty secret must be replaced with a random key")
	}
	if issuer.ttl != 24*time.Hour {
		t.Fatalf("ttl = %v, want 24h default", issuer.ttl)
	}
}

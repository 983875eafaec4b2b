package token

import (
	"testing"
	"time"

	"github.com/givehope/donation-service/internal/core/domain"
)

func TestGenerateAndValidate(t *testing.T) {
	secret := "test-secret-key"

	tok, err := Generate(secret, "acct-1", domain.RoleNGO)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if tok == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := Validate(secret, tok)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if claims.AccountID != "acct-1" {
		t.Errorf("expected account_id 'acct-1', got %q", claims.AccountID)
	}
	if claims.Role != domain.RoleNGO {
		t.Errorf("expected role 'ngo', got %q", claims.Role)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	tok, _ := Generate("secret1", "acct-1", domain.RoleDonor)

	_, err := Validate("secret2", tok)
	if err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateInvalid(t *testing.T) {
	_, err := Validate("secret", "not-a-token")
	if err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestExpiry(t *testing.T) {
	// The session lifetime is fixed at 24 hours.
	secret := "test"
	tok, _ := Generate(secret, "acct-1", domain.RoleDonor)
	claims, _ := Validate(secret, tok)

	expiresAt := claims.ExpiresAt.Time
	expectedExpiry := time.Now().Add(Expiry)

	diff := expectedExpiry.Sub(expiresAt)
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("token expiry too far from expected: diff=%v", diff)
	}
}

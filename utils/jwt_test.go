package utils

import (
	"testing"

	"github.com/Yash-Soni1/vectra-backend/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateToken(42, "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.UserId != 42 {
		t.Fatalf("user id = %d, want 42", claims.UserId)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("email = %q", claims.Email)
	}
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateToken(42, "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := VerifyToken(token + "x"); err == nil {
		t.Fatal("tampered token accepted")
	}

	config.AppConfig.JWTSecret = "other-secret"
	if _, err := VerifyToken(token); err == nil {
		t.Fatal("token verified with wrong secret")
	}
}

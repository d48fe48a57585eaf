package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestIdentityFromToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     "user-1",
		"email":   "user@example.com",
		"name":    "Ada",
		"picture": "https://example.com/a.png",
	})

	id, err := IdentityFromToken(token)
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	if id.UserID != "user-1" || id.Email != "user@example.com" || id.Name != "Ada" || id.Image != "https://example.com/a.png" {
		t.Fatalf("unexpected identity %#v", id)
	}
}

func TestIdentityFromTokenRequiresSubject(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "user@example.com"})

	if _, err := IdentityFromToken(token); err == nil {
		t.Fatal("expected error for missing sub")
	}
	if _, err := IdentityFromToken(nil); err == nil {
		t.Fatal("expected error for nil token")
	}
}

package auth

import (
	"context"
	"testing"
	"time"
)

func TestMintAndParseToken(t *testing.T) {
	user := CurrentUser{UserID: 7, Username: "alice"}

	token, err := MintToken("secret", user, time.Hour)
	if err != nil {
		t.Fatalf("MintToken failed: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.Username != "alice" {
		t.Errorf("expected username alice, got %q", claims.Username)
	}
	if claims.Subject != "7" {
		t.Errorf("expected subject 7, got %q", claims.Subject)
	}
}

func TestParseTokenRejectsBadSecretAndExpiry(t *testing.T) {
	user := CurrentUser{UserID: 7, Username: "alice"}

	token, err := MintToken("secret", user, time.Hour)
	if err != nil {
		t.Fatalf("MintToken failed: %v", err)
	}
	if _, err := ParseToken("wrong", token); err == nil {
		t.Error("expected a wrong-secret token to fail")
	}

	expired, err := MintToken("secret", user, -time.Minute)
	if err != nil {
		t.Fatalf("MintToken failed: %v", err)
	}
	if _, err := ParseToken("secret", expired); err == nil {
		t.Error("expected an expired token to fail")
	}
}

func TestCurrentUserContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	if _, ok := GetCurrentUser(ctx); ok {
		t.Fatal("expected no user on a bare context")
	}

	ctx = SetCurrentUser(ctx, CurrentUser{UserID: 1, Username: "alice"})
	user, ok := GetCurrentUser(ctx)
	if !ok || user.Username != "alice" {
		t.Fatalf("expected alice back, got %+v %v", user, ok)
	}
}

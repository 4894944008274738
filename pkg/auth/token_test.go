package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wishlane/wishlane-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "wishlane",
		ExpirationMinutes: 30,
		ConfirmTTLMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	signed, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{
		UserID:      userID,
		Username:    "lena",
		Permissions: 0x03,
		Confirmed:   true,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.Username != "lena" {
		t.Fatalf("unexpected username %q", claims.Username)
	}
	if claims.Permissions != 0x03 {
		t.Fatalf("unexpected permissions %#x", claims.Permissions)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Secret = "different-secret"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected parse to fail with a different secret")
	}
}

func TestParseAccessTokenAllowExpired(t *testing.T) {
	cfg := testJWTConfig()
	past := time.Now().UTC().Add(-2 * time.Hour)
	signed, err := MintAccessToken(cfg, past, AccessTokenPayload{
		UserID: uuid.New(),
		JTI:    "session-1",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected strict parse to reject expired token")
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, signed)
	if err != nil {
		t.Fatalf("lenient parse: %v", err)
	}
	if claims.ID != "session-1" {
		t.Fatalf("expected jti session-1, got %q", claims.ID)
	}
}

func TestConfirmationTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	token, err := MintConfirmationToken(cfg, time.Now().UTC(), userID)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if !VerifyConfirmationToken(cfg, token, userID) {
		t.Fatal("expected valid confirmation token to verify")
	}
	if VerifyConfirmationToken(cfg, token, uuid.New()) {
		t.Fatal("expected id mismatch to fail closed")
	}
}

func TestConfirmationTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	issued := time.Now().UTC().Add(-2 * time.Hour)
	token, err := MintConfirmationToken(cfg, issued, userID)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if VerifyConfirmationToken(cfg, token, userID) {
		t.Fatal("expected expired token to fail closed")
	}
}

func TestConfirmationTokenWrongKey(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	token, err := MintConfirmationToken(cfg, time.Now().UTC(), userID)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Secret = "another-key"
	if VerifyConfirmationToken(other, token, userID) {
		t.Fatal("expected signature mismatch to fail closed")
	}
}

func TestConfirmationTokenMalformed(t *testing.T) {
	cfg := testJWTConfig()
	for _, garbage := range []string{"", "not-a-token", "a.b.c"} {
		if VerifyConfirmationToken(cfg, garbage, uuid.New()) {
			t.Fatalf("expected malformed token %q to fail closed", garbage)
		}
	}
}

func TestAccessTokenNotConfirmedPurpose(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	signed, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{UserID: userID})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	// An access token must never pass as a confirmation credential.
	if VerifyConfirmationToken(cfg, signed, userID) {
		t.Fatal("expected access token to fail confirmation check")
	}
}

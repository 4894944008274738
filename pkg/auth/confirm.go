package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/wishlane/wishlane-backend/pkg/config"
)

const confirmPurpose = "confirm"

type confirmClaims struct {
	Purpose string    `json:"purpose"`
	UserID  uuid.UUID `json:"confirm"`
	jwt.RegisteredClaims
}

// MintConfirmationToken issues a signed, time-limited token binding to the
// user id, used to prove control of the account's email address.
func MintConfirmationToken(cfg config.JWTConfig, now time.Time, userID uuid.UUID) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if userID == uuid.Nil {
		return "", fmt.Errorf("user id is required")
	}

	claims := confirmClaims{
		Purpose: confirmPurpose,
		UserID:  userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.ConfirmTokenTTL())),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing confirmation token: %w", err)
	}
	return signed, nil
}

// VerifyConfirmationToken checks the token against the expected user id.
// It fails closed: expiry, signature mismatch, id mismatch, and malformed
// input all return false and never an error or panic.
func VerifyConfirmationToken(cfg config.JWTConfig, tokenString string, userID uuid.UUID) bool {
	if cfg.Secret == "" || tokenString == "" || userID == uuid.Nil {
		return false
	}

	claims := &confirmClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return false
	}
	if claims.Purpose != confirmPurpose {
		return false
	}
	return claims.UserID == userID
}

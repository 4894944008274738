package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID      uuid.UUID
	Username    string
	Permissions int
	Confirmed   bool
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to clients. Permissions
// carries the role bitmask so request identity never needs a role lookup.
type AccessTokenClaims struct {
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	Permissions int       `json:"permissions"`
	Confirmed   bool      `json:"confirmed"`
	jwt.RegisteredClaims
}

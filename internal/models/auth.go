package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the access token payload minted by the identity service. This API
// only verifies tokens; it never issues them.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Actor identifies the caller for audit fields, falling back to the standard subject.
func (c *JWTClaims) Actor() string {
	if c == nil {
		return ""
	}
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

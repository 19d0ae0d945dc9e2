package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the token payload issued by the platform gateway. The role
// claim decides whether a change applies immediately or is staged for
// moderation.
type JWTClaims struct {
	UserID      string    `json:"user_id"`
	Role        ActorRole `json:"role"`
	StaffNumber string    `json:"staff_number,omitempty"`
	jwt.RegisteredClaims
}

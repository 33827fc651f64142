package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims are the access-token claims this service consumes. Token issuance
// lives in the auth service; only validation happens here.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

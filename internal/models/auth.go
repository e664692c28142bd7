package models

import "github.com/golang-jwt/jwt/v5"

// AdminClaims is the token payload issued after the shared-password login.
// There is a single admin identity; the claims carry no user reference.
type AdminClaims struct {
	jwt.RegisteredClaims
}

// LoginRequest carries the shared admin password.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued bearer token.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

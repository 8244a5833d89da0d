package models

import "github.com/golang-jwt/jwt/v4"

// IDTokenClaims is the subset of id_token claims the proxy reads for
// session bookkeeping. The token signature is checked elsewhere, if at all.
type IDTokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

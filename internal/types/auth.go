package types

import "github.com/golang-jwt/jwt/v5"

// Claims represents the claims included in the JWT access token.
// The subject is the username the token was issued for.
type Claims struct {
	jwt.RegisteredClaims // Embed standard claims (ExpiresAt, IssuedAt, Subject, etc.).
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJI..."` // JWT access token.
	TokenType   string `json:"token_type" example:"bearer"`            // Always "bearer".
}

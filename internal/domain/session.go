package domain

import "errors"

var (
	// ErrNoSessionToken is returned when a session token is required but not provided.
	ErrNoSessionToken = errors.New("no session token")
	// ErrInvalidSessionToken is returned when a token's signature is invalid or it has expired.
	ErrInvalidSessionToken = errors.New("invalid session token")
)

// Session is the verified identity carried by a bearer token.
type Session struct {
	UserID   string `json:"id"`       // Identifier of the authenticated user
	Username string `json:"username"` // Login username
	Name     string `json:"name"`     // Display name
}

// SessionTokenResponse is the login response body carrying the bearer token.
type SessionTokenResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

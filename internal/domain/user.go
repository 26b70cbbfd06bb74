package domain

import "errors"

var (
	// ErrUserAlreadyExists is returned when trying to register a user with a taken username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned when looking up a non-existent user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when the username/password combination is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents a registered account. The password hash is opaque to
// everything except the auth service; a user is never mutated after creation.
type User struct {
	ID           string `json:"id"`       // Unique identifier
	Username     string `json:"username"` // Login username, unique per document
	PasswordHash string `json:"password"` // bcrypt hash of the password
	Name         string `json:"name"`     // Display name
}

// PublicUser is the caller-facing projection of a User, without credentials.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Public strips the credential fields from a User.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
	}
}

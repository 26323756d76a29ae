package model

// User represents a user in the database.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
}

// Identity is the authenticated representation of a user carried by a session.
// The email doubles as the display name.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// IdentityOf returns the identity for a stored user.
func IdentityOf(u *User) Identity {
	return Identity{ID: u.ID, Username: u.Email}
}

// CredentialsRequest represents a login or registration request.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

package model

import "strings"

// Credentials are the username/password pair sent to register and login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Missing returns the name of the first empty field, or "" when both are set.
func (c Credentials) Missing() string {
	switch {
	case strings.TrimSpace(c.Username) == "":
		return "username"
	case c.Password == "":
		return "password"
	default:
		return ""
	}
}

// AuthResult is the backend's answer to register and login. A rejected attempt
// comes back with Success false and Error set.
type AuthResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
	Error    string `json:"error,omitempty"`
}

// User is the authenticated profile returned by /auth/me.
type User struct {
	Username string `json:"username"`
}

package models

import (
	"strings"
	"time"
)

// UserSession is the authenticated user attached to a request.
type UserSession struct {
	ID        string
	Name      string
	Email     string
	Admin     bool
	SessionID string
}

// User represents a CRM user
type User struct {
	ID           string    `json:"id" xml:"id"`
	Username     string    `json:"username" xml:"username"`
	Email        string    `json:"email" xml:"email"`
	PasswordHash string    `json:"-" xml:"-"`
	FirstName    string    `json:"first_name" xml:"first-name"`
	LastName     string    `json:"last_name" xml:"last-name"`
	Admin        bool      `json:"admin" xml:"admin"`
	CreatedAt    time.Time `json:"created_at" xml:"created-at"`
	UpdatedAt    time.Time `json:"updated_at" xml:"updated-at"`
}

// FullName returns "First Last", falling back to the username
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// AuthSession is a server-side record of an issued token
type AuthSession struct {
	ID           string
	UserID       string
	ExpiresAt    time.Time
	Revoked      bool
	LastActivity time.Time
	CreatedAt    time.Time
}

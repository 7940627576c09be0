package models

import "time"

// SessionUser is the operator recorded by the session gate after login.
type SessionUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session describes the current state of the session gate.
type Session struct {
	Authenticated bool         `json:"authenticated"`
	User          *SessionUser `json:"user,omitempty"`
	Since         *time.Time   `json:"since,omitempty"`
}

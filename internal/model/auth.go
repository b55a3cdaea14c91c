package model

import "time"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Redirect    string    `json:"redirect"`
}

// SessionState is the guard's view of the current admin session.
type SessionState string

const (
	SessionUnknown         SessionState = "unknown"
	SessionAuthenticated   SessionState = "authenticated"
	SessionUnauthenticated SessionState = "unauthenticated"
)

type SessionStatus struct {
	State    SessionState `json:"state"`
	Email    string       `json:"email,omitempty"`
	Redirect string       `json:"redirect,omitempty"`
}

// AdminSession is the server-side record behind an issued token.
type AdminSession struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Secret    string    `json:"secret"`
	RemoteID  string    `json:"remote_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

const (
	LoginRoute = "/login"
	HomeRoute  = "/"
)

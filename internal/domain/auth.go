package domain

import "time"

// AuthState is the process-wide snapshot of who is logged in.
// Authenticated is true exactly when CurrentUser is non-nil; use
// NewAuthState or LoggedOut to build values so the two never disagree.
type AuthState struct {
	CurrentUser   *Identity
	Authenticated bool
}

// NewAuthState builds a consistent state for the given user.
func NewAuthState(user *Identity) AuthState {
	if user == nil {
		return LoggedOut()
	}
	return AuthState{CurrentUser: user.Clone(), Authenticated: true}
}

// LoggedOut is the empty state.
func LoggedOut() AuthState {
	return AuthState{}
}

// Role returns the current role, or RoleUnknown when logged out.
func (s AuthState) Role() Role {
	if s.CurrentUser == nil {
		return RoleUnknown
	}
	return s.CurrentUser.Role
}

// LoginRequest is the payload of POST /auth/login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by POST /auth/login.
type LoginResponse struct {
	Token     string    `json:"token"`
	FullName  string    `json:"fullName"`
	Role      Role      `json:"role"`
	UserID    int       `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

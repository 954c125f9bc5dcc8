package domain

import "time"

// Identity is the user described by a session token. It is derived from the
// token every time it is needed and never persisted on its own.
type Identity struct {
	ID          int       `json:"id"`
	Login       string    `json:"login"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Role        Role      `json:"role"`
	IssuedUntil time.Time `json:"issued_until"`
}

// Clone returns a copy that callers may keep without aliasing the
// published snapshot.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	cp := *i
	return &cp
}

package dto

import (
	"github.com/spec-kit/hr-client/internal/domain"
	"github.com/spec-kit/hr-client/internal/navigation"
)

// UserView is the identity rendered in page chrome.
type UserView struct {
	ID       int    `json:"id"`
	Login    string `json:"login"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	RoleName string `json:"roleName"`
}

// NewUserView converts an identity; nil stays nil.
func NewUserView(user *domain.Identity) *UserView {
	if user == nil {
		return nil
	}
	return &UserView{
		ID:       user.ID,
		Login:    user.Login,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role.String(),
		RoleName: user.Role.DisplayName(),
	}
}

// PageResponse is what every shell page renders.
type PageResponse struct {
	Page string                `json:"page"`
	User *UserView             `json:"user,omitempty"`
	Menu []navigation.MenuItem `json:"menu,omitempty"`
	Data any                   `json:"data,omitempty"`
}

// SessionView exposes the current auth state for diagnostics.
type SessionView struct {
	Authenticated bool      `json:"authenticated"`
	User          *UserView `json:"user,omitempty"`
	History       []string  `json:"history"`
	Notices       any       `json:"notices,omitempty"`
}

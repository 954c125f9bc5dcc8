package domain

import "time"

// Account is a login known to the dev API.
type Account struct {
	ID           int       `json:"id"`
	Login        string    `json:"login"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Department is an organizational unit.
type Department struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Employee is a directory entry served by the dev API.
type Employee struct {
	ID           int    `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Position     string `json:"position,omitempty"`
	DepartmentID int    `json:"departmentId"`
	Role         Role   `json:"role"`
}

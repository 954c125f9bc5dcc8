package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Role enumerates the HR client roles. Values are ordered by privilege.
type Role int

const (
	RoleUnknown Role = iota
	RoleEmployee
	RoleManager
	RoleAdmin
)

// String returns the canonical upper-case label.
func (r Role) String() string {
	switch r {
	case RoleEmployee:
		return "EMPLOYEE"
	case RoleManager:
		return "MANAGER"
	case RoleAdmin:
		return "ADMIN"
	default:
		return "UNKNOWN"
	}
}

// DisplayName returns the label shown in navigation chrome.
func (r Role) DisplayName() string {
	switch r {
	case RoleEmployee:
		return "Employee"
	case RoleManager:
		return "Manager"
	case RoleAdmin:
		return "Administrator"
	default:
		return "Unknown"
	}
}

// Valid reports whether r is one of the three defined roles.
func (r Role) Valid() bool {
	return r >= RoleEmployee && r <= RoleAdmin
}

// MoreThan reports whether r carries strictly more privilege than other.
// Only used to pick landing pages; permission checks are exact-set.
func (r Role) MoreThan(other Role) bool {
	return r > other
}

// ParseRole maps an external role label to a Role. The comparison is
// case-insensitive and ignores surrounding whitespace. ok is false for
// labels that are not recognized.
func ParseRole(label string) (role Role, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "ADMIN":
		return RoleAdmin, true
	case "MANAGER":
		return RoleManager, true
	case "EMPLOYEE", "EMPLOYE":
		return RoleEmployee, true
	default:
		return RoleUnknown, false
	}
}

// ContainsRole reports exact membership of role in roles.
func ContainsRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// MarshalText encodes the canonical label.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalJSON accepts a label or the numeric value. Unrecognized labels
// decode to RoleUnknown.
func (r *Role) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		*r, _ = ParseRole(label)
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return err
	}
	*r = Role(n)
	if !r.Valid() {
		*r = RoleUnknown
	}
	return nil
}

package domain

import (
	"encoding/json"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		label  string
		want   Role
		wantOK bool
	}{
		{"ADMIN", RoleAdmin, true},
		{"admin", RoleAdmin, true},
		{" Manager ", RoleManager, true},
		{"employee", RoleEmployee, true},
		{"Employe", RoleEmployee, true},
		{"", RoleUnknown, false},
		{"superuser", RoleUnknown, false},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			got, ok := ParseRole(tc.label)
			if got != tc.want || ok != tc.wantOK {
				t.Fatalf("ParseRole(%q) = %v, %v; want %v, %v", tc.label, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestRolePrivilegeOrder(t *testing.T) {
	if !RoleAdmin.MoreThan(RoleManager) || !RoleManager.MoreThan(RoleEmployee) {
		t.Fatal("expected EMPLOYEE < MANAGER < ADMIN")
	}
	if RoleEmployee.MoreThan(RoleEmployee) {
		t.Fatal("ordering must be strict")
	}
	if RoleUnknown.Valid() {
		t.Fatal("zero role must not be valid")
	}
}

func TestNewAuthStateConsistency(t *testing.T) {
	empty := NewAuthState(nil)
	if empty.Authenticated || empty.CurrentUser != nil {
		t.Fatalf("nil user must yield logged out state, got %+v", empty)
	}

	user := &Identity{ID: 7, Login: "jdoe", Role: RoleManager}
	state := NewAuthState(user)
	if !state.Authenticated || state.CurrentUser == nil {
		t.Fatalf("expected authenticated state, got %+v", state)
	}
	user.Role = RoleAdmin
	if state.Role() != RoleManager {
		t.Fatal("state must not alias the caller's identity")
	}
}

func TestRoleJSON(t *testing.T) {
	var resp LoginResponse
	if err := json.Unmarshal([]byte(`{"token":"t","role":"Manager","userId":3}`), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Role != RoleManager {
		t.Fatalf("role = %v", resp.Role)
	}
	if err := json.Unmarshal([]byte(`{"role":3}`), &resp); err != nil || resp.Role != RoleAdmin {
		t.Fatalf("numeric role = %v, %v", resp.Role, err)
	}

	out, err := json.Marshal(struct{ Role Role }{RoleEmployee})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"Role":"EMPLOYEE"}` {
		t.Fatalf("marshal = %s", out)
	}
}

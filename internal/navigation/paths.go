// Package navigation holds the client's route paths, the single
// role-to-landing mapping, and the navigator used for side-effect redirects.
package navigation

import (
	"strings"

	"github.com/spec-kit/hr-client/internal/domain"
)

// Route paths of the client shell.
const (
	LoginPath             = "/auth/login"
	LogoutPath            = "/auth/logout"
	DashboardPath         = "/dashboard"
	AdminDashboardPath    = "/dashboard/admin"
	ManagerDashboardPath  = "/dashboard/manager"
	EmployeeDashboardPath = "/dashboard/employee"
	AdminPath             = "/admin"
	EmployeesPath         = "/employees"
	TasksPath             = "/tasks"
	DepartmentsPath       = "/departments"
	AccessDeniedPath      = "/access-denied"
	NotFoundPath          = "/not-found"
)

// Landing returns the home route for role. Roles outside the enumeration
// land on the generic dashboard root.
func Landing(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return AdminDashboardPath
	case domain.RoleManager:
		return ManagerDashboardPath
	case domain.RoleEmployee:
		return EmployeeDashboardPath
	default:
		return DashboardPath
	}
}

// AfterLogin picks where to go once user has logged in. A safe local
// returnURL wins unless it points at the dashboard root, the site root or
// the login screen itself.
func AfterLogin(user *domain.Identity, returnURL string) string {
	if user == nil {
		return LoginPath
	}
	if isSafeReturn(returnURL) {
		return returnURL
	}
	return Landing(user.Role)
}

func isSafeReturn(target string) bool {
	if target == "" || target == "/" || target == DashboardPath {
		return false
	}
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return false
	}
	path := target
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return path != LoginPath && path != LogoutPath
}

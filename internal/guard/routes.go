package guard

import (
	"github.com/spec-kit/hr-client/internal/domain"
	"github.com/spec-kit/hr-client/internal/navigation"
)

var (
	adminOnly   = []domain.Role{domain.RoleAdmin}
	managers    = []domain.Role{domain.RoleAdmin, domain.RoleManager}
	everyRole   = []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee}
	anyLoggedIn []domain.Role
)

// ProtectedRoutes is the shell's route table.
func ProtectedRoutes() []Route {
	return []Route{
		{Path: navigation.DashboardPath, Roles: anyLoggedIn},
		{Path: navigation.AdminDashboardPath, Roles: adminOnly},
		{Path: navigation.ManagerDashboardPath, Roles: managers},
		{Path: navigation.EmployeeDashboardPath, Roles: everyRole},
		{Path: navigation.AdminPath, Roles: adminOnly},
		{Path: navigation.EmployeesPath, Roles: anyLoggedIn},
		{Path: navigation.TasksPath, Roles: anyLoggedIn},
		{Path: navigation.DepartmentsPath, Roles: managers},
	}
}

package navigation

import "github.com/spec-kit/hr-client/internal/domain"

// MenuItem is an entry of the side navigation. Items without roles are
// visible to any authenticated user.
type MenuItem struct {
	Label    string        `json:"label"`
	Icon     string        `json:"icon"`
	Route    string        `json:"route"`
	Roles    []domain.Role `json:"-"`
	Children []MenuItem    `json:"children,omitempty"`
}

var (
	managers = []domain.Role{domain.RoleAdmin, domain.RoleManager}
	admins   = []domain.Role{domain.RoleAdmin}
)

// DefaultMenu is the shell's navigation tree.
func DefaultMenu() []MenuItem {
	return []MenuItem{
		{Label: "Dashboard", Icon: "dashboard", Route: DashboardPath},
		{Label: "Employees", Icon: "people", Route: EmployeesPath, Children: []MenuItem{
			{Label: "Employee list", Icon: "list", Route: EmployeesPath},
			{Label: "Add employee", Icon: "person_add", Route: EmployeesPath + "/create", Roles: managers},
		}},
		{Label: "Tasks", Icon: "assignment", Route: TasksPath, Children: []MenuItem{
			{Label: "My tasks", Icon: "assignment_ind", Route: TasksPath + "/my-tasks"},
			{Label: "All tasks", Icon: "assignment", Route: TasksPath, Roles: managers},
			{Label: "Create task", Icon: "add_task", Route: TasksPath + "/create", Roles: managers},
		}},
		{Label: "Departments", Icon: "domain", Route: DepartmentsPath, Roles: managers, Children: []MenuItem{
			{Label: "Department list", Icon: "list", Route: DepartmentsPath},
			{Label: "Add department", Icon: "add", Route: DepartmentsPath + "/create", Roles: admins},
		}},
		{Label: "Administration", Icon: "admin_panel_settings", Route: AdminPath, Roles: admins},
	}
}

// VisibleMenu filters items for user. Nothing is visible without a user;
// a hidden parent hides its children.
func VisibleMenu(items []MenuItem, user *domain.Identity) []MenuItem {
	if user == nil {
		return nil
	}
	visible := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if len(item.Roles) > 0 && !domain.ContainsRole(item.Roles, user.Role) {
			continue
		}
		item.Children = VisibleMenu(item.Children, user)
		visible = append(visible, item)
	}
	return visible
}

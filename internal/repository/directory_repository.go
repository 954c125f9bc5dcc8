package repository

import (
	"context"
	"sort"

	"github.com/spec-kit/hr-client/internal/domain"
)

// DirectoryRepository serves the employee and department listings.
type DirectoryRepository interface {
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
}

// MemoryDirectory is a fixed in-process directory. It is read-only after
// construction.
type MemoryDirectory struct {
	departments []domain.Department
	employees   []domain.Employee
}

// NewMemoryDirectory copies the given records.
func NewMemoryDirectory(departments []domain.Department, employees []domain.Employee) *MemoryDirectory {
	d := &MemoryDirectory{
		departments: append([]domain.Department(nil), departments...),
		employees:   append([]domain.Employee(nil), employees...),
	}
	sort.Slice(d.departments, func(i, j int) bool { return d.departments[i].ID < d.departments[j].ID })
	sort.Slice(d.employees, func(i, j int) bool { return d.employees[i].ID < d.employees[j].ID })
	return d
}

func (d *MemoryDirectory) ListDepartments(_ context.Context) ([]domain.Department, error) {
	return append([]domain.Department(nil), d.departments...), nil
}

func (d *MemoryDirectory) ListEmployees(_ context.Context) ([]domain.Employee, error) {
	return append([]domain.Employee(nil), d.employees...), nil
}

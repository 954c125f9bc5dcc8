package service

import (
	"context"

	"github.com/spec-kit/hr-client/internal/domain"
	"github.com/spec-kit/hr-client/internal/repository"
	apperrors "github.com/spec-kit/hr-client/pkg/util"
)

// DirectoryService lists employees and departments for the dev API.
type DirectoryService struct {
	repo repository.DirectoryRepository
}

// NewDirectoryService builds the service.
func NewDirectoryService(repo repository.DirectoryRepository) *DirectoryService {
	return &DirectoryService{repo: repo}
}

// Employees lists every employee.
func (s *DirectoryService) Employees(ctx context.Context) ([]domain.Employee, error) {
	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return employees, nil
}

// Departments lists every department.
func (s *DirectoryService) Departments(ctx context.Context) ([]domain.Department, error) {
	departments, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return departments, nil
}

// DefaultDirectory is the sample organization served by the dev API.
func DefaultDirectory() repository.DirectoryRepository {
	return repository.NewMemoryDirectory(
		[]domain.Department{
			{ID: 1, Name: "Human Resources", Description: "People operations"},
			{ID: 2, Name: "Engineering", Description: "Product development"},
			{ID: 3, Name: "Finance"},
		},
		[]domain.Employee{
			{ID: 1, FullName: "Alice Admin", Email: "admin@hr.local", Position: "HR Director", DepartmentID: 1, Role: domain.RoleAdmin},
			{ID: 2, FullName: "Mark Manager", Email: "manager@hr.local", Position: "Engineering Manager", DepartmentID: 2, Role: domain.RoleManager},
			{ID: 3, FullName: "Eve Employee", Email: "employee@hr.local", Position: "Software Engineer", DepartmentID: 2, Role: domain.RoleEmployee},
			{ID: 4, FullName: "Frank Figures", Email: "frank@hr.local", Position: "Accountant", DepartmentID: 3, Role: domain.RoleEmployee},
		},
	)
}

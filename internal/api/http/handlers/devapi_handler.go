package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-client/internal/api/dto"
	"github.com/spec-kit/hr-client/internal/auth"
	"github.com/spec-kit/hr-client/internal/service"
	apperrors "github.com/spec-kit/hr-client/pkg/util"
)

// AuthHandler exposes the dev API auth endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	resp, err := h.auth.Login(c.UserContext(), req.Login, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	account, err := h.auth.Account(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(account)
}

// DirectoryHandler exposes employee and department listings.
type DirectoryHandler struct {
	directory *service.DirectoryService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directory *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// Employees handles GET /employees.
func (h *DirectoryHandler) Employees(c *fiber.Ctx) error {
	employees, err := h.directory.Employees(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(employees)
}

// Departments handles GET /departments.
func (h *DirectoryHandler) Departments(c *fiber.Ctx) error {
	departments, err := h.directory.Departments(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(departments)
}

package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-client/internal/domain"
)

// RequireRoles ensures the dev API caller holds one of the allowed roles.
// No roles means any authenticated caller.
func RequireRoles(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return errMissingPrincipal
		}
		if len(allowed) > 0 && !domain.ContainsRole(allowed, principal.Role) {
			return fiber.NewError(fiber.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

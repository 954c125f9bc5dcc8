package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-client/internal/domain"
	apperrors "github.com/spec-kit/hr-client/pkg/util"
)

const principalKey = "auth_principal"

// Principal is the caller authenticated by the dev API.
type Principal struct {
	UserID int
	Login  string
	Role   domain.Role
}

// BearerMiddleware validates bearer tokens issued by a TokenManager.
type BearerMiddleware struct {
	tokens *TokenManager
}

// NewBearerMiddleware constructs middleware.
func NewBearerMiddleware(tokens *TokenManager) *BearerMiddleware {
	return &BearerMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *BearerMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "missing or invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	principal := &Principal{Login: claims.UniqueName}
	principal.UserID, err = subjectID(map[string]interface{}{ClaimSubject: claims.NameID})
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid subject")
	}
	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unknown role")
	}
	principal.Role = role

	c.Locals(principalKey, principal)
	return c.Next()
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// errMissingPrincipal is used when a role check runs before Handle.
var errMissingPrincipal = apperrors.NewDomainError(apperrors.CodeUnauthorized, "authentication required", fiber.StatusUnauthorized, nil)

package auth

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-client/internal/domain"
	apperrors "github.com/spec-kit/hr-client/pkg/util"
)

func TestTokenManagerRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 15, "hr-api", "hr-client")
	tm.now = func() time.Time { return fixedNow }

	token, expiresAt, err := tm.GenerateToken(TokenSubject{ID: 12, Login: "mgr", Email: "m@example.com", FullName: "Mia Grant", Role: domain.RoleManager})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !expiresAt.Equal(fixedNow.Add(15 * time.Minute)) {
		t.Fatalf("expiresAt = %v", expiresAt)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.NameID != "12" || claims.UniqueName != "mgr" || claims.Role != "MANAGER" || claims.FullName != "Mia Grant" {
		t.Fatalf("claims = %+v", claims)
	}

	tm.now = func() time.Time { return fixedNow.Add(time.Hour) }
	if _, err := tm.ParseToken(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatal(err)
	}
	if !PasswordMatches(hashed, "s3cret") {
		t.Fatal("password did not match")
	}
	if PasswordMatches(hashed, "nope") {
		t.Fatal("wrong password matched")
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"standard":     {"Bearer abc", "abc", true},
		"lower scheme": {"bearer abc", "abc", true},
		"basic":        {"Basic abc", "", false},
		"no token":     {"Bearer ", "", false},
		"empty":        {"", "", false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			token, ok := BearerToken(tc.header)
			if token != tc.token || ok != tc.ok {
				t.Fatalf("BearerToken(%q) = %q, %v", tc.header, token, ok)
			}
		})
	}
}

func TestBearerMiddlewareAndRoles(t *testing.T) {
	tm := NewTokenManager("secret", 15, "hr-api", "hr-client")
	app := fiber.New()
	app.Get("/departments", NewBearerMiddleware(tm).Handle, RequireRoles(domain.RoleAdmin, domain.RoleManager), func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.SendString(principal.Login)
	})

	mint := func(role domain.Role) string {
		token, _, err := tm.GenerateToken(TokenSubject{ID: 1, Login: "u-" + role.String(), Role: role})
		if err != nil {
			t.Fatal(err)
		}
		return token
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", fiber.StatusUnauthorized},
		{"bad token", "Bearer nope", fiber.StatusUnauthorized},
		{"employee forbidden", "Bearer " + mint(domain.RoleEmployee), fiber.StatusForbidden},
		{"manager allowed", "Bearer " + mint(domain.RoleManager), fiber.StatusOK},
		{"admin allowed", "Bearer " + mint(domain.RoleAdmin), fiber.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/departments", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.status)
			}
		})
	}
}

func TestRequireRolesWithoutPrincipal(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		return c.Status(apperrors.ToDomainError(err).HTTPStatus).SendString(apperrors.CodeOf(err))
	}})
	app.Get("/departments", RequireRoles(domain.RoleAdmin), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/departments", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusUnauthorized || string(body) != apperrors.CodeUnauthorized {
		t.Fatalf("got %d %q", resp.StatusCode, body)
	}
}

package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-client/internal/api/dto"
	"github.com/spec-kit/hr-client/internal/apiclient"
	"github.com/spec-kit/hr-client/internal/domain"
	"github.com/spec-kit/hr-client/internal/guard"
	"github.com/spec-kit/hr-client/internal/navigation"
	"github.com/spec-kit/hr-client/internal/service"
	"github.com/spec-kit/hr-client/internal/session"
	apperrors "github.com/spec-kit/hr-client/pkg/util"
)

// ShellHandler serves the client's navigable pages.
type ShellHandler struct {
	session *session.Service
	api     *apiclient.Client
	history *navigation.History
	notices *service.NotificationService
	menu    []navigation.MenuItem
}

// ShellDependencies bundles what the shell pages read.
type ShellDependencies struct {
	Session *session.Service
	API     *apiclient.Client
	History *navigation.History
	Notices *service.NotificationService
	Menu    []navigation.MenuItem
}

// NewShellHandler constructs handler.
func NewShellHandler(deps ShellDependencies) *ShellHandler {
	menu := deps.Menu
	if menu == nil {
		menu = navigation.DefaultMenu()
	}
	return &ShellHandler{
		session: deps.Session,
		api:     deps.API,
		history: deps.History,
		notices: deps.Notices,
		menu:    menu,
	}
}

// LoginPage handles GET /auth/login. A live session goes straight to its
// landing page.
func (h *ShellHandler) LoginPage(c *fiber.Ctx) error {
	if user := h.session.CurrentUser(); user != nil {
		return h.redirect(c, navigation.Landing(user.Role))
	}
	return c.JSON(dto.PageResponse{
		Page: "login",
		Data: fiber.Map{"returnUrl": c.Query("returnUrl")},
	})
}

// Login handles POST /auth/login.
func (h *ShellHandler) Login(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if form.ReturnURL == "" {
		form.ReturnURL = c.Query("returnUrl")
	}

	user, err := h.session.Login(c.UserContext(), domainLogin(form))
	if err != nil {
		return err
	}
	return h.redirect(c, navigation.AfterLogin(user, form.ReturnURL))
}

// Logout handles POST /auth/logout.
func (h *ShellHandler) Logout(c *fiber.Ctx) error {
	h.session.Logout(c.UserContext())
	return h.redirect(c, navigation.LoginPath)
}

// Dashboard handles GET /dashboard by sending the user to their landing page.
func (h *ShellHandler) Dashboard(c *fiber.Ctx) error {
	role, _ := h.session.CurrentUserRole()
	return h.redirect(c, navigation.Landing(role))
}

// Page renders a guarded page. dataPath, when set, is fetched from the API
// and embedded in the response.
func (h *ShellHandler) Page(route guard.Route, dataPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := h.session.Snapshot().CurrentUser
		page := dto.PageResponse{
			Page: route.Path,
			User: dto.NewUserView(user),
			Menu: navigation.VisibleMenu(h.menu, user),
		}
		if dataPath != "" && h.api != nil {
			var data any
			if err := h.api.Get(c.UserContext(), dataPath, &data); err != nil {
				return err
			}
			page.Data = data
		}
		return c.JSON(page)
	}
}

// AccessDenied handles GET /access-denied.
func (h *ShellHandler) AccessDenied(c *fiber.Ctx) error {
	user := h.session.CurrentUser()
	home := navigation.LoginPath
	if user != nil {
		home = navigation.Landing(user.Role)
	}
	return c.Status(fiber.StatusForbidden).JSON(dto.PageResponse{
		Page: "access-denied",
		User: dto.NewUserView(user),
		Data: fiber.Map{"home": home},
	})
}

// NotFound handles GET /not-found.
func (h *ShellHandler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.PageResponse{Page: "not-found"})
}

// Fallback sends unknown paths to the not-found page.
func (h *ShellHandler) Fallback(c *fiber.Ctx) error {
	return h.redirect(c, navigation.NotFoundPath)
}

// Session handles GET /session: the current auth state, the navigation
// history and recent notices.
func (h *ShellHandler) Session(c *fiber.Ctx) error {
	state := h.session.Snapshot()
	view := dto.SessionView{
		Authenticated: state.Authenticated,
		User:          dto.NewUserView(state.CurrentUser),
		History:       []string{},
	}
	if h.history != nil {
		view.History = h.history.Entries()
	}
	if h.notices != nil {
		view.Notices = h.notices.Recent()
	}
	return c.JSON(view)
}

// GuardRedirect sends the user where a denied guard decided. Denials to the
// login screen carry the requested path as returnUrl.
func GuardRedirect(c *fiber.Ctx, decision guard.Decision) error {
	target := decision.RedirectTo
	if target == navigation.LoginPath {
		target += "?returnUrl=" + url.QueryEscape(c.OriginalURL())
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

func (h *ShellHandler) redirect(c *fiber.Ctx, target string) error {
	if h.history != nil {
		h.history.Navigate(target)
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

func domainLogin(form dto.LoginForm) domain.LoginRequest {
	return domain.LoginRequest{Login: form.Login, Password: form.Password}
}

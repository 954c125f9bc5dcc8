// Package guard decides, per navigation, whether a protected route may be
// entered. Each check reads one auth snapshot at decision time and, when it
// denies, redirects through the navigator and reports where it sent the user.
package guard

import (
	"go.uber.org/zap"

	"github.com/spec-kit/hr-client/internal/domain"
	"github.com/spec-kit/hr-client/internal/navigation"
	"github.com/spec-kit/hr-client/internal/observability"
)

// StateReader is the read-only view of the auth state the guards need.
type StateReader interface {
	Snapshot() domain.AuthState
}

// Route is a protected route and its static authorization rule. Empty
// Roles means any authenticated user.
type Route struct {
	Path  string
	Roles []domain.Role
}

// Decision is the outcome of a navigation attempt.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Allow is the positive decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny denies navigation with a redirect to target.
func Deny(target string) Decision { return Decision{RedirectTo: target} }

// Checker is one guard in a chain.
type Checker interface {
	Check(route Route) Decision
}

// Chain evaluates checkers in order; the first denial wins.
func Chain(route Route, checkers ...Checker) Decision {
	for _, checker := range checkers {
		if decision := checker.Check(route); !decision.Allowed {
			return decision
		}
	}
	return Allow()
}

type base struct {
	state   StateReader
	nav     navigation.Navigator
	logger  *zap.Logger
	metrics *observability.Metrics
}

func newBase(state StateReader, nav navigation.Navigator, logger *zap.Logger, metrics *observability.Metrics) base {
	if nav == nil {
		nav = navigation.NavigatorFunc(func(string) {})
	}
	return base{state: state, nav: nav, logger: observability.OrNop(logger), metrics: metrics}
}

func (b base) deny(guard string, route Route, target string) Decision {
	b.metrics.RecordGuardDecision(guard, false)
	b.logger.Debug("navigation denied",
		zap.String("guard", guard),
		zap.String("route", route.Path),
		zap.String("redirect", target))
	b.nav.Navigate(target)
	return Deny(target)
}

func (b base) allow(guard string) Decision {
	b.metrics.RecordGuardDecision(guard, true)
	return Allow()
}

// AuthGuard requires an authenticated session.
type AuthGuard struct {
	base
}

// NewAuthGuard constructs the authentication check.
func NewAuthGuard(state StateReader, nav navigation.Navigator, logger *zap.Logger, metrics *observability.Metrics) *AuthGuard {
	return &AuthGuard{base: newBase(state, nav, logger, metrics)}
}

// Check denies with a redirect to the login screen when nobody is logged in.
func (g *AuthGuard) Check(route Route) Decision {
	return g.check(route, g.state.Snapshot())
}

func (g *AuthGuard) check(route Route, snapshot domain.AuthState) Decision {
	if !snapshot.Authenticated {
		return g.deny("auth", route, navigation.LoginPath)
	}
	return g.allow("auth")
}

// RoleGuard requires the current role to be one of the route's roles.
type RoleGuard struct {
	base
	auth *AuthGuard
}

// NewRoleGuard constructs the role check. Routes without roles are
// delegated to auth.
func NewRoleGuard(state StateReader, auth *AuthGuard, nav navigation.Navigator, logger *zap.Logger, metrics *observability.Metrics) *RoleGuard {
	return &RoleGuard{base: newBase(state, nav, logger, metrics), auth: auth}
}

// Check allows exact role membership. A logged-in user without the role is
// sent to their own landing page rather than a dead end.
func (g *RoleGuard) Check(route Route) Decision {
	snapshot := g.state.Snapshot()
	if len(route.Roles) == 0 {
		return g.auth.check(route, snapshot)
	}
	user := snapshot.CurrentUser
	if user == nil {
		return g.deny("role", route, navigation.LoginPath)
	}
	if !domain.ContainsRole(route.Roles, user.Role) {
		return g.deny("role", route, navigation.Landing(user.Role))
	}
	return g.allow("role")
}

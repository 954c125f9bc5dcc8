// Package session owns the client's notion of who is logged in: it drives
// the credential store, the token decoder and the auth state publisher, and
// is the only writer of the published state.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-client/internal/auth"
	"github.com/spec-kit/hr-client/internal/credential"
	"github.com/spec-kit/hr-client/internal/domain"
	"github.com/spec-kit/hr-client/internal/events"
	"github.com/spec-kit/hr-client/internal/navigation"
	"github.com/spec-kit/hr-client/internal/observability"
	apperrors "github.com/spec-kit/hr-client/pkg/util"
)

// Logout reasons recorded in events and metrics.
const (
	ReasonUser         = "user"
	ReasonExpired      = "expired"
	ReasonInvalidToken = "invalid_token"
	ReasonNoSession    = "no_session"
)

var errNoLoginClient = errors.New("session: no login client configured")

// LoginClient performs the remote login call.
type LoginClient interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
}

// Dependencies encapsulates what the Service drives.
type Dependencies struct {
	Store     credential.Store
	Decoder   *auth.Decoder
	Publisher *Publisher
	Navigator navigation.Navigator
	Events    events.Dispatcher
	Logger    *zap.Logger
	Metrics   *observability.Metrics
}

// Service is the session façade used by guards, the API client and the shell.
type Service struct {
	store   credential.Store
	decoder *auth.Decoder
	state   *Publisher
	nav     navigation.Navigator
	events  events.Dispatcher
	logger  *zap.Logger
	metrics *observability.Metrics
	api     LoginClient
	apiMu   sync.RWMutex
	writeMu sync.Mutex
}

// NewService builds the service. Missing optional collaborators get
// harmless defaults.
func NewService(deps Dependencies) *Service {
	s := &Service{
		store:   deps.Store,
		decoder: deps.Decoder,
		state:   deps.Publisher,
		nav:     deps.Navigator,
		events:  deps.Events,
		logger:  observability.OrNop(deps.Logger),
		metrics: deps.Metrics,
	}
	if s.store == nil {
		s.store = credential.NewMemoryStore()
	}
	if s.decoder == nil {
		s.decoder = auth.NewDecoder(s.logger, s.metrics)
	}
	if s.state == nil {
		s.state = NewPublisher()
	}
	if s.nav == nil {
		s.nav = navigation.NavigatorFunc(func(string) {})
	}
	if s.events == nil {
		s.events = events.NewInMemoryDispatcher(s.logger)
	}
	return s
}

// SetLoginClient attaches the remote login endpoint. The API client needs
// the service for credentials, so it is wired after construction.
func (s *Service) SetLoginClient(api LoginClient) {
	s.apiMu.Lock()
	defer s.apiMu.Unlock()
	s.api = api
}

// Initialize restores the session from the credential store. A missing,
// expired or undecodable token results in a full logout, so the process
// never holds a token without a matching state.
func (s *Service) Initialize(ctx context.Context) domain.AuthState {
	token, ok := s.store.Get(ctx)
	if !ok {
		s.logout(ctx, ReasonNoSession)
		return s.state.Snapshot()
	}
	if s.decoder.IsExpired(token) {
		s.logger.Info("stored session expired", zap.String("token", observability.RedactToken(token)))
		s.logout(ctx, ReasonExpired)
		return s.state.Snapshot()
	}
	identity, err := s.decoder.Decode(token)
	if err != nil {
		s.logger.Warn("stored session token unreadable", zap.Error(err))
		s.logout(ctx, ReasonInvalidToken)
		return s.state.Snapshot()
	}

	s.writeMu.Lock()
	s.state.Publish(domain.NewAuthState(identity))
	s.writeMu.Unlock()

	s.metrics.RecordSessionEvent("restored")
	s.logger.Info("session restored", zap.Int("user_id", identity.ID), zap.String("role", identity.Role.String()))
	return s.state.Snapshot()
}

// Login authenticates against the remote API and, on success, stores the
// token and publishes the new state before returning. The returned identity
// is the one that was published, so callers can route from it directly.
// On a failed request or a failed store write the state is left unchanged.
func (s *Service) Login(ctx context.Context, creds domain.LoginRequest) (*domain.Identity, error) {
	creds.Login = strings.TrimSpace(creds.Login)
	if creds.Login == "" || creds.Password == "" {
		return nil, apperrors.NewValidationError("login and password are required", nil)
	}

	s.apiMu.RLock()
	api := s.api
	s.apiMu.RUnlock()
	if api == nil {
		return nil, apperrors.NewInternalError(errNoLoginClient)
	}

	resp, err := api.Login(ctx, creds)
	if err != nil {
		s.logger.Info("login failed", zap.String("login", creds.Login), zap.String("code", apperrors.CodeOf(err)))
		return nil, err
	}

	if s.decoder.IsExpired(resp.Token) {
		s.logout(ctx, ReasonExpired)
		return nil, apperrors.NewSessionExpired(auth.ErrExpiredToken)
	}
	identity, err := s.decoder.Decode(resp.Token)
	if err != nil {
		s.logger.Warn("login returned an unreadable token", zap.String("login", creds.Login), zap.Error(err))
		s.logout(ctx, ReasonInvalidToken)
		return nil, apperrors.NewMalformedToken(err)
	}

	s.writeMu.Lock()
	if err := s.store.Set(ctx, resp.Token); err != nil {
		s.writeMu.Unlock()
		s.logger.Error("credential store write failed; login abandoned", zap.String("login", creds.Login), zap.Error(err))
		s.metrics.RecordSessionEvent("login_store_failed")
		return nil, apperrors.NewInternalError(fmt.Errorf("store credential: %w", err))
	}
	s.state.Publish(domain.NewAuthState(identity))
	s.writeMu.Unlock()

	s.metrics.RecordSessionEvent("login")
	s.logger.Info("logged in", zap.Int("user_id", identity.ID), zap.String("role", identity.Role.String()))
	s.emit(ctx, events.EventLoggedIn, identity, events.LoggedInPayload{
		Role:     identity.Role.String(),
		FullName: identity.FullName,
	})
	return identity.Clone(), nil
}

// Logout clears the stored token, publishes the empty state and navigates
// to the login screen. It is safe to call when already logged out.
func (s *Service) Logout(ctx context.Context) {
	s.logout(ctx, ReasonUser)
}

// Expire is the fail-closed path taken when the API rejects the credential.
// The store is empty and the state published before it returns.
func (s *Service) Expire(ctx context.Context) {
	s.logout(ctx, ReasonExpired)
}

func (s *Service) logout(ctx context.Context, reason string) {
	s.writeMu.Lock()
	previous := s.state.Snapshot().CurrentUser
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn("credential store clear failed", zap.Error(err))
	}
	s.state.Publish(domain.LoggedOut())
	s.writeMu.Unlock()

	s.metrics.RecordSessionEvent("logout_" + reason)
	if previous != nil {
		s.logger.Info("logged out", zap.Int("user_id", previous.ID), zap.String("reason", reason))
	}

	s.nav.Navigate(navigation.LoginPath)

	eventType := events.EventLoggedOut
	if reason == ReasonExpired || reason == ReasonInvalidToken {
		eventType = events.EventSessionExpired
	}
	if previous != nil || reason == ReasonExpired {
		s.emit(ctx, eventType, previous, events.LoggedOutPayload{Reason: reason})
	}
}

func (s *Service) emit(ctx context.Context, eventType events.EventType, user *domain.Identity, payload interface{}) {
	actor := events.Actor{}
	if user != nil {
		actor = events.Actor{UserID: user.ID, Login: user.Login}
	}
	_ = s.events.Publish(ctx, events.NewEvent(eventType, actor, payload))
}

// Snapshot returns the current auth state.
func (s *Service) Snapshot() domain.AuthState {
	return s.state.Snapshot()
}

// Subscribe follows the auth state; see Publisher.Subscribe.
func (s *Service) Subscribe(ctx context.Context, listener Listener) *Subscription {
	return s.state.Subscribe(ctx, listener)
}

// CurrentUser returns a copy of the logged-in identity, or nil.
func (s *Service) CurrentUser() *domain.Identity {
	return s.state.Snapshot().CurrentUser
}

// CurrentUserID returns the logged-in user's id.
func (s *Service) CurrentUserID() (int, bool) {
	if user := s.CurrentUser(); user != nil {
		return user.ID, true
	}
	return 0, false
}

// CurrentUserRole returns the logged-in user's role.
func (s *Service) CurrentUserRole() (domain.Role, bool) {
	if user := s.CurrentUser(); user != nil {
		return user.Role, true
	}
	return domain.RoleUnknown, false
}

// IsLoggedIn reports whether a user is authenticated.
func (s *Service) IsLoggedIn() bool {
	return s.state.Snapshot().Authenticated
}

// Token returns the stored credential. It never calls the remote API.
func (s *Service) Token(ctx context.Context) (string, bool) {
	return s.store.Get(ctx)
}

// HasRole reports whether the current user holds exactly role.
func (s *Service) HasRole(role domain.Role) bool {
	user := s.CurrentUser()
	return user != nil && user.Role == role
}

// HasAnyRole reports whether the current user's role is in roles. It is
// false with no current user, whatever roles holds.
func (s *Service) HasAnyRole(roles ...domain.Role) bool {
	user := s.CurrentUser()
	return user != nil && domain.ContainsRole(roles, user.Role)
}

func (s *Service) IsAdmin() bool    { return s.HasRole(domain.RoleAdmin) }
func (s *Service) IsManager() bool  { return s.HasRole(domain.RoleManager) }
func (s *Service) IsEmployee() bool { return s.HasRole(domain.RoleEmployee) }

// CanManage reports whether the user may manage employees and tasks.
func (s *Service) CanManage() bool {
	return s.HasAnyRole(domain.RoleAdmin, domain.RoleManager)
}

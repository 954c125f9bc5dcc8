package session

import (
	"context"
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/hr-client/internal/auth"
	"github.com/spec-kit/hr-client/internal/credential"
	"github.com/spec-kit/hr-client/internal/domain"
	"github.com/spec-kit/hr-client/internal/events"
	"github.com/spec-kit/hr-client/internal/navigation"
	apperrors "github.com/spec-kit/hr-client/pkg/util"
)

type stubLogin struct {
	resp  *domain.LoginResponse
	err   error
	calls int
}

func (s *stubLogin) Login(context.Context, domain.LoginRequest) (*domain.LoginResponse, error) {
	s.calls++
	return s.resp, s.err
}

func token(t *testing.T, id string, role string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		auth.ClaimSubject:  id,
		auth.ClaimLogin:    "jdoe",
		auth.ClaimFullName: "Jane Doe",
		auth.ClaimExpiry:   exp.Unix(),
	}
	if role != "" {
		claims[auth.ClaimRole] = role
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

type harness struct {
	svc     *Service
	store   *credential.MemoryStore
	history *navigation.History
	events  []events.Event
	logs    *observer.ObservedLogs
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	h := &harness{store: credential.NewMemoryStore(), history: navigation.NewHistory(nil), logs: logs}
	dispatcher := events.NewInMemoryDispatcher(nil)
	for _, et := range []events.EventType{events.EventLoggedIn, events.EventLoggedOut, events.EventSessionExpired} {
		dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			h.events = append(h.events, e)
			return nil
		})
	}
	h.svc = NewService(Dependencies{
		Store:     h.store,
		Navigator: h.history,
		Events:    dispatcher,
		Logger:    zap.New(core),
	})
	return h
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token restores the session", func(t *testing.T) {
		h := newHarness(t)
		_ = h.store.Set(ctx, token(t, "4", "Manager", time.Now().Add(time.Hour)))

		state := h.svc.Initialize(ctx)
		if !state.Authenticated || state.CurrentUser.ID != 4 || state.CurrentUser.Role != domain.RoleManager {
			t.Fatalf("state = %+v", state)
		}
		if len(h.history.Entries()) != 0 {
			t.Fatalf("restore navigated: %v", h.history.Entries())
		}
	})

	t.Run("expired token is cleared", func(t *testing.T) {
		h := newHarness(t)
		_ = h.store.Set(ctx, token(t, "4", "ADMIN", time.Now().Add(-time.Hour)))

		state := h.svc.Initialize(ctx)
		if state.Authenticated || state.CurrentUser != nil {
			t.Fatalf("state = %+v", state)
		}
		if _, ok := h.store.Get(ctx); ok {
			t.Fatal("expired token left in store")
		}
	})

	t.Run("malformed token is cleared", func(t *testing.T) {
		h := newHarness(t)
		_ = h.store.Set(ctx, token(t, "not-a-number", "ADMIN", time.Now().Add(time.Hour)))

		if state := h.svc.Initialize(ctx); state.Authenticated {
			t.Fatalf("state = %+v", state)
		}
		if _, ok := h.store.Get(ctx); ok {
			t.Fatal("malformed token left in store")
		}
	})

	t.Run("empty store stays logged out", func(t *testing.T) {
		h := newHarness(t)
		if state := h.svc.Initialize(ctx); state.Authenticated {
			t.Fatalf("state = %+v", state)
		}
		if len(h.events) != 0 {
			t.Fatalf("events = %v", h.events)
		}
	})
}

func TestLoginPublishesCompleteState(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tok := token(t, "1", "ADMIN", time.Now().Add(time.Hour))
	h.svc.SetLoginClient(&stubLogin{resp: &domain.LoginResponse{Token: tok, Role: domain.RoleAdmin, UserID: 1}})

	var seen []domain.AuthState
	var storedAtPublish []bool
	sub := h.svc.Subscribe(ctx, func(s domain.AuthState) {
		seen = append(seen, s)
		_, ok := h.store.Get(ctx)
		storedAtPublish = append(storedAtPublish, ok)
	})
	defer sub.Cancel()

	identity, err := h.svc.Login(ctx, domain.LoginRequest{Login: " jdoe ", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if identity.Role != domain.RoleAdmin || navigation.Landing(identity.Role) != navigation.AdminDashboardPath {
		t.Fatalf("identity = %+v", identity)
	}

	if len(seen) != 2 {
		t.Fatalf("states = %+v", seen)
	}
	if !seen[1].Authenticated || seen[1].CurrentUser.Role != domain.RoleAdmin || !storedAtPublish[1] {
		t.Fatalf("published %+v with stored=%v", seen[1], storedAtPublish[1])
	}
	if !h.svc.IsAdmin() || !h.svc.CanManage() || h.svc.IsEmployee() {
		t.Fatal("role helpers disagree with login")
	}
	if len(h.events) != 1 || h.events[0].Type != events.EventLoggedIn {
		t.Fatalf("events = %+v", h.events)
	}
}

func TestLoginFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.svc.SetLoginClient(&stubLogin{err: apperrors.NewInvalidCredentials()})

	_, err := h.svc.Login(ctx, domain.LoginRequest{Login: "jdoe", Password: "bad"})
	if !apperrors.IsCode(err, apperrors.CodeInvalidCredentials) {
		t.Fatalf("err = %v", err)
	}
	if h.svc.IsLoggedIn() {
		t.Fatal("logged in after failure")
	}
	if _, ok := h.store.Get(ctx); ok {
		t.Fatal("token stored after failure")
	}
}

type unwritableStore struct {
	*credential.MemoryStore
}

func (unwritableStore) Set(context.Context, string) error {
	return errors.New("storage unavailable")
}

func TestLoginStoreWriteFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	store := unwritableStore{credential.NewMemoryStore()}
	var published []domain.AuthState
	svc := NewService(Dependencies{Store: store, Navigator: navigation.NewHistory(nil)})
	svc.SetLoginClient(&stubLogin{resp: &domain.LoginResponse{
		Token: token(t, "1", "ADMIN", time.Now().Add(time.Hour)), Role: domain.RoleAdmin, UserID: 1,
	}})
	sub := svc.Subscribe(ctx, func(s domain.AuthState) { published = append(published, s) })
	defer sub.Cancel()

	identity, err := svc.Login(ctx, domain.LoginRequest{Login: "jdoe", Password: "pw"})
	if identity != nil || !apperrors.IsCode(err, apperrors.CodeInternal) {
		t.Fatalf("identity = %+v, err = %v", identity, err)
	}
	if svc.IsLoggedIn() || svc.CurrentUser() != nil {
		t.Fatal("logged in without a stored token")
	}
	if _, ok := svc.Token(ctx); ok {
		t.Fatal("token reported after failed write")
	}
	if len(published) != 1 || published[0].Authenticated {
		t.Fatalf("published = %+v", published)
	}
}

func TestLoginValidation(t *testing.T) {
	h := newHarness(t)
	stub := &stubLogin{}
	h.svc.SetLoginClient(stub)

	_, err := h.svc.Login(context.Background(), domain.LoginRequest{Login: "  ", Password: "x"})
	if !apperrors.IsCode(err, apperrors.CodeValidationFailed) || stub.calls != 0 {
		t.Fatalf("err = %v, calls = %d", err, stub.calls)
	}
}

func TestLoginRejectsUnusableTokens(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		tok  string
		code string
	}{
		{"expired", token(t, "1", "ADMIN", time.Now().Add(-time.Minute)), apperrors.CodeSessionExpired},
		{"bad subject", token(t, "x", "ADMIN", time.Now().Add(time.Hour)), apperrors.CodeMalformedToken},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.svc.SetLoginClient(&stubLogin{resp: &domain.LoginResponse{Token: tc.tok}})
			_, err := h.svc.Login(ctx, domain.LoginRequest{Login: "jdoe", Password: "pw"})
			if !apperrors.IsCode(err, tc.code) {
				t.Fatalf("err = %v, want %s", err, tc.code)
			}
			if h.svc.IsLoggedIn() {
				t.Fatal("logged in with unusable token")
			}
			if _, ok := h.store.Get(ctx); ok {
				t.Fatal("unusable token stored")
			}
		})
	}
}

func TestLoginWithoutClient(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Login(context.Background(), domain.LoginRequest{Login: "a", Password: "b"})
	if !apperrors.IsCode(err, apperrors.CodeInternal) || !errors.Is(err, errNoLoginClient) {
		t.Fatalf("err = %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_ = h.store.Set(ctx, token(t, "2", "EMPLOYEE", time.Now().Add(time.Hour)))
	h.svc.Initialize(ctx)

	h.svc.Logout(ctx)
	h.svc.Logout(ctx)

	if h.svc.IsLoggedIn() {
		t.Fatal("still logged in")
	}
	if _, ok := h.store.Get(ctx); ok {
		t.Fatal("token survived logout")
	}
	if h.history.Current() != navigation.LoginPath {
		t.Fatalf("navigated to %q", h.history.Current())
	}
	if len(h.events) != 1 || h.events[0].Type != events.EventLoggedOut {
		t.Fatalf("events = %+v", h.events)
	}
}

func TestExpireEmitsSessionExpired(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_ = h.store.Set(ctx, token(t, "2", "EMPLOYEE", time.Now().Add(time.Hour)))
	h.svc.Initialize(ctx)

	h.svc.Expire(ctx)
	if len(h.events) != 1 || h.events[0].Type != events.EventSessionExpired {
		t.Fatalf("events = %+v", h.events)
	}
	if h.svc.Snapshot().Authenticated {
		t.Fatal("still authenticated")
	}
}

func TestRoleQueriesWithoutUser(t *testing.T) {
	h := newHarness(t)
	if h.svc.HasAnyRole() || h.svc.HasAnyRole(domain.RoleEmployee, domain.RoleManager, domain.RoleAdmin) {
		t.Fatal("HasAnyRole true without a user")
	}
	if _, ok := h.svc.CurrentUserID(); ok {
		t.Fatal("user id without a user")
	}
	if role, ok := h.svc.CurrentUserRole(); ok || role != domain.RoleUnknown {
		t.Fatalf("role = %v, %v", role, ok)
	}
	if h.svc.CanManage() {
		t.Fatal("CanManage without a user")
	}
}

func TestHasAnyRoleEmptyListWithUser(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_ = h.store.Set(ctx, token(t, "2", "EMPLOYEE", time.Now().Add(time.Hour)))
	h.svc.Initialize(ctx)

	if h.svc.HasAnyRole() {
		t.Fatal("empty role list matched")
	}
	if !h.svc.HasAnyRole(domain.RoleEmployee) || h.svc.HasRole(domain.RoleManager) {
		t.Fatal("role membership wrong")
	}
}

func TestMissingRoleFallsBackWithWarning(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_ = h.store.Set(ctx, token(t, "2", "", time.Now().Add(time.Hour)))

	state := h.svc.Initialize(ctx)
	if state.Role() != domain.RoleEmployee {
		t.Fatalf("role = %v", state.Role())
	}
	if h.logs.FilterMessage("role claim fell back to EMPLOYEE").Len() != 1 {
		t.Fatal("fallback not logged")
	}
}

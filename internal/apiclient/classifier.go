package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-client/internal/events"
	"github.com/spec-kit/hr-client/internal/navigation"
	"github.com/spec-kit/hr-client/internal/observability"
	apperrors "github.com/spec-kit/hr-client/pkg/util"
)

// SessionExpirer tears the session down when the API rejects the credential.
type SessionExpirer interface {
	Expire(ctx context.Context)
}

// Classifier maps failed responses onto the error taxonomy and applies the
// single side effect belonging to each class. It never retries and always
// returns the normalized error to the caller.
type Classifier struct {
	session   SessionExpirer
	tokens    TokenSource
	nav       navigation.Navigator
	events    events.Dispatcher
	loginPath string
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// ClassifierDependencies bundles the classifier's collaborators.
type ClassifierDependencies struct {
	Session SessionExpirer
	// Tokens reports the current credential. When nil and Session is also a
	// TokenSource, Session is used.
	Tokens    TokenSource
	Navigator navigation.Navigator
	Events    events.Dispatcher
	LoginPath string
	Logger    *zap.Logger
	Metrics   *observability.Metrics
}

// NewClassifier builds a classifier.
func NewClassifier(deps ClassifierDependencies) *Classifier {
	c := &Classifier{
		session:   deps.Session,
		tokens:    deps.Tokens,
		nav:       deps.Navigator,
		events:    deps.Events,
		loginPath: deps.LoginPath,
		logger:    observability.OrNop(deps.Logger),
		metrics:   deps.Metrics,
	}
	if c.nav == nil {
		c.nav = navigation.NavigatorFunc(func(string) {})
	}
	if c.tokens == nil {
		if ts, ok := deps.Session.(TokenSource); ok {
			c.tokens = ts
		}
	}
	return c
}

// Classify maps a status code and response body to a taxonomy error
// without side effects. Status 0 means the server was never reached.
func Classify(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized:
		return apperrors.NewSessionExpired(nil)
	case http.StatusForbidden:
		return apperrors.NewForbidden("")
	case http.StatusNotFound:
		return apperrors.NewNotFound("")
	case http.StatusInternalServerError:
		return apperrors.NewServerFault()
	case 0:
		return apperrors.NewNetworkUnreachable(nil)
	default:
		return apperrors.NewUnclassified(status, bodyMessage(body))
	}
}

// Handle classifies a failed exchange and applies its side effect. A non-nil
// transportErr means no response was received.
func (c *Classifier) Handle(ctx context.Context, req *http.Request, status int, body []byte, transportErr error) error {
	var err error
	if transportErr != nil {
		err = apperrors.NewNetworkUnreachable(transportErr)
	} else {
		err = Classify(status, body)
	}
	code := apperrors.CodeOf(err)

	switch code {
	case apperrors.CodeSessionExpired:
		if c.isLogin(req) {
			// Nothing to expire on the login call; the credentials were wrong.
			err = apperrors.NewInvalidCredentials()
			code = apperrors.CodeInvalidCredentials
			break
		}
		if c.superseded(ctx, req) {
			c.logger.Info("stale credential rejected by API; session kept", zap.String("url", req.URL.Path))
			break
		}
		c.logger.Warn("credential rejected by API; logging out", zap.String("url", req.URL.Path))
		if c.session != nil {
			c.session.Expire(ctx)
		}
	case apperrors.CodeForbidden:
		c.logger.Warn("access denied by API", zap.String("url", req.URL.Path))
		c.nav.Navigate(navigation.AccessDeniedPath)
		if c.events != nil {
			_ = c.events.Publish(ctx, events.NewEvent(events.EventAccessDenied, events.Actor{}, events.AccessDeniedPayload{
				Method: req.Method,
				URL:    req.URL.Path,
			}))
		}
	case apperrors.CodeServerFault, apperrors.CodeNetworkUnreachable:
		c.logger.Error("api request failed", zap.String("url", req.URL.Path), zap.String("code", code), zap.Error(err))
	default:
		c.logger.Info("api request failed", zap.String("url", req.URL.Path), zap.String("code", code), zap.Int("status", status))
	}

	c.metrics.RecordAPIError(code)
	return err
}

// superseded reports whether the rejected request carried a credential other
// than the one now in use, e.g. it was sent before a later login completed.
func (c *Classifier) superseded(ctx context.Context, req *http.Request) bool {
	rec, ok := sentCredentialOf(req)
	if !ok || c.tokens == nil {
		return false
	}
	current, ok := c.tokens.Token(ctx)
	return ok && current != rec.token
}

func (c *Classifier) isLogin(req *http.Request) bool {
	return req != nil && c.loginPath != "" && strings.Contains(req.URL.Path, c.loginPath)
}

// bodyMessage pulls a message out of a JSON error body, accepting both a
// flat {"message"} and an {"error":{"message"}} envelope.
func bodyMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error.Message
}

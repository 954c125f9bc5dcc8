package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// HeaderRequestID correlates client and API logs.
const HeaderRequestID = "X-Request-ID"

// TokenSource yields the current session credential.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// TokenSourceFunc adapts a function, such as a credential store's Get.
type TokenSourceFunc func(ctx context.Context) (string, bool)

// Token calls f.
func (f TokenSourceFunc) Token(ctx context.Context) (string, bool) { return f(ctx) }

// CredentialInjector attaches the bearer credential to every outbound call
// to the API host except the login call. Requests to any other host, such
// as a redirect target, go out without it. It never retries.
type CredentialInjector struct {
	base      http.RoundTripper
	tokens    TokenSource
	apiHost   string
	loginPath string
}

// NewCredentialInjector wraps base, or http.DefaultTransport when nil. The
// credential is only sent to the host of baseURL.
func NewCredentialInjector(base http.RoundTripper, tokens TokenSource, baseURL, loginPath string) *CredentialInjector {
	if base == nil {
		base = http.DefaultTransport
	}
	var host string
	if u, err := url.Parse(baseURL); err == nil {
		host = u.Host
	}
	return &CredentialInjector{base: base, tokens: tokens, apiHost: host, loginPath: loginPath}
}

// RoundTrip implements http.RoundTripper on a clone of req.
func (t *CredentialInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if out.Header.Get(HeaderRequestID) == "" {
		out.Header.Set(HeaderRequestID, uuid.NewString())
	}
	var sent string
	if t.isAPI(out) && !t.isLogin(out) {
		if token, ok := t.tokens.Token(out.Context()); ok {
			out.Header.Set("Authorization", "Bearer "+token)
			out.Header.Set("Content-Type", "application/json")
			sent = token
		}
	}
	if rec, ok := out.Context().Value(sentCredentialKey{}).(*sentCredential); ok {
		rec.token = sent
	}
	return t.base.RoundTrip(out)
}

type sentCredentialKey struct{}

// sentCredential records the token the last hop of a request carried, so a
// rejection can be matched against the credential that caused it.
type sentCredential struct {
	token string
}

func withSentCredential(ctx context.Context) (context.Context, *sentCredential) {
	rec := &sentCredential{}
	return context.WithValue(ctx, sentCredentialKey{}, rec), rec
}

func sentCredentialOf(req *http.Request) (*sentCredential, bool) {
	if req == nil {
		return nil, false
	}
	rec, ok := req.Context().Value(sentCredentialKey{}).(*sentCredential)
	return rec, ok
}

func (t *CredentialInjector) isAPI(req *http.Request) bool {
	return t.apiHost != "" && strings.EqualFold(req.URL.Host, t.apiHost)
}

func (t *CredentialInjector) isLogin(req *http.Request) bool {
	return t.loginPath != "" && strings.Contains(req.URL.Path, t.loginPath)
}

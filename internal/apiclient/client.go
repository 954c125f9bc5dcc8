// Package apiclient is the HTTP client for the HR API. Every call goes
// through the credential injector and every failure through the classifier.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-client/internal/config"
	"github.com/spec-kit/hr-client/internal/domain"
	"github.com/spec-kit/hr-client/internal/observability"
	apperrors "github.com/spec-kit/hr-client/pkg/util"
)

const maxBodyBytes = 1 << 20

// Client issues JSON requests against the API base URL.
type Client struct {
	baseURL    string
	loginPath  string
	http       *http.Client
	classifier *Classifier
	logger     *zap.Logger
}

// New builds a client. base may be nil to use http.DefaultTransport.
func New(cfg config.APIConfig, tokens TokenSource, classifier *Classifier, base http.RoundTripper, logger *zap.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		loginPath: cfg.LoginPath,
		http: &http.Client{
			Transport: NewCredentialInjector(base, tokens, cfg.BaseURL, cfg.LoginPath),
			Timeout:   cfg.Timeout(),
		},
		classifier: classifier,
		logger:     observability.OrNop(logger),
	}
}

// Login posts credentials to the login endpoint.
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := c.Do(ctx, http.MethodPost, c.loginPath, req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, apperrors.NewMalformedToken(errors.New("login response carried no token"))
	}
	return &resp, nil
}

// Get fetches path into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Do sends body as JSON and decodes a successful response into out. Any
// non-2xx status or transport failure comes back as a classified error.
// Cancellation of ctx is returned as is.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError(fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	sendCtx, _ := withSentCredential(ctx)
	req, err := http.NewRequestWithContext(sendCtx, method, c.url(path), reader)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return c.fail(ctx, req, 0, nil, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return c.fail(ctx, req, 0, nil, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(ctx, req, resp.StatusCode, data, nil)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Warn("undecodable api response", zap.String("url", req.URL.Path), zap.Error(err))
		return apperrors.NewInternalError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) fail(ctx context.Context, req *http.Request, status int, body []byte, transportErr error) error {
	if c.classifier == nil {
		if transportErr != nil {
			return apperrors.NewNetworkUnreachable(transportErr)
		}
		return Classify(status, body)
	}
	return c.classifier.Handle(ctx, req, status, body, transportErr)
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

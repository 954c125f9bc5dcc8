package auth

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/hr-client/internal/domain"
	"github.com/spec-kit/hr-client/internal/observability"
)

var (
	// ErrMalformedToken is returned when a token's claims cannot be read.
	ErrMalformedToken = errors.New("malformed token")
	// ErrExpiredToken marks a token whose exp claim is in the past.
	ErrExpiredToken = errors.New("token expired")
)

// DecoderOption customizes a Decoder.
type DecoderOption func(*Decoder)

// WithVerification makes the decoder check HS256 signatures with secret and,
// when non-empty, the issuer and audience claims.
func WithVerification(secret, issuer, audience string) DecoderOption {
	return func(d *Decoder) {
		d.secret = []byte(secret)
		d.issuer = issuer
		d.audience = audience
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) DecoderOption {
	return func(d *Decoder) {
		d.now = now
	}
}

// Decoder turns session tokens into identities. Without verification it
// reads claims the way a browser client does: the signature is the API's
// business, not the client's.
type Decoder struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewDecoder builds a decoder.
func NewDecoder(logger *zap.Logger, metrics *observability.Metrics, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		now:     time.Now,
		logger:  observability.OrNop(logger),
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode parses token into an Identity. Expiry is not checked here; see
// IsExpired. A missing or unrecognized role claim falls back to EMPLOYEE.
func (d *Decoder) Decode(token string) (*domain.Identity, error) {
	claims, err := d.claims(token)
	if err != nil {
		return nil, err
	}

	id, err := subjectID(claims)
	if err != nil {
		return nil, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrMalformedToken)
	}

	identity := &domain.Identity{
		ID:          id,
		Login:       stringClaim(claims, ClaimLogin),
		Email:       stringClaim(claims, ClaimEmail),
		FullName:    stringClaim(claims, ClaimFullName),
		IssuedUntil: exp.Time,
	}
	identity.Role = d.role(claims, identity.Login)
	return identity, nil
}

// IsExpired reports whether token's exp claim lies in the past. Any token
// that cannot be read, or carries no exp, counts as expired.
func (d *Decoder) IsExpired(token string) bool {
	claims, err := d.claims(token)
	if err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Time.Before(d.now().Truncate(time.Second))
}

func (d *Decoder) claims(token string) (jwt.MapClaims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformedToken)
	}

	claims := jwt.MapClaims{}
	if len(d.secret) == 0 {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
		return claims, nil
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return d.secret, nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if d.issuer != "" {
		if iss, _ := claims.GetIssuer(); iss != d.issuer {
			return nil, fmt.Errorf("%w: unexpected issuer %q", ErrMalformedToken, iss)
		}
	}
	if d.audience != "" {
		aud, _ := claims.GetAudience()
		if !slices.Contains(aud, d.audience) {
			return nil, fmt.Errorf("%w: audience mismatch", ErrMalformedToken)
		}
	}
	return claims, nil
}

func (d *Decoder) role(claims jwt.MapClaims, login string) domain.Role {
	raw, found := roleClaim(claims)
	if !found {
		d.fallback(FallbackMissingRole, "", login)
		return domain.RoleEmployee
	}
	for _, label := range raw {
		if role, ok := domain.ParseRole(label); ok {
			return role
		}
	}
	d.fallback(FallbackUnknownRole, raw[0], login)
	return domain.RoleEmployee
}

func (d *Decoder) fallback(reason, raw, login string) {
	d.logger.Warn("role claim fell back to EMPLOYEE",
		zap.String("reason", reason),
		zap.String("raw_role", raw),
		zap.String("login", login),
	)
	d.metrics.RecordRoleFallback(reason)
}

// roleClaim returns the role labels under the namespaced key, else under
// the plain key. A multi-valued claim yields every string in it.
func roleClaim(claims jwt.MapClaims) ([]string, bool) {
	for _, key := range []string{ClaimRole, ClaimRoleSimple} {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return []string{v}, true
			}
		case []interface{}:
			labels := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					labels = append(labels, s)
				}
			}
			if len(labels) > 0 {
				return labels, true
			}
		}
	}
	return nil, false
}

func subjectID(claims jwt.MapClaims) (int, error) {
	raw, ok := claims[ClaimSubject]
	if !ok {
		raw, ok = claims["sub"]
	}
	if !ok {
		return 0, fmt.Errorf("%w: missing subject", ErrMalformedToken)
	}
	switch v := raw.(type) {
	case string:
		id, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%w: subject %q is not numeric", ErrMalformedToken, v)
		}
		return id, nil
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > 1<<53 {
			return 0, fmt.Errorf("%w: subject %v is not an integer id", ErrMalformedToken, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: unsupported subject type %T", ErrMalformedToken, raw)
	}
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

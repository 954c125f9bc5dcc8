package auth

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/hr-client/internal/domain"
)

// TokenManager issues and validates the HS256 tokens handed out by the dev API.
type TokenManager struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
	now      func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int, issuer, audience string) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{
		secret:   []byte(secret),
		ttl:      time.Duration(ttlMinutes) * time.Minute,
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
}

// Claims describes the JWT payload, using the claim names the client reads.
type Claims struct {
	NameID     string `json:"nameid"`
	UniqueName string `json:"unique_name"`
	Email      string `json:"email"`
	FullName   string `json:"FullName"`
	Role       string `json:"http://schemas.microsoft.com/ws/2008/06/identity/claims/role,omitempty"`
	jwt.RegisteredClaims
}

// TokenSubject is what gets encoded into a token.
type TokenSubject struct {
	ID       int
	Login    string
	Email    string
	FullName string
	Role     domain.Role
}

// GenerateToken builds and signs a JWT for the subject.
func (tm *TokenManager) GenerateToken(subject TokenSubject) (string, time.Time, error) {
	now := tm.now()
	expiresAt := now.Add(tm.ttl)
	id := strconv.Itoa(subject.ID)
	claims := &Claims{
		NameID:     id,
		UniqueName: subject.Login,
		Email:      subject.Email,
		FullName:   subject.FullName,
		Role:       subject.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			Issuer:    tm.issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if tm.audience != "" {
		claims.Audience = jwt.ClaimStrings{tm.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates signature and expiry and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

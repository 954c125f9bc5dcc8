package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-client/internal/auth"
	"github.com/spec-kit/hr-client/internal/config"
	"github.com/spec-kit/hr-client/internal/domain"
	"github.com/spec-kit/hr-client/internal/observability"
	"github.com/spec-kit/hr-client/internal/repository"
	apperrors "github.com/spec-kit/hr-client/pkg/util"
)

// SeedAccount is a plaintext account loaded into the dev API at startup.
type SeedAccount struct {
	Login    string
	Password string
	Email    string
	FullName string
	Role     domain.Role
}

// DefaultSeedAccounts is one account per role.
func DefaultSeedAccounts() []SeedAccount {
	return []SeedAccount{
		{Login: "admin", Password: "admin123", Email: "admin@hr.local", FullName: "Alice Admin", Role: domain.RoleAdmin},
		{Login: "manager", Password: "manager123", Email: "manager@hr.local", FullName: "Mark Manager", Role: domain.RoleManager},
		{Login: "employee", Password: "employee123", Email: "employee@hr.local", FullName: "Eve Employee", Role: domain.RoleEmployee},
	}
}

// AuthService issues tokens for the dev API.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.DevAPIConfig, accounts repository.AccountRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		accounts:   accounts,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTLMinutes, cfg.Issuer, cfg.Audience),
		bcryptCost: cfg.BcryptCost,
		logger:     observability.OrNop(logger),
	}
}

// Seed hashes and stores the given accounts, replacing existing logins.
func (s *AuthService) Seed(ctx context.Context, seeds []SeedAccount) error {
	for _, seed := range seeds {
		hash, err := auth.HashPassword(seed.Password, s.bcryptCost)
		if err != nil {
			return err
		}
		account := &domain.Account{
			Login:        seed.Login,
			Email:        seed.Email,
			FullName:     seed.FullName,
			Role:         seed.Role,
			PasswordHash: hash,
			Active:       true,
		}
		if err := s.accounts.Upsert(ctx, account); err != nil {
			return err
		}
		s.logger.Debug("seeded account", zap.String("login", account.Login), zap.String("role", account.Role.String()))
	}
	return nil
}

// Login checks credentials and returns a signed token. Unknown logins,
// wrong passwords and inactive accounts are indistinguishable to callers.
func (s *AuthService) Login(ctx context.Context, login, password string) (*domain.LoginResponse, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, apperrors.NewValidationError("login and password are required", nil)
	}

	account, err := s.accounts.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.NewInternalError(err)
	}
	if !account.Active || !auth.PasswordMatches(account.PasswordHash, password) {
		s.logger.Info("rejected login", zap.String("login", login))
		return nil, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.GenerateToken(auth.TokenSubject{
		ID:       account.ID,
		Login:    account.Login,
		Email:    account.Email,
		FullName: account.FullName,
		Role:     account.Role,
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &domain.LoginResponse{
		Token:     token,
		FullName:  account.FullName,
		Role:      account.Role,
		UserID:    account.ID,
		ExpiresAt: exp,
	}, nil
}

// Account returns the account behind an authenticated principal.
func (s *AuthService) Account(ctx context.Context, id int) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("account")
		}
		return nil, apperrors.NewInternalError(err)
	}
	return account, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

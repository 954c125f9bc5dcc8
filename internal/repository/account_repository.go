package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/hr-client/internal/domain"
)

// ErrNotFound is returned when no record matches.
var ErrNotFound = errors.New("record not found")

// AccountRepository defines persistence access for dev API accounts.
type AccountRepository interface {
	Upsert(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int) (*domain.Account, error)
	GetByLogin(ctx context.Context, login string) (*domain.Account, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) Upsert(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO dev_accounts (login, email, full_name, role, password_hash, active)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (login) DO UPDATE SET
            email=EXCLUDED.email, full_name=EXCLUDED.full_name, role=EXCLUDED.role,
            password_hash=EXCLUDED.password_hash, active=EXCLUDED.active
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		account.Login,
		account.Email,
		account.FullName,
		account.Role.String(),
		account.PasswordHash,
		account.Active,
	).Scan(&account.ID, &account.CreatedAt)
}

func (r *accountRepository) GetByID(ctx context.Context, id int) (*domain.Account, error) {
	const query = `
        SELECT id, login, email, full_name, role, password_hash, active, created_at
        FROM dev_accounts WHERE id=$1`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepository) GetByLogin(ctx context.Context, login string) (*domain.Account, error) {
	const query = `
        SELECT id, login, email, full_name, role, password_hash, active, created_at
        FROM dev_accounts WHERE lower(login)=lower($1)`
	return scanAccount(r.pool.QueryRow(ctx, query, login))
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account domain.Account
		role    string
	)
	if err := row.Scan(
		&account.ID,
		&account.Login,
		&account.Email,
		&account.FullName,
		&role,
		&account.PasswordHash,
		&account.Active,
		&account.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	account.Role, _ = domain.ParseRole(role)
	return &account, nil
}

// MemoryAccountRepository keeps accounts in process memory.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	nextID   int
	accounts map[int]domain.Account
}

// NewMemoryAccountRepository returns an empty repository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{nextID: 1, accounts: make(map[int]domain.Account)}
}

func (r *MemoryAccountRepository) Upsert(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.accounts {
		if strings.EqualFold(existing.Login, account.Login) {
			account.ID = id
			account.CreatedAt = existing.CreatedAt
			r.accounts[id] = *account
			return nil
		}
	}
	account.ID = r.nextID
	account.CreatedAt = time.Now().UTC()
	r.nextID++
	r.accounts[account.ID] = *account
	return nil
}

func (r *MemoryAccountRepository) GetByID(_ context.Context, id int) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &account, nil
}

func (r *MemoryAccountRepository) GetByLogin(_ context.Context, login string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, account := range r.accounts {
		if strings.EqualFold(account.Login, login) {
			return &account, nil
		}
	}
	return nil, ErrNotFound
}

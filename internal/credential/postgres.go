package credential

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var errNoPool = errors.New("postgres pool not configured")

// PostgresStore keeps the token in the client_sessions table.
type PostgresStore struct {
	pool   *pgxpool.Pool
	key    string
	logger *zap.Logger
}

// NewPostgresStore returns a store for key. A nil pool yields a store that
// is always empty and refuses writes.
func NewPostgresStore(pool *pgxpool.Pool, key string, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{pool: pool, key: key, logger: logger}
}

func (s *PostgresStore) Get(ctx context.Context) (string, bool) {
	if s.pool == nil {
		return "", false
	}
	const query = `SELECT token FROM client_sessions WHERE storage_key=$1`

	var token string
	err := s.pool.QueryRow(ctx, query, s.key).Scan(&token)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false
	}
	if err != nil {
		s.logger.Warn("postgres credential read failed; treating as empty", zap.Error(err))
		return "", false
	}
	return token, token != ""
}

func (s *PostgresStore) Set(ctx context.Context, token string) error {
	if s.pool == nil {
		return errNoPool
	}
	const query = `
        INSERT INTO client_sessions (storage_key, token)
        VALUES ($1, $2)
        ON CONFLICT (storage_key) DO UPDATE SET token=EXCLUDED.token, updated_at=NOW()`

	_, err := s.pool.Exec(ctx, query, s.key, token)
	return err
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	const query = `DELETE FROM client_sessions WHERE storage_key=$1`

	_, err := s.pool.Exec(ctx, query, s.key)
	return err
}

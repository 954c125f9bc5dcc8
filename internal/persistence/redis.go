package persistence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/hr-client/internal/config"
	"github.com/spec-kit/hr-client/internal/credential"
)

// Session reads sit on every guarded navigation; they fail fast and read as
// "no session" rather than stall a page.
const redisSessionTimeout = 500 * time.Millisecond

// Redis wraps the go-redis client shared by shell processes.
type Redis struct {
	Client *redis.Client
}

// NewRedis builds the client and pings it once. An unreachable server is
// only logged; credential reads then fail soft until it comes back.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	r := &Redis{Client: redis.NewClient(redisOptions(cfg))}

	if err := r.Ping(ctx); err != nil {
		logger.Warn("unable to reach redis; sessions read as logged out until it is", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	}
	return r
}

func redisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  redisSessionTimeout,
		ReadTimeout:  redisSessionTimeout,
		WriteTimeout: redisSessionTimeout,
		MaxRetries:   1,
	}
}

// SessionStore returns the credential store for tokenKey on this client.
func (r *Redis) SessionStore(tokenKey string, logger *zap.Logger) *credential.RedisStore {
	return credential.NewRedisStore(r.Client, tokenKey, logger)
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity for the readiness probe.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return ErrNotConfigured
	}
	return r.Client.Ping(ctx).Err()
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrDisabled is returned by every call on a client built with Enabled=false.
var ErrDisabled = errors.New("redis is disabled")

type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	Enabled      bool
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Client is the subset of Redis the service uses.
type Client interface {
	IsEnabled() bool
	Ping(ctx context.Context) error
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

type client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient returns a disabled client when cfg.Enabled is false, so callers never need nil checks.
// The connection is not verified here; see Ping.
func NewClient(cfg Config, logger *zap.Logger) Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		return disabled{}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	logger.Info("Redis client configured",
		zap.String("address", addr),
		zap.Int("database", cfg.DB),
	)
	return &client{rdb: rdb, logger: logger}
}

func (c *client) IsEnabled() bool { return true }

func (c *client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("Failed to set key",
			zap.String("key", key),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func (c *client) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *client) Close() error {
	return c.rdb.Close()
}

type disabled struct{}

func (disabled) IsEnabled() bool                                         { return false }
func (disabled) Ping(context.Context) error                              { return ErrDisabled }
func (disabled) Set(context.Context, string, string, time.Duration) error { return ErrDisabled }
func (disabled) Exists(context.Context, string) (bool, error)            { return false, ErrDisabled }
func (disabled) Delete(context.Context, string) error                    { return ErrDisabled }
func (disabled) Close() error                                            { return nil }

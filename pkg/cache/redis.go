package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/edu-console-api/pkg/config"
)

// ErrDisabled is returned when no Redis host is configured.
var ErrDisabled = errors.New("redis disabled: REDIS_HOST is empty")

// NewRedis dials Redis and verifies the connection. Weekly reads are served without
// cache when this fails, so timeouts stay short to keep startup fast.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, ErrDisabled
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", client.Options().Addr, err)
	}

	return client, nil
}

package distributed

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter coordinates a submission budget across multiple application
// instances using Redis as the shared backend.
type Limiter interface {
	// Allow reports whether one event may happen now across all instances.
	Allow(ctx context.Context) bool

	// AllowN reports whether n events may happen now across all instances.
	AllowN(ctx context.Context, n int) bool

	// Count returns the number of events admitted in the current window.
	Count(ctx context.Context) (int64, error)

	// Reset clears the limiter state (useful for testing).
	Reset(ctx context.Context) error

	// Close releases limiter resources. It does not close the Redis client,
	// which is owned by the caller.
	Close() error
}

// Config holds configuration for distributed limiters.
type Config struct {
	// Redis client for coordination.
	Redis redis.UniversalClient

	// Key is the Redis key prefix for this limiter.
	Key string

	// Limit is the number of events admitted per window.
	Limit int

	// Window is the length of a fixed window (defaults to 1 second).
	Window time.Duration

	// InstanceID uniquely identifies this application instance.
	InstanceID string

	// RedisTimeout is the timeout for Redis operations (defaults to 500ms).
	RedisTimeout time.Duration

	// FailOpen admits events when Redis is unreachable. When false,
	// unreachable Redis denies everything.
	FailOpen bool
}

// DefaultConfig returns a default distributed limiter configuration.
func DefaultConfig() Config {
	return Config{
		Window:       time.Second,
		InstanceID:   generateInstanceID(),
		RedisTimeout: 500 * time.Millisecond,
	}
}

// NewFixedWindow creates a fixed-window limiter backed by Redis.
func NewFixedWindow(config Config) (Limiter, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return newRedisFixedWindow(applyConfigDefaults(config)), nil
}

func validateConfig(config Config) error {
	if config.Redis == nil {
		return &ConfigError{"redis client is required"}
	}
	if config.Key == "" {
		return &ConfigError{"key is required"}
	}
	if config.Limit <= 0 {
		return &ConfigError{"limit must be positive"}
	}
	return nil
}

func applyConfigDefaults(config Config) Config {
	if config.Window <= 0 {
		config.Window = time.Second
	}
	if config.InstanceID == "" {
		config.InstanceID = generateInstanceID()
	}
	if config.RedisTimeout <= 0 {
		config.RedisTimeout = 500 * time.Millisecond
	}
	return config
}

func generateInstanceID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "instance-unknown"
	}
	return "instance-" + hex.EncodeToString(buf)
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "distributed limiter config error: " + e.Message
}

// RedisError represents a Redis operation error.
type RedisError struct {
	Operation string
	Err       error
}

func (e *RedisError) Error() string {
	return "redis error in " + e.Operation + ": " + e.Err.Error()
}

func (e *RedisError) Unwrap() error {
	return e.Err
}

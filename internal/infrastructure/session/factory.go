package session

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Factory creates session stores based on configuration
type Factory struct {
	redisConfig      RedisConfig
	ttl              time.Duration
	logger           *zap.Logger
	allowMemFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithMemoryFallback controls whether to fall back to the in-memory store
// when Redis is unavailable. Default is true.
func WithMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowMemFallback = allow
	}
}

// NewFactory creates a session store factory
func NewFactory(cfg RedisConfig, ttl time.Duration, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:      cfg,
		ttl:              ttl,
		logger:           zap.NewNop(),
		allowMemFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateStore builds a store for the requested backend. For the redis
// backend it falls back to memory when Redis is unreachable, unless the
// fallback was disabled.
func (f *Factory) CreateStore(backend string) (Store, error) {
	switch backend {
	case "memory":
		f.logger.Info("using in-memory session store")
		return NewMemoryStore(f.ttl), nil
	case "redis":
		cfg := f.redisConfig
		cfg.TTL = f.ttl
		store, err := NewRedisStore(cfg)
		if err == nil {
			f.logger.Info("using Redis session store")
			return store, nil
		}
		if !f.allowMemFallback {
			return nil, fmt.Errorf("Redis required for sessions but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory session store. "+
			"Tenant switches will not survive restarts or replicas.",
			zap.Error(err),
		)
		return NewMemoryStore(f.ttl), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", backend)
	}
}

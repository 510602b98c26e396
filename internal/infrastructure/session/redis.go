package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 24 * time.Hour

// RedisStore implements Store on Redis. Suitable for multi-instance
// deployments where session state must be shared.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisStore creates a Redis-backed session store and verifies the
// connection
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

// NewRedisStoreWithClient creates a store with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl == 0 {
		ttl = defaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func tenantKey(sessionID string) string {
	return "session:" + sessionID + ":tenant"
}

// SetTenant persists the active tenant for a session with the store's TTL
func (s *RedisStore) SetTenant(ctx context.Context, sessionID string, tenantID uuid.UUID) error {
	if err := s.client.Set(ctx, tenantKey(sessionID), tenantID.String(), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to persist session tenant: %w", err)
	}
	return nil
}

// Tenant returns the persisted tenant for a session
func (s *RedisStore) Tenant(ctx context.Context, sessionID string) (uuid.UUID, bool, error) {
	val, err := s.client.Get(ctx, tenantKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to read session tenant: %w", err)
	}

	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt session tenant value %q: %w", val, err)
	}

	return id, true, nil
}

// ClearTenant removes the persisted tenant for a session
func (s *RedisStore) ClearTenant(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, tenantKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session tenant: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)

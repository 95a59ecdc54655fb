package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// redisOpTimeout bounds every store operation so a slow Redis cannot stall
// the request path.
const redisOpTimeout = 3 * time.Second

// RedisStore keeps credentials in Redis so several client processes can
// share one session: a refresh performed by any of them is observed by the
// others on their next read.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	logger    *logrus.Logger
}

// NewRedisStore creates a Redis-backed credential store and verifies
// connectivity
func NewRedisStore(addr, password string, db int, logger *logrus.Logger) (*RedisStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client:    client,
		keyPrefix: "freelance:session:",
		logger:    logger,
	}, nil
}

// SetCredentials persists both values, overwriting any prior pair
func (s *RedisStore) SetCredentials(access, refresh string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := s.client.MSet(ctx,
		s.keyPrefix+accessSlot, access,
		s.keyPrefix+refreshSlot, refresh,
	).Err(); err != nil {
		s.logger.WithError(err).Warn("Failed to persist credentials to Redis")
	}
}

// Access returns the current access credential, if present
func (s *RedisStore) Access() (string, bool) {
	return s.getSlot(accessSlot)
}

// Refresh returns the current refresh credential, if present
func (s *RedisStore) Refresh() (string, bool) {
	return s.getSlot(refreshSlot)
}

// Clear removes both credentials
func (s *RedisStore) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.keyPrefix+accessSlot, s.keyPrefix+refreshSlot).Err(); err != nil {
		s.logger.WithError(err).Warn("Failed to clear credentials in Redis")
	}
}

// IsAuthenticated reports whether an access credential is present
func (s *RedisStore) IsAuthenticated() bool {
	_, ok := s.Access()
	return ok
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) getSlot(slot string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	value, err := s.client.Get(ctx, s.keyPrefix+slot).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.WithError(err).WithField("slot", slot).Warn("Failed to read credential from Redis")
		}
		return "", false
	}
	return value, value != ""
}

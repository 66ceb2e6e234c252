package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/giftbox-backend/config"
	"github.com/ikkim/giftbox-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "giftbox:revoked:"

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		return client.Close()
	}
	return nil
}

// RevocationStore remembers signed-out session tokens until they expire
type RevocationStore struct {
	client redis.UniversalClient
}

func NewRevocationStore(c redis.UniversalClient) *RevocationStore {
	return &RevocationStore{client: c}
}

// Revoke marks the token id as signed out for ttl
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedKeyPrefix+tokenID, "revoked", ttl).Err(); err != nil {
		logger.Error("Failed to revoke session token", err)
		return err
	}
	logger.Debug("Session token revoked", map[string]interface{}{
		"ttl": ttl.String(),
	})
	return nil
}

// IsRevoked checks whether the token id was signed out
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	val, err := s.client.Get(ctx, revokedKeyPrefix+tokenID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == "revoked", nil
}

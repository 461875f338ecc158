package session

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sekolahapps/kebiasaan/pkg/cleanup"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
)

const (
	projectionKeyPrefix = "profile:"
	revokedKeyPrefix    = "revoked:"
	projectionTTL       = time.Hour * 24
)

// NewRedisClient dials Redis for the session stores and registers its
// shutdown with the cleanup registry.
func NewRedisClient(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("error while pinging redis for session stores: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing redis client",
		F:    client.Close,
	})
	return client
}

type RedisProjectionCache struct {
	client *redis.Client
}

func NewRedisProjectionCache(client *redis.Client) *RedisProjectionCache {
	return &RedisProjectionCache{client: client}
}

func (c *RedisProjectionCache) Get(ctx context.Context, id uuid.UUID) (*entity.Profile, bool) {
	raw, err := c.client.Get(ctx, projectionKeyPrefix+id.String()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("projection cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}
	var profile entity.Profile
	if err = sonic.Unmarshal(raw, &profile); err != nil {
		slog.Error("projection cache entry is unreadable", slog.String("error", err.Error()))
		return nil, false
	}
	return &profile, true
}

func (c *RedisProjectionCache) Set(ctx context.Context, profile *entity.Profile) {
	if profile == nil {
		return
	}
	raw, err := sonic.Marshal(profile)
	if err != nil {
		slog.Error("projection marshalling failed", slog.String("error", err.Error()))
		return
	}
	if err = c.client.Set(ctx, projectionKeyPrefix+profile.ID.String(), raw, projectionTTL).Err(); err != nil {
		slog.Error("projection cache write failed", slog.String("error", err.Error()))
	}
}

func (c *RedisProjectionCache) Del(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, projectionKeyPrefix+id.String()).Err(); err != nil {
		slog.Error("projection cache delete failed", slog.String("error", err.Error()))
	}
}

type RedisRevocationStore struct {
	client *redis.Client
}

func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

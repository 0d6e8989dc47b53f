package resettokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/themisai/themis/internal/common"
)

const keyPrefix = "themis:reset:"

// commands is the part of *redis.Client the store uses.
type commands interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore keeps tokens as plain keys with a TTL, so expiry is Redis's job.
type RedisStore struct {
	rdb commands
}

func NewRedisStore(rdb commands) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Dial connects to addr and checks the connection.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisStore) Save(ctx context.Context, hash, email string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, keyPrefix+hash, email, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Consume(ctx context.Context, hash string) (string, error) {
	email, err := s.rdb.GetDel(ctx, keyPrefix+hash).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("redis getdel: %w", err)
	}
	return email, nil
}

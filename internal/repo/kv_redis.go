package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/pumpkinkking/whereeat/internal/domain"
)

// redisKVRepo is the Redis implementation of KVRepo.
// Every key is namespaced with prefix so several deployments can share a
// Redis database.
type redisKVRepo struct {
	client redis.Cmdable
	prefix string
}

// NewRedisKVRepo constructs a KVRepo backed by client. Keys are stored as
// prefix+key; pass "" for no namespace.
func NewRedisKVRepo(client redis.Cmdable, prefix string) KVRepo {
	return &redisKVRepo{client: client, prefix: prefix}
}

func (r *redisKVRepo) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("repo.RedisKVRepo.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.RedisKVRepo.Get: %w", err)
	}
	return value, nil
}

// Put stores value without expiry.
func (r *redisKVRepo) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("repo.RedisKVRepo.Put: %w", err)
	}
	return nil
}

func (r *redisKVRepo) Delete(ctx context.Context, key string) error {
	n, err := r.client.Del(ctx, r.prefix+key).Result()
	if err != nil {
		return fmt.Errorf("repo.RedisKVRepo.Delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("repo.RedisKVRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

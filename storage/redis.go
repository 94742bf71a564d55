package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each key as a plain string value with no expiry.
type RedisStore struct {
	Conn *redis.Client
}

func NewRedisStore(ctx context.Context, opts *redis.Options) (*RedisStore, error) {
	conn := redis.NewClient(opts)
	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return &RedisStore{Conn: conn}, nil
}

func (s *RedisStore) Close() error { return s.Conn.Close() }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.Conn.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %q", key)
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.Conn.Set(ctx, key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "set %q", key)
	}
	return nil
}

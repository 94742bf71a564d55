package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/johnsulf/jsf-ca-ecom-store/config"
)

// Open returns the backend named by cfg.StorageBackend.
func Open(ctx context.Context, cfg config.Config) (Storage, error) {
	switch cfg.StorageBackend {
	case "memory":
		return NewMemory(), nil
	case "postgres":
		st, err := NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, err
		}
		return st, nil
	case "redis":
		st, err := NewRedisStore(ctx, &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	return nil, errors.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

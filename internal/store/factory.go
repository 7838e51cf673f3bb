package store

import (
	"context"
	"fmt"

	mydb "github.com/TimurManjosov/volumediscount/internal/db"
)

// NewStore creates a new store based on the given store type.
// Supported types: "memory", "postgres", "redis"
func NewStore(ctx context.Context, storeType, dbDSN, redisURL string) (Store, error) {
	switch storeType {
	case "memory":
		return NewMemoryStore(), nil
	case "postgres":
		pool, err := mydb.NewPool(ctx, dbDSN, mydb.DefaultPoolOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres pool: %w", err)
		}
		ps := NewPostgresStore(pool)
		if err := ps.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to apply metafields schema: %w", err)
		}
		return ps, nil
	case "redis":
		client, err := mydb.NewRedisClient(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to reach redis: %w", err)
		}
		return NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeType)
	}
}

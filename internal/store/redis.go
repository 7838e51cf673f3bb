package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each metafield as a Redis hash at metafield:{owner}:{namespace}:{key}.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed store on top of an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(ownerID, namespace, key string) string {
	return fmt.Sprintf("metafield:%s:%s:%s", ownerID, namespace, key)
}

// GetMetafield reads the hash for the given coordinates.
func (r *RedisStore) GetMetafield(ctx context.Context, ownerID, namespace, key string) (*Metafield, error) {
	fields, err := r.client.HGetAll(ctx, redisKey(ownerID, namespace, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	mf := &Metafield{
		ID:        fields["id"],
		OwnerID:   ownerID,
		Namespace: namespace,
		Key:       key,
		Type:      fields["type"],
		Value:     fields["value"],
	}
	if ts, err := time.Parse(time.RFC3339Nano, fields["updatedAt"]); err == nil {
		mf.UpdatedAt = ts
	}
	return mf, nil
}

// SetMetafield writes all fields of the hash in one round trip.
// HSETNX keeps the id stable across overwrites.
func (r *RedisStore) SetMetafield(ctx context.Context, params SetParams) (*Metafield, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	k := redisKey(params.OwnerID, params.Namespace, params.Key)
	now := time.Now().UTC()

	pipe := r.client.TxPipeline()
	pipe.HSetNX(ctx, k, "id", metafieldGID(uuid.NewString()))
	pipe.HSet(ctx, k,
		"type", params.Type,
		"value", params.Value,
		"updatedAt", now.Format(time.RFC3339Nano),
	)
	idCmd := pipe.HGet(ctx, k, "id")
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("write metafield: %w", err)
	}

	return &Metafield{
		ID:        idCmd.Val(),
		OwnerID:   params.OwnerID,
		Namespace: params.Namespace,
		Key:       params.Key,
		Type:      params.Type,
		Value:     params.Value,
		UpdatedAt: now,
	}, nil
}

// DeleteMetafield removes the hash. Deleting a missing key is not an error.
func (r *RedisStore) DeleteMetafield(ctx context.Context, ownerID, namespace, key string) error {
	return r.client.Del(ctx, redisKey(ownerID, namespace, key)).Err()
}

// Close closes the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

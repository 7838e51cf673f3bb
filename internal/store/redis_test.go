package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore_SetAndGet(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	written, err := s.SetMetafield(ctx, ruleParams("shop", `{"percentOff":10}`))
	require.NoError(t, err)
	require.Contains(t, written.ID, "gid://shopify/Metafield/")

	got, err := s.GetMetafield(ctx, "shop", "volume_discount", "rules")
	require.NoError(t, err)
	require.Equal(t, `{"percentOff":10}`, got.Value)
	require.Equal(t, "json", got.Type)
	require.Equal(t, written.ID, got.ID)
	require.False(t, got.UpdatedAt.IsZero())

	require.True(t, mr.Exists("metafield:shop:volume_discount:rules"))
}

func TestRedisStore_GetMissing(t *testing.T) {
	s, _ := newRedisStore(t)

	_, err := s.GetMetafield(context.Background(), "shop", "volume_discount", "rules")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_OverwriteKeepsID(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	first, err := s.SetMetafield(ctx, ruleParams("shop", "v1"))
	require.NoError(t, err)
	second, err := s.SetMetafield(ctx, ruleParams("shop", "v2"))
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	got, err := s.GetMetafield(ctx, "shop", "volume_discount", "rules")
	require.NoError(t, err)
	require.Equal(t, "v2", got.Value)
}

func TestRedisStore_Delete(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	_, err := s.SetMetafield(ctx, ruleParams("shop", "v"))
	require.NoError(t, err)
	require.NoError(t, s.DeleteMetafield(ctx, "shop", "volume_discount", "rules"))
	require.False(t, mr.Exists("metafield:shop:volume_discount:rules"))

	_, err = s.GetMetafield(ctx, "shop", "volume_discount", "rules")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.DeleteMetafield(ctx, "shop", "volume_discount", "rules"))
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewRedisClient(RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, ttl), mr
}

func TestRedisPutGet(t *testing.T) {
	ctx := context.Background()
	r, mr := setupRedis(t, 0)
	require.NoError(t, r.Ping(ctx))

	s := testSession("abc", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, r.Put(ctx, s))
	assert.True(t, mr.Exists("solar:session:abc"))

	got, err := r.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, s.Loads, got.Loads)
	assert.Equal(t, s.Config, got.Config)
	assert.True(t, s.UpdatedAt.Equal(got.UpdatedAt))
}

func TestRedisGetUnknown(t *testing.T) {
	r, _ := setupRedis(t, 0)
	_, err := r.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisExpiryRefreshedOnWrite(t *testing.T) {
	ctx := context.Background()
	r, mr := setupRedis(t, time.Hour)

	s := testSession("abc", time.Now())
	require.NoError(t, r.Put(ctx, s))
	mr.FastForward(50 * time.Minute)

	require.NoError(t, r.Put(ctx, s))
	mr.FastForward(50 * time.Minute)

	_, err := r.Get(ctx, "abc")
	require.NoError(t, err)

	mr.FastForward(20 * time.Minute)
	_, err = r.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisDelete(t *testing.T) {
	ctx := context.Background()
	r, _ := setupRedis(t, 0)
	require.NoError(t, r.Put(ctx, testSession("abc", time.Now())))
	require.NoError(t, r.Delete(ctx, "abc"))

	_, err := r.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisCorruptValue(t *testing.T) {
	r, mr := setupRedis(t, 0)
	require.NoError(t, mr.Set("solar:session:bad", "{not json"))

	_, err := r.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store, err := NewRedisStore(context.Background(), &RedisConfig{Client: client})
	require.NoError(t, err)
	return store, mr
}

func TestRedisStore_GetPutDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "match:msg:1", []byte("hello"), 0))

	got, err := store.Get(ctx, "match:msg:1")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)

	require.NoError(t, store.Delete(ctx, "match:msg:1"))
	_, err = store.Get(ctx, "match:msg:1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "activity:chan:9", []byte("m-1"), time.Hour))

	mr.FastForward(2 * time.Hour)

	_, err := store.Get(ctx, "activity:chan:9")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_ListAndBatches(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		{Key: "config:timeout:duel", Value: []byte("30m")},
		{Key: "config:timeout:ffa", Value: []byte("45m")},
		{Key: "other:thing", Value: []byte("x")},
	}
	require.NoError(t, store.PutMulti(ctx, entries))

	listed, err := store.List(ctx, "config:timeout:")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, []byte("30m"), listed["config:timeout:duel"])

	got, err := store.GetMulti(ctx, []string{"config:timeout:duel", "missing", "other:thing"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NoError(t, store.DeleteMulti(ctx, []string{"config:timeout:duel", "config:timeout:ffa"}))
	listed, err = store.List(ctx, "config:timeout:")
	require.NoError(t, err)
	require.Empty(t, listed)
}

package kv

import (
	"context"
	"strings"
	"time"
)

// HotPrefixes is the fixed set of key prefixes requiring strict per-key
// ordering through the coordinator.
var HotPrefixes = []string{"queue:", "lobby:", "activity:"}

// Router implements Store by sending hot-prefix keys to the coordinator and
// everything else to the plain store. Batched operations are split per
// destination; in practice the hot prefixes never mix with cold keys,
// so a split batch loses no ordering guarantee callers rely on.
type Router struct {
	hot         Store
	cold        Store
	hotPrefixes []string
}

// NewRouter builds a router over the coordinator-backed hot store and the
// eventually-consistent cold store.
func NewRouter(hot, cold Store, hotPrefixes []string) *Router {
	if len(hotPrefixes) == 0 {
		hotPrefixes = HotPrefixes
	}
	return &Router{hot: hot, cold: cold, hotPrefixes: hotPrefixes}
}

func (r *Router) isHot(key string) bool {
	for _, p := range r.hotPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func (r *Router) pick(key string) Store {
	if r.isHot(key) {
		return r.hot
	}
	return r.cold
}

func (r *Router) Get(ctx context.Context, key string) ([]byte, error) {
	return r.pick(key).Get(ctx, key)
}

func (r *Router) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.pick(key).Put(ctx, key, value, ttl)
}

func (r *Router) Delete(ctx context.Context, key string) error {
	return r.pick(key).Delete(ctx, key)
}

func (r *Router) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	return r.pick(prefix).List(ctx, prefix)
}

func (r *Router) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	hotKeys, coldKeys := r.split(keys)
	out := make(map[string][]byte, len(keys))
	if len(hotKeys) > 0 {
		vals, err := r.hot.GetMulti(ctx, hotKeys)
		if err != nil {
			return nil, err
		}
		for k, v := range vals {
			out[k] = v
		}
	}
	if len(coldKeys) > 0 {
		vals, err := r.cold.GetMulti(ctx, coldKeys)
		if err != nil {
			return nil, err
		}
		for k, v := range vals {
			out[k] = v
		}
	}
	return out, nil
}

func (r *Router) PutMulti(ctx context.Context, entries []Entry) error {
	var hotEntries, coldEntries []Entry
	for _, e := range entries {
		if r.isHot(e.Key) {
			hotEntries = append(hotEntries, e)
		} else {
			coldEntries = append(coldEntries, e)
		}
	}
	if len(hotEntries) > 0 {
		if err := r.hot.PutMulti(ctx, hotEntries); err != nil {
			return err
		}
	}
	if len(coldEntries) > 0 {
		if err := r.cold.PutMulti(ctx, coldEntries); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) DeleteMulti(ctx context.Context, keys []string) error {
	hotKeys, coldKeys := r.split(keys)
	if len(hotKeys) > 0 {
		if err := r.hot.DeleteMulti(ctx, hotKeys); err != nil {
			return err
		}
	}
	if len(coldKeys) > 0 {
		if err := r.cold.DeleteMulti(ctx, coldKeys); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) split(keys []string) (hot, cold []string) {
	for _, k := range keys {
		if r.isHot(k) {
			hot = append(hot, k)
		} else {
			cold = append(cold, k)
		}
	}
	return hot, cold
}

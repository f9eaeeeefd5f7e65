package graphstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces every key the redis backend writes.
const DefaultRedisPrefix = "tracegraph"

// RedisBackend stores graph documents in redis. Ids are tracked in a set so
// List does not need to scan the keyspace.
type RedisBackend struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisBackend wraps client. A zero ttl keeps graphs forever.
func NewRedisBackend(client *redis.Client, prefix string, ttl time.Duration) *RedisBackend {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisBackend{client: client, prefix: prefix, ttl: ttl}
}

// DialRedis connects to the redis server at url (redis://host:port/db) and
// checks it is reachable.
func DialRedis(ctx context.Context, url, prefix string, ttl time.Duration) (*RedisBackend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis at '%s': %w", opts.Addr, err)
	}
	return NewRedisBackend(client, prefix, ttl), nil
}

func (b *RedisBackend) Name() string { return "redis" }

func (b *RedisBackend) makeKey(id string) string {
	return fmt.Sprintf("%s:graph:%s", b.prefix, id)
}

func (b *RedisBackend) indexKey() string {
	return b.prefix + ":graphs"
}

func (b *RedisBackend) PutBlob(ctx context.Context, id string, data []byte) error {
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, b.makeKey(id), data, b.ttl)
		pipe.SAdd(ctx, b.indexKey(), id)
		return nil
	})
	return err
}

func (b *RedisBackend) GetBlob(ctx context.Context, id string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.makeKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: '%s'", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (b *RedisBackend) DeleteBlob(ctx context.Context, id string) error {
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, b.makeKey(id))
		pipe.SRem(ctx, b.indexKey(), id)
		return nil
	})
	return err
}

// ListIDs returns indexed ids whose graph still exists. Ids whose key has
// expired are dropped from the index on the way.
func (b *RedisBackend) ListIDs(ctx context.Context) ([]string, error) {
	members, err := b.client.SMembers(ctx, b.indexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []string{}, nil
	}

	pipe := b.client.Pipeline()
	exists := make([]*redis.IntCmd, len(members))
	for i, id := range members {
		exists[i] = pipe.Exists(ctx, b.makeKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(members))
	var expired []any
	for i, id := range members {
		if exists[i].Val() == 0 {
			expired = append(expired, id)
			continue
		}
		ids = append(ids, id)
	}
	if len(expired) > 0 {
		if err := b.client.SRem(ctx, b.indexKey(), expired...).Err(); err != nil {
			return nil, err
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

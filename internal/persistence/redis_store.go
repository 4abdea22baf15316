package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces ledger keys in a shared redis database.
const DefaultRedisPrefix = "grantledger:"

type redisBlobStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisBlobStore stores documents as redis strings under prefix+key.
func NewRedisBlobStore(client redis.Cmdable, prefix string) BlobStore {
	return &redisBlobStore{client: client, prefix: prefix}
}

// NewRedisClient connects to addr and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func (s *redisBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load blob %q: %w", key, err)
	}
	return v, nil
}

func (s *redisBlobStore) Put(ctx context.Context, key string, value []byte) error {
	return s.PutMany(ctx, map[string][]byte{key: value})
}

func (s *redisBlobStore) PutMany(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}
	pairs := make([]interface{}, 0, 2*len(entries))
	for _, key := range sortedKeys(entries) {
		pairs = append(pairs, s.prefix+key, entries[key])
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.MSet(ctx, pairs...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save blobs: %w", err)
	}
	return nil
}

// Package redis stores documents as Redis hashes, one hash per collection.
package redis

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/evohome/evohome-cms/internal/repository"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/evohome/evohome-cms/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store implements repository.DocumentStore on Redis
type Store struct {
	client *redis.Client
	prefix string
}

var _ repository.DocumentStore = (*Store)(nil)

// NewStore connects to redisURL and verifies the connection
func NewStore(redisURL, prefix string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	logger.Info("Redis document store initialized",
		zap.String("addr", opts.Addr),
		zap.Int("db", opts.DB),
		zap.String("prefix", prefix))

	return NewStoreWithClient(client, prefix), nil
}

// NewStoreWithClient creates a store from an existing Redis client
func NewStoreWithClient(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "evohome"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) hashKey(collection string) string {
	return s.prefix + ":doc:" + collection
}

// Name returns "redis"
func (s *Store) Name() string { return "redis" }

// Read returns the document stored under collection/key
func (s *Store) Read(ctx context.Context, collection, key string) (jsonvalue.Value, bool, error) {
	start := time.Now()

	raw, err := s.client.HGet(ctx, s.hashKey(collection), key).Bytes()
	if err == redis.Nil {
		s.record(ctx, "read", "success", start)
		return jsonvalue.Value{}, false, nil
	}
	if err != nil {
		s.record(ctx, "read", "error", start, zap.Error(err))
		return jsonvalue.Value{}, false, fmt.Errorf("hget %s/%s: %w", collection, key, err)
	}

	v, err := jsonvalue.Parse(raw)
	if err != nil {
		s.record(ctx, "read", "error", start, zap.Error(err))
		return jsonvalue.Value{}, false, fmt.Errorf("decode %s/%s: %w", collection, key, err)
	}
	s.record(ctx, "read", "success", start)
	return v, true, nil
}

// Write stores value under collection/key
func (s *Store) Write(ctx context.Context, collection, key string, value jsonvalue.Value) error {
	start := time.Now()

	raw, err := value.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, key, err)
	}
	if err := s.client.HSet(ctx, s.hashKey(collection), key, raw).Err(); err != nil {
		s.record(ctx, "write", "error", start, zap.Error(err))
		return fmt.Errorf("hset %s/%s: %w", collection, key, err)
	}
	s.record(ctx, "write", "success", start)
	return nil
}

// Delete removes collection/key
func (s *Store) Delete(ctx context.Context, collection, key string) error {
	start := time.Now()

	if err := s.client.HDel(ctx, s.hashKey(collection), key).Err(); err != nil {
		s.record(ctx, "delete", "error", start, zap.Error(err))
		return fmt.Errorf("hdel %s/%s: %w", collection, key, err)
	}
	s.record(ctx, "delete", "success", start)
	return nil
}

// ListKeys returns the keys of a collection in ascending order
func (s *Store) ListKeys(ctx context.Context, collection string) ([]string, error) {
	start := time.Now()

	keys, err := s.client.HKeys(ctx, s.hashKey(collection)).Result()
	if err != nil {
		s.record(ctx, "list_keys", "error", start, zap.Error(err))
		return nil, fmt.Errorf("hkeys %s: %w", collection, err)
	}
	sort.Strings(keys)
	s.record(ctx, "list_keys", "success", start)
	return keys, nil
}

// Ping checks if Redis is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) record(ctx context.Context, operation, status string, start time.Time, fields ...zap.Field) {
	duration := metrics.MeasureDuration(start)
	metrics.StoreOperationDuration.WithLabelValues(s.Name(), operation, status).Observe(duration)
	metrics.StoreOperationTotal.WithLabelValues(s.Name(), operation, status).Inc()
	logger.LogAPICall(ctx, "redis", operation, status, duration, fields...)
}

package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces keys. Defaults to "dockworks:state:".
	Prefix string
}

// RedisStore keeps documents as Redis string values.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = "dockworks:state:"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client, prefix: cfg.Prefix}, nil
}

// redisErr marks network failures retryable.
func redisErr(op string, err error) error {
	var ne net.Error
	if stderrors.As(err, &ne) || stderrors.Is(err, context.DeadlineExceeded) {
		return Retryable(fmt.Errorf("redis %s: %w", op, err))
	}
	return fmt.Errorf("redis %s: %w", op, err)
}

func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, redisErr("get", err)
	}
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return redisErr("set", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return redisErr("del", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, redisErr("scan", err)
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *RedisStore) Backend() string { return "redis" }

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)

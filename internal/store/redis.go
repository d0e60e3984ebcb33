package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "perfcheckup:transient:"

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("[Store] Connected to Redis: %s", addr)
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check transient: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, redisKeyPrefix+key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to store transient: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete transient: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

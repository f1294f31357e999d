package session

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "authoring:session:"

// RedisStore 每个会话一个 hash，访问时刷新过期时间
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) key(sid string) string {
	return redisKeyPrefix + sid
}

func (s *RedisStore) touch(ctx context.Context, sid string) {
	if s.ttl > 0 {
		s.rdb.Expire(ctx, s.key(sid), s.ttl)
	}
}

func (s *RedisStore) Get(ctx context.Context, sid, key string) (string, bool, error) {
	v, err := s.rdb.HGet(ctx, s.key(sid), key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	s.touch(ctx, sid)
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, sid, key, value string) error {
	if err := s.rdb.HSet(ctx, s.key(sid), key, value).Err(); err != nil {
		return err
	}
	s.touch(ctx, sid)
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sid, key string) error {
	return s.rdb.HDel(ctx, s.key(sid), key).Err()
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, s.key(sid)).Err()
}

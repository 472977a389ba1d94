package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"folio/internal/errcode"
)

// redisKV 是 RedisStore 用到的命令子集，便于在测试中替换。
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

// RedisStore 把档案保存为 "<prefix><name>" 字符串键。
type RedisStore struct {
	client   redisKV
	prefix   string
	ttl      time.Duration
	maxBytes int
}

// NewRedisStore 创建存储；ttl 为 0 表示不过期。
func NewRedisStore(client redisKV, prefix string, ttl time.Duration, maxBytes int) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl, maxBytes: maxBytes}
}

// Scoped 返回同一连接下另一个命名空间的存储。
func (s *RedisStore) Scoped(namespace string) *RedisStore {
	return &RedisStore{client: s.client, prefix: s.prefix + namespace + ":", ttl: s.ttl, maxBytes: s.maxBytes}
}

func (s *RedisStore) Get(ctx context.Context, name string) ([]byte, error) {
	v, err := s.client.Get(ctx, s.prefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errcode.Wrap(errcode.ErrProfileNotFound, "profile %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

func (s *RedisStore) Put(ctx context.Context, name string, value []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := checkSize(name, value, s.maxBytes); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+name, value, s.ttl).Err(); err != nil {
		if strings.HasPrefix(err.Error(), "OOM") {
			return errcode.Wrap(errcode.ErrStorageQuota, "redis out of memory: %v", err)
		}
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := s.client.Del(ctx, s.prefix+name).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Keys 用 SCAN 遍历命名空间，返回去掉前缀后的档案名。
func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	var (
		cursor uint64
		names  []string
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan: %w", err)
		}
		for _, k := range keys {
			name := strings.TrimPrefix(k, s.prefix)
			// 子命名空间中的键不属于当前档案集合。
			if !strings.Contains(name, ":") {
				names = append(names, name)
			}
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

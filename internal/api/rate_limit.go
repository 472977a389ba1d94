package api

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const aiRateWindow = time.Minute

type redisRateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// rateDecision 是一次限流判定的结果，用于填充响应头。
type rateDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// allowAIRequest 按固定一分钟窗口限制每个会话的 AI 调用次数。
// limit<=0 或未配置 Redis 时不限。计数键保留两个窗口长度，首次计数时设置过期。
func allowAIRequest(ctx context.Context, client redisRateCounter, sessionID string, limit int, now time.Time) (rateDecision, error) {
	if client == nil || limit <= 0 {
		return rateDecision{Allowed: true, Remaining: -1}, nil
	}

	windowStart := now.Truncate(aiRateWindow)
	key := fmt.Sprintf("folio:ai_rate:%s:%d", sessionID, windowStart.Unix())

	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return rateDecision{}, fmt.Errorf("incr ai rate counter: %w", err)
	}
	if count == 1 {
		// 过期设置失败只会让键多留一会儿，不影响判定。
		_ = client.Expire(ctx, key, 2*aiRateWindow).Err()
	}

	remaining := limit - int(count)
	if remaining >= 0 {
		return rateDecision{Allowed: true, Remaining: remaining}, nil
	}
	return rateDecision{
		Allowed:    false,
		RetryAfter: windowStart.Add(aiRateWindow).Sub(now),
	}, nil
}

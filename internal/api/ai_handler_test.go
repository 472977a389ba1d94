package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/ai"
	"folio/internal/errcode"
)

type fakeRateCounter struct {
	mu      sync.Mutex
	counts  map[string]int64
	expires map[string]time.Duration
	err     error
}

func newFakeRateCounter() *fakeRateCounter {
	return &fakeRateCounter{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeRateCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeRateCounter) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expires[key] = ttl
	return redis.NewBoolResult(true, nil)
}

type fakeGenerator struct {
	out  string
	err  error
	last ai.Request
}

func (g *fakeGenerator) Generate(_ context.Context, req ai.Request) (string, error) {
	g.last = req
	return g.out, g.err
}

func withAI(gen ai.Generator, counter redisRateCounter, limit int) envOption {
	return func(d *Deps) {
		adapter := ai.NewAdapter(gen, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
		h := NewAIHandler(adapter, counter, limit)
		fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		h.now = func() time.Time { return fixed }
		d.AI = h
	}
}

func TestAITransform(t *testing.T) {
	gen := &fakeGenerator{out: "Shipped a payments platform used by 2M customers."}
	env := newTestEnv(t, withAI(gen, nil, 0))
	token, _ := env.newSession(t, "")

	rec := env.do(t, http.MethodPost, "/v1/ai/rewrite", token, map[string]string{"text": "did payments", "field": "experience description"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[struct {
		Result ai.Result `json:"result"`
		Code   int       `json:"code"`
	}](t, rec)
	assert.Equal(t, errcode.OK, body.Code)
	assert.Equal(t, "Shipped a payments platform used by 2M customers.", body.Result.Text)
	assert.False(t, body.Result.Degraded)
	assert.Equal(t, ai.OpRewrite, gen.last.Operation)
	// 未携带 resume 时使用会话文档作为上下文。
	assert.Contains(t, string(gen.last.Context), "personalInfo")
}

func TestAITransformDegraded(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.newSession(t, "")

	rec := env.do(t, http.MethodPost, "/v1/ai/translate", token, map[string]string{"text": "hola", "language": "English"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[struct {
		Code   int       `json:"code"`
		Result ai.Result `json:"result"`
	}](t, rec)
	assert.Equal(t, errcode.ServiceUnavailable, body.Code)
	assert.True(t, body.Result.Degraded)
	assert.Equal(t, "hola", body.Result.Text)
}

func TestAITransformUnknownOperation(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.newSession(t, "")

	rec := env.do(t, http.MethodPost, "/v1/ai/write-my-novel", token, map[string]string{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAITransformRateLimited(t *testing.T) {
	counter := newFakeRateCounter()
	env := newTestEnv(t, withAI(&fakeGenerator{out: "ok"}, counter, 2))
	token, _ := env.newSession(t, "")

	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodPost, "/v1/ai/rewrite", token, map[string]string{"text": "x"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, strconv.Itoa(1-i), rec.Header().Get("X-RateLimit-Remaining"))
	}
	rec := env.do(t, http.MethodPost, "/v1/ai/rewrite", token, map[string]string{"text": "x"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	require.Len(t, counter.expires, 1)
	for _, ttl := range counter.expires {
		assert.Equal(t, 2*time.Minute, ttl)
	}
}

func TestAITransformAllowsWhenCounterFails(t *testing.T) {
	counter := newFakeRateCounter()
	counter.err = redis.ErrClosed
	env := newTestEnv(t, withAI(&fakeGenerator{out: "ok"}, counter, 1))
	token, _ := env.newSession(t, "")

	rec := env.do(t, http.MethodPost, "/v1/ai/rewrite", token, map[string]string{"text": "x"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAllowAIRequestWindows(t *testing.T) {
	counter := newFakeRateCounter()
	now := time.Date(2026, 3, 1, 10, 0, 30, 0, time.UTC)

	d, err := allowAIRequest(context.Background(), counter, "s1", 1, now)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	d, err = allowAIRequest(context.Background(), counter, "s1", 1, now.Add(10*time.Second))
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 20*time.Second, d.RetryAfter)

	d, err = allowAIRequest(context.Background(), counter, "s1", 1, now.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = allowAIRequest(context.Background(), nil, "s1", 1, now)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, -1, d.Remaining)
}

package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unusedSubscriber struct {
	called bool
}

func (s *unusedSubscriber) Subscribe(_ context.Context, _ ...string) *redis.PubSub {
	s.called = true
	return nil
}

func TestWsRejectsInvalidToken(t *testing.T) {
	sub := &unusedSubscriber{}
	env := newTestEnv(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ws := NewWsHandler(sub, env.tokens, logger, nil)
	ws.authTimeout = 2 * time.Second
	env.router.GET("/test/ws", ws.HandleConnection)

	server := httptest.NewServer(env.router)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/test/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "auth", "token": "bogus"}))
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation), err.Error())
	assert.False(t, sub.called)
}

func TestWsSendsReadyAfterAuth(t *testing.T) {
	env := newTestEnv(t)
	token, sessionID := env.newSession(t, "")

	// 订阅只在后台重连，不需要真实的 Redis。
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer client.Close()

	ws := NewWsHandler(client, env.tokens, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	env.router.GET("/test/ws", ws.HandleConnection)
	server := httptest.NewServer(env.router)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/test/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "auth", "token": token}))
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	var ready wsReadyMessage
	require.NoError(t, conn.ReadJSON(&ready))
	assert.Equal(t, "ready", ready.Type)
	assert.Equal(t, sessionID, ready.SessionID)
}

func TestWsOriginCheck(t *testing.T) {
	env := newTestEnv(t)
	ws := NewWsHandler(&unusedSubscriber{}, env.tokens, slog.Default(), []string{"https://app.example"})

	req := httptest.NewRequest(http.MethodGet, "/v1/ws", nil)
	req.Header.Set("Origin", "https://app.example")
	assert.True(t, ws.upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, ws.upgrader.CheckOrigin(req))

	sameHost := NewWsHandler(&unusedSubscriber{}, env.tokens, slog.Default(), nil)
	req = httptest.NewRequest(http.MethodGet, "http://folio.local/v1/ws", nil)
	req.Header.Set("Origin", "http://folio.local")
	assert.True(t, sameHost.upgrader.CheckOrigin(req))
	req.Header.Set("Origin", "http://other.local")
	assert.False(t, sameHost.upgrader.CheckOrigin(req))
}

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"folio/internal/ai"
	"folio/internal/auth"
	"folio/internal/editor"
	"folio/internal/render"
	"folio/internal/store"
	"folio/internal/theme"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router   *gin.Engine
	tokens   *auth.SessionService
	sessions *editor.Registry
	engine   *render.Engine
}

type envOption func(*Deps)

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewSessionService("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)

	engine := render.NewEngine(theme.Default(), render.WithLogger(logger))
	profiles := store.NewMemoryStore(0)
	sessions := editor.NewRegistry(func(id, _ string) *editor.Editor {
		return editor.New(id, editor.Options{Engine: engine, Store: profiles, Logger: logger})
	}, time.Hour, logger)
	adapter := ai.NewAdapter(nil, logger, nil)

	deps := Deps{
		Tokens:    tokens,
		Documents: NewDocumentHandler(engine),
		Sessions:  NewSessionHandler(sessions, tokens, adapter, engine, nil),
		AI:        NewAIHandler(adapter, nil, 0),
	}
	for _, opt := range opts {
		opt(&deps)
	}

	router := NewRouter(nil, logger)
	RegisterRoutes(router, deps)
	return &testEnv{router: router, tokens: tokens, sessions: sessions, engine: engine}
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

// newSession 创建会话并返回令牌与会话 ID。
func (env *testEnv) newSession(t *testing.T, owner string) (string, string) {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/v1/sessions", "", map[string]string{"owner": owner})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token   string `json:"token"`
		Session struct {
			SessionID string `json:"sessionId"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.Session.SessionID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type errorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

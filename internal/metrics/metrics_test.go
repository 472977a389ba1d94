package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAI(t *testing.T) {
	before := testutil.ToFloat64(aiTransforms.WithLabelValues("rewrite", "ok"))
	ObserveAI("rewrite", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(aiTransforms.WithLabelValues("rewrite", "ok")))
}

func TestObserveRender(t *testing.T) {
	ObserveRender("banner", 2*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(renderDuration))
}

func TestSetActiveSessions(t *testing.T) {
	SetActiveSessions(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(activeSessions))
}

func TestAsynqMiddlewareOutcomes(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		outcome string
	}{
		{"ok", nil, outcomeOK},
		{"retryable", errors.New("browser crashed"), outcomeRetry},
		{"skip retry", fmt.Errorf("decode payload: %w", asynq.SkipRetry), outcomeSkipped},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			taskType := "test:" + tc.name
			h := AsynqMetricsMiddleware()(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
				return tc.err
			}))
			err := h.ProcessTask(context.Background(), asynq.NewTask(taskType, nil))
			assert.Equal(t, tc.err, err)
			assert.Equal(t, float64(1), testutil.ToFloat64(taskOutcomes.WithLabelValues(taskType, tc.outcome)))
			assert.Equal(t, float64(0), testutil.ToFloat64(taskInProgress.WithLabelValues(taskType)))
		})
	}
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware("/health"))
	r.GET("/ping/:id", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/42", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(requestTotal.WithLabelValues("GET", "/ping/:id", "200")))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere/7", nil))
	assert.Equal(t, float64(1), testutil.ToFloat64(requestTotal.WithLabelValues("GET", unmatchedRoute, "404")))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, float64(0), testutil.ToFloat64(requestTotal.WithLabelValues("GET", "/health", "200")))
}

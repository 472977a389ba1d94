package api

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"folio/internal/ai"
	"folio/internal/api/middleware"
	"folio/internal/errcode"
)

// AIHandler 转发文本变换请求，按会话限流。
type AIHandler struct {
	adapter     *ai.Adapter
	rateCounter redisRateCounter
	limit       int
	now         func() time.Time
}

// NewAIHandler 创建处理器；rateCounter 为 nil 或 limit<=0 时不限流。
func NewAIHandler(adapter *ai.Adapter, rateCounter redisRateCounter, limit int) *AIHandler {
	return &AIHandler{adapter: adapter, rateCounter: rateCounter, limit: limit, now: time.Now}
}

// Transform 执行 :operation。未携带 resume 时使用会话当前文档。
// 生成服务不可用时返回 503，响应体中的 result 为降级结果（原文透传）。
func (h *AIHandler) Transform(c *gin.Context) {
	op, ok := ai.ParseOperation(c.Param("operation"))
	if !ok {
		Fail(c, ai.ErrUnknownOperation)
		return
	}

	var payload ai.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	e := editorFrom(c)
	log := middleware.LoggerFromContext(c)

	decision, err := allowAIRequest(c.Request.Context(), h.rateCounter, e.ID(), h.limit, h.now())
	if err != nil {
		log.Warn("ai rate counter unavailable, allowing request", slog.Any("error", err))
		decision = rateDecision{Allowed: true, Remaining: -1}
	}
	if decision.Remaining >= 0 {
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	if !decision.Allowed {
		seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(max(seconds, 1)))
		Error(c, http.StatusTooManyRequests, "too many ai requests")
		return
	}

	if payload.Resume == nil {
		doc := e.Document()
		payload.Resume = &doc
	}

	result, err := h.adapter.Transform(c.Request.Context(), op, payload)
	if err != nil {
		status, code := statusOf(err)
		if status == http.StatusInternalServerError {
			log.Error("ai transform failed", slog.String("operation", string(op)), slog.Any("error", err))
		}
		c.JSON(status, gin.H{"error": err.Error(), "code": code, "result": result})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "code": errcode.OK})
}

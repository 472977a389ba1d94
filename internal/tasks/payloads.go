package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeDocumentPrint = "document:print"
)

// PrintPayload 携带打印所需的完整文档快照，worker 不依赖 API 进程内的会话。
type PrintPayload struct {
	CorrelationID string          `json:"correlation_id"`
	SessionID     string          `json:"session_id"`
	Owner         string          `json:"owner"`
	ThemeID       string          `json:"theme_id"`
	Mode          string          `json:"mode"`
	Document      json.RawMessage `json:"document"`
	// Preview 为 true 时同时生成缩略图。
	Preview bool `json:"preview,omitempty"`
}

// NewPrintTask 构造一个新的打印任务。
func NewPrintTask(p PrintPayload) (*asynq.Task, error) {
	if p.CorrelationID == "" {
		return nil, fmt.Errorf("print task requires a correlation id")
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal print payload: %w", err)
	}
	return asynq.NewTask(TypeDocumentPrint, payload, asynq.MaxRetry(3)), nil
}

// NotifyChannel 返回会话的打印结果通知频道。
func NotifyChannel(sessionID string) string {
	return "print_notify:" + sessionID
}

package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"folio/internal/errcode"
	"folio/internal/tasks"
)

// 通知状态。
const (
	NotifyCompleted = "completed"
	NotifyError     = "error"
)

// PrintNotifyMessage 是推给编辑器的打印结果，经 Redis Pub/Sub 和 WebSocket 原样转发。
type PrintNotifyMessage struct {
	Type          string   `json:"type"`
	Status        string   `json:"status"`
	CorrelationID string   `json:"correlation_id"`
	ObjectKey     string   `json:"object_key,omitempty"`
	PreviewKey    string   `json:"preview_key,omitempty"`
	ErrorCode     int      `json:"error_code"`
	ErrorMessage  string   `json:"error_message"`
	MissingKeys   []string `json:"missing_keys,omitempty"`
}

func completedNotice(correlationID, objectKey string, missing []string) PrintNotifyMessage {
	msg := PrintNotifyMessage{
		Type:          "print",
		Status:        NotifyCompleted,
		CorrelationID: correlationID,
		ObjectKey:     objectKey,
		ErrorCode:     errcode.OK,
	}
	if len(missing) > 0 {
		// 照片缺失不影响出稿，只作为警告带回。
		msg.ErrorCode = errcode.ResourceMissing
		msg.ErrorMessage = "photo missing, skipped"
		msg.MissingKeys = missing
	}
	return msg
}

func failedNotice(correlationID string, err error) PrintNotifyMessage {
	return PrintNotifyMessage{
		Type:          "print",
		Status:        NotifyError,
		CorrelationID: correlationID,
		ErrorCode:     errcode.CodeOf(err),
		ErrorMessage:  strings.TrimSpace(err.Error()),
	}
}

func (h *PrintTaskHandler) publish(ctx context.Context, sessionID string, msg PrintNotifyMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal print notification: %w", err)
	}
	channel := tasks.NotifyChannel(sessionID)
	if err := h.publisher.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish print notification to %q: %w", channel, err)
	}
	return nil
}

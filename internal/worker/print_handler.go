package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"folio/internal/assets"
	"folio/internal/database"
	"folio/internal/render"
	"folio/internal/resume"
	"folio/internal/storage"
	"folio/internal/tasks"
	"folio/internal/view"
)

const previewQuality = 80

// Printer 把整页 HTML 打印为 PDF，并可截取预览图。
type Printer interface {
	PrintPDF(ctx context.Context, html []byte, paper view.Paper) ([]byte, error)
	Preview(ctx context.Context, html []byte, quality int) ([]byte, error)
}

// ObjectStore 是 worker 用到的对象存储能力。
type ObjectStore interface {
	assets.ObjectReader
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
}

// Publisher 发布打印结果通知。
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// JobRecorder 持久化打印任务状态，可为 nil。
type JobRecorder interface {
	FinishJob(ctx context.Context, correlationID, objectKey, status, message string) error
}

// PrintTaskHandler 负责消费打印任务：渲染、打印、上传并通知。
type PrintTaskHandler struct {
	engine    *render.Engine
	printer   Printer
	storage   ObjectStore
	publisher Publisher
	jobs      JobRecorder
	logger    *slog.Logger
}

// NewPrintTaskHandler 创建任务处理器。
func NewPrintTaskHandler(
	engine *render.Engine,
	printer Printer,
	objects ObjectStore,
	publisher Publisher,
	jobs JobRecorder,
	logger *slog.Logger,
) *PrintTaskHandler {
	return &PrintTaskHandler{
		engine:    engine,
		printer:   printer,
		storage:   objects,
		publisher: publisher,
		jobs:      jobs,
		logger:    logger,
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *PrintTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger

	var payload tasks.PrintPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return fmt.Errorf("unmarshal print payload: %v: %w", err, asynq.SkipRetry)
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("session_id", payload.SessionID),
		slog.String("theme_id", payload.ThemeID),
	)
	log.Info("starting print task")

	defer func() {
		if retErr == nil {
			return
		}
		if !isFinalAttempt(ctx, retErr) {
			return
		}
		notify := failedNotice(payload.CorrelationID, retErr)
		h.finish(ctx, log, payload.CorrelationID, "", database.PrintFailed, notify.ErrorMessage)
		if err := h.publish(ctx, payload.SessionID, notify); err != nil {
			log.Error("publish print error notification failed", slog.Any("error", err))
		}
	}()

	doc, err := resume.Import(resume.Empty(), payload.Document)
	if err != nil {
		log.Error("decode document failed", slog.Any("error", err))
		return fmt.Errorf("decode document: %w: %w", err, asynq.SkipRetry)
	}

	doc, missing, err := assets.InlinePhoto(ctx, h.storage, payload.Owner, doc)
	if err != nil {
		log.Error("inline photo failed", slog.Any("error", err))
		return err
	}

	mode := render.ParseMode(payload.Mode)
	page, err := h.engine.Page(doc, payload.ThemeID, mode)
	if err != nil {
		log.Error("render page failed", slog.Any("error", err))
		return err
	}

	pdfBytes, err := h.printer.PrintPDF(ctx, page, view.PaperFor(string(doc.Settings.PaperSize)))
	if err != nil {
		log.Error("print pdf failed", slog.Any("error", err))
		return err
	}

	objectName := fmt.Sprintf("%s%s/%s.pdf", storage.ExportPrefix, payload.SessionID, uuid.NewString())
	if _, err := h.storage.UploadFile(ctx, objectName, bytes.NewReader(pdfBytes), int64(len(pdfBytes)), "application/pdf"); err != nil {
		log.Error("upload pdf to minio failed", slog.Any("error", err))
		return err
	}

	notify := completedNotice(payload.CorrelationID, objectName, missing)
	if len(missing) > 0 {
		log.Warn("pdf generated with missing assets", slog.Any("missing_keys", missing))
	}

	if payload.Preview {
		key, err := h.preview(ctx, payload.SessionID, page)
		if err != nil {
			log.Warn("generate preview failed", slog.Any("error", err))
		}
		notify.PreviewKey = key
	}

	h.finish(ctx, log, payload.CorrelationID, objectName, database.PrintCompleted, notify.ErrorMessage)
	if err := h.publish(ctx, payload.SessionID, notify); err != nil {
		log.Error("publish redis notification failed", slog.Any("error", err))
		return err
	}

	log.Info("print task completed", slog.String("object_key", objectName))
	return nil
}

func (h *PrintTaskHandler) preview(ctx context.Context, sessionID string, page []byte) (string, error) {
	img, err := h.printer.Preview(ctx, page, previewQuality)
	if err != nil {
		return "", fmt.Errorf("capture preview: %w", err)
	}
	key := fmt.Sprintf("thumbnails/%s/preview.jpg", sessionID)
	if _, err := h.storage.UploadFile(ctx, key, bytes.NewReader(img), int64(len(img)), "image/jpeg"); err != nil {
		return "", fmt.Errorf("upload preview image: %w", err)
	}
	return key, nil
}

func (h *PrintTaskHandler) finish(ctx context.Context, log *slog.Logger, correlationID, objectKey, status, message string) {
	if h.jobs == nil {
		return
	}
	if err := h.jobs.FinishJob(ctx, correlationID, objectKey, status, message); err != nil {
		log.Warn("record print job failed", slog.Any("error", err))
	}
}

func isFinalAttempt(ctx context.Context, err error) bool {
	if errors.Is(err, asynq.SkipRetry) {
		return true
	}
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}

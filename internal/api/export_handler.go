package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"folio/internal/api/middleware"
	"folio/internal/database"
	"folio/internal/render"
	"folio/internal/tasks"
)

const downloadLinkTTL = 10 * time.Minute

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type printJobStore interface {
	CreateJob(ctx context.Context, job *database.PrintJob) error
	FindJob(ctx context.Context, correlationID string) (*database.PrintJob, error)
}

type linkSigner interface {
	GeneratePresignedURLWithParams(ctx context.Context, objectKey string, duration time.Duration, params map[string]string) (string, error)
}

// ExportHandler 把打印任务放入队列，并在完成后签发下载链接。
type ExportHandler struct {
	queue   taskEnqueuer
	jobs    printJobStore
	storage linkSigner
}

func NewExportHandler(queue taskEnqueuer, jobs printJobStore, storage linkSigner) *ExportHandler {
	return &ExportHandler{queue: queue, jobs: jobs, storage: storage}
}

type printRequest struct {
	Mode    string `json:"mode"`
	Preview bool   `json:"preview"`
}

// RequestPDF 以当前文档快照创建打印任务，结果通过 /v1/ws 推送。
func (h *ExportHandler) RequestPDF(c *gin.Context) {
	var req printRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, "invalid request body")
			return
		}
	}
	claims, _ := middleware.ClaimsFromContext(c)
	e := editorFrom(c)
	log := middleware.LoggerFromContext(c)

	envelope, err := e.Export()
	if err != nil {
		Fail(c, err)
		return
	}
	mode := render.ParseMode(req.Mode)
	correlationID := uuid.NewString()
	log = log.With(slog.String("print_correlation_id", correlationID))

	job := &database.PrintJob{
		CorrelationID: correlationID,
		SessionID:     e.ID(),
		ThemeID:       e.ThemeID(),
		Mode:          string(mode),
	}
	if err := h.jobs.CreateJob(c.Request.Context(), job); err != nil {
		log.Error("create print job failed", slog.Any("error", err))
		Internal(c, "failed to create print job")
		return
	}

	task, err := tasks.NewPrintTask(tasks.PrintPayload{
		CorrelationID: correlationID,
		SessionID:     e.ID(),
		Owner:         claims.Owner,
		ThemeID:       e.ThemeID(),
		Mode:          string(mode),
		Document:      envelope,
		Preview:       req.Preview,
	})
	if err != nil {
		log.Error("build print task failed", slog.Any("error", err))
		Internal(c, "failed to create print job")
		return
	}
	if _, err := h.queue.EnqueueContext(c.Request.Context(), task); err != nil {
		log.Error("enqueue print task failed", slog.Any("error", err))
		Error(c, http.StatusServiceUnavailable, "print queue unavailable")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"correlationId": correlationID,
		"status":        database.PrintPending,
	})
}

// DownloadLink 查询任务状态；完成时返回带文件名的预签名地址。
func (h *ExportHandler) DownloadLink(c *gin.Context) {
	correlationID := c.Query("correlation_id")
	if correlationID == "" {
		BadRequest(c, "missing correlation_id")
		return
	}
	e := editorFrom(c)

	job, err := h.jobs.FindJob(c.Request.Context(), correlationID)
	if err != nil {
		Fail(c, err)
		return
	}
	if job.SessionID != e.ID() {
		Forbidden(c, "access denied")
		return
	}
	if job.Status != database.PrintCompleted || job.ObjectKey == "" {
		c.JSON(http.StatusOK, gin.H{"status": job.Status, "error": job.Error})
		return
	}

	filename := render.PageTitle(e.Document(), render.ParseMode(job.Mode)) + ".pdf"
	link, err := h.storage.GeneratePresignedURLWithParams(c.Request.Context(), job.ObjectKey, downloadLinkTTL, map[string]string{
		"response-content-disposition": fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)),
		"response-content-type":        "application/pdf",
	})
	if err != nil {
		middleware.LoggerFromContext(c).Error("generate download link failed", slog.Any("error", err))
		Internal(c, "failed to generate download link")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    job.Status,
		"url":       link,
		"expiresIn": int(downloadLinkTTL.Seconds()),
	})
}

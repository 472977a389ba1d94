package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"folio/internal/errcode"
)

// PrintJobs 读写打印任务记录。
type PrintJobs struct {
	db *gorm.DB
}

func NewPrintJobs(db *gorm.DB) *PrintJobs {
	return &PrintJobs{db: db}
}

// CreateJob 记录一个待处理的打印任务。
func (r *PrintJobs) CreateJob(ctx context.Context, job *PrintJob) error {
	if job.Status == "" {
		job.Status = PrintPending
	}
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("create print job: %w", err)
	}
	return nil
}

// FinishJob 更新任务的最终状态。
func (r *PrintJobs) FinishJob(ctx context.Context, correlationID, objectKey, status, message string) error {
	update := map[string]any{
		"status": status,
		"error":  message,
	}
	if objectKey != "" {
		update["object_key"] = objectKey
	}
	err := r.db.WithContext(ctx).
		Model(&PrintJob{}).
		Where("correlation_id = ?", correlationID).
		Updates(update).Error
	if err != nil {
		return fmt.Errorf("update print job: %w", err)
	}
	return nil
}

// FindJob 按 correlation id 查询任务。
func (r *PrintJobs) FindJob(ctx context.Context, correlationID string) (*PrintJob, error) {
	var job PrintJob
	err := r.db.WithContext(ctx).Where("correlation_id = ?", correlationID).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errcode.Wrap(errcode.ErrResourceMissing, "print job %q", correlationID)
	}
	if err != nil {
		return nil, fmt.Errorf("query print job: %w", err)
	}
	return &job, nil
}

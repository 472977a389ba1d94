package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile 是按名称保存的简历档案，Content 为导出信封（jsonb）。
type Profile struct {
	gorm.Model
	Owner   string         `gorm:"size:64;uniqueIndex:idx_profile_owner_name"`
	Name    string         `gorm:"size:128;uniqueIndex:idx_profile_owner_name"`
	Content datatypes.JSON `gorm:"type:jsonb"`
}

// PrintJob 记录一次 PDF 打印任务的状态。
type PrintJob struct {
	gorm.Model
	CorrelationID string `gorm:"uniqueIndex;size:64"`
	SessionID     string `gorm:"index;size:64"`
	ThemeID       string `gorm:"size:64"`
	Mode          string `gorm:"size:16"`
	ObjectKey     string `gorm:"size:512"`
	Status        string `gorm:"size:32"`
	Error         string `gorm:"size:512"`
}

// 打印任务状态。
const (
	PrintPending   = "pending"
	PrintCompleted = "completed"
	PrintFailed    = "failed"
)

// Migrate 创建或更新所需的表。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Profile{}, &PrintJob{})
}

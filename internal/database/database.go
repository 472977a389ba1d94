package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"folio/internal/config"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
	slowQuery       = 300 * time.Millisecond
)

// Open 连接 PostgreSQL，完成建表后返回 GORM 实例。
// 容器编排下数据库往往晚于服务就绪，因此 Ping 失败会按线性退避重试。
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: NewGormLogger(logger, cfg.Debug),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap db: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	for attempt := 1; ; attempt++ {
		err = sqlDB.PingContext(ctx)
		if err == nil {
			break
		}
		if attempt == connectAttempts {
			return nil, fmt.Errorf("ping database after %d attempts: %w", attempt, err)
		}
		logger.Warn("database not ready",
			slog.Int("attempt", attempt),
			slog.String("host", cfg.Host),
			slog.Any("error", err),
		)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("ping database: %w", ctx.Err())
		case <-time.After(time.Duration(attempt) * connectBackoff):
		}
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// NewGormLogger 把 GORM 日志接到 slog 上；debug 时输出每条 SQL。
func NewGormLogger(logger *slog.Logger, debug bool) gormlogger.Interface {
	level := gormlogger.Warn
	logLevel := slog.LevelWarn
	if debug {
		level = gormlogger.Info
		logLevel = slog.LevelDebug
	}
	return gormlogger.New(
		slog.NewLogLogger(logger.With(slog.String("component", "gorm")).Handler(), logLevel),
		gormlogger.Config{
			SlowThreshold:             slowQuery,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"folio/internal/ai"
	"folio/internal/api"
	"folio/internal/auth"
	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/editor"
	"folio/internal/format"
	"folio/internal/metrics"
	"folio/internal/render"
	"folio/internal/repometa"
	"folio/internal/storage"
	"folio/internal/store"
	"folio/internal/theme"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.Open(context.Background(), cfg.Database, logger)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	logger.Info("database connection ready",
		slog.String("host", cfg.Database.Host),
		slog.String("db", cfg.Database.Name),
	)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	logger.Info("storage client ready", slog.String("bucket", cfg.MinIO.Bucket))

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer asynqClient.Close()

	tokens, err := auth.NewSessionService(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		log.Fatalf("init session service: %v", err)
	}

	engine := render.NewEngine(theme.Default(),
		render.WithLogger(logger),
		render.WithObserver(metrics.ObserveRender),
		render.WithContrast(format.ContrastRule{
			TextThreshold:     float64(cfg.Render.DarkThreshold),
			TooLightThreshold: float64(cfg.Render.LightLimit),
			DarkText:          format.DefaultContrast.DarkText,
			LightText:         format.DefaultContrast.LightText,
		}),
	)

	generator, err := newGenerator(cfg.AI)
	if err != nil {
		log.Fatalf("init ai generator: %v", err)
	}
	adapter := ai.NewAdapter(generator, logger, func(op ai.Operation, outcome string) {
		metrics.ObserveAI(string(op), outcome)
	})
	if !adapter.Configured() {
		logger.Warn("ai provider not configured, transforms are degraded")
	}

	profiles := newProfileStore(cfg.Store, redisClient, db)
	sessions := editor.NewRegistry(func(id, owner string) *editor.Editor {
		return editor.New(id, editor.Options{
			Engine:       engine,
			Store:        profiles(owner),
			Logger:       logger,
			ThemeID:      cfg.Render.DefaultTheme,
			HistoryLimit: cfg.Session.HistoryLimit,
		})
	}, cfg.Session.IdleTimeout, logger)
	sessions.SetObserver(metrics.SetActiveSessions)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go sessions.Run(ctx, time.Minute)

	deps := api.Deps{
		Tokens:    tokens,
		Documents: api.NewDocumentHandler(engine),
		Sessions:  api.NewSessionHandler(sessions, tokens, adapter, engine, storageClient),
		AI:        api.NewAIHandler(adapter, redisClient, cfg.API.AIRateLimit),
		Repos:     api.NewRepoHandler(repometa.NewClient(cfg.API.GitHubBaseURL, cfg.API.GitHubToken, 10*time.Second)),
		Photos:    api.NewPhotoHandler(storageClient, api.NewClamdScanner(cfg.Clamd.Address), cfg.API.MaxPhotoBytes),
		Exports:   api.NewExportHandler(asynqClient, database.NewPrintJobs(db), storageClient),
		Ws:        api.NewWsHandler(redisClient, tokens, logger, cfg.API.AllowedOrigins),
	}

	router := api.NewRouter(cfg, logger)
	api.RegisterRoutes(router, deps)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("api listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown failed", slog.Any("error", err))
	}
	logger.Info("api stopped")
}

// newGenerator 按 provider 构造生成器；provider 为空时返回 nil（AI 降级）。
func newGenerator(cfg config.AIConfig) (ai.Generator, error) {
	switch cfg.Provider {
	case "http":
		return ai.NewHTTPGenerator(cfg.BaseURL, cfg.Token, cfg.Timeout), nil
	case "anthropic":
		opts := []option.RequestOption{option.WithRequestTimeout(cfg.Timeout)}
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
		return ai.NewAnthropicGenerator(cfg.APIKey, cfg.Model, cfg.MaxTokens, opts...)
	}
	return nil, nil
}

// newProfileStore 返回按 owner 隔离的档案存储工厂。
func newProfileStore(cfg config.StoreConfig, redisClient *redis.Client, db *gorm.DB) func(owner string) editor.Store {
	switch cfg.Driver {
	case "postgres":
		base := store.NewGormStore(db, "", cfg.MaxBytes)
		return func(owner string) editor.Store { return base.Scoped(owner) }
	case "memory":
		var (
			mu     sync.Mutex
			stores = map[string]*store.MemoryStore{}
		)
		return func(owner string) editor.Store {
			mu.Lock()
			defer mu.Unlock()
			s, ok := stores[owner]
			if !ok {
				s = store.NewMemoryStore(cfg.Quota)
				stores[owner] = s
			}
			return s
		}
	}
	base := store.NewRedisStore(redisClient, cfg.Prefix, cfg.TTL, cfg.MaxBytes)
	return func(owner string) editor.Store { return base.Scoped(owner) }
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Store    StoreConfig    `mapstructure:"store"`
	AI       AIConfig       `mapstructure:"ai"`
	Clamd    ClamdConfig    `mapstructure:"clamd"`
	Session  SessionConfig  `mapstructure:"session"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Render   RenderConfig   `mapstructure:"render"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port int `mapstructure:"port"`
	// AIRateLimit 是每个会话每分钟允许的 AI 请求数，0 表示不限。
	AIRateLimit int `mapstructure:"ai_rate_limit"`
	// MaxPhotoBytes 限制上传照片大小。
	MaxPhotoBytes int64 `mapstructure:"max_photo_bytes"`
	// GitHubBaseURL 是仓库元数据接口地址。
	GitHubBaseURL string `mapstructure:"github_base_url"`
	GitHubToken   string `mapstructure:"github_token"`
	// MetricsSecret 保护 /metrics，为空时不校验。
	MetricsSecret string `mapstructure:"metrics_secret"`
	// AllowedOrigins 是 WebSocket 允许的来源，逗号分隔；为空时只允许同源。
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Name         string `mapstructure:"name"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	Debug        bool   `mapstructure:"debug"`
}

// RedisConfig 包含 Redis 连接配置。
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr 返回 host:port。
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	PublicEndpoint  string `mapstructure:"public_endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	// ExportRetentionDays 是 exports/ 前缀下 PDF 的保留天数，0 表示不设置生命周期规则。
	ExportRetentionDays int `mapstructure:"export_retention_days"`
}

// StoreConfig 选择档案存储后端。
type StoreConfig struct {
	// Driver 取值 redis、postgres 或 memory。
	Driver   string        `mapstructure:"driver"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
	MaxBytes int           `mapstructure:"max_bytes"`
	Quota    int           `mapstructure:"quota"`
}

// AIConfig 描述文本改写服务。Provider 为空时 AI 功能降级为原文透传。
type AIConfig struct {
	Provider  string        `mapstructure:"provider"` // http | anthropic | ""
	BaseURL   string        `mapstructure:"base_url"`
	Token     string        `mapstructure:"token"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int64         `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// ClamdConfig 是照片上传病毒扫描的地址，为空表示不扫描。
type ClamdConfig struct {
	Address string `mapstructure:"address"`
}

// SessionConfig 控制编辑会话。
type SessionConfig struct {
	Secret       string        `mapstructure:"secret"`
	TTL          time.Duration `mapstructure:"ttl"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	HistoryLimit int           `mapstructure:"history_limit"`
}

// WorkerConfig 控制打印 worker。
type WorkerConfig struct {
	Concurrency  int           `mapstructure:"concurrency"`
	PrintTimeout time.Duration `mapstructure:"print_timeout"`
	BrowserBin   string        `mapstructure:"browser_bin"`
	// MetricsPort 为 0 时 worker 不暴露 /metrics。
	MetricsPort int `mapstructure:"metrics_port"`
}

// RenderConfig 是渲染引擎的默认项。
type RenderConfig struct {
	DefaultTheme  string `mapstructure:"default_theme"`
	DarkThreshold int    `mapstructure:"dark_threshold"`
	LightLimit    int    `mapstructure:"light_limit"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.ai_rate_limit", 20)
	v.SetDefault("api.max_photo_bytes", 2<<20)
	v.SetDefault("api.github_base_url", "https://api.github.com")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "folio")
	v.SetDefault("database.user", "folio")
	v.SetDefault("database.password", "folio")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "folio")
	v.SetDefault("minio.region", "us-east-1")
	v.SetDefault("minio.export_retention_days", 7)
	v.SetDefault("store.driver", "redis")
	v.SetDefault("store.prefix", "folio:profile:")
	v.SetDefault("store.max_bytes", 2<<20)
	v.SetDefault("store.quota", 5<<20)
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("ai.model", "claude-sonnet-4-5")
	v.SetDefault("ai.max_tokens", 1024)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.idle_timeout", 2*time.Hour)
	v.SetDefault("session.history_limit", 50)
	v.SetDefault("worker.concurrency", 2)
	v.SetDefault("worker.print_timeout", 60*time.Second)
	v.SetDefault("worker.metrics_port", 9091)
	v.SetDefault("render.default_theme", "modern")
	v.SetDefault("render.dark_threshold", 128)
	v.SetDefault("render.light_limit", 200)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                    "API_PORT",
		"api.ai_rate_limit":           "API_AI_RATE_LIMIT",
		"api.max_photo_bytes":         "API_MAX_PHOTO_BYTES",
		"api.github_base_url":         "GITHUB_BASE_URL",
		"api.github_token":            "GITHUB_TOKEN",
		"api.metrics_secret":          "METRICS_SECRET",
		"api.allowed_origins":         "API_ALLOWED_ORIGINS",
		"database.host":               "DATABASE_HOST",
		"database.port":               "DATABASE_PORT",
		"database.name":               "POSTGRES_DB",
		"database.user":               "POSTGRES_USER",
		"database.password":           "POSTGRES_PASSWORD",
		"database.sslmode":            "DATABASE_SSLMODE",
		"database.debug":              "DATABASE_DEBUG",
		"redis.host":                  "REDIS_HOST",
		"redis.port":                  "REDIS_PORT",
		"minio.endpoint":              "MINIO_ENDPOINT",
		"minio.public_endpoint":       "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":         "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":     "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":               "MINIO_USE_SSL",
		"minio.bucket":                "MINIO_BUCKET",
		"minio.region":                "MINIO_REGION",
		"minio.export_retention_days": "MINIO_EXPORT_RETENTION_DAYS",
		"store.driver":                "STORE_DRIVER",
		"store.prefix":                "STORE_PREFIX",
		"store.ttl":                   "STORE_TTL",
		"store.max_bytes":             "STORE_MAX_BYTES",
		"store.quota":                 "STORE_QUOTA",
		"ai.provider":                 "AI_PROVIDER",
		"ai.base_url":                 "AI_BASE_URL",
		"ai.token":                    "AI_TOKEN",
		"ai.api_key":                  "ANTHROPIC_API_KEY",
		"ai.model":                    "AI_MODEL",
		"ai.max_tokens":               "AI_MAX_TOKENS",
		"ai.timeout":                  "AI_TIMEOUT",
		"clamd.address":               "CLAMD_ADDRESS",
		"session.secret":              "SESSION_SECRET",
		"session.ttl":                 "SESSION_TTL",
		"session.idle_timeout":        "SESSION_IDLE_TIMEOUT",
		"session.history_limit":       "SESSION_HISTORY_LIMIT",
		"worker.concurrency":          "WORKER_CONCURRENCY",
		"worker.print_timeout":        "WORKER_PRINT_TIMEOUT",
		"worker.browser_bin":          "ROD_BROWSER_BIN",
		"worker.metrics_port":         "WORKER_METRICS_PORT",
		"render.default_theme":        "RENDER_DEFAULT_THEME",
		"render.dark_threshold":       "RENDER_DARK_THRESHOLD",
		"render.light_limit":          "RENDER_LIGHT_LIMIT",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	// 打印任务记录始终写入数据库。
	if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
		return errors.New("database host, name and user are required")
	}
	if cfg.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	switch cfg.Store.Driver {
	case "redis", "memory", "postgres":
	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	switch cfg.AI.Provider {
	case "":
	case "http":
		if cfg.AI.BaseURL == "" {
			return errors.New("ai base url is required for the http provider")
		}
	case "anthropic":
		if cfg.AI.APIKey == "" {
			return errors.New("anthropic api key is required")
		}
	default:
		return fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if cfg.Session.Secret == "" {
		return errors.New("session secret is required")
	}
	if cfg.Render.DarkThreshold <= 0 || cfg.Render.DarkThreshold > 255 {
		return errors.New("render dark threshold must be within 1..255")
	}
	if cfg.Render.LightLimit <= 0 || cfg.Render.LightLimit > 255 {
		return errors.New("render light limit must be within 1..255")
	}
	return nil
}

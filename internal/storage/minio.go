package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"folio/internal/config"
)

// ExportPrefix 是 PDF 导出对象的键前缀，生命周期规则只作用于它。
const ExportPrefix = "exports/"

const exportLifecycleRuleID = "folio-expire-exports"

// ErrObjectTooLarge 表示对象超过调用方允许读取的大小。
var ErrObjectTooLarge = errors.New("object exceeds read limit")

// Client 封装 MinIO：内部地址负责读写，公开地址只用于签发下载链接。
type Client struct {
	internalClient *minio.Client
	publicClient   *minio.Client
	bucketName     string
	maxReadBytes   int64
}

// NewClient 初始化客户端并准备 Bucket。
func NewClient(cfg config.MinIOConfig) (*Client, error) {
	internalClient, err := newMinio(cfg.Endpoint, cfg.UseSSL, cfg)
	if err != nil {
		return nil, fmt.Errorf("init internal minio client: %w", err)
	}

	publicClient := internalClient
	if public := strings.TrimSpace(cfg.PublicEndpoint); public != "" {
		parsed, err := url.Parse(public)
		if err != nil {
			return nil, fmt.Errorf("parse minio public endpoint: %w", err)
		}
		if parsed.Host == "" {
			return nil, fmt.Errorf("invalid minio public endpoint %q: host missing", public)
		}
		if publicClient, err = newMinio(parsed.Host, parsed.Scheme == "https", cfg); err != nil {
			return nil, fmt.Errorf("init public minio client: %w", err)
		}
	}

	c := &Client{
		internalClient: internalClient,
		publicClient:   publicClient,
		bucketName:     cfg.Bucket,
		maxReadBytes:   32 << 20,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.prepareBucket(ctx, cfg.Region, cfg.ExportRetentionDays); err != nil {
		return nil, err
	}
	return c, nil
}

func newMinio(endpoint string, secure bool, cfg config.MinIOConfig) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
}

// prepareBucket 创建缺失的 Bucket，并让导出的 PDF 按天数过期。
func (c *Client) prepareBucket(ctx context.Context, region string, retentionDays int) error {
	exists, err := c.internalClient.BucketExists(ctx, c.bucketName)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", c.bucketName, err)
	}
	if !exists {
		if err := c.internalClient.MakeBucket(ctx, c.bucketName, minio.MakeBucketOptions{Region: region}); err != nil {
			return fmt.Errorf("make bucket %q: %w", c.bucketName, err)
		}
	}
	if retentionDays <= 0 {
		return nil
	}
	if err := c.internalClient.SetBucketLifecycle(ctx, c.bucketName, exportLifecycle(retentionDays)); err != nil {
		return fmt.Errorf("set lifecycle on %q: %w", c.bucketName, err)
	}
	return nil
}

func exportLifecycle(days int) *lifecycle.Configuration {
	cfg := lifecycle.NewConfiguration()
	cfg.Rules = []lifecycle.Rule{{
		ID:         exportLifecycleRuleID,
		Status:     "Enabled",
		RuleFilter: lifecycle.Filter{Prefix: ExportPrefix},
		Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(days)},
	}}
	return cfg
}

// UploadFile 写入私有 Bucket。
func (c *Client) UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error) {
	info, err := c.internalClient.PutObject(ctx, c.bucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, Classify(fmt.Errorf("put object %q: %w", objectName, err))
	}
	return &info, nil
}

// ReadObject 读取整个对象及其内容类型。超过读取上限时返回 ErrObjectTooLarge。
func (c *Client) ReadObject(ctx context.Context, objectKey string) ([]byte, string, error) {
	obj, err := c.internalClient.GetObject(ctx, c.bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", Classify(fmt.Errorf("get object %q: %w", objectKey, err))
	}
	defer func() {
		_ = obj.Close()
	}()

	// GetObject 是惰性的，不存在要到 Stat 时才知道。
	stat, err := obj.Stat()
	if err != nil {
		return nil, "", Classify(fmt.Errorf("stat object %q: %w", objectKey, err))
	}
	if stat.Size > c.maxReadBytes {
		return nil, "", fmt.Errorf("read object %q (%d bytes): %w", objectKey, stat.Size, ErrObjectTooLarge)
	}
	data, err := io.ReadAll(io.LimitReader(obj, c.maxReadBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read object %q: %w", objectKey, err)
	}
	return data, stat.ContentType, nil
}

// GeneratePresignedURL 生成限时下载链接。
func (c *Client) GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error) {
	return c.GeneratePresignedURLWithParams(ctx, objectKey, duration, nil)
}

// GeneratePresignedURLWithParams 生成带 response-* 覆盖参数的下载链接，例如附件文件名。
func (c *Client) GeneratePresignedURLWithParams(ctx context.Context, objectKey string, duration time.Duration, params map[string]string) (string, error) {
	values := make(url.Values, len(params))
	for k, v := range params {
		values.Set(k, v)
	}
	signed, err := c.publicClient.PresignedGetObject(ctx, c.bucketName, objectKey, duration, values)
	if err != nil {
		return "", fmt.Errorf("presign %q: %w", objectKey, err)
	}
	return signed.String(), nil
}

// DeleteObject 删除对象，不存在时视为成功。
func (c *Client) DeleteObject(ctx context.Context, objectKey string) error {
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" {
		return nil
	}
	err := c.internalClient.RemoveObject(ctx, c.bucketName, objectKey, minio.RemoveObjectOptions{})
	if err != nil && !IsNoSuchKey(err) {
		return Classify(fmt.Errorf("remove object %q: %w", objectKey, err))
	}
	return nil
}

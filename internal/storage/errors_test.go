package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/errcode"
)

func TestIsNoSuchKey(t *testing.T) {
	assert.False(t, IsNoSuchKey(nil))
	assert.True(t, IsNoSuchKey(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, IsNoSuchKey(fmt.Errorf("stat object %q: %w", "k", minio.ErrorResponse{Code: "NoSuchKey"})))
	assert.True(t, IsNoSuchKey(errors.New("The specified key does not exist.")))
	assert.False(t, IsNoSuchKey(errors.New("connection reset")))
}

func TestIsNoSuchBucket(t *testing.T) {
	assert.False(t, IsNoSuchBucket(nil))
	assert.True(t, IsNoSuchBucket(minio.ErrorResponse{Code: "NoSuchBucket"}))
	assert.False(t, IsNoSuchBucket(minio.ErrorResponse{Code: "NoSuchKey"}))
}

func TestIsQuotaExceeded(t *testing.T) {
	assert.True(t, IsQuotaExceeded(minio.ErrorResponse{Code: "XMinioStorageFull"}))
	assert.True(t, IsQuotaExceeded(errors.New("upstream: quota exceeded for tenant")))
	assert.False(t, IsQuotaExceeded(minio.ErrorResponse{Code: "AccessDenied"}))
}

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify(nil))

	missing := Classify(fmt.Errorf("stat object: %w", minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.ErrorIs(t, missing, errcode.ErrResourceMissing)
	assert.True(t, IsNoSuchKey(missing))

	// NoSuchBucket 的消息也包含 "not found" 时仍按 Bucket 处理。
	bucket := Classify(minio.ErrorResponse{Code: "NoSuchBucket", Message: "bucket not found"})
	assert.ErrorIs(t, bucket, errcode.ErrServiceUnavailable)

	full := Classify(minio.ErrorResponse{Code: "XMinioStorageFull"})
	assert.Equal(t, errcode.StorageQuota, errcode.CodeOf(full))

	plain := errors.New("connection reset")
	assert.Same(t, plain, Classify(plain))
}

func TestExportLifecycle(t *testing.T) {
	cfg := exportLifecycle(7)
	require.Len(t, cfg.Rules, 1)
	rule := cfg.Rules[0]
	assert.Equal(t, "Enabled", rule.Status)
	assert.Equal(t, ExportPrefix, rule.RuleFilter.Prefix)
	assert.EqualValues(t, 7, rule.Expiration.Days)
}

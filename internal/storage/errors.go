package storage

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/minio/minio-go/v7"

	"folio/internal/errcode"
)

// 不同网关/代理可能把错误包装成字符串，按错误码和消息片段同时匹配。
var (
	noSuchKeyCodes    = []string{"nosuchkey", "notfound"}
	noSuchKeyHints    = []string{"nosuchkey", "specified key does not exist", "not found"}
	noSuchBucketCodes = []string{"nosuchbucket"}
	noSuchBucketHints = []string{"nosuchbucket", "specified bucket does not exist"}
	quotaCodes        = []string{"xminiostoragefull", "quotaexceeded", "entitytoolarge"}
	quotaHints        = []string{"storage full", "quota exceeded"}
)

func responseCode(err error) string {
	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		return strings.ToLower(strings.TrimSpace(minioErr.Code))
	}
	return ""
}

func matches(err error, codes, hints []string) bool {
	if err == nil {
		return false
	}
	if code := responseCode(err); code != "" && slices.Contains(codes, code) {
		return true
	}
	lower := strings.ToLower(err.Error())
	for _, h := range hints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}

// IsNoSuchKey 判断对象不存在（NoSuchKey/NotFound）。
func IsNoSuchKey(err error) bool {
	return matches(err, noSuchKeyCodes, noSuchKeyHints)
}

// IsNoSuchBucket 判断 Bucket 不存在，这是部署错误而不是缺失的资源。
func IsNoSuchBucket(err error) bool {
	return matches(err, noSuchBucketCodes, noSuchBucketHints)
}

// IsQuotaExceeded 判断存储空间不足或对象超限。
func IsQuotaExceeded(err error) bool {
	return matches(err, quotaCodes, quotaHints)
}

// Classify 为存储错误附加错误码，原始错误仍可通过 errors.As 取出。
// Bucket 不存在优先于对象不存在判断。
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case IsNoSuchBucket(err):
		return fmt.Errorf("%w: %w", errcode.ErrServiceUnavailable, err)
	case IsNoSuchKey(err):
		return fmt.Errorf("%w: %w", errcode.ErrResourceMissing, err)
	case IsQuotaExceeded(err):
		return fmt.Errorf("%w: %w", errcode.ErrStorageQuota, err)
	}
	return err
}

// Package assets 管理上传的照片：对象键约定、校验，以及打印前把对象键内联为 data URI。
package assets

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"folio/internal/resume"
	"folio/internal/storage"
)

const photoPrefix = "photos/"

// 允许的照片内容类型与扩展名。
var photoTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// ObjectReader 读取对象内容，由 storage.Client 实现。
type ObjectReader interface {
	ReadObject(ctx context.Context, objectKey string) ([]byte, string, error)
}

// PhotoExt 返回内容类型对应的扩展名；不支持的类型返回 false。
func PhotoExt(contentType string) (string, bool) {
	ext, ok := photoTypes[strings.ToLower(strings.TrimSpace(contentType))]
	return ext, ok
}

// PhotoKey 生成新的照片对象键。
func PhotoKey(owner, ext string) string {
	return photoPrefix + owner + "/" + uuid.NewString() + ext
}

// IsObjectKey 判断照片字段是对象键而不是可直接渲染的地址。
func IsObjectKey(photo string) bool {
	p := strings.TrimSpace(photo)
	if p == "" {
		return false
	}
	lower := strings.ToLower(p)
	return !strings.HasPrefix(lower, "data:") &&
		!strings.HasPrefix(lower, "http://") &&
		!strings.HasPrefix(lower, "https://")
}

// ValidPhotoKey 校验对象键属于 owner 且格式合法。
func ValidPhotoKey(owner, key string) bool {
	if key == "" || owner == "" || !utf8.ValidString(key) {
		return false
	}
	if !strings.HasPrefix(key, photoPrefix+owner+"/") {
		return false
	}
	if strings.Contains(key, "..") || strings.Contains(key, "\\") || strings.Contains(key, "//") {
		return false
	}
	if len(key) > 200 {
		return false
	}
	switch strings.ToLower(path.Ext(key)) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return true
	}
	return false
}

// InlinePhoto 把文档中的照片对象键替换为 data URI。
// 键非法或对象不存在时清空照片并在 missing 中返回该键；Bucket 缺失等系统错误直接返回。
func InlinePhoto(ctx context.Context, r ObjectReader, owner string, doc resume.Document) (_ resume.Document, missing []string, err error) {
	key := strings.TrimSpace(doc.PersonalInfo.Photo)
	if !IsObjectKey(key) {
		return doc, nil, nil
	}

	out := doc.Clone()
	if r == nil || !ValidPhotoKey(owner, key) {
		out.PersonalInfo.Photo = ""
		return out, []string{key}, nil
	}

	data, contentType, err := r.ReadObject(ctx, key)
	if err != nil {
		if storage.IsNoSuchBucket(err) {
			return doc, nil, fmt.Errorf("minio bucket does not exist: %w", err)
		}
		if storage.IsNoSuchKey(err) {
			out.PersonalInfo.Photo = ""
			return out, []string{key}, nil
		}
		return doc, nil, fmt.Errorf("read photo: %w", err)
	}
	if strings.TrimSpace(contentType) == "" {
		contentType = "image/png"
	}
	out.PersonalInfo.Photo = "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	return out, nil, nil
}

// Package store 提供简历档案的持久化实现：Redis、PostgreSQL（gorm）与内存。
// 三者都满足 editor.Store：键不存在返回 errcode.ErrProfileNotFound，超出容量返回 errcode.ErrStorageQuota。
package store

import (
	"strings"

	"folio/internal/errcode"
)

// DefaultMaxBytes 是单个档案的默认大小上限。
const DefaultMaxBytes = 2 << 20

func checkSize(name string, value []byte, max int) error {
	if max > 0 && len(value) > max {
		return errcode.Wrap(errcode.ErrStorageQuota, "profile %q is %d bytes, limit %d", name, len(value), max)
	}
	return nil
}

func validName(name string) error {
	if strings.TrimSpace(name) == "" || len(name) > 128 || strings.ContainsAny(name, "*?[]\n\r") {
		return errcode.Wrap(errcode.ErrMalformedEntry, "invalid profile name %q", name)
	}
	return nil
}

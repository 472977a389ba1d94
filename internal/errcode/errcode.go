package errcode

import (
	"errors"
	"fmt"
)

// 错误码约定：
// - 0：无错误
// - 4xxx：业务可恢复/告警类错误（例如资源缺失但流程可继续）
// - 5xxx：系统错误（需要中断流程或提示用户）
const (
	OK                 = 0
	InvalidImport      = 4001
	UnresolvedTheme    = 4002
	MalformedEntry     = 4003
	ResourceMissing    = 4004
	ProfileNotFound    = 4005
	SystemError        = 5000
	ServiceUnavailable = 5003
	StorageQuota       = 5007
)

// Error 携带错误码，便于跨层用 errors.Is 判断错误类别。
type Error struct {
	Code int
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Is 按错误码比较，包装后的错误同样可以匹配哨兵值。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrInvalidImport      = &Error{Code: InvalidImport, Msg: "invalid import payload"}
	ErrUnresolvedTheme    = &Error{Code: UnresolvedTheme, Msg: "unresolved theme"}
	ErrMalformedEntry     = &Error{Code: MalformedEntry, Msg: "malformed entry"}
	ErrResourceMissing    = &Error{Code: ResourceMissing, Msg: "resource missing"}
	ErrProfileNotFound    = &Error{Code: ProfileNotFound, Msg: "profile not found"}
	ErrServiceUnavailable = &Error{Code: ServiceUnavailable, Msg: "service unavailable"}
	ErrStorageQuota       = &Error{Code: StorageQuota, Msg: "storage quota exceeded"}
)

// Wrap 构造带上下文描述的同类错误。
func Wrap(base *Error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), base)
}

// CodeOf 返回错误链上第一个错误码，未知错误视为系统错误。
func CodeOf(err error) int {
	if err == nil {
		return OK
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return SystemError
}

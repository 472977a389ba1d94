package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/internal/ai"
	"folio/internal/editor"
	"folio/internal/errcode"
	"folio/internal/resume"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

func Unauthorized(c *gin.Context)           { Error(c, http.StatusUnauthorized, "unauthorized") }
func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func Forbidden(c *gin.Context, msg string)  { Error(c, http.StatusForbidden, msg) }
func NotFound(c *gin.Context, msg string)   { Error(c, http.StatusNotFound, msg) }
func Conflict(c *gin.Context, msg string)   { Error(c, http.StatusConflict, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, msg) }

// Fail 按错误类别选择状态码，响应体携带错误码。系统错误不向客户端暴露细节。
func Fail(c *gin.Context, err error) {
	status, code := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg, "code": code})
}

func statusOf(err error) (int, int) {
	code := errcode.CodeOf(err)
	switch {
	case errors.Is(err, editor.ErrStale):
		return http.StatusConflict, code
	case errors.Is(err, editor.ErrUnknownTarget),
		errors.Is(err, resume.ErrIndexOutOfRange),
		errors.Is(err, resume.ErrUnknownCategory):
		return http.StatusBadRequest, errcode.MalformedEntry
	case errors.Is(err, ai.ErrUnknownOperation):
		return http.StatusNotFound, code
	case errors.Is(err, editor.ErrNoStore),
		errors.Is(err, editor.ErrNoClipboard),
		errors.Is(err, editor.ErrNoDictation):
		return http.StatusNotImplemented, code
	}
	switch code {
	case errcode.InvalidImport, errcode.MalformedEntry, errcode.UnresolvedTheme:
		return http.StatusBadRequest, code
	case errcode.ProfileNotFound, errcode.ResourceMissing:
		return http.StatusNotFound, code
	case errcode.ServiceUnavailable:
		return http.StatusServiceUnavailable, code
	case errcode.StorageQuota:
		return http.StatusInsufficientStorage, code
	}
	return http.StatusInternalServerError, code
}

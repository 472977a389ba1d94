package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"

	"folio/internal/api/middleware"
	"folio/internal/assets"
)

// ErrMalware 表示上传文件未通过病毒扫描。
var ErrMalware = errors.New("malicious file detected")

// VirusScanner 扫描上传内容，发现威胁时返回 ErrMalware。
type VirusScanner interface {
	Scan(r io.Reader) error
}

type clamdScanner struct {
	addr string
}

// NewClamdScanner 使用 clamd 扫描；addr 为空时返回 nil（不扫描）。
func NewClamdScanner(addr string) VirusScanner {
	if strings.TrimSpace(addr) == "" {
		return nil
	}
	return &clamdScanner{addr: addr}
}

func (s *clamdScanner) Scan(r io.Reader) error {
	client := clamd.NewClamd(s.addr)
	abort := make(chan bool)
	defer close(abort)

	results, err := client.ScanStream(r, abort)
	if err != nil {
		return fmt.Errorf("scan stream: %w", err)
	}
	for result := range results {
		switch result.Status {
		case clamd.RES_OK:
		case clamd.RES_FOUND:
			return fmt.Errorf("%w: %s", ErrMalware, result.Description)
		default:
			return fmt.Errorf("scan failed: %s", result.Description)
		}
	}
	return nil
}

type photoStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// PhotoHandler 负责照片上传与访问。
type PhotoHandler struct {
	storage  photoStorage
	scanner  VirusScanner
	maxBytes int64
}

func NewPhotoHandler(storage photoStorage, scanner VirusScanner, maxBytes int64) *PhotoHandler {
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}
	return &PhotoHandler{storage: storage, scanner: scanner, maxBytes: maxBytes}
}

// Upload 接收 multipart 字段 file，扫描后写入对象存储，返回可写入 personalInfo.photo 的对象键。
func (h *PhotoHandler) Upload(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	log := middleware.LoggerFromContext(c)

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}
	if file.Size > h.maxBytes {
		Error(c, http.StatusRequestEntityTooLarge, "photo too large")
		return
	}

	reader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}
	data, err := io.ReadAll(io.LimitReader(reader, h.maxBytes+1))
	_ = reader.Close()
	if err != nil {
		Internal(c, "failed to read file")
		return
	}
	if int64(len(data)) > h.maxBytes {
		Error(c, http.StatusRequestEntityTooLarge, "photo too large")
		return
	}

	// 以内容嗅探为准，不信任客户端声明的类型。
	contentType := http.DetectContentType(data)
	ext, ok := assets.PhotoExt(contentType)
	if !ok {
		Error(c, http.StatusUnsupportedMediaType, "unsupported image type")
		return
	}

	if h.scanner != nil {
		if err := h.scanner.Scan(bytes.NewReader(data)); err != nil {
			if errors.Is(err, ErrMalware) {
				log.Warn("malicious upload rejected", slog.Any("error", err))
				BadRequest(c, "malicious file detected")
				return
			}
			log.Error("scan file", slog.Any("error", err))
			Internal(c, "failed to scan file")
			return
		}
	}

	objectKey := assets.PhotoKey(claims.Owner, ext)
	if _, err := h.storage.UploadFile(c.Request.Context(), objectKey, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		log.Error("upload file", slog.Any("error", err))
		Internal(c, "failed to upload file")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"objectKey": objectKey})
}

// URL 返回照片的临时预签名地址。
func (h *PhotoHandler) URL(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	objectKey := c.Query("key")
	if objectKey == "" {
		BadRequest(c, "missing key")
		return
	}
	if !assets.ValidPhotoKey(claims.Owner, objectKey) {
		Forbidden(c, "access denied")
		return
	}

	signedURL, err := h.storage.GeneratePresignedURL(c.Request.Context(), objectKey, 15*time.Minute)
	if err != nil {
		middleware.LoggerFromContext(c).Error("generate presigned url", slog.Any("error", err))
		Internal(c, "failed to generate url")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

// Delete 删除会话 owner 名下的照片；对象不存在视为成功。
func (h *PhotoHandler) Delete(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	objectKey := c.Query("key")
	if !assets.ValidPhotoKey(claims.Owner, objectKey) {
		Forbidden(c, "access denied")
		return
	}
	if err := h.storage.DeleteObject(c.Request.Context(), objectKey); err != nil {
		middleware.LoggerFromContext(c).Error("delete photo", slog.Any("error", err))
		Internal(c, "failed to delete photo")
		return
	}
	c.Status(http.StatusNoContent)
}

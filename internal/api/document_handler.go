package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/internal/api/middleware"
	"folio/internal/render"
	"folio/internal/resume"
	"folio/internal/view"
)

const maxDocumentBytes = 4 << 20

// DocumentHandler 提供无状态的渲染与转换接口。
type DocumentHandler struct {
	engine *render.Engine
}

func NewDocumentHandler(engine *render.Engine) *DocumentHandler {
	return &DocumentHandler{engine: engine}
}

// ListThemes 返回主题目录。
func (h *DocumentHandler) ListThemes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"themes": h.engine.Themes().All()})
}

type renderRequest struct {
	Document json.RawMessage `json:"document"`
	ThemeID  string          `json:"themeId"`
	Mode     string          `json:"mode"`
	// Format 取值 page（默认，完整 HTML）或 fragment（仅简历节点）。
	Format string `json:"format"`
}

// Render 渲染请求中的文档。文档可以是导出信封或裸文档，缺失字段取默认值。
func (h *DocumentHandler) Render(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	doc, err := resume.Import(resume.Empty(), req.Document)
	if err != nil {
		Fail(c, err)
		return
	}
	writeRendered(c, h.engine, doc, req.ThemeID, render.ParseMode(req.Mode), req.Format)
}

func writeRendered(c *gin.Context, engine *render.Engine, doc resume.Document, themeID string, mode render.Mode, format string) {
	if format == "fragment" {
		root, t := engine.RenderByID(doc, themeID, mode)
		c.Header("X-Theme-ID", t.ID)
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(view.String(root)))
		return
	}
	page, err := engine.Page(doc, themeID, mode)
	if err != nil {
		middleware.LoggerFromContext(c).Error("render page failed", slog.Any("error", err))
		Internal(c, "failed to render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// Import 把导入文件合并到内置模板上，返回规范化后的文档。
func (h *DocumentHandler) Import(c *gin.Context) {
	payload, ok := readBody(c)
	if !ok {
		return
	}
	doc, err := resume.Import(resume.Template(), payload)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc})
}

// PlainText 返回文档的纯文本投影。
func (h *DocumentHandler) PlainText(c *gin.Context) {
	doc, ok := h.bindDocument(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, resume.PlainText(doc))
}

// WordCount 返回文档词数。
func (h *DocumentHandler) WordCount(c *gin.Context) {
	doc, ok := h.bindDocument(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": resume.WordCount(doc)})
}

func (h *DocumentHandler) bindDocument(c *gin.Context) (resume.Document, bool) {
	payload, ok := readBody(c)
	if !ok {
		return resume.Document{}, false
	}
	doc, err := resume.Import(resume.Empty(), payload)
	if err != nil {
		Fail(c, err)
		return resume.Document{}, false
	}
	return doc, true
}

func readBody(c *gin.Context) ([]byte, bool) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDocumentBytes+1))
	if err != nil {
		BadRequest(c, "failed to read body")
		return nil, false
	}
	if len(payload) > maxDocumentBytes {
		Error(c, http.StatusRequestEntityTooLarge, "document too large")
		return nil, false
	}
	return payload, true
}

package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"folio/internal/ai"
	"folio/internal/assets"
	"folio/internal/api/middleware"
	"folio/internal/auth"
	"folio/internal/editor"
	"folio/internal/render"
	"folio/internal/resume"
)

const editorKey = "editor"

// SessionHandler 暴露编辑会话：提交编辑、撤销重做、预览、导入导出与档案。
type SessionHandler struct {
	sessions *editor.Registry
	tokens   *auth.SessionService
	adapter  *ai.Adapter
	engine   *render.Engine
	photos   assets.ObjectReader
}

// NewSessionHandler 创建处理器；photos 为 nil 时预览不内联已上传的照片。
func NewSessionHandler(
	sessions *editor.Registry,
	tokens *auth.SessionService,
	adapter *ai.Adapter,
	engine *render.Engine,
	photos assets.ObjectReader,
) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		tokens:   tokens,
		adapter:  adapter,
		engine:   engine,
		photos:   photos,
	}
}

// RequireEditor 在 SessionMiddleware 之后取出会话的编辑器；会话已被回收时返回 401。
func (h *SessionHandler) RequireEditor(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	e, ok := h.sessions.Get(claims.SessionID)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return
	}
	c.Set(editorKey, e)
	c.Next()
}

func editorFrom(c *gin.Context) *editor.Editor {
	return c.MustGet(editorKey).(*editor.Editor)
}

type createSessionRequest struct {
	Owner   string `json:"owner"`
	ThemeID string `json:"themeId"`
}

type sessionState struct {
	SessionID string          `json:"sessionId"`
	ThemeID   string          `json:"themeId"`
	Document  resume.Document `json:"document"`
	CanUndo   bool            `json:"canUndo"`
	CanRedo   bool            `json:"canRedo"`
}

func stateOf(e *editor.Editor) sessionState {
	return sessionState{
		SessionID: e.ID(),
		ThemeID:   e.ThemeID(),
		Document:  e.Document(),
		CanUndo:   e.CanUndo(),
		CanRedo:   e.CanRedo(),
	}
}

// Create 创建会话并签发令牌。owner 标识档案命名空间，缺省为会话 ID。
func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, "invalid request body")
			return
		}
	}
	if len(req.Owner) > 64 {
		BadRequest(c, "owner too long")
		return
	}

	e := h.sessions.Create(req.Owner)
	owner := req.Owner
	if owner == "" {
		owner = e.ID()
	}
	if req.ThemeID != "" {
		e.SetTheme(req.ThemeID)
	}
	token, err := h.tokens.Issue(e.ID(), owner)
	if err != nil {
		h.sessions.Delete(e.ID())
		middleware.LoggerFromContext(c).Error("issue session token failed", slog.Any("error", err))
		Internal(c, "failed to create session")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":     token,
		"expiresIn": int(h.tokens.TTL().Seconds()),
		"session":   stateOf(e),
	})
}

// Current 返回会话状态。
func (h *SessionHandler) Current(c *gin.Context) {
	c.JSON(http.StatusOK, stateOf(editorFrom(c)))
}

// End 结束会话。
func (h *SessionHandler) End(c *gin.Context) {
	h.sessions.Delete(editorFrom(c).ID())
	c.Status(http.StatusNoContent)
}

// PutDocument 用请求体整体替换文档（作为一次编辑记录）。
func (h *SessionHandler) PutDocument(c *gin.Context) {
	payload, ok := readBody(c)
	if !ok {
		return
	}
	doc, err := resume.Import(resume.Empty(), payload)
	if err != nil {
		Fail(c, err)
		return
	}
	e := editorFrom(c)
	e.Replace(doc)
	c.JSON(http.StatusOK, stateOf(e))
}

type setFieldRequest struct {
	editor.Target
	Value string `json:"value"`
}

// SetField 写入单个自由文本字段。
func (h *SessionHandler) SetField(c *gin.Context) {
	var req setFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	e := editorFrom(c)
	if _, err := e.SetField(req.Target, req.Value); err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stateOf(e))
}

func (h *SessionHandler) Undo(c *gin.Context) {
	e := editorFrom(c)
	_, ok := e.Undo()
	c.JSON(http.StatusOK, gin.H{"applied": ok, "state": stateOf(e)})
}

func (h *SessionHandler) Redo(c *gin.Context) {
	e := editorFrom(c)
	_, ok := e.Redo()
	c.JSON(http.StatusOK, gin.H{"applied": ok, "state": stateOf(e)})
}

// Reset 回到内置模板并清空历史。
func (h *SessionHandler) Reset(c *gin.Context) {
	e := editorFrom(c)
	e.Reset()
	c.JSON(http.StatusOK, stateOf(e))
}

type moveRequest struct {
	Category resume.Category `json:"category" binding:"required"`
	From     *int            `json:"from" binding:"required"`
	To       *int            `json:"to" binding:"required"`
}

// Move 重排条目。
func (h *SessionHandler) Move(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "category, from and to are required")
		return
	}
	e := editorFrom(c)
	if _, err := e.MoveEntry(req.Category, *req.From, *req.To); err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stateOf(e))
}

type entryRequest struct {
	Category resume.Category `json:"category" binding:"required"`
}

// AddEntry 在板块末尾追加空条目。
func (h *SessionHandler) AddEntry(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "category is required")
		return
	}
	e := editorFrom(c)
	var id string
	_, err := e.Update(func(d resume.Document) (resume.Document, error) {
		next, newID, err := resume.AddEntry(d, req.Category)
		id = newID
		return next, err
	})
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "state": stateOf(e)})
}

// RemoveEntry 删除板块中的第 index 条。
func (h *SessionHandler) RemoveEntry(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		BadRequest(c, "invalid index")
		return
	}
	category := resume.Category(c.Param("category"))
	e := editorFrom(c)
	_, err = e.Update(func(d resume.Document) (resume.Document, error) {
		return resume.RemoveEntry(d, category, index)
	})
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stateOf(e))
}

type themeRequest struct {
	ThemeID string `json:"themeId" binding:"required"`
}

// SetTheme 切换主题，未知 ID 回落到默认主题。
func (h *SessionHandler) SetTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "themeId is required")
		return
	}
	e := editorFrom(c)
	e.SetTheme(req.ThemeID)
	c.JSON(http.StatusOK, stateOf(e))
}

// Import 把导入文件合并到当前文档。
func (h *SessionHandler) Import(c *gin.Context) {
	payload, ok := readBody(c)
	if !ok {
		return
	}
	e := editorFrom(c)
	if _, err := e.Import(payload); err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stateOf(e))
}

// Export 下载带版本号的导出文件。
func (h *SessionHandler) Export(c *gin.Context) {
	e := editorFrom(c)
	data, err := e.Export()
	if err != nil {
		Fail(c, err)
		return
	}
	name := render.PageTitle(e.Document(), render.ModeResume)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".json"))
	c.Data(http.StatusOK, "application/json", data)
}

// Preview 渲染当前文档；?mode=cover 渲染求职信，?format=fragment 只返回简历节点。
// 已上传的照片在渲染前内联，缺失时在 X-Missing-Assets 中列出。
func (h *SessionHandler) Preview(c *gin.Context) {
	e := editorFrom(c)
	doc := e.Document()
	if h.photos != nil {
		claims, _ := middleware.ClaimsFromContext(c)
		inlined, missing, err := assets.InlinePhoto(c.Request.Context(), h.photos, claims.Owner, doc)
		if err != nil {
			middleware.LoggerFromContext(c).Error("inline photo failed", slog.Any("error", err))
			Internal(c, "failed to load photo")
			return
		}
		if len(missing) > 0 {
			c.Header("X-Missing-Assets", strings.Join(missing, ","))
		}
		doc = inlined
	}
	writeRendered(c, h.engine, doc, e.ThemeID(), render.ParseMode(c.Query("mode")), c.Query("format"))
}

// PlainText 返回当前文档的纯文本与词数。
func (h *SessionHandler) PlainText(c *gin.Context) {
	e := editorFrom(c)
	doc := e.Document()
	c.JSON(http.StatusOK, gin.H{"text": resume.PlainText(doc), "words": resume.WordCount(doc)})
}

// Improve 用 AI 改写目标字段。槽位被更新的请求取代时返回 409。
func (h *SessionHandler) Improve(c *gin.Context) {
	var target editor.Target
	if err := c.ShouldBindJSON(&target); err != nil {
		BadRequest(c, "invalid target")
		return
	}
	e := editorFrom(c)
	if _, err := e.Improve(c.Request.Context(), h.adapter, target); err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stateOf(e))
}

// ListProfiles 返回已保存的档案名。
func (h *SessionHandler) ListProfiles(c *gin.Context) {
	names, err := editorFrom(c).ListProfiles(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": names})
}

// SaveProfile 以名称保存当前文档。
func (h *SessionHandler) SaveProfile(c *gin.Context) {
	if err := editorFrom(c).SaveProfile(c.Request.Context(), c.Param("name")); err != nil {
		Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LoadProfile 载入档案，历史随之重置。
func (h *SessionHandler) LoadProfile(c *gin.Context) {
	e := editorFrom(c)
	if _, err := e.LoadProfile(c.Request.Context(), c.Param("name")); err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stateOf(e))
}

func (h *SessionHandler) DeleteProfile(c *gin.Context) {
	if err := editorFrom(c).DeleteProfile(c.Request.Context(), c.Param("name")); err != nil {
		Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

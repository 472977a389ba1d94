package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"folio/internal/repometa"
	"folio/internal/resume"
)

type repoFetcher interface {
	FetchRepos(ctx context.Context, user string, limit int) ([]repometa.Repo, error)
}

// RepoHandler 拉取公开仓库并转换为项目条目。
type RepoHandler struct {
	client repoFetcher
}

func NewRepoHandler(client repoFetcher) *RepoHandler {
	return &RepoHandler{client: client}
}

// ListRepos 返回 :username 的仓库与对应的项目条目（可直接追加到文档）。
func (h *RepoHandler) ListRepos(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	repos, err := h.client.FetchRepos(c.Request.Context(), c.Param("username"), limit)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"repos":    repos,
		"projects": repometa.ToProjects(repos),
	})
}

// ImportRepos 把仓库追加到会话文档的项目列表。
func (h *RepoHandler) ImportRepos(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	repos, err := h.client.FetchRepos(c.Request.Context(), c.Param("username"), limit)
	if err != nil {
		Fail(c, err)
		return
	}
	e := editorFrom(c)
	// 在编辑器锁内追加，期间提交的其他编辑与进行中的 AI 操作不受影响。
	if _, err := e.Update(func(d resume.Document) (resume.Document, error) {
		return repometa.AppendProjects(d, repos), nil
	}); err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stateOf(e))
}

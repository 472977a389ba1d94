package api

import (
	"github.com/gin-gonic/gin"

	"folio/internal/api/middleware"
	"folio/internal/auth"
)

// Deps 汇集路由所需的处理器。为 nil 的可选处理器不注册对应端点。
type Deps struct {
	Tokens    *auth.SessionService
	Documents *DocumentHandler
	Sessions  *SessionHandler
	AI        *AIHandler
	Repos     *RepoHandler
	Photos    *PhotoHandler
	Exports   *ExportHandler
	Ws        *WsHandler
}

// RegisterRoutes 注册 /v1 下的全部端点。
func RegisterRoutes(router *gin.Engine, deps Deps) {
	v1 := router.Group("/v1")

	v1.GET("/themes", deps.Documents.ListThemes)
	v1.POST("/render", deps.Documents.Render)

	documents := v1.Group("/documents")
	{
		documents.POST("/import", deps.Documents.Import)
		documents.POST("/text", deps.Documents.PlainText)
		documents.POST("/wordcount", deps.Documents.WordCount)
	}

	v1.POST("/sessions", deps.Sessions.Create)
	if deps.Repos != nil {
		v1.GET("/repos/:username", deps.Repos.ListRepos)
	}
	if deps.Ws != nil {
		v1.GET("/ws", deps.Ws.HandleConnection)
	}

	session := v1.Group("")
	session.Use(middleware.SessionMiddleware(deps.Tokens), deps.Sessions.RequireEditor)

	current := session.Group("/sessions/current")
	{
		current.GET("", deps.Sessions.Current)
		current.DELETE("", deps.Sessions.End)
		current.PUT("/document", deps.Sessions.PutDocument)
		current.PATCH("/field", deps.Sessions.SetField)
		current.POST("/undo", deps.Sessions.Undo)
		current.POST("/redo", deps.Sessions.Redo)
		current.POST("/reset", deps.Sessions.Reset)
		current.POST("/move", deps.Sessions.Move)
		current.POST("/entries", deps.Sessions.AddEntry)
		current.DELETE("/entries/:category/:index", deps.Sessions.RemoveEntry)
		current.POST("/theme", deps.Sessions.SetTheme)
		current.POST("/import", deps.Sessions.Import)
		current.GET("/export", deps.Sessions.Export)
		current.GET("/preview", deps.Sessions.Preview)
		current.GET("/text", deps.Sessions.PlainText)
		current.POST("/improve", deps.Sessions.Improve)

		current.GET("/profiles", deps.Sessions.ListProfiles)
		current.GET("/profiles/:name", deps.Sessions.LoadProfile)
		current.POST("/profiles/:name", deps.Sessions.SaveProfile)
		current.DELETE("/profiles/:name", deps.Sessions.DeleteProfile)

		if deps.Repos != nil {
			current.POST("/repos/:username", deps.Repos.ImportRepos)
		}
	}

	if deps.AI != nil {
		session.POST("/ai/:operation", deps.AI.Transform)
	}
	if deps.Photos != nil {
		session.POST("/photos", deps.Photos.Upload)
		session.GET("/photos/url", deps.Photos.URL)
		session.DELETE("/photos", deps.Photos.Delete)
	}
	if deps.Exports != nil {
		session.POST("/exports/pdf", deps.Exports.RequestPDF)
		session.GET("/exports/link", deps.Exports.DownloadLink)
	}
}

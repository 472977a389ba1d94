package render

import (
	"strings"

	"folio/internal/resume"
	"folio/internal/view"
)

// Page 渲染完整的可打印 HTML 页面，纸张取自文档配置。
func (e *Engine) Page(doc resume.Document, themeID string, mode Mode) ([]byte, error) {
	root, _ := e.RenderByID(doc, themeID, mode)
	return view.Page(root, view.PageOptions{
		Title: PageTitle(doc, mode),
		Lang:  doc.Settings.Locale,
		Paper: view.PaperFor(string(doc.Settings.PaperSize)),
	})
}

// PageTitle 是页面标题，也用作下载文件名的基础。
func PageTitle(d resume.Document, mode Mode) string {
	name := strings.TrimSpace(d.PersonalInfo.FullName)
	if name == "" {
		name = "Resume"
	}
	if mode == ModeCover {
		return name + " - Cover Letter"
	}
	return name
}

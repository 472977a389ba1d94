package view

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Paper 是纸张物理尺寸（毫米）。
type Paper struct {
	Name     string
	WidthMM  float64
	HeightMM float64
}

var (
	PaperA4     = Paper{Name: "A4", WidthMM: 210, HeightMM: 297}
	PaperLetter = Paper{Name: "Letter", WidthMM: 215.9, HeightMM: 279.4}
)

// PaperFor 按名称返回纸张，未知名称为 A4。
func PaperFor(name string) Paper {
	if strings.EqualFold(name, PaperLetter.Name) {
		return PaperLetter
	}
	return PaperA4
}

// PageOptions 控制整页 HTML 的外壳。
type PageOptions struct {
	Title string
	Lang  string
	Paper Paper
}

// Page 将可视树包装为完整 HTML 文档。只使用物理单位，屏幕与打印排版一致。
func Page(body *Node, opts PageOptions) ([]byte, error) {
	if opts.Paper.WidthMM == 0 {
		opts.Paper = PaperA4
	}
	if opts.Lang == "" {
		opts.Lang = "en"
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html, html.Attribute{Key: "lang", Val: opts.Lang})
	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	title := element(atom.Title)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: opts.Title})
	head.AppendChild(title)
	style := element(atom.Style)
	style.AppendChild(&html.Node{Type: html.TextNode, Data: pageCSS(opts.Paper)})
	head.AppendChild(style)

	bodyEl := element(atom.Body)
	if body != nil {
		bodyEl.AppendChild(toHTML(body))
	}
	root.AppendChild(head)
	root.AppendChild(bodyEl)
	doc.AppendChild(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a, Attr: attrs}
}

func pageCSS(p Paper) string {
	w := MM(p.WidthMM)
	h := MM(p.HeightMM)
	var b strings.Builder
	b.WriteString("@page { size: " + w + " " + h + "; margin: 0; }\n")
	b.WriteString("* { box-sizing: border-box; }\n")
	b.WriteString("html, body { margin: 0; padding: 0; }\n")
	b.WriteString("body { -webkit-print-color-adjust: exact; print-color-adjust: exact; }\n")
	b.WriteString("a { color: inherit; text-decoration: none; }\n")
	b.WriteString("h1, h2, h3, p { margin: 0; }\n")
	b.WriteString("@media print { .resume { page-break-after: always; } }\n")
	return b.String()
}

// MM 格式化毫米值。
func MM(v float64) string {
	return num(v) + "mm"
}

// PT 格式化磅值。
func PT(v float64) string {
	return num(v) + "pt"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

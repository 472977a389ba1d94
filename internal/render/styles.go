package render

import (
	"strconv"
	"strings"

	"folio/internal/format"
	"folio/internal/resume"
	"folio/internal/theme"
	"folio/internal/view"
)

// page 给版式根节点加上纸张尺寸、字体、背景纹理、灰度与水印。
func (c *renderCtx) page(body *view.Node, layout string, mode Mode) *view.Node {
	root := view.El("div").
		Class("resume").
		Set("data-layout", layout).
		Set("data-theme", c.theme.ID).
		Set("data-mode", string(mode)).
		Css("position", "relative").
		Css("overflow", "hidden").
		Css("width", view.MM(c.paper.WidthMM)).
		Css("min-height", view.MM(c.paper.HeightMM)).
		Css("font-family", fontStack(c.bodyFont, fontFallback)).
		Css("font-size", c.fontPT(baseFontPT)).
		Css("line-height", strconv.FormatFloat(round2(baseLeading*c.leading), 'f', -1, 64)).
		Css("color", c.text).
		Css("background-color", c.background).
		Css("background-image", c.patternImage()).
		Css("background-size", c.patternSize())
	if c.s.Grayscale {
		root.Css("filter", "grayscale(1)")
	}
	root.Append(c.watermark(), body)
	return root
}

func (c *renderCtx) patternImage() string {
	ink := format.WithAlpha(c.text, 0.06)
	switch c.s.BackgroundPattern {
	case resume.PatternDots:
		return "radial-gradient(" + ink + " 0.3mm, transparent 0.3mm)"
	case resume.PatternGrid:
		return "linear-gradient(" + ink + " 0.2mm, transparent 0.2mm), linear-gradient(90deg, " + ink + " 0.2mm, transparent 0.2mm)"
	}
	return ""
}

func (c *renderCtx) patternSize() string {
	switch c.s.BackgroundPattern {
	case resume.PatternDots:
		return "4mm 4mm"
	case resume.PatternGrid:
		return "6mm 6mm"
	}
	return ""
}

// watermark 以姓名作为斜向水印，没有姓名时不输出。
func (c *renderCtx) watermark() *view.Node {
	name := strings.TrimSpace(c.doc.PersonalInfo.FullName)
	if !c.s.Watermark || name == "" {
		return nil
	}
	return view.El("div", view.Text(strings.ToUpper(name))).
		Set("data-role", "watermark").
		Set("aria-hidden", "true").
		Css("position", "absolute").
		Css("top", view.MM(c.paper.HeightMM/2)).
		Css("left", "0").
		Css("width", "100%").
		Css("text-align", "center").
		Css("transform", "rotate(-30deg)").
		Css("font-size", "48pt").
		Css("font-weight", "800").
		Css("color", format.WithAlpha(c.text, 0.06)).
		Css("pointer-events", "none")
}

// panel 设置主色面板（侧栏、横幅）的底色；glass 开启时改为半透明磨砂。
func (c *renderCtx) panel(n *view.Node, gradient string) *view.Node {
	n.Css("color", c.panelText())
	if c.s.Glass {
		return n.Css("background", format.WithAlpha(c.primary, 0.82)).
			Css("backdrop-filter", "blur(2mm)").
			Css("border", "0.2mm solid rgba(255, 255, 255, 0.25)")
	}
	if gradient != "" {
		return n.Css("background", gradient)
	}
	return n.Css("background", c.primary)
}

// header 渲染姓名与职位。
func (c *renderCtx) header(align string, on surface, nameSize float64) *view.Node {
	p := c.doc.PersonalInfo
	fg := c.text
	if on == onPanel {
		fg = c.panelText()
	}
	h := view.El("header").Set("data-role", "header").Css("text-align", align).Css("color", fg)
	if name := strings.TrimSpace(p.FullName); name != "" {
		h1 := view.El("h1", view.Text(name)).
			Css("font-family", fontStack(c.headerFont, fontFallback)).
			Css("font-size", c.fontPT(nameSize)).
			Css("font-weight", "800").
			Css("line-height", "1.1")
		if c.ov.Title == theme.TitleCenteredSerif {
			h1.Css("font-family", serifFallback).Css("font-weight", "400").Css("letter-spacing", "0.06em")
		}
		h.Append(h1)
	}
	if title := strings.TrimSpace(p.Title); title != "" {
		tc := c.primary
		if on == onPanel || c.ov.Dark {
			tc = fg
		}
		h.Append(view.El("p", view.Text(title)).
			Set("data-role", "job-title").
			Css("font-size", c.fontPT(12)).
			Css("color", tc).
			Css("margin-top", "1mm"))
	}
	if len(h.Children) == 0 {
		return nil
	}
	return h
}

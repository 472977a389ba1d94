package render

import (
	"folio/internal/format"
	"folio/internal/theme"
	"folio/internal/view"
)

// singleColumnLayout: 页眉 + 按 sectionOrder 纵向排列的全部板块。stacked 与之共用，
// 区别只在页眉默认左对齐。
func (c *renderCtx) singleColumnLayout() *view.Node {
	centered := c.ov.HeaderAlign == theme.AlignCenter || c.theme.Layout != theme.LayoutStacked
	align, justify := "left", "flex-start"
	if centered {
		align, justify = "center", "center"
	}

	head := view.El("div").
		Set("data-region", "header").
		Css("display", "flex").
		Css("flex-direction", "column").
		Css("align-items", justify).
		Css("gap", c.gapMM(2)).
		Css("padding-bottom", c.gapMM(5)).
		Css("margin-bottom", c.gapMM(6)).
		Css("border-bottom", "0.4mm solid "+c.ruleColor())
	head.Append(c.photo(28), c.header(align, onPage, 26), c.contactLine(justify))

	body := view.El("main").Set("data-region", "main")
	body.Append(c.blocks(c.order(), onPage)...)

	return view.El("div", head, body).
		Css("padding", c.gapMM(14)+" "+c.gapMM(16))
}

func (c *renderCtx) ruleColor() string {
	return format.WithAlpha(c.primary, 0.25)
}

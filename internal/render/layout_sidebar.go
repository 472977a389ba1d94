package render

import (
	"slices"

	"folio/internal/resume"
	"folio/internal/view"
)

// 侧栏固定承载的紧凑板块。
var sidebarSlot = []resume.Category{
	resume.CategorySkills,
	resume.CategoryLanguages,
	resume.CategoryInterests,
	resume.CategoryAwards,
}

// sidebarLayout: 定宽侧栏（头像、联系方式、紧凑板块）+ 主栏（页眉、简介、其余板块）。
func (c *renderCtx) sidebarLayout(right bool) *view.Node {
	aside := view.El("aside").
		Set("data-region", "sidebar").
		Css("width", view.MM(sidebarWidth)).
		Css("flex-shrink", "0").
		Css("padding", c.gapMM(8)+" "+c.gapMM(6))
	c.panel(aside, "")

	portrait := c.photo(36)
	if portrait == nil {
		portrait = c.initialsBadge(28)
	}
	if portrait != nil {
		aside.Append(view.El("div", portrait).
			Css("display", "flex").
			Css("justify-content", "center").
			Css("margin-bottom", c.gapMM(6)))
	}
	aside.Append(c.contactBlock(onPanel))
	aside.Append(c.blocks(c.pinned(sidebarSlot...), onPanel)...)

	main := view.El("main").
		Set("data-region", "main").
		Css("flex", "1").
		Css("padding", c.gapMM(10)+" "+c.gapMM(9))
	if h := c.header("left", onPage, 26); h != nil {
		main.Append(h.Css("margin-bottom", c.gapMM(7)))
	}
	main.Append(c.block(resume.CategorySummary, onPage))
	main.Append(c.blocks(c.flow(slices.Concat(sidebarSlot, []resume.Category{resume.CategorySummary})...), onPage)...)

	row := view.El("div").
		Css("display", "flex").
		Css("min-height", view.MM(c.paper.HeightMM))
	if right {
		return row.Append(main, aside)
	}
	return row.Append(aside, main)
}

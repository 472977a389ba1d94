package render

import (
	"slices"

	"folio/internal/resume"
	"folio/internal/view"
)

// 网格版式窄栏：简介、技能、教育、语言。
var gridSlot = []resume.Category{
	resume.CategorySummary,
	resume.CategorySkills,
	resume.CategoryEducation,
	resume.CategoryLanguages,
}

// gridLayout: 通栏排版式页眉 + 窄栏/宽栏两栏正文。
func (c *renderCtx) gridLayout() *view.Node {
	head := view.El("div").
		Set("data-region", "header").
		Css("display", "flex").
		Css("justify-content", "space-between").
		Css("align-items", "flex-end").
		Css("gap", c.gapMM(6))
	head.Append(view.El("div", c.header("left", onPage, 34), c.contactLine("flex-start")), c.photo(30))

	rule := c.primary
	if c.theme.Gradient != "" {
		rule = c.theme.Gradient
	}
	bar := view.El("div").
		Set("data-role", "rule").
		Css("height", "1.2mm").
		Css("background", rule).
		Css("margin", c.gapMM(4)+" 0 "+c.gapMM(7)+" 0")

	narrow := view.El("aside").Set("data-region", "side")
	narrow.Append(c.blocks(c.pinned(gridSlot...), onPage)...)

	wide := view.El("main").Set("data-region", "main")
	wide.Append(c.blocks(c.flow(slices.Clone(gridSlot)...), onPage)...)

	grid := view.El("div", narrow, wide).
		Css("display", "grid").
		Css("grid-template-columns", "62mm 1fr").
		Css("gap", c.gapMM(8))
	return view.El("div", head, bar, grid).
		Css("padding", c.gapMM(12)+" "+c.gapMM(14))
}

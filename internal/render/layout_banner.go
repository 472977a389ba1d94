package render

import (
	"slices"

	"folio/internal/resume"
	"folio/internal/theme"
	"folio/internal/view"
)

// 横幅版式窄栏承载的板块。
var bannerSlot = []resume.Category{
	resume.CategoryEducation,
	resume.CategorySkills,
	resume.CategoryLanguages,
	resume.CategoryAwards,
}

// bannerLayout: 通栏横幅（照片、姓名、职位、联系方式）+ 两栏正文。
func (c *renderCtx) bannerLayout() *view.Node {
	centered := c.ov.HeaderAlign == theme.AlignCenter
	align, justify := "left", "flex-start"
	if centered {
		align, justify = "center", "center"
	}

	hero := view.El("div").
		Set("data-region", "hero").
		Css("display", "flex").
		Css("align-items", "center").
		Css("gap", c.gapMM(6)).
		Css("padding", c.gapMM(10)+" "+c.gapMM(12))
	if centered {
		hero.Css("flex-direction", "column")
	}
	c.panel(hero, c.theme.Gradient)

	intro := view.El("div", c.header(align, onPanel, 28), c.contactLine(justify))
	if len(intro.Children) > 1 {
		intro.Children[1].Css("margin-top", c.gapMM(3))
	}
	hero.Append(c.photo(32), intro)

	wide := view.El("main").
		Set("data-region", "main").
		Css("flex", "1.7")
	wide.Append(c.block(resume.CategorySummary, onPage))
	wide.Append(c.blocks(c.flow(slices.Concat(bannerSlot, []resume.Category{resume.CategorySummary})...), onPage)...)

	narrow := view.El("aside").
		Set("data-region", "side").
		Css("flex", "1").
		Css("padding-left", c.gapMM(6)).
		Css("border-left", "0.3mm solid "+c.ruleColor())
	narrow.Append(c.blocks(c.pinned(bannerSlot...), onPage)...)

	body := view.El("div", wide).
		Css("display", "flex").
		Css("gap", c.gapMM(8)).
		Css("padding", c.gapMM(8)+" "+c.gapMM(12))
	if len(narrow.Children) > 0 {
		body.Append(narrow)
	}
	return view.El("div", hero, body)
}

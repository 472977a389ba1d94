package render

import (
	"strings"

	"folio/internal/resume"
	"folio/internal/view"
)

// timelineItem 是各时间线类板块条目的统一形状。
type timelineItem struct {
	title       string
	subtitle    string
	location    string
	dates       string
	description string
	link        string
}

func (t timelineItem) empty() bool {
	return strings.TrimSpace(t.title+t.subtitle+t.location+t.description+t.link) == ""
}

// timeline 把板块条目转换为统一形状；非时间线板块返回 nil。
func (c *renderCtx) timeline(cat resume.Category) []timelineItem {
	d := c.doc
	var out []timelineItem
	switch cat {
	case resume.CategoryExperience:
		for _, e := range d.Experience {
			out = append(out, timelineItem{e.Position, e.Company, e.Location, c.dateRange(e.Period), e.Description, e.Link})
		}
	case resume.CategoryEducation:
		for _, e := range d.Education {
			out = append(out, timelineItem{e.Degree, e.Institution, e.Location, c.dateRange(e.Period), e.Description, ""})
		}
	case resume.CategoryProjects:
		for _, e := range d.Projects {
			out = append(out, timelineItem{e.Name, joinNonEmpty(" · ", e.Role, e.Technologies), "", c.dateRange(e.Period), e.Description, e.Link})
		}
	case resume.CategoryVolunteer:
		for _, e := range d.Volunteer {
			out = append(out, timelineItem{e.Role, e.Organization, e.Location, c.dateRange(e.Period), e.Description, ""})
		}
	case resume.CategoryCertifications:
		for _, e := range d.Certifications {
			out = append(out, timelineItem{e.Name, e.Issuer, "", c.date(e.Date), "", e.Link})
		}
	case resume.CategoryAwards:
		for _, e := range d.Awards {
			out = append(out, timelineItem{e.Title, e.Issuer, "", c.date(e.Date), e.Description, ""})
		}
	case resume.CategoryPublications:
		for _, e := range d.Publications {
			out = append(out, timelineItem{e.Title, e.Publisher, "", c.date(e.Date), e.Description, e.Link})
		}
	case resume.CategoryReferences:
		for _, e := range d.References {
			out = append(out, timelineItem{e.Name, joinNonEmpty(", ", e.Position, e.Company), joinNonEmpty(" · ", e.Email, e.Phone), "", e.Note, ""})
		}
	}
	return out
}

// entry 渲染单个条目：标题行（可选右对齐日期）、副标题与地点、描述、链接。
func (c *renderCtx) entry(it timelineItem, on surface) *view.Node {
	if it.empty() {
		return nil
	}
	fg := c.text
	if on == onPanel {
		fg = c.panelText()
	}

	head := view.El("div").
		Css("display", "flex").
		Css("justify-content", "space-between").
		Css("gap", "2mm")
	if t := strings.TrimSpace(it.title); t != "" {
		head.Append(view.El("span", view.Text(t)).
			Set("data-role", "entry-title").
			Css("font-weight", "700").
			Css("font-size", c.fontPT(10.5)))
	}
	if c.s.ShowDuration && it.dates != "" {
		head.Append(view.El("span", view.Text(it.dates)).
			Set("data-role", "entry-date").
			Css("white-space", "nowrap").
			Css("font-size", c.fontPT(9)).
			Css("opacity", "0.75"))
	}

	n := view.El("div").Set("data-role", "entry").
		Css("margin-bottom", c.gapMM(3)).
		Css("color", fg)
	if len(head.Children) > 0 {
		n.Append(head)
	}
	if sub := joinNonEmpty(" · ", it.subtitle, it.location); sub != "" {
		n.Append(view.El("div", view.Text(sub)).
			Set("data-role", "entry-subtitle").
			Css("font-size", c.fontPT(9.5)).
			Css("color", c.secondaryOn(on)))
	}
	if desc := c.markup(it.description); desc != nil {
		n.Append(desc.Css("margin-top", "1mm").Css("font-size", c.fontPT(9.5)))
	}
	if l := link(it.link); l != nil {
		n.Append(view.El("div", l).Set("data-role", "entry-link").Css("font-size", c.fontPT(8.5)))
	}
	return n
}

func (c *renderCtx) secondaryOn(on surface) string {
	if on == onPanel || c.ov.Dark {
		return c.panelTextOn(on)
	}
	return c.secondary
}

// block 渲染一个板块；隐藏或为空时返回 nil，绝不输出空标题。
func (c *renderCtx) block(cat resume.Category, on surface) *view.Node {
	if !c.shows(cat) {
		return nil
	}
	switch cat {
	case resume.CategorySummary:
		body := c.markup(c.doc.PersonalInfo.Summary)
		if body == nil {
			return nil
		}
		return c.section(cat, c.label(cat), on, body.Css("font-size", c.fontPT(10)))
	case resume.CategorySkills:
		return c.wrap(cat, on, c.skills(on))
	case resume.CategoryLanguages:
		return c.wrap(cat, on, c.tags(c.doc.Languages, on))
	case resume.CategoryInterests:
		return c.wrap(cat, on, c.tags(c.doc.Interests, on))
	case resume.CategoryCustom:
		return c.custom(on)
	}

	var items []*view.Node
	for _, it := range c.timeline(cat) {
		items = append(items, c.entry(it, on))
	}
	return c.wrap(cat, on, items...)
}

// wrap 在内容非空时加上标题。
func (c *renderCtx) wrap(cat resume.Category, on surface, body ...*view.Node) *view.Node {
	var kept []*view.Node
	for _, b := range body {
		if b != nil {
			kept = append(kept, b)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return c.section(cat, c.label(cat), on, kept...)
}

// custom 每个自定义板块单独成节，标题取用户命名。
func (c *renderCtx) custom(on surface) *view.Node {
	group := view.El("div").Set("data-section", string(resume.CategoryCustom))
	for _, cs := range c.doc.CustomSections {
		var items []*view.Node
		for _, it := range cs.Items {
			items = append(items, c.entry(timelineItem{it.Title, it.Subtitle, "", c.date(it.Date), it.Description, it.Link}, on))
		}
		title := strings.TrimSpace(cs.Title)
		if title == "" {
			title = c.label(resume.CategoryCustom)
		}
		var kept []*view.Node
		for _, n := range items {
			if n != nil {
				kept = append(kept, n)
			}
		}
		if len(kept) == 0 {
			continue
		}
		group.Append(c.section(resume.CategoryCustom, title, on, kept...).Set("data-custom-id", cs.ID))
	}
	if len(group.Children) == 0 {
		return nil
	}
	return group
}

// blocks 依次渲染多个板块，跳过空结果。
func (c *renderCtx) blocks(cats []resume.Category, on surface) []*view.Node {
	var out []*view.Node
	for _, cat := range cats {
		if n := c.block(cat, on); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

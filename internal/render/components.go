package render

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"folio/internal/format"
	"folio/internal/resume"
	"folio/internal/theme"
	"folio/internal/view"
)

// surface 描述组件所在的底色，决定文字与标签的配色。
type surface int

const (
	onPage  surface = iota // 页面背景
	onPanel                // 主色面板（侧栏、横幅）
)

// sectionTitle 渲染板块标题。主题覆盖表中的样式优先于 headerStyle。
func (c *renderCtx) sectionTitle(text string, on surface) *view.Node {
	h := view.El("h2", view.Text(text)).
		Set("data-role", "section-title").
		Css("font-family", fontStack(c.headerFont, fontFallback)).
		Css("font-size", c.fontPT(11.5)).
		Css("font-weight", "700").
		Css("margin", "0 0 "+c.gapMM(2.5)+" 0")

	fg := c.primary
	if on == onPanel || c.ov.Dark {
		fg = c.panelTextOn(on)
	}

	switch c.ov.Title {
	case theme.TitleDoubleRule:
		return h.Css("text-transform", "uppercase").
			Css("letter-spacing", "0.08em").
			Css("color", fg).
			Css("border-top", "0.8mm double "+fg).
			Css("border-bottom", "0.8mm double "+fg).
			Css("padding", "1mm 0")
	case theme.TitleCenteredSerif:
		return h.Css("font-family", serifFallback).
			Css("font-weight", "400").
			Css("text-align", "center").
			Css("letter-spacing", "0.12em").
			Css("color", fg)
	}

	switch c.s.HeaderStyle {
	case resume.HeaderBoxed:
		return h.Css("background", c.primary).
			Css("color", c.contrast.ContrastColor(c.primary)).
			Css("padding", "1mm 2mm")
	case resume.HeaderLeftBar:
		return h.Css("color", fg).
			Css("border-left", "1mm solid "+c.accent).
			Css("padding-left", "2mm")
	case resume.HeaderGradient:
		return h.Css("background", "linear-gradient(90deg, "+c.primary+", "+c.secondary+")").
			Css("color", c.contrast.ContrastColor(c.primary)).
			Css("padding", "1mm 2mm")
	case resume.HeaderPlain:
		return h.Css("color", fg)
	default:
		return h.Css("color", fg).
			Css("border-bottom", "0.4mm solid "+format.WithAlpha(c.primary, 0.4)).
			Css("padding-bottom", "1mm")
	}
}

func (c *renderCtx) panelTextOn(on surface) string {
	if on == onPanel {
		return c.panelText()
	}
	return c.text
}

// section 用统一结构包裹板块内容。
func (c *renderCtx) section(cat resume.Category, title string, on surface, body ...*view.Node) *view.Node {
	s := view.El("section", c.sectionTitle(title, on)).
		Set("data-section", string(cat)).
		Css("margin-bottom", c.gapMM(baseGapMM))
	return s.Append(body...)
}

// markup 把自由文本渲染为段落与项目符号行，空行被跳过。
func (c *renderCtx) markup(text string) *view.Node {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	box := view.El("div").Set("data-role", "markup")
	for line := range format.Lines(text) {
		if line.Empty() {
			continue
		}
		row := view.El("div")
		if line.Bullet {
			row.Class("bullet").
				Css("display", "flex").
				Css("gap", "1.5mm").
				Append(view.El("span", view.Text("•")).Css("color", c.primary))
			row.Append(view.El("span", spans(line.Spans)...))
		} else {
			row.Append(spans(line.Spans)...)
		}
		box.Append(row)
	}
	if len(box.Children) == 0 {
		return nil
	}
	return box
}

func spans(in []format.Span) []*view.Node {
	out := make([]*view.Node, 0, len(in))
	for _, s := range in {
		switch s.Kind {
		case format.SpanStrong:
			out = append(out, view.El("strong", view.Text(s.Text)))
		case format.SpanEmphasis:
			out = append(out, view.El("em", view.Text(s.Text)))
		default:
			out = append(out, view.Text(s.Text))
		}
	}
	return out
}

// link 渲染经过清洗的链接；无法清洗的值作为纯文本输出。
func link(raw string) *view.Node {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	href := format.SanitizeLink(raw)
	if href == "" {
		return view.El("span", view.Text(raw))
	}
	return view.El("a", view.Text(format.DisplayLink(href))).Set("href", href)
}

type contactItem struct {
	kind    string
	value   string
	private bool
	linked  bool
}

func (c *renderCtx) contactItems() []contactItem {
	p := c.doc.PersonalInfo
	items := []contactItem{
		{kind: "email", value: p.Email, private: true, linked: true},
		{kind: "phone", value: p.Phone, private: true},
		{kind: "address", value: p.Address, private: true},
		{kind: "linkedin", value: p.LinkedIn, linked: true},
		{kind: "github", value: p.GitHub, linked: true},
		{kind: "website", value: p.Website, linked: true},
		{kind: "twitter", value: p.Twitter, linked: true},
		{kind: "portfolio", value: p.Portfolio, linked: true},
	}
	out := items[:0]
	for _, it := range items {
		if it.value = strings.TrimSpace(it.value); it.value != "" {
			out = append(out, it)
		}
	}
	return out
}

func (c *renderCtx) contactEntry(it contactItem) *view.Node {
	var value *view.Node
	if it.linked {
		value = link(it.value)
	} else {
		value = view.El("span", view.Text(it.value))
	}
	n := view.El("span", value).Set("data-contact", it.kind)
	if it.private && c.s.PrivacyBlur {
		n.Set("data-private", "true").Css("filter", "blur(1mm)")
	}
	return n
}

// contactLine 横向排列的联系方式（页眉、横幅使用）。
func (c *renderCtx) contactLine(align string) *view.Node {
	items := c.contactItems()
	if len(items) == 0 {
		return nil
	}
	line := view.El("div").Set("data-role", "contact").
		Css("display", "flex").
		Css("flex-wrap", "wrap").
		Css("gap", "1mm 4mm").
		Css("font-size", c.fontPT(9)).
		Css("justify-content", align)
	for _, it := range items {
		line.Append(c.contactEntry(it))
	}
	return line
}

// contactBlock 纵向排列的联系方式（侧栏使用）。
func (c *renderCtx) contactBlock(on surface) *view.Node {
	items := c.contactItems()
	if len(items) == 0 {
		return nil
	}
	list := view.El("div").Set("data-role", "contact").
		Css("display", "flex").
		Css("flex-direction", "column").
		Css("gap", "1.5mm").
		Css("font-size", c.fontPT(9)).
		Css("word-break", "break-word")
	for _, it := range items {
		list.Append(c.contactEntry(it))
	}
	return view.El("section", c.sectionTitle(c.loc.Label("contact"), on), list).
		Set("data-section", "contact").
		Css("margin-bottom", c.gapMM(baseGapMM))
}

// photo 没有照片时不输出任何内容。
func (c *renderCtx) photo(sizeMM float64) *view.Node {
	src := strings.TrimSpace(c.doc.PersonalInfo.Photo)
	if !isImageSource(src) {
		return nil
	}
	img := view.El("img").
		Set("src", src).
		Set("alt", strings.TrimSpace(c.doc.PersonalInfo.FullName)).
		Set("data-role", "photo").
		Css("width", view.MM(sizeMM)).
		Css("height", view.MM(sizeMM)).
		Css("object-fit", "cover").
		Css("border-radius", c.photoRadius()).
		Css("border", c.ov.PhotoFrame)
	return img
}

func (c *renderCtx) photoRadius() string {
	switch c.s.PhotoShape {
	case resume.PhotoSquare:
		return "0"
	case resume.PhotoRounded:
		return "3mm"
	default:
		return "50%"
	}
}

func isImageSource(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "data:image/") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "http://")
}

// initialsBadge 是侧栏在没有照片时的替代图标。
func (c *renderCtx) initialsBadge(sizeMM float64) *view.Node {
	initials := initialsOf(c.doc.PersonalInfo.FullName)
	if initials == "" {
		return nil
	}
	return view.El("div", view.Text(initials)).
		Set("data-role", "initials").
		Css("width", view.MM(sizeMM)).
		Css("height", view.MM(sizeMM)).
		Css("border-radius", c.photoRadius()).
		Css("display", "flex").
		Css("align-items", "center").
		Css("justify-content", "center").
		Css("font-size", c.fontPT(20)).
		Css("font-weight", "700").
		Css("background", format.WithAlpha(c.panelText(), 0.15)).
		Css("color", c.panelText())
}

func initialsOf(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(w)
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
		if utf8.RuneCountInString(b.String()) == 2 {
			break
		}
	}
	return b.String()
}

// pill 渲染单个标签。深色主题使用半透明白色；过浅的点缀色改用中性底色。
func (c *renderCtx) pill(text string, on surface) *view.Node {
	n := view.El("span", view.Text(text)).
		Set("data-role", "pill").
		Css("display", "inline-block").
		Css("padding", "0.6mm 2mm").
		Css("margin", "0 1.5mm 1.5mm 0").
		Css("border-radius", "2mm").
		Css("font-size", c.fontPT(8.5))

	switch {
	case c.ov.Dark || (on == onPanel && c.panelIsDark()):
		return n.Css("background", "rgba(255, 255, 255, 0.15)").
			Css("color", "#ffffff").
			Css("border", "0.2mm solid rgba(255, 255, 255, 0.3)")
	case on == onPanel:
		return n.Css("background", "rgba(15, 23, 42, 0.08)").
			Css("color", c.contrast.DarkText).
			Css("border", "0.2mm solid rgba(15, 23, 42, 0.2)")
	case c.contrast.IsTooLight(c.accent):
		return n.Css("background", neutralPill).
			Css("color", c.contrast.ContrastColor(neutralPill)).
			Css("border", "0.2mm solid #e2e8f0")
	default:
		return n.Css("background", format.WithAlpha(c.accent, 0.12)).
			Css("color", c.accent).
			Css("border", "0.2mm solid "+format.WithAlpha(c.accent, 0.35))
	}
}

const neutralPill = "#f1f5f9"

// tags 渲染标签列表；hidden 样式退化为逗号分隔文本。
func (c *renderCtx) tags(names []string, on surface) *view.Node {
	names = nonBlank(names)
	if len(names) == 0 {
		return nil
	}
	if c.s.SkillStyle == resume.SkillHidden {
		return view.El("p", view.Text(strings.Join(names, ", "))).Set("data-role", "tag-text")
	}
	box := view.El("div").Set("data-role", "tags")
	for _, name := range names {
		box.Append(c.pill(name, on))
	}
	return box
}

// skills 按 skillStyle 渲染技能。tags 样式不使用等级。
func (c *renderCtx) skills(on surface) *view.Node {
	var list []resume.Skill
	for _, s := range c.doc.Skills {
		if strings.TrimSpace(s.Name) != "" {
			list = append(list, s)
		}
	}
	if len(list) == 0 {
		return nil
	}

	switch c.s.SkillStyle {
	case resume.SkillBar:
		box := view.El("div").Set("data-role", "skill-bars")
		for _, s := range list {
			box.Append(c.skillBar(s, on))
		}
		return box
	case resume.SkillDots, resume.SkillCircles:
		box := view.El("div").Set("data-role", "skill-dots")
		for _, s := range list {
			box.Append(c.skillDots(s, on))
		}
		return box
	default:
		names := make([]string, 0, len(list))
		for _, s := range list {
			names = append(names, strings.TrimSpace(s.Name))
		}
		return c.tags(names, on)
	}
}

func level(l int) int {
	if l == 0 {
		return 3
	}
	return min(max(l, 1), 5)
}

func (c *renderCtx) skillColors(on surface) (fill, track string) {
	if on == onPanel || c.ov.Dark {
		fg := c.panelTextOn(on)
		if c.ov.Dark {
			fg = "#ffffff"
		}
		return fg, format.WithAlpha(fg, 0.25)
	}
	return c.primary, format.WithAlpha(c.primary, 0.18)
}

func (c *renderCtx) skillBar(s resume.Skill, on surface) *view.Node {
	fill, track := c.skillColors(on)
	pct := strconv.Itoa(level(s.Level)*20) + "%"
	bar := view.El("div",
		view.El("div").Css("width", pct).Css("height", "100%").Css("background", fill).Css("border-radius", "0.75mm"),
	).Css("width", "100%").Css("height", "1.5mm").Css("background", track).Css("border-radius", "0.75mm")
	return view.El("div",
		view.El("div", view.Text(strings.TrimSpace(s.Name))).Css("font-size", c.fontPT(9)),
		bar,
	).Set("data-role", "skill").Set("data-level", strconv.Itoa(level(s.Level))).Css("margin-bottom", "2mm")
}

func (c *renderCtx) skillDots(s resume.Skill, on surface) *view.Node {
	fill, track := c.skillColors(on)
	lv := level(s.Level)
	radius := "50%"
	size := "2mm"
	if c.s.SkillStyle == resume.SkillCircles {
		size = "3mm"
	}
	dots := view.El("span").Css("display", "flex").Css("gap", "1mm")
	for i := 1; i <= 5; i++ {
		d := view.El("span").
			Css("display", "inline-block").
			Css("width", size).
			Css("height", size).
			Css("border-radius", radius)
		if c.s.SkillStyle == resume.SkillCircles {
			d.Css("border", "0.3mm solid "+fill)
		}
		if i <= lv {
			d.Set("data-filled", "true").Css("background", fill)
		} else {
			d.Css("background", track)
		}
		dots.Append(d)
	}
	return view.El("div",
		view.El("span", view.Text(strings.TrimSpace(s.Name))).Css("font-size", c.fontPT(9)),
		dots,
	).Set("data-role", "skill").Set("data-level", strconv.Itoa(lv)).
		Css("display", "flex").
		Css("justify-content", "space-between").
		Css("align-items", "center").
		Css("margin-bottom", "1.5mm")
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

package render

import (
	"cmp"
	"slices"
	"strings"

	"folio/internal/format"
	"folio/internal/resume"
	"folio/internal/theme"
	"folio/internal/view"
)

const (
	defaultHeaderFont = "Inter"
	defaultBodyFont   = "Inter"
	fontFallback      = "Helvetica, Arial, sans-serif"
	serifFallback     = "Georgia, 'Times New Roman', serif"

	baseFontPT   = 10
	baseGapMM    = 5
	baseLeading  = 1.45
	sidebarWidth = 68
)

// renderCtx 汇总单次渲染中所有派生值，版式函数只读取它。
type renderCtx struct {
	doc      resume.Document
	theme    theme.Theme
	ov       theme.Overrides
	s        resume.Settings
	loc      format.Locale
	contrast format.ContrastRule
	paper    view.Paper

	primary    string
	secondary  string
	accent     string
	text       string
	background string
	headerFont string
	bodyFont   string
	fontScale  float64
	spacing    float64
	leading    float64
}

func newContext(doc resume.Document, t theme.Theme, ov theme.Overrides, s resume.Settings, rule format.ContrastRule) *renderCtx {
	c := &renderCtx{
		doc:      doc,
		theme:    t,
		ov:       ov,
		s:        s,
		loc:      format.LookupLocale(s.Locale),
		contrast: rule,
		paper:    view.PaperFor(string(s.PaperSize)),
	}

	c.primary = colorOr(s.PrimaryColor, colorOr(t.Colors.Primary, "#334155"))
	c.secondary = colorOr(t.Colors.Secondary, c.primary)
	// 用户自定义主色同时覆盖点缀色。
	c.accent = colorOr(s.PrimaryColor, colorOr(t.Colors.Accent, c.primary))
	c.text = colorOr(t.Colors.Text, "#0f172a")
	c.background = colorOr(t.Colors.Background, "#ffffff")

	c.headerFont, c.bodyFont = defaultHeaderFont, defaultBodyFont
	if t.Fonts != nil {
		c.headerFont = cmp.Or(t.Fonts.Header, c.headerFont)
		c.bodyFont = cmp.Or(t.Fonts.Body, c.bodyFont)
	}
	c.headerFont = cmp.Or(strings.TrimSpace(s.HeaderFont), c.headerFont)
	c.bodyFont = cmp.Or(strings.TrimSpace(s.BodyFont), c.bodyFont)

	c.fontScale = positive(s.FontScale)
	c.spacing = positive(s.SpacingScale)
	c.leading = positive(s.LineHeight)
	return c
}

func colorOr(hex, fallback string) string {
	if n, ok := format.NormalizeHex(hex); ok {
		return n
	}
	return fallback
}

// positive 把零值或异常的倍率视为 1，并限制在合理区间内。
func positive(v float64) float64 {
	if v <= 0 || v != v {
		return 1
	}
	return min(max(v, 0.5), 2)
}

func (c *renderCtx) fontPT(base float64) string {
	return view.PT(round2(base * c.fontScale))
}

func (c *renderCtx) gapMM(base float64) string {
	return view.MM(round2(base * c.spacing))
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func fontStack(name, fallback string) string {
	if strings.ContainsAny(name, ",") {
		return name
	}
	return "'" + name + "', " + fallback
}

func (c *renderCtx) label(cat resume.Category) string {
	return c.loc.Label(string(cat))
}

func (c *renderCtx) dateRange(p resume.Period) string {
	return format.FormatRange(p.StartDate, p.EndDate, p.Current, c.s.DateFormat, c.loc)
}

func (c *renderCtx) date(raw string) string {
	return format.FormatDate(raw, c.s.DateFormat, c.loc)
}

// shows 判断板块是否应渲染：可见且有内容。
func (c *renderCtx) shows(cat resume.Category) bool {
	return c.s.IsVisible(cat) && c.doc.Len(cat) > 0
}

// order 返回 sectionOrder 中已知且不重复的板块；为空时使用默认顺序。
func (c *renderCtx) order() []resume.Category {
	src := c.s.SectionOrder
	if len(src) == 0 {
		src = resume.AllCategories
	}
	out := make([]resume.Category, 0, len(src))
	for _, cat := range src {
		if cat.Known() && !slices.Contains(out, cat) {
			out = append(out, cat)
		}
	}
	return out
}

// flow 返回非固定槽位的板块，按 sectionOrder 排列。
func (c *renderCtx) flow(pinned ...resume.Category) []resume.Category {
	var out []resume.Category
	for _, cat := range c.order() {
		if !slices.Contains(pinned, cat) {
			out = append(out, cat)
		}
	}
	return out
}

// pinned 返回固定槽位中的板块；sectionOrder 中出现的按其相对顺序，其余按声明顺序排在后面。
func (c *renderCtx) pinned(slot ...resume.Category) []resume.Category {
	order := c.order()
	rank := func(cat resume.Category) int {
		if i := slices.Index(order, cat); i >= 0 {
			return i
		}
		return len(order) + slices.Index(slot, cat)
	}
	out := slices.Clone(slot)
	slices.SortStableFunc(out, func(a, b resume.Category) int {
		return cmp.Compare(rank(a), rank(b))
	})
	return out
}

// panelText 返回以主色为底时的文字颜色。
func (c *renderCtx) panelText() string {
	return c.contrast.ContrastColor(c.primary)
}

func (c *renderCtx) panelIsDark() bool {
	return c.panelText() == c.contrast.LightText
}

// Package theme 提供只读的主题目录以及按主题 ID 查表的视觉覆盖规则。
package theme

// Layout 是主题声明的版式族。
type Layout string

const (
	LayoutSidebarLeft  Layout = "sidebar-left"
	LayoutSidebarRight Layout = "sidebar-right"
	LayoutStacked      Layout = "stacked"
	LayoutBanner       Layout = "banner"
	LayoutSingleColumn Layout = "single-column"
	LayoutGridComplex  Layout = "grid-complex"
)

// Palette 是主题配色，全部为十六进制颜色。
type Palette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Text       string `json:"text"`
	Background string `json:"background"`
	Accent     string `json:"accent"`
}

// FontPairing 是主题推荐的字体组合。
type FontPairing struct {
	Header string `json:"header"`
	Body   string `json:"body"`
}

// Theme 是不可变的主题描述。
type Theme struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Colors   Palette      `json:"colors"`
	Layout   Layout       `json:"layout"`
	Fonts    *FontPairing `json:"fonts,omitempty"`
	Gradient string       `json:"gradient,omitempty"`
}

// TitleTreatment 是主题强制使用的板块标题样式。
type TitleTreatment string

const (
	TitleGeneric       TitleTreatment = ""
	TitleDoubleRule    TitleTreatment = "double-rule"
	TitleCenteredSerif TitleTreatment = "centered-serif"
)

// HeaderAlign 控制页眉对齐方式。
type HeaderAlign string

const (
	AlignStart  HeaderAlign = ""
	AlignCenter HeaderAlign = "center"
)

// Overrides 是单个主题对通用渲染规则的声明式覆盖。
// 渲染流程只通过这张表识别主题身份，不在版式代码里比较主题 ID。
type Overrides struct {
	Title       TitleTreatment
	HeaderAlign HeaderAlign
	PhotoFrame  string
	Dark        bool
}

// Package resume 定义简历文档模型，以及导入合并、导出、纯文本投影等文档级操作。
package resume

// Document 是编辑器中的完整简历。所有列表字段在合并后保证非 nil。
type Document struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	CoverLetter    CoverLetter     `json:"coverLetter"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
	Volunteer      []Volunteer     `json:"volunteer"`
	Awards         []Award         `json:"awards"`
	References     []Reference     `json:"references"`
	Publications   []Publication   `json:"publications"`
	CustomSections []CustomSection `json:"customSections"`
	Skills         []Skill         `json:"skills"`
	Languages      []string        `json:"languages"`
	Interests      []string        `json:"interests"`
	Settings       Settings        `json:"settings"`
}

// PersonalInfo 是身份与联系方式。Photo 为内嵌图片（data URI）或已上传照片的对象 key。
type PersonalInfo struct {
	FullName  string `json:"fullName"`
	Title     string `json:"title"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	Website   string `json:"website"`
	Twitter   string `json:"twitter"`
	Portfolio string `json:"portfolio"`
	Photo     string `json:"photo"`
	Summary   string `json:"summary"`
}

// CoverLetter 是求职信内容。
type CoverLetter struct {
	RecipientName string `json:"recipientName"`
	Company       string `json:"company"`
	JobTitle      string `json:"jobTitle"`
	Body          string `json:"body"`
}

// Period 是有时间范围的条目共用字段；Current 为 true 时不展示 EndDate。
type Period struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Current   bool   `json:"current"`
}

type Experience struct {
	ID          string `json:"id"`
	Position    string `json:"position"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Period
}

type Education struct {
	ID          string `json:"id"`
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Period
}

type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Technologies string `json:"technologies"`
	Description  string `json:"description"`
	Link         string `json:"link"`
	Period
}

type Certification struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	Link   string `json:"link"`
}

type Volunteer struct {
	ID           string `json:"id"`
	Role         string `json:"role"`
	Organization string `json:"organization"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Period
}

type Award struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type Reference struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Company  string `json:"company"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Note     string `json:"note"`
}

type Publication struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Publisher   string `json:"publisher"`
	Date        string `json:"date"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// CustomSection 是用户自命名的板块。
type CustomSection struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Items []CustomItem `json:"items"`
}

type CustomItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// Skill 的 Level 取值 1–5。
type Skill struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Settings 是渲染配置。
type Settings struct {
	FontScale         float64         `json:"fontScale"`
	SpacingScale      float64         `json:"spacingScale"`
	LineHeight        float64         `json:"lineHeight"`
	PrimaryColor      string          `json:"primaryColor"`
	SectionOrder      []Category      `json:"sectionOrder"`
	VisibleSections   map[string]bool `json:"visibleSections"`
	PaperSize         PaperSize       `json:"paperSize"`
	DateFormat        string          `json:"dateFormat"`
	HeaderFont        string          `json:"headerFont"`
	BodyFont          string          `json:"bodyFont"`
	HeaderStyle       HeaderStyle     `json:"headerStyle"`
	PhotoShape        PhotoShape      `json:"photoShape"`
	SkillStyle        SkillStyle      `json:"skillStyle"`
	BackgroundPattern Pattern         `json:"backgroundPattern"`
	Grayscale         bool            `json:"grayscale"`
	Watermark         bool            `json:"watermark"`
	Glass             bool            `json:"glass"`
	PrivacyBlur       bool            `json:"privacyBlur"`
	ShowDuration      bool            `json:"showDuration"`
	Locale            string          `json:"locale"`
}

// IsVisible 缺省键视为可见，仅显式 false 隐藏。
func (s Settings) IsVisible(c Category) bool {
	v, ok := s.VisibleSections[string(c)]
	return !ok || v
}

type PaperSize string

const (
	PaperA4     PaperSize = "A4"
	PaperLetter PaperSize = "Letter"
)

type HeaderStyle string

const (
	HeaderPlain     HeaderStyle = "plain"
	HeaderUnderline HeaderStyle = "underline"
	HeaderBoxed     HeaderStyle = "boxed"
	HeaderLeftBar   HeaderStyle = "left-bar"
	HeaderGradient  HeaderStyle = "gradient"
)

type PhotoShape string

const (
	PhotoSquare  PhotoShape = "square"
	PhotoRounded PhotoShape = "rounded"
	PhotoCircle  PhotoShape = "circle"
)

type SkillStyle string

const (
	SkillTags    SkillStyle = "tags"
	SkillBar     SkillStyle = "bar"
	SkillDots    SkillStyle = "dots"
	SkillCircles SkillStyle = "circles"
	SkillHidden  SkillStyle = "hidden"
)

type Pattern string

const (
	PatternNone Pattern = "none"
	PatternDots Pattern = "dots"
	PatternGrid Pattern = "grid"
)

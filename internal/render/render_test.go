package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/resume"
	"folio/internal/theme"
	"folio/internal/view"
)

var modes = []Mode{ModeResume, ModeCover}

func sections(n *view.Node, cat resume.Category) []*view.Node {
	return n.FindAll(view.HasAttr("data-section", string(cat)))
}

func TestRenderIsTotal(t *testing.T) {
	weird := resume.Template()
	weird.Experience = append(weird.Experience, resume.Experience{}, resume.Experience{Period: resume.Period{StartDate: "??", EndDate: "garbage text here"}})
	weird.CustomSections = []resume.CustomSection{{ID: "c1"}, {ID: "c2", Items: []resume.CustomItem{{}}}}
	weird.Skills = append(weird.Skills, resume.Skill{Name: "  "}, resume.Skill{Name: "Odd", Level: 99})
	weird.Settings.FontScale = -3
	weird.Settings.PrimaryColor = "not-a-color"
	weird.Settings.SectionOrder = []resume.Category{"bogus", resume.CategoryExperience, resume.CategoryExperience}
	weird.PersonalInfo.Photo = "javascript:alert(1)"

	docs := map[string]resume.Document{
		"zero":     {},
		"empty":    resume.Empty(),
		"template": resume.Template(),
		"weird":    weird,
	}
	engine := NewEngine(nil)
	for name, doc := range docs {
		for _, th := range theme.Default().All() {
			for _, mode := range modes {
				for _, style := range []resume.SkillStyle{resume.SkillTags, resume.SkillBar, resume.SkillDots, resume.SkillCircles, resume.SkillHidden} {
					s := doc.Settings
					s.SkillStyle = style
					var root *view.Node
					require.NotPanics(t, func() { root = engine.Render(doc, th, s, mode) }, "%s/%s/%s", name, th.ID, mode)
					require.NotNil(t, root)
					assert.NotEmpty(t, view.String(root))
				}
			}
		}
	}
}

func TestEmptyDocumentHasNoSectionTitles(t *testing.T) {
	engine := NewEngine(nil)
	for _, th := range theme.Default().All() {
		root := engine.Render(resume.Empty(), th, resume.DefaultSettings(), ModeResume)
		assert.Empty(t, root.FindAll(view.HasAttr("data-role", "section-title")), th.ID)
	}
}

func TestHiddenSectionsAreNotRendered(t *testing.T) {
	engine := NewEngine(nil)
	doc := resume.Template()
	for _, cat := range resume.AllCategories {
		s := doc.Settings
		s.VisibleSections = map[string]bool{string(cat): false}
		for _, th := range theme.Default().All() {
			root := engine.Render(doc, th, s, ModeResume)
			assert.Empty(t, sections(root, cat), "%s in %s", cat, th.ID)
		}
	}

	s := doc.Settings
	s.VisibleSections = map[string]bool{"experience": false}
	out := view.String(engine.Render(doc, theme.Default().All()[0], s, ModeResume))
	assert.NotContains(t, out, "Globex")
	assert.NotContains(t, out, "Experience")
}

func TestVisibleSectionsRenderInEveryLayout(t *testing.T) {
	engine := NewEngine(nil)
	doc := resume.Template()
	for _, th := range theme.Default().All() {
		root := engine.Render(doc, th, doc.Settings, ModeResume)
		for _, cat := range []resume.Category{resume.CategorySummary, resume.CategoryExperience, resume.CategorySkills, resume.CategoryEducation} {
			assert.NotEmpty(t, sections(root, cat), "%s in %s", cat, th.ID)
		}
	}
}

func TestCurrentEntryNeverShowsEndDate(t *testing.T) {
	doc := resume.Empty()
	doc.PersonalInfo.FullName = "Ana"
	doc.Experience = []resume.Experience{{
		ID:       "e1",
		Position: "Engineer",
		Company:  "Acme",
		Period:   resume.Period{StartDate: "2018-03", EndDate: "2020-01", Current: true},
	}}
	doc.Settings.ShowDuration = true

	engine := NewEngine(nil)
	for _, th := range theme.Default().All() {
		out := view.String(engine.Render(doc, th, doc.Settings, ModeResume))
		assert.Contains(t, out, "Mar 2018 – Present", th.ID)
		assert.NotContains(t, out, "2020", th.ID)
	}

	doc.Settings.Locale = "pt"
	out := view.String(engine.Render(doc, theme.Default().All()[0], doc.Settings, ModeResume))
	assert.Contains(t, out, "Atual")
}

func TestShowDurationOffOmitsDates(t *testing.T) {
	doc := resume.Template()
	doc.Settings.ShowDuration = false
	root := NewEngine(nil).Render(doc, theme.Default().All()[0], doc.Settings, ModeResume)
	assert.Empty(t, root.FindAll(view.HasAttr("data-role", "entry-date")))
	assert.NotEmpty(t, root.FindAll(view.HasAttr("data-role", "entry-title")))
}

func TestUnknownThemeFallsBackToFirst(t *testing.T) {
	engine := NewEngine(nil)
	doc := resume.Template()
	root, th := engine.RenderByID(doc, "does-not-exist", ModeResume)
	first := theme.Default().All()[0]
	assert.Equal(t, first.ID, th.ID)
	assert.Equal(t, view.String(engine.Render(doc, first, doc.Settings, ModeResume)), view.String(root))
}

func TestRenderIsPureAndDeterministic(t *testing.T) {
	engine := NewEngine(nil)
	doc := resume.Template()
	doc.Settings.SectionOrder = []resume.Category{resume.CategoryProjects, resume.CategoryExperience}
	snapshot := doc.Clone()
	for _, th := range theme.Default().All() {
		for _, mode := range modes {
			a := view.String(engine.Render(doc, th, doc.Settings, mode))
			b := view.String(engine.Render(doc, th, doc.Settings, mode))
			assert.Equal(t, a, b)
		}
	}
	assert.Equal(t, snapshot, doc)
}

func TestSingleColumnFollowsSectionOrder(t *testing.T) {
	engine := NewEngine(nil)
	doc := resume.Template()
	doc.Settings.SectionOrder = []resume.Category{resume.CategoryEducation, resume.CategoryExperience}
	classic, ok := theme.Default().Lookup("classic")
	require.True(t, ok)

	root := engine.Render(doc, classic, doc.Settings, ModeResume)
	var order []string
	root.Walk(func(n *view.Node) bool {
		if n.Tag == "section" {
			order = append(order, n.Attr("data-section"))
		}
		return true
	})
	assert.Equal(t, []string{"education", "experience"}, order)
}

func TestSidebarPinsCompactSections(t *testing.T) {
	engine := NewEngine(nil)
	doc := resume.Template()
	doc.Settings.SectionOrder = []resume.Category{resume.CategoryExperience}
	modern, _ := theme.Default().Lookup("modern")

	root := engine.Render(doc, modern, doc.Settings, ModeResume)
	sidebar := root.FindAll(view.HasAttr("data-region", "sidebar"))
	require.Len(t, sidebar, 1)
	assert.NotEmpty(t, sections(sidebar[0], resume.CategorySkills))
	assert.NotEmpty(t, sections(sidebar[0], resume.CategoryLanguages))
	assert.Empty(t, sections(root, resume.CategoryEducation))
	assert.NotEmpty(t, sections(root, resume.CategorySummary))
}

func TestSidebarShowsInitialsWithoutPhoto(t *testing.T) {
	modern, _ := theme.Default().Lookup("modern")
	root := NewEngine(nil).Render(resume.Template(), modern, resume.DefaultSettings(), ModeResume)
	badges := root.FindAll(view.HasAttr("data-role", "initials"))
	require.Len(t, badges, 1)
	assert.Equal(t, "AS", badges[0].TextContent())
	assert.Empty(t, root.FindAll(view.HasAttr("data-role", "photo")))
}

func TestPhotoShape(t *testing.T) {
	doc := resume.Template()
	doc.PersonalInfo.Photo = "data:image/png;base64,AAAA"
	doc.Settings.PhotoShape = resume.PhotoRounded
	creative, _ := theme.Default().Lookup("creative")
	root := NewEngine(nil).Render(doc, creative, doc.Settings, ModeResume)
	photos := root.FindAll(view.HasAttr("data-role", "photo"))
	require.Len(t, photos, 1)
	assert.Equal(t, "3mm", photos[0].StyleValue("border-radius"))
	assert.Equal(t, "1mm solid #ffffff", photos[0].StyleValue("border"))
}

func TestSkillStyles(t *testing.T) {
	engine := NewEngine(nil)
	classic, _ := theme.Default().Lookup("classic")
	doc := resume.Template()

	s := doc.Settings
	s.SkillStyle = resume.SkillHidden
	root := engine.Render(doc, classic, s, ModeResume)
	assert.Empty(t, root.FindAll(view.HasAttr("data-role", "pill")))
	assert.Contains(t, view.String(root), "Go, PostgreSQL, Kubernetes, Terraform")

	s.SkillStyle = resume.SkillBar
	root = engine.Render(doc, classic, s, ModeResume)
	skills := root.FindAll(view.HasAttr("data-role", "skill"))
	require.Len(t, skills, 4)
	assert.Equal(t, "5", skills[0].Attr("data-level"))

	s.SkillStyle = resume.SkillTags
	s.PrimaryColor = "#fde68a"
	root = engine.Render(doc, classic, s, ModeResume)
	pills := sections(root, resume.CategorySkills)[0].FindAll(view.HasAttr("data-role", "pill"))
	require.Len(t, pills, 4)
	assert.Equal(t, "#f1f5f9", pills[0].StyleValue("background"))
	assert.Equal(t, "#0f172a", pills[0].StyleValue("color"))

	s.PrimaryColor = ""
	midnight, _ := theme.Default().Lookup("midnight")
	root = engine.Render(doc, midnight, s, ModeResume)
	for _, p := range root.FindAll(view.HasAttr("data-role", "pill")) {
		assert.Equal(t, "rgba(255, 255, 255, 0.15)", p.StyleValue("background"))
	}
}

func TestSectionTitleOverrides(t *testing.T) {
	engine := NewEngine(nil)
	doc := resume.Template()
	doc.Settings.HeaderStyle = resume.HeaderBoxed

	bold, _ := theme.Default().Lookup("bold")
	title := engine.Render(doc, bold, doc.Settings, ModeResume).FindAll(view.HasAttr("data-role", "section-title"))[0]
	assert.Contains(t, title.StyleValue("border-top"), "double")
	assert.Empty(t, title.StyleValue("background"))

	elegant, _ := theme.Default().Lookup("elegant")
	title = engine.Render(doc, elegant, doc.Settings, ModeResume).FindAll(view.HasAttr("data-role", "section-title"))[0]
	assert.Equal(t, "center", title.StyleValue("text-align"))

	classic, _ := theme.Default().Lookup("classic")
	title = engine.Render(doc, classic, doc.Settings, ModeResume).FindAll(view.HasAttr("data-role", "section-title"))[0]
	assert.Equal(t, "#1f2937", title.StyleValue("background"))
	assert.Equal(t, "#ffffff", title.StyleValue("color"))
}

func TestAccentFollowsThemeUnlessPrimaryOverridden(t *testing.T) {
	engine := NewEngine(nil)
	classic, _ := theme.Default().Lookup("classic")
	doc := resume.Template()
	doc.Settings.SkillStyle = resume.SkillTags
	doc.Settings.HeaderStyle = resume.HeaderLeftBar
	doc.Settings.PrimaryColor = ""

	root := engine.Render(doc, classic, doc.Settings, ModeResume)
	pills := sections(root, resume.CategorySkills)[0].FindAll(view.HasAttr("data-role", "pill"))
	require.NotEmpty(t, pills)
	assert.Equal(t, "rgba(55, 65, 81, 0.12)", pills[0].StyleValue("background"))
	assert.Equal(t, "#374151", pills[0].StyleValue("color"))
	title := root.FindAll(view.HasAttr("data-role", "section-title"))[0]
	assert.Equal(t, "1mm solid #374151", title.StyleValue("border-left"))

	doc.Settings.PrimaryColor = "#2563eb"
	root = engine.Render(doc, classic, doc.Settings, ModeResume)
	pills = sections(root, resume.CategorySkills)[0].FindAll(view.HasAttr("data-role", "pill"))
	require.NotEmpty(t, pills)
	assert.Equal(t, "rgba(37, 99, 235, 0.12)", pills[0].StyleValue("background"))
	title = root.FindAll(view.HasAttr("data-role", "section-title"))[0]
	assert.Equal(t, "1mm solid #2563eb", title.StyleValue("border-left"))
}

func TestLinksAreSanitized(t *testing.T) {
	doc := resume.Template()
	doc.Experience[0].Link = "javascript:alert(1)"
	doc.Experience[1].Link = "acme.com/jobs"
	out := view.String(NewEngine(nil).Render(doc, theme.Default().All()[0], doc.Settings, ModeResume))
	assert.NotContains(t, out, `href="javascript`)
	assert.Contains(t, out, `href="https://acme.com/jobs"`)
	assert.Contains(t, out, `href="mailto:ana@example.com"`)
}

func TestPrivacyBlurAndWatermark(t *testing.T) {
	doc := resume.Template()
	doc.Settings.PrivacyBlur = true
	doc.Settings.Watermark = true
	doc.Settings.Grayscale = true
	root := NewEngine(nil).Render(doc, theme.Default().All()[0], doc.Settings, ModeResume)

	private := root.FindAll(view.HasAttr("data-private", "true"))
	assert.Len(t, private, 3)
	marks := root.FindAll(view.HasAttr("data-role", "watermark"))
	require.Len(t, marks, 1)
	assert.Equal(t, "ANA SOUZA", marks[0].TextContent())
	assert.Equal(t, "grayscale(1)", root.StyleValue("filter"))
}

func TestCoverModeIgnoresLayoutFamily(t *testing.T) {
	engine := NewEngine(nil)
	doc := resume.Template()
	for _, th := range theme.Default().All() {
		root := engine.Render(doc, th, doc.Settings, ModeCover)
		assert.Equal(t, "cover", root.Attr("data-layout"))
		out := view.String(root)
		assert.Contains(t, out, "Dear Hiring Team,")
		assert.Contains(t, out, "Re: Staff Engineer")
		assert.Contains(t, out, "<em>reliable</em>")
		assert.NotContains(t, out, "Globex")
	}

	doc.CoverLetter = resume.CoverLetter{}
	out := view.String(engine.Render(doc, theme.Default().All()[0], doc.Settings, ModeCover))
	assert.Contains(t, out, "Dear Hiring Manager,")
}

func TestPaperSizeAndScale(t *testing.T) {
	doc := resume.Template()
	doc.Settings.PaperSize = resume.PaperLetter
	doc.Settings.FontScale = 1.2
	root := NewEngine(nil).Render(doc, theme.Default().All()[0], doc.Settings, ModeResume)
	assert.Equal(t, "215.9mm", root.StyleValue("width"))
	assert.Equal(t, "12pt", root.StyleValue("font-size"))
	assert.False(t, strings.Contains(view.String(root), "vw"))
}

func TestObserverReceivesLayout(t *testing.T) {
	var layouts []string
	engine := NewEngine(nil, WithObserver(func(layout string, _ time.Duration) {
		layouts = append(layouts, layout)
	}))
	minimal, _ := theme.Default().Lookup("minimal")
	engine.Render(resume.Template(), minimal, resume.DefaultSettings(), ModeResume)
	engine.Render(resume.Template(), minimal, resume.DefaultSettings(), ModeCover)
	assert.Equal(t, []string{"stacked", "cover"}, layouts)
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeCover, ParseMode("cover"))
	assert.Equal(t, ModeResume, ParseMode(""))
	assert.Equal(t, ModeResume, ParseMode("poster"))
}

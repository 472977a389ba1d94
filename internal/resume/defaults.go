package resume

import (
	"maps"
	"slices"
)

// DefaultSettings 返回新文档使用的渲染配置。
func DefaultSettings() Settings {
	return Settings{
		FontScale:         1,
		SpacingScale:      1,
		LineHeight:        1,
		SectionOrder:      slices.Clone(AllCategories),
		VisibleSections:   map[string]bool{},
		PaperSize:         PaperA4,
		DateFormat:        "MMM yyyy",
		HeaderStyle:       HeaderUnderline,
		PhotoShape:        PhotoCircle,
		SkillStyle:        SkillTags,
		BackgroundPattern: PatternNone,
		ShowDuration:      true,
		Locale:            "en",
	}
}

// Empty 返回所有列表为空（非 nil）的文档。
func Empty() Document {
	d := Document{Settings: DefaultSettings()}
	return d.Normalize()
}

// Template 返回内置示例文档。ID 固定，保证模板本身是确定的。
func Template() Document {
	d := Document{
		PersonalInfo: PersonalInfo{
			FullName: "Ana Souza",
			Title:    "Senior Software Engineer",
			Email:    "ana@example.com",
			Phone:    "+55 11 91234-5678",
			Address:  "São Paulo, Brazil",
			LinkedIn: "linkedin.com/in/ana",
			GitHub:   "github.com/ana",
			Website:  "ana.dev",
			Summary:  "Backend engineer with **8 years** building distributed systems.\nFocused on reliability, observability and mentoring.",
		},
		CoverLetter: CoverLetter{
			RecipientName: "Hiring Team",
			Company:       "Acme Corp",
			JobTitle:      "Staff Engineer",
			Body:          "I am excited to apply for the Staff Engineer role.\n\nOver the last years I have led platform teams and shipped *reliable* systems.",
		},
		Experience: []Experience{
			{
				ID:          "exp-1",
				Position:    "Senior Software Engineer",
				Company:     "Globex",
				Location:    "Remote",
				Description: "• Led migration of the billing platform to event sourcing\n• Cut p99 latency by **40%**",
				Period:      Period{StartDate: "2020-02", Current: true},
			},
			{
				ID:          "exp-2",
				Position:    "Software Engineer",
				Company:     "Initech",
				Location:    "São Paulo",
				Description: "- Built internal tooling for deployments\n- Mentored four junior engineers",
				Period:      Period{StartDate: "2016-05", EndDate: "2020-01"},
			},
		},
		Education: []Education{
			{
				ID:          "edu-1",
				Degree:      "B.Sc. Computer Science",
				Institution: "Universidade de São Paulo",
				Location:    "São Paulo",
				Period:      Period{StartDate: "2012", EndDate: "2015"},
			},
		},
		Projects: []Project{
			{
				ID:           "proj-1",
				Name:         "Open Telemetry Exporter",
				Role:         "Maintainer",
				Technologies: "Go, gRPC",
				Description:  "Exporter used by *dozens* of teams.",
				Link:         "github.com/ana/otel-exporter",
			},
		},
		Certifications: []Certification{
			{ID: "cert-1", Name: "Certified Kubernetes Administrator", Issuer: "CNCF", Date: "2022-06"},
		},
		Volunteer:      []Volunteer{},
		Awards:         []Award{{ID: "award-1", Title: "Engineer of the Year", Issuer: "Globex", Date: "2022"}},
		References:     []Reference{},
		Publications:   []Publication{},
		CustomSections: []CustomSection{},
		Skills: []Skill{
			{ID: "skill-1", Name: "Go", Level: 5},
			{ID: "skill-2", Name: "PostgreSQL", Level: 4},
			{ID: "skill-3", Name: "Kubernetes", Level: 4},
			{ID: "skill-4", Name: "Terraform", Level: 3},
		},
		Languages: []string{"Portuguese (native)", "English (fluent)"},
		Interests: []string{"Open source", "Cycling"},
		Settings:  DefaultSettings(),
	}
	return d.Normalize()
}

// Clone 深拷贝文档，修改副本不会影响原值。
func (d Document) Clone() Document {
	out := d
	out.Experience = slices.Clone(d.Experience)
	out.Education = slices.Clone(d.Education)
	out.Projects = slices.Clone(d.Projects)
	out.Certifications = slices.Clone(d.Certifications)
	out.Volunteer = slices.Clone(d.Volunteer)
	out.Awards = slices.Clone(d.Awards)
	out.References = slices.Clone(d.References)
	out.Publications = slices.Clone(d.Publications)
	out.Skills = slices.Clone(d.Skills)
	out.Languages = slices.Clone(d.Languages)
	out.Interests = slices.Clone(d.Interests)
	if d.CustomSections != nil {
		out.CustomSections = make([]CustomSection, len(d.CustomSections))
		for i, s := range d.CustomSections {
			s.Items = slices.Clone(s.Items)
			out.CustomSections[i] = s
		}
	}
	out.Settings.SectionOrder = slices.Clone(d.Settings.SectionOrder)
	if d.Settings.VisibleSections != nil {
		out.Settings.VisibleSections = maps.Clone(d.Settings.VisibleSections)
	}
	return out
}

// Normalize 返回满足模型不变量的副本：列表非 nil，条目 ID 非空且在列表内唯一。
func (d Document) Normalize() Document {
	out := d.Clone()
	out.Experience = nonNil(out.Experience)
	out.Education = nonNil(out.Education)
	out.Projects = nonNil(out.Projects)
	out.Certifications = nonNil(out.Certifications)
	out.Volunteer = nonNil(out.Volunteer)
	out.Awards = nonNil(out.Awards)
	out.References = nonNil(out.References)
	out.Publications = nonNil(out.Publications)
	out.CustomSections = nonNil(out.CustomSections)
	out.Skills = nonNil(out.Skills)
	out.Languages = nonNil(out.Languages)
	out.Interests = nonNil(out.Interests)
	for i := range out.CustomSections {
		out.CustomSections[i].Items = nonNil(out.CustomSections[i].Items)
		ensureIDs(out.CustomSections[i].Items, func(e *CustomItem) *string { return &e.ID })
	}

	ensureIDs(out.Experience, func(e *Experience) *string { return &e.ID })
	ensureIDs(out.Education, func(e *Education) *string { return &e.ID })
	ensureIDs(out.Projects, func(e *Project) *string { return &e.ID })
	ensureIDs(out.Certifications, func(e *Certification) *string { return &e.ID })
	ensureIDs(out.Volunteer, func(e *Volunteer) *string { return &e.ID })
	ensureIDs(out.Awards, func(e *Award) *string { return &e.ID })
	ensureIDs(out.References, func(e *Reference) *string { return &e.ID })
	ensureIDs(out.Publications, func(e *Publication) *string { return &e.ID })
	ensureIDs(out.CustomSections, func(e *CustomSection) *string { return &e.ID })
	ensureIDs(out.Skills, func(e *Skill) *string { return &e.ID })
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func ensureIDs[T any](items []T, id func(*T) *string) {
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		p := id(&items[i])
		if _, dup := seen[*p]; *p == "" || dup {
			*p = NewID()
		}
		seen[*p] = struct{}{}
	}
}

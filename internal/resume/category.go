package resume

// Category 是板块键，用于 sectionOrder、visibleSections 与列表重排。
type Category string

const (
	CategorySummary        Category = "summary"
	CategoryExperience     Category = "experience"
	CategoryEducation      Category = "education"
	CategoryProjects       Category = "projects"
	CategoryCertifications Category = "certifications"
	CategoryVolunteer      Category = "volunteer"
	CategoryAwards         Category = "awards"
	CategoryReferences     Category = "references"
	CategoryPublications   Category = "publications"
	CategoryCustom         Category = "custom"
	CategorySkills         Category = "skills"
	CategoryLanguages      Category = "languages"
	CategoryInterests      Category = "interests"
)

// AllCategories 也是默认的板块顺序。
var AllCategories = []Category{
	CategorySummary,
	CategoryExperience,
	CategoryEducation,
	CategoryProjects,
	CategorySkills,
	CategoryLanguages,
	CategoryCertifications,
	CategoryVolunteer,
	CategoryAwards,
	CategoryPublications,
	CategoryReferences,
	CategoryInterests,
	CategoryCustom,
}

// IsTagLike 标记以标签/技能可视化方式渲染的板块。
func (c Category) IsTagLike() bool {
	switch c {
	case CategorySkills, CategoryLanguages, CategoryInterests:
		return true
	}
	return false
}

// Known 判断是否为已知板块键。
func (c Category) Known() bool {
	for _, k := range AllCategories {
		if k == c {
			return true
		}
	}
	return false
}

// Len 返回板块下的条目数；summary 以是否有文本计 0/1。
func (d Document) Len(c Category) int {
	switch c {
	case CategorySummary:
		if trimmed(d.PersonalInfo.Summary) == "" {
			return 0
		}
		return 1
	case CategoryExperience:
		return len(d.Experience)
	case CategoryEducation:
		return len(d.Education)
	case CategoryProjects:
		return len(d.Projects)
	case CategoryCertifications:
		return len(d.Certifications)
	case CategoryVolunteer:
		return len(d.Volunteer)
	case CategoryAwards:
		return len(d.Awards)
	case CategoryReferences:
		return len(d.References)
	case CategoryPublications:
		return len(d.Publications)
	case CategoryCustom:
		n := 0
		for _, s := range d.CustomSections {
			n += len(s.Items)
		}
		return n
	case CategorySkills:
		return len(d.Skills)
	case CategoryLanguages:
		return len(d.Languages)
	case CategoryInterests:
		return len(d.Interests)
	}
	return 0
}

package format

import (
	"golang.org/x/text/language"
)

// Locale 汇总渲染所需的本地化文案：月份、"至今"标记与各板块标题。
type Locale struct {
	Tag         language.Tag
	Months      [12]string
	ShortMonths [12]string
	Present     string
	Labels      map[string]string
}

// Label 返回板块标题，缺失时回落到英文，再回落到 key 本身。
func (l Locale) Label(key string) string {
	if v, ok := l.Labels[key]; ok && v != "" {
		return v
	}
	if v, ok := english.Labels[key]; ok {
		return v
	}
	return key
}

var english = Locale{
	Tag: language.English,
	Months: [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	ShortMonths: [12]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	},
	Present: "Present",
	Labels: map[string]string{
		"summary":        "Profile",
		"experience":     "Experience",
		"education":      "Education",
		"projects":       "Projects",
		"certifications": "Certifications",
		"volunteer":      "Volunteering",
		"awards":         "Awards",
		"references":     "References",
		"publications":   "Publications",
		"skills":         "Skills",
		"languages":      "Languages",
		"interests":      "Interests",
		"custom":         "Additional",
		"contact":        "Contact",
		"greeting":       "Dear",
		"greetingAny":    "Dear Hiring Manager",
		"closing":        "Sincerely,",
		"regarding":      "Re:",
	},
}

var portuguese = Locale{
	Tag: language.Portuguese,
	Months: [12]string{
		"janeiro", "fevereiro", "março", "abril", "maio", "junho",
		"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
	},
	ShortMonths: [12]string{
		"jan.", "fev.", "mar.", "abr.", "mai.", "jun.", "jul.", "ago.", "set.", "out.", "nov.", "dez.",
	},
	Present: "Atual",
	Labels: map[string]string{
		"summary":        "Perfil",
		"experience":     "Experiência",
		"education":      "Formação",
		"projects":       "Projetos",
		"certifications": "Certificações",
		"volunteer":      "Voluntariado",
		"awards":         "Prêmios",
		"references":     "Referências",
		"publications":   "Publicações",
		"skills":         "Competências",
		"languages":      "Idiomas",
		"interests":      "Interesses",
		"custom":         "Outros",
		"contact":        "Contato",
		"greeting":       "Prezado(a)",
		"greetingAny":    "Prezado(a) recrutador(a)",
		"closing":        "Atenciosamente,",
		"regarding":      "Ref.:",
	},
}

var spanish = Locale{
	Tag: language.Spanish,
	Months: [12]string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	},
	ShortMonths: [12]string{
		"ene.", "feb.", "mar.", "abr.", "may.", "jun.", "jul.", "ago.", "sept.", "oct.", "nov.", "dic.",
	},
	Present: "Actual",
	Labels: map[string]string{
		"summary":        "Perfil",
		"experience":     "Experiencia",
		"education":      "Educación",
		"projects":       "Proyectos",
		"certifications": "Certificaciones",
		"volunteer":      "Voluntariado",
		"awards":         "Premios",
		"references":     "Referencias",
		"publications":   "Publicaciones",
		"skills":         "Habilidades",
		"languages":      "Idiomas",
		"interests":      "Intereses",
		"custom":         "Otros",
		"contact":        "Contacto",
		"greeting":       "Estimado(a)",
		"greetingAny":    "Estimado equipo de selección",
		"closing":        "Atentamente,",
		"regarding":      "Ref.:",
	},
}

// locales 的顺序必须与 matcher 的候选顺序一致，首项即默认语言。
var (
	locales = []Locale{english, portuguese, spanish}
	matcher = language.NewMatcher([]language.Tag{language.English, language.Portuguese, language.Spanish})
)

// LookupLocale 将任意 BCP 47 代码匹配到受支持的语言，无法识别时返回英文。
func LookupLocale(code string) Locale {
	tag, err := language.Parse(code)
	if err != nil {
		return english
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No || idx < 0 || idx >= len(locales) {
		return english
	}
	return locales[idx]
}

// DefaultLocale 返回英文文案。
func DefaultLocale() Locale {
	return english
}

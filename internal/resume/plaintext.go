package resume

import (
	"strings"

	"folio/internal/format"
)

// PlainText 生成可读的纯文本投影（用于复制到剪贴板），不可反向导入。
func PlainText(d Document) string {
	loc := format.LookupLocale(d.Settings.Locale)
	layout := d.Settings.DateFormat
	var b strings.Builder

	p := d.PersonalInfo
	writeLine(&b, strings.ToUpper(trimmed(p.FullName)))
	writeLine(&b, trimmed(p.Title))
	writeLine(&b, joinNonEmpty(" | ", p.Email, p.Phone, p.Address, p.LinkedIn, p.GitHub, p.Website))

	if s := trimmed(p.Summary); s != "" {
		writeHeading(&b, loc.Label("summary"))
		writeMarkup(&b, s)
	}

	if len(d.Experience) > 0 {
		writeHeading(&b, loc.Label("experience"))
		for _, e := range d.Experience {
			head := joinNonEmpty(" — ", trimmed(e.Position), trimmed(e.Company))
			if r := format.FormatRange(e.StartDate, e.EndDate, e.Current, layout, loc); r != "" {
				head += " (" + r + ")"
			}
			writeLine(&b, head)
			writeMarkup(&b, e.Description)
			b.WriteString("\n")
		}
	}

	if len(d.Education) > 0 {
		writeHeading(&b, loc.Label("education"))
		for _, e := range d.Education {
			head := joinNonEmpty(" — ", trimmed(e.Degree), trimmed(e.Institution))
			if r := format.FormatRange(e.StartDate, e.EndDate, e.Current, layout, loc); r != "" {
				head += " (" + r + ")"
			}
			writeLine(&b, head)
		}
	}

	if len(d.Skills) > 0 {
		names := make([]string, 0, len(d.Skills))
		for _, s := range d.Skills {
			names = append(names, s.Name)
		}
		writeHeading(&b, loc.Label("skills"))
		writeLine(&b, joinNonEmpty(", ", names...))
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// WordCount 统计所有用户可见文本的词数。
func WordCount(d Document) int {
	p := d.PersonalInfo
	parts := []string{p.FullName, p.Title, p.Address, p.Summary}
	for _, e := range d.Experience {
		parts = append(parts, e.Position, e.Company, e.Location, e.Description)
	}
	for _, e := range d.Education {
		parts = append(parts, e.Degree, e.Institution, e.Location, e.Description)
	}
	for _, e := range d.Projects {
		parts = append(parts, e.Name, e.Role, e.Technologies, e.Description)
	}
	for _, e := range d.Certifications {
		parts = append(parts, e.Name, e.Issuer)
	}
	for _, e := range d.Volunteer {
		parts = append(parts, e.Role, e.Organization, e.Location, e.Description)
	}
	for _, e := range d.Awards {
		parts = append(parts, e.Title, e.Issuer, e.Description)
	}
	for _, e := range d.References {
		parts = append(parts, e.Name, e.Position, e.Company, e.Note)
	}
	for _, e := range d.Publications {
		parts = append(parts, e.Title, e.Publisher, e.Description)
	}
	for _, s := range d.CustomSections {
		parts = append(parts, s.Title)
		for _, it := range s.Items {
			parts = append(parts, it.Title, it.Subtitle, it.Description)
		}
	}
	for _, s := range d.Skills {
		parts = append(parts, s.Name)
	}
	parts = append(parts, d.Languages...)
	parts = append(parts, d.Interests...)
	return format.CountWords(parts...)
}

func writeHeading(b *strings.Builder, title string) {
	b.WriteString("\n")
	b.WriteString(strings.ToUpper(title))
	b.WriteString("\n")
}

func writeLine(b *strings.Builder, s string) {
	if s == "" {
		return
	}
	b.WriteString(s)
	b.WriteString("\n")
}

func writeMarkup(b *strings.Builder, text string) {
	for line := range format.Lines(text) {
		if line.Empty() {
			continue
		}
		if line.Bullet {
			b.WriteString("• ")
		}
		writeLine(b, line.Text())
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = trimmed(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

package editor

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"folio/internal/resume"
)

// ErrUnknownTarget 表示目标字段不存在或越界。
var ErrUnknownTarget = errors.New("unknown edit target")

// Target 定位一个可改写的自由文本字段：summary、coverLetter，或列表板块中某条目的描述。
// 列表条目可用 Index 或条目 ID 指定；ID 非空时以 ID 为准，条目被移动后仍指向同一条。
type Target struct {
	Section string `json:"section"`
	Index   int    `json:"index"`
	ID      string `json:"id,omitempty"`
}

// Key 是 AI 槽位键。已解析出条目 ID 的目标按 ID 区分，与条目位置无关。
func (t Target) Key() string {
	switch {
	case t.ID != "":
		return t.Section + ":" + t.ID
	case t.single():
		return t.Section
	}
	return t.Section + ":" + strconv.Itoa(t.Index)
}

// Field 返回字段名，作为 AI 指令的上下文。
func (t Target) Field() string {
	switch t.Section {
	case "summary":
		return "professional summary"
	case "coverLetter":
		return "cover letter body"
	}
	return t.Section + " description"
}

func (t Target) single() bool {
	return t.Section == "summary" || t.Section == "coverLetter"
}

// fieldRef 指向文档中的一个描述字段及其所属条目的 ID。
type fieldRef struct {
	id   string
	text *string
}

func refs[T any](items []T, ref func(*T) fieldRef) []fieldRef {
	out := make([]fieldRef, len(items))
	for i := range items {
		out[i] = ref(&items[i])
	}
	return out
}

func (t Target) fields(d *resume.Document) ([]fieldRef, error) {
	switch t.Section {
	case "summary":
		return []fieldRef{{text: &d.PersonalInfo.Summary}}, nil
	case "coverLetter":
		return []fieldRef{{text: &d.CoverLetter.Body}}, nil
	case string(resume.CategoryExperience):
		return refs(d.Experience, func(e *resume.Experience) fieldRef { return fieldRef{e.ID, &e.Description} }), nil
	case string(resume.CategoryEducation):
		return refs(d.Education, func(e *resume.Education) fieldRef { return fieldRef{e.ID, &e.Description} }), nil
	case string(resume.CategoryProjects):
		return refs(d.Projects, func(e *resume.Project) fieldRef { return fieldRef{e.ID, &e.Description} }), nil
	case string(resume.CategoryVolunteer):
		return refs(d.Volunteer, func(e *resume.Volunteer) fieldRef { return fieldRef{e.ID, &e.Description} }), nil
	case string(resume.CategoryAwards):
		return refs(d.Awards, func(e *resume.Award) fieldRef { return fieldRef{e.ID, &e.Description} }), nil
	case string(resume.CategoryPublications):
		return refs(d.Publications, func(e *resume.Publication) fieldRef { return fieldRef{e.ID, &e.Description} }), nil
	}
	return nil, fmt.Errorf("section %q: %w", t.Section, ErrUnknownTarget)
}

// locate 在 d 中找到目标字段，返回补全了 Index 与 ID 的目标。
func (t Target) locate(d *resume.Document) (Target, *string, error) {
	fields, err := t.fields(d)
	if err != nil {
		return t, nil, err
	}
	if t.single() {
		return Target{Section: t.Section}, fields[0].text, nil
	}
	i := t.Index
	if t.ID != "" {
		i = slices.IndexFunc(fields, func(f fieldRef) bool { return f.id == t.ID })
		if i < 0 {
			return t, nil, fmt.Errorf("%s id %q: %w", t.Section, t.ID, ErrUnknownTarget)
		}
	}
	if i < 0 || i >= len(fields) {
		return t, nil, fmt.Errorf("%s[%d]: %w", t.Section, i, ErrUnknownTarget)
	}
	return Target{Section: t.Section, Index: i, ID: fields[i].id}, fields[i].text, nil
}

// resolve 把目标固定到 d 中当前的条目上。
func (t Target) resolve(d resume.Document) (Target, error) {
	resolved, _, err := t.locate(&d)
	return resolved, err
}

func (t Target) get(d resume.Document) (string, error) {
	_, p, err := t.locate(&d)
	if err != nil {
		return "", err
	}
	return *p, nil
}

// set 在 d 的副本上写入字段。
func (t Target) set(d resume.Document, value string) (resume.Document, error) {
	out := d.Clone()
	_, p, err := t.locate(&out)
	if err != nil {
		return d, err
	}
	*p = value
	return out, nil
}

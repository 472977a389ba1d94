package resume

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

var (
	// ErrIndexOutOfRange 表示移动/删除的位置越界。
	ErrIndexOutOfRange = errors.New("entry index out of range")
	// ErrUnknownCategory 表示该板块不是可编辑的列表。
	ErrUnknownCategory = errors.New("unknown category")
)

// NewID 生成条目 ID。
func NewID() string {
	return uuid.NewString()
}

// entryList 抽象出各板块列表的共同编辑操作。
type entryList interface {
	len() int
	move(from, to int)
	remove(i int)
	appendBlank() string
}

type entries[T any] struct {
	items *[]T
	blank func(id string) T
}

func (e entries[T]) len() int { return len(*e.items) }

func (e entries[T]) move(from, to int) {
	item := (*e.items)[from]
	s := slices.Delete(*e.items, from, from+1)
	*e.items = slices.Insert(s, to, item)
}

func (e entries[T]) remove(i int) {
	*e.items = slices.Delete(*e.items, i, i+1)
}

func (e entries[T]) appendBlank() string {
	id := ""
	if e.blank != nil {
		id = NewID()
	}
	var v T
	if e.blank != nil {
		v = e.blank(id)
	}
	*e.items = append(*e.items, v)
	return id
}

// list 返回指向 d 中对应板块的列表；summary 等非列表板块返回 false。
func (d *Document) list(c Category) (entryList, bool) {
	switch c {
	case CategoryExperience:
		return entries[Experience]{&d.Experience, func(id string) Experience { return Experience{ID: id} }}, true
	case CategoryEducation:
		return entries[Education]{&d.Education, func(id string) Education { return Education{ID: id} }}, true
	case CategoryProjects:
		return entries[Project]{&d.Projects, func(id string) Project { return Project{ID: id} }}, true
	case CategoryCertifications:
		return entries[Certification]{&d.Certifications, func(id string) Certification { return Certification{ID: id} }}, true
	case CategoryVolunteer:
		return entries[Volunteer]{&d.Volunteer, func(id string) Volunteer { return Volunteer{ID: id} }}, true
	case CategoryAwards:
		return entries[Award]{&d.Awards, func(id string) Award { return Award{ID: id} }}, true
	case CategoryReferences:
		return entries[Reference]{&d.References, func(id string) Reference { return Reference{ID: id} }}, true
	case CategoryPublications:
		return entries[Publication]{&d.Publications, func(id string) Publication { return Publication{ID: id} }}, true
	case CategoryCustom:
		return entries[CustomSection]{&d.CustomSections, func(id string) CustomSection {
			return CustomSection{ID: id, Items: []CustomItem{}}
		}}, true
	case CategorySkills:
		return entries[Skill]{&d.Skills, func(id string) Skill { return Skill{ID: id, Level: 3} }}, true
	case CategoryLanguages:
		return entries[string]{items: &d.Languages}, true
	case CategoryInterests:
		return entries[string]{items: &d.Interests}, true
	}
	return nil, false
}

// MoveEntry 返回把 from 位置条目移动到 to 位置后的新文档，输入文档不变。
// 越界时返回原文档和 ErrIndexOutOfRange。
func MoveEntry(d Document, c Category, from, to int) (Document, error) {
	out := d.Clone()
	l, ok := out.list(c)
	if !ok {
		return d, fmt.Errorf("move %q: %w", c, ErrUnknownCategory)
	}
	n := l.len()
	if from < 0 || from >= n || to < 0 || to >= n {
		return d, fmt.Errorf("move %q %d->%d of %d: %w", c, from, to, n, ErrIndexOutOfRange)
	}
	if from == to {
		return out, nil
	}
	l.move(from, to)
	return out, nil
}

// AddEntry 在板块末尾追加一个空条目，返回新文档与新条目 ID（字符串列表无 ID）。
func AddEntry(d Document, c Category) (Document, string, error) {
	out := d.Clone()
	l, ok := out.list(c)
	if !ok {
		return d, "", fmt.Errorf("add %q: %w", c, ErrUnknownCategory)
	}
	return out, l.appendBlank(), nil
}

// RemoveEntry 删除板块中第 index 个条目。
func RemoveEntry(d Document, c Category, index int) (Document, error) {
	out := d.Clone()
	l, ok := out.list(c)
	if !ok {
		return d, fmt.Errorf("remove %q: %w", c, ErrUnknownCategory)
	}
	if index < 0 || index >= l.len() {
		return d, fmt.Errorf("remove %q at %d: %w", c, index, ErrIndexOutOfRange)
	}
	l.remove(index)
	return out, nil
}

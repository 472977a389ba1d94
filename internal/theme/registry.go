package theme

import "slices"

// Registry 是按注册顺序排列的主题目录。首个主题即默认主题。
type Registry struct {
	themes    []Theme
	index     map[string]int
	overrides map[string]Overrides
}

// NewRegistry 构造目录；重复 ID 以先注册者为准。
func NewRegistry(themes []Theme, overrides map[string]Overrides) *Registry {
	r := &Registry{
		index:     make(map[string]int, len(themes)),
		overrides: make(map[string]Overrides, len(overrides)),
	}
	for _, t := range themes {
		if _, dup := r.index[t.ID]; dup {
			continue
		}
		r.index[t.ID] = len(r.themes)
		r.themes = append(r.themes, t)
	}
	for id, o := range overrides {
		r.overrides[id] = o
	}
	return r
}

// Default 返回内置目录。
func Default() *Registry {
	return defaultRegistry
}

// All 返回全部主题的副本。
func (r *Registry) All() []Theme {
	return slices.Clone(r.themes)
}

// Lookup 按 ID 查找主题。
func (r *Registry) Lookup(id string) (Theme, bool) {
	i, ok := r.index[id]
	if !ok {
		return Theme{}, false
	}
	return r.themes[i], true
}

// Resolve 查找主题，未知 ID 回落到首个主题；第二个返回值表示是否命中。
func (r *Registry) Resolve(id string) (Theme, bool) {
	if t, ok := r.Lookup(id); ok {
		return t, true
	}
	if len(r.themes) == 0 {
		return fallbackTheme, false
	}
	return r.themes[0], false
}

// OverridesFor 返回主题的视觉覆盖，没有配置时为零值。
func (r *Registry) OverridesFor(id string) Overrides {
	return r.overrides[id]
}

var fallbackTheme = Theme{
	ID:   "plain",
	Name: "Plain",
	Colors: Palette{
		Primary:    "#334155",
		Secondary:  "#64748b",
		Text:       "#0f172a",
		Background: "#ffffff",
		Accent:     "#334155",
	},
	Layout: LayoutSingleColumn,
}

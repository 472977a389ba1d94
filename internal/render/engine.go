// Package render 把 (文档, 主题, 配置, 模式) 纯函数式地渲染为可视树。
// 渲染从不返回错误，也不修改输入；缺失或畸形的字段只会让对应的子元素不输出。
package render

import (
	"log/slog"
	"strings"
	"time"

	"folio/internal/errcode"
	"folio/internal/format"
	"folio/internal/resume"
	"folio/internal/theme"
	"folio/internal/view"
)

// Mode 选择简历或求职信。
type Mode string

const (
	ModeResume Mode = "resume"
	ModeCover  Mode = "cover"
)

// ParseMode 解析模式字符串，未知值视为简历。
func ParseMode(s string) Mode {
	if Mode(s) == ModeCover {
		return ModeCover
	}
	return ModeResume
}

// Observer 在每次渲染后收到版式名与耗时，用于指标上报。
type Observer func(layout string, elapsed time.Duration)

// Engine 是渲染入口，可被多个 goroutine 并发使用。
type Engine struct {
	themes   *theme.Registry
	contrast format.ContrastRule
	logger   *slog.Logger
	observe  Observer
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithContrast 替换亮度阈值。
func WithContrast(rule format.ContrastRule) Option {
	return func(e *Engine) { e.contrast = rule }
}

func WithObserver(fn Observer) Option {
	return func(e *Engine) { e.observe = fn }
}

// NewEngine 创建渲染引擎；themes 为 nil 时使用内置目录。
func NewEngine(themes *theme.Registry, opts ...Option) *Engine {
	if themes == nil {
		themes = theme.Default()
	}
	e := &Engine{
		themes:   themes,
		contrast: format.DefaultContrast,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Themes 返回引擎使用的主题目录。
func (e *Engine) Themes() *theme.Registry {
	return e.themes
}

// ResolveTheme 查找主题；未知 ID 回落到首个主题并记录告警，空 ID 直接使用首个主题。
func (e *Engine) ResolveTheme(id string) theme.Theme {
	t, ok := e.themes.Resolve(id)
	if !ok && strings.TrimSpace(id) != "" {
		e.logger.Warn("theme fallback",
			slog.String("theme_id", id),
			slog.String("fallback", t.ID),
			slog.Int("code", errcode.UnresolvedTheme),
		)
	}
	return t
}

// RenderByID 使用文档自身的配置渲染，主题按 ID 解析。
func (e *Engine) RenderByID(doc resume.Document, themeID string, mode Mode) (*view.Node, theme.Theme) {
	t := e.ResolveTheme(themeID)
	return e.Render(doc, t, doc.Settings, mode), t
}

// Render 渲染可视树。相同输入总是得到相同的树。
func (e *Engine) Render(doc resume.Document, t theme.Theme, s resume.Settings, mode Mode) *view.Node {
	start := time.Now()
	c := newContext(doc, t, e.themes.OverridesFor(t.ID), s, e.contrast)

	var (
		root   *view.Node
		layout string
	)
	if mode == ModeCover {
		layout = "cover"
		root = c.coverLayout()
	} else {
		layout = string(t.Layout)
		switch t.Layout {
		case theme.LayoutSidebarLeft:
			root = c.sidebarLayout(false)
		case theme.LayoutSidebarRight:
			root = c.sidebarLayout(true)
		case theme.LayoutBanner:
			root = c.bannerLayout()
		case theme.LayoutGridComplex:
			root = c.gridLayout()
		default:
			if t.Layout != theme.LayoutStacked {
				layout = string(theme.LayoutSingleColumn)
			}
			root = c.singleColumnLayout()
		}
	}

	root = c.page(root, layout, mode)
	if e.observe != nil {
		e.observe(layout, time.Since(start))
	}
	return root
}

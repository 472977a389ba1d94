// Package editor 是持有当前文档的状态容器：把提交的编辑写入文档模型、记录历史、
// 驱动渲染，并通过注入的 Store / Clipboard / DictationSource 与外部交互。
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"folio/internal/ai"
	"folio/internal/history"
	"folio/internal/render"
	"folio/internal/resume"
	"folio/internal/view"
)

var (
	// ErrNoStore 表示编辑器没有注入存储。
	ErrNoStore = errors.New("no profile store configured")
	// ErrNoClipboard 表示编辑器没有注入剪贴板。
	ErrNoClipboard = errors.New("no clipboard configured")
	// ErrNoDictation 表示编辑器没有注入语音输入。
	ErrNoDictation = errors.New("no dictation source configured")
	// ErrStale 表示 AI 结果返回时槽位已被更新的操作或直接编辑取代，结果被丢弃。
	ErrStale = errors.New("ai result superseded")
)

// Options 是编辑器的可选依赖。
type Options struct {
	Engine       *render.Engine
	Store        Store
	Clipboard    Clipboard
	Dictation    DictationSource
	Logger       *slog.Logger
	ThemeID      string
	HistoryLimit int
	Initial      *resume.Document
}

// Editor 可被多个 goroutine 并发调用，内部以互斥锁串行化所有状态变更。
type Editor struct {
	mu      sync.Mutex
	id      string
	doc     resume.Document
	themeID string
	hist    *history.Manager[resume.Document]
	touched time.Time

	engine    *render.Engine
	store     Store
	clipboard Clipboard
	dictation DictationSource
	slots     *Slots
	logger    *slog.Logger
}

// New 创建编辑器，默认从内置模板开始。
func New(id string, opts Options) *Editor {
	if opts.Engine == nil {
		opts.Engine = render.NewEngine(nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	doc := resume.Template()
	if opts.Initial != nil {
		doc = opts.Initial.Normalize()
	}
	e := &Editor{
		id:        id,
		doc:       doc,
		themeID:   opts.Engine.ResolveTheme(opts.ThemeID).ID,
		touched:   time.Now(),
		engine:    opts.Engine,
		store:     opts.Store,
		clipboard: opts.Clipboard,
		dictation: opts.Dictation,
		slots:     NewSlots(),
		logger:    opts.Logger.With(slog.String("session_id", id)),
	}
	e.hist = history.New(doc, opts.HistoryLimit, e.onReplay)
	return e
}

// onReplay 是历史回放的通知：持有者把快照当作普通更新处理，回放标记保证它不会再次入栈。
func (e *Editor) onReplay(d resume.Document) {
	e.apply(d)
}

// apply 在持锁状态下更新当前文档并记录历史。
func (e *Editor) apply(d resume.Document) {
	e.doc = d
	e.touched = time.Now()
	e.hist.Record(d)
}

func (e *Editor) ID() string { return e.id }

// Touched 返回最后一次访问时间，用于空闲回收。
func (e *Editor) Touched() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.touched
}

// Document 返回当前文档的副本。
func (e *Editor) Document() resume.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = time.Now()
	return e.doc.Clone()
}

func (e *Editor) ThemeID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.themeID
}

// Update 提交一次编辑：fn 收到当前文档副本并返回新文档。fn 出错时文档不变。
func (e *Editor) Update(fn func(resume.Document) (resume.Document, error)) (resume.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	next, err := fn(e.doc.Clone())
	if err != nil {
		return e.doc.Clone(), err
	}
	next = next.Normalize()
	e.apply(next)
	return next.Clone(), nil
}

// Replace 用整份文档替换当前文档，作为一次普通编辑记录。
func (e *Editor) Replace(d resume.Document) resume.Document {
	e.slots.InvalidateAll()
	next, _ := e.Update(func(resume.Document) (resume.Document, error) { return d, nil })
	return next
}

// SetField 直接写入自由文本字段；该字段上进行中的 AI 操作随之失效。
func (e *Editor) SetField(t Target, value string) (resume.Document, error) {
	return e.Update(func(d resume.Document) (resume.Document, error) {
		resolved, err := t.resolve(d)
		if err != nil {
			return d, err
		}
		e.slots.Invalidate(resolved.Key())
		return resolved.set(d, value)
	})
}

func (e *Editor) Undo() (resume.Document, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.slots.InvalidateAll()
	_, ok := e.hist.Undo()
	return e.doc.Clone(), ok
}

func (e *Editor) Redo() (resume.Document, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.slots.InvalidateAll()
	_, ok := e.hist.Redo()
	return e.doc.Clone(), ok
}

func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.CanUndo()
}

func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.CanRedo()
}

// Reset 回到内置模板，历史以模板为唯一快照重新开始。
func (e *Editor) Reset() resume.Document {
	return e.reseed(resume.Template())
}

func (e *Editor) reseed(d resume.Document) resume.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.slots.InvalidateAll()
	e.doc = d
	e.touched = time.Now()
	e.hist.Reset(d)
	return d.Clone()
}

// Import 把导入文件合并到当前文档；载荷不是对象时返回 errcode.ErrInvalidImport，文档不变。
func (e *Editor) Import(payload []byte) (resume.Document, error) {
	e.slots.InvalidateAll()
	return e.Update(func(d resume.Document) (resume.Document, error) {
		return resume.Import(d, payload)
	})
}

// Export 返回带版本号的导出文件。
func (e *Editor) Export() ([]byte, error) {
	return resume.Export(e.Document())
}

// MoveEntry 重排板块中的条目。
func (e *Editor) MoveEntry(c resume.Category, from, to int) (resume.Document, error) {
	return e.Update(func(d resume.Document) (resume.Document, error) {
		return resume.MoveEntry(d, c, from, to)
	})
}

// SetTheme 切换主题，未知 ID 回落到默认主题。
func (e *Editor) SetTheme(id string) string {
	t := e.engine.ResolveTheme(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.themeID = t.ID
	e.touched = time.Now()
	return t.ID
}

// Preview 渲染当前文档。
func (e *Editor) Preview(mode render.Mode) *view.Node {
	doc, themeID := e.snapshot()
	root, _ := e.engine.RenderByID(doc, themeID, mode)
	return root
}

// PreviewPage 渲染完整 HTML 页面（屏幕预览与打印共用）。
func (e *Editor) PreviewPage(mode render.Mode) ([]byte, error) {
	doc, themeID := e.snapshot()
	return e.engine.Page(doc, themeID, mode)
}

func (e *Editor) snapshot() (resume.Document, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = time.Now()
	return e.doc.Clone(), e.themeID
}

// CopyPlainText 把纯文本投影写入剪贴板。
func (e *Editor) CopyPlainText(ctx context.Context) (string, error) {
	if e.clipboard == nil {
		return "", ErrNoClipboard
	}
	text := resume.PlainText(e.Document())
	if err := e.clipboard.WriteText(ctx, text); err != nil {
		return "", fmt.Errorf("write clipboard: %w", err)
	}
	return text, nil
}

// Dictate 把一段语音识别文本追加到目标字段。
func (e *Editor) Dictate(ctx context.Context, t Target) (resume.Document, error) {
	if e.dictation == nil {
		return e.Document(), ErrNoDictation
	}
	phrase, err := e.dictation.Next(ctx)
	if err != nil {
		return e.Document(), fmt.Errorf("dictation: %w", err)
	}
	phrase = strings.TrimSpace(phrase)
	return e.Update(func(d resume.Document) (resume.Document, error) {
		resolved, err := t.resolve(d)
		if err != nil {
			return d, err
		}
		if phrase == "" {
			return d, nil
		}
		e.slots.Invalidate(resolved.Key())
		cur, _ := resolved.get(d)
		if cur = strings.TrimRight(cur, " "); cur != "" {
			cur += " "
		}
		return resolved.set(d, cur+phrase)
	})
}

// Improve 用 AI 改写目标字段。网络调用期间不持锁；结果返回时若槽位已被取代则丢弃并返回 ErrStale。
// 列表条目在发起时固定为条目 ID，期间被移动仍写回原条目，被删除则结果作废。失败时文档保持不变。
func (e *Editor) Improve(ctx context.Context, adapter *ai.Adapter, t Target) (resume.Document, error) {
	doc := e.Document()
	resolved, err := t.resolve(doc)
	if err != nil {
		return doc, err
	}
	current, _ := resolved.get(doc)
	token := e.slots.Begin(resolved.Key())

	rewritten, err := adapter.Rewrite(ctx, resolved.Field(), current)
	if !e.slots.Complete(token) {
		e.logger.Info("ai result discarded", slog.String("slot", resolved.Key()))
		return e.Document(), ErrStale
	}
	if err != nil {
		return e.Document(), err
	}
	next, err := e.Update(func(d resume.Document) (resume.Document, error) {
		return resolved.set(d, rewritten)
	})
	if errors.Is(err, ErrUnknownTarget) {
		e.logger.Info("ai result discarded, entry removed", slog.String("slot", resolved.Key()))
		return next, ErrStale
	}
	return next, err
}

// Slots 暴露 AI 槽位，供自定义的异步操作使用。
func (e *Editor) Slots() *Slots {
	return e.slots
}

// WordCount 统计当前文档词数。
func (e *Editor) WordCount() int {
	return resume.WordCount(e.Document())
}

// SaveProfile 以名称保存当前文档。
func (e *Editor) SaveProfile(ctx context.Context, name string) error {
	if e.store == nil {
		return ErrNoStore
	}
	payload, err := e.Export()
	if err != nil {
		return err
	}
	if err := e.store.Put(ctx, name, payload); err != nil {
		return fmt.Errorf("save profile %q: %w", name, err)
	}
	return nil
}

// LoadProfile 载入档案替换当前文档，历史以其为唯一快照重新开始。
func (e *Editor) LoadProfile(ctx context.Context, name string) (resume.Document, error) {
	if e.store == nil {
		return e.Document(), ErrNoStore
	}
	payload, err := e.store.Get(ctx, name)
	if err != nil {
		return e.Document(), fmt.Errorf("load profile %q: %w", name, err)
	}
	doc, err := resume.Import(resume.Template(), payload)
	if err != nil {
		return e.Document(), fmt.Errorf("load profile %q: %w", name, err)
	}
	return e.reseed(doc), nil
}

// DeleteProfile 删除档案。
func (e *Editor) DeleteProfile(ctx context.Context, name string) error {
	if e.store == nil {
		return ErrNoStore
	}
	if err := e.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete profile %q: %w", name, err)
	}
	return nil
}

// ListProfiles 返回按名称排序的档案列表。
func (e *Editor) ListProfiles(ctx context.Context) ([]string, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	names, err := e.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

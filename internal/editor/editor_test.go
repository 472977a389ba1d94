package editor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/ai"
	"folio/internal/errcode"
	"folio/internal/render"
	"folio/internal/resume"
	"folio/internal/view"
)

type memStore struct {
	data map[string][]byte
	err  error
}

func (m *memStore) Get(_ context.Context, name string) ([]byte, error) {
	v, ok := m.data[name]
	if !ok {
		return nil, errcode.ErrProfileNotFound
	}
	return v, nil
}

func (m *memStore) Put(_ context.Context, name string, value []byte) error {
	if m.err != nil {
		return m.err
	}
	m.data[name] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, name string) error {
	delete(m.data, name)
	return nil
}

func (m *memStore) Keys(context.Context) ([]string, error) {
	var out []string
	for k := range m.data {
		out = append(out, k)
	}
	return out, nil
}

type clipboard struct{ text string }

func (c *clipboard) WriteText(_ context.Context, text string) error {
	c.text = text
	return nil
}

type dictation struct{ phrase string }

func (d dictation) Next(context.Context) (string, error) { return d.phrase, nil }

// gatedGenerator 在 release 关闭前阻塞，用来模拟进行中的 AI 请求。
type gatedGenerator struct {
	started chan struct{}
	release chan struct{}
	output  string
}

func (g *gatedGenerator) Generate(ctx context.Context, _ ai.Request) (string, error) {
	close(g.started)
	<-g.release
	return g.output, nil
}

type staticGenerator string

func (s staticGenerator) Generate(context.Context, ai.Request) (string, error) { return string(s), nil }

func setName(name string) func(resume.Document) (resume.Document, error) {
	return func(d resume.Document) (resume.Document, error) {
		d.PersonalInfo.FullName = name
		return d, nil
	}
}

func TestUpdateUndoRedo(t *testing.T) {
	e := New("s1", Options{})
	assert.False(t, e.CanUndo())

	_, err := e.Update(setName("B"))
	require.NoError(t, err)
	_, err = e.Update(setName("C"))
	require.NoError(t, err)
	assert.True(t, e.CanUndo())

	doc, ok := e.Undo()
	require.True(t, ok)
	assert.Equal(t, "B", doc.PersonalInfo.FullName)
	assert.Equal(t, "B", e.Document().PersonalInfo.FullName)
	assert.True(t, e.CanRedo())

	doc, ok = e.Redo()
	require.True(t, ok)
	assert.Equal(t, "C", doc.PersonalInfo.FullName)
	assert.False(t, e.CanRedo())

	e.Undo()
	e.Undo()
	_, ok = e.Undo()
	assert.False(t, ok)
	assert.Equal(t, "Ana Souza", e.Document().PersonalInfo.FullName)
}

func TestUpdateErrorLeavesDocument(t *testing.T) {
	e := New("s1", Options{})
	before := e.Document()
	_, err := e.Update(func(d resume.Document) (resume.Document, error) {
		d.PersonalInfo.FullName = "mutated"
		return d, errors.New("nope")
	})
	assert.Error(t, err)
	assert.Equal(t, before, e.Document())
	assert.False(t, e.CanUndo())
}

func TestImportInvalidKeepsDocument(t *testing.T) {
	e := New("s1", Options{})
	before := e.Document()
	_, err := e.Import([]byte(`[1,2]`))
	assert.ErrorIs(t, err, errcode.ErrInvalidImport)
	assert.Equal(t, before, e.Document())

	doc, err := e.Import([]byte(`{"version":1,"data":{"personalInfo":{"fullName":"X"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "X", doc.PersonalInfo.FullName)
	assert.True(t, e.CanUndo())
}

func TestResetReseedsHistory(t *testing.T) {
	e := New("s1", Options{})
	e.Update(setName("B"))
	e.Reset()
	assert.False(t, e.CanUndo())
	assert.False(t, e.CanRedo())
	assert.Equal(t, resume.Template(), e.Document())
}

func TestProfiles(t *testing.T) {
	store := &memStore{data: map[string][]byte{}}
	e := New("s1", Options{Store: store})
	e.Update(setName("Saved"))
	require.NoError(t, e.SaveProfile(context.Background(), "work"))
	require.NoError(t, e.SaveProfile(context.Background(), "alpha"))

	names, err := e.ListProfiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "work"}, names)

	e.Update(setName("Other"))
	doc, err := e.LoadProfile(context.Background(), "work")
	require.NoError(t, err)
	assert.Equal(t, "Saved", doc.PersonalInfo.FullName)
	assert.False(t, e.CanUndo())

	_, err = e.LoadProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, errcode.ErrProfileNotFound)

	store.err = errcode.Wrap(errcode.ErrStorageQuota, "full")
	err = e.SaveProfile(context.Background(), "big")
	assert.ErrorIs(t, err, errcode.ErrStorageQuota)

	require.NoError(t, e.DeleteProfile(context.Background(), "alpha"))
	names, _ = e.ListProfiles(context.Background())
	assert.Equal(t, []string{"work"}, names)

	_, err = New("s2", Options{}).ListProfiles(context.Background())
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestMoveEntryAndTheme(t *testing.T) {
	e := New("s1", Options{ThemeID: "bold"})
	assert.Equal(t, "bold", e.ThemeID())
	assert.Equal(t, "modern", e.SetTheme("unknown"))

	doc, err := e.MoveEntry(resume.CategoryExperience, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "exp-2", doc.Experience[0].ID)

	_, err = e.MoveEntry(resume.CategoryExperience, 5, 0)
	assert.ErrorIs(t, err, resume.ErrIndexOutOfRange)
}

func TestPreview(t *testing.T) {
	e := New("s1", Options{ThemeID: "classic"})
	root := e.Preview(render.ModeResume)
	assert.Equal(t, "single-column", root.Attr("data-layout"))
	assert.Contains(t, view.String(root), "Ana Souza")

	page, err := e.PreviewPage(render.ModeCover)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>Ana Souza - Cover Letter</title>")
}

func TestClipboardAndDictation(t *testing.T) {
	clip := &clipboard{}
	e := New("s1", Options{Clipboard: clip, Dictation: dictation{phrase: " and more "}})
	text, err := e.CopyPlainText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, text, clip.text)
	assert.Contains(t, text, "ANA SOUZA")

	doc, err := e.Dictate(context.Background(), Target{Section: "experience", Index: 0})
	require.NoError(t, err)
	assert.Equal(t, "• Led migration of the billing platform to event sourcing\n• Cut p99 latency by **40%** and more", doc.Experience[0].Description)

	_, err = e.Dictate(context.Background(), Target{Section: "experience", Index: 9})
	assert.ErrorIs(t, err, ErrUnknownTarget)

	_, err = New("s2", Options{}).CopyPlainText(context.Background())
	assert.ErrorIs(t, err, ErrNoClipboard)
}

func TestImproveAppliesResult(t *testing.T) {
	e := New("s1", Options{})
	adapter := ai.NewAdapter(staticGenerator("Sharper summary"), nil, nil)
	doc, err := e.Improve(context.Background(), adapter, Target{Section: "summary"})
	require.NoError(t, err)
	assert.Equal(t, "Sharper summary", doc.PersonalInfo.Summary)
	assert.True(t, e.CanUndo())
}

func TestImproveWithoutServiceLeavesDocument(t *testing.T) {
	e := New("s1", Options{})
	before := e.Document()
	_, err := e.Improve(context.Background(), ai.NewAdapter(nil, nil, nil), Target{Section: "summary"})
	assert.ErrorIs(t, err, errcode.ErrServiceUnavailable)
	assert.Equal(t, before, e.Document())
}

func TestImproveDiscardsStaleResult(t *testing.T) {
	e := New("s1", Options{})
	gen := &gatedGenerator{started: make(chan struct{}), release: make(chan struct{}), output: "AI text"}
	adapter := ai.NewAdapter(gen, nil, nil)
	target := Target{Section: "experience", Index: 0}

	var wg sync.WaitGroup
	var improveErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, improveErr = e.Improve(context.Background(), adapter, target)
	}()

	<-gen.started
	slot := Target{Section: "experience", ID: e.Document().Experience[0].ID}.Key()
	assert.True(t, e.Slots().InFlight(slot))
	_, err := e.SetField(target, "typed by user")
	require.NoError(t, err)
	close(gen.release)
	wg.Wait()

	assert.ErrorIs(t, improveErr, ErrStale)
	assert.Equal(t, "typed by user", e.Document().Experience[0].Description)
}

// improveInFlight 发起改写并在生成器阻塞时执行 during，返回改写结果的错误。
func improveInFlight(t *testing.T, e *Editor, target Target, output string, during func()) error {
	t.Helper()
	gen := &gatedGenerator{started: make(chan struct{}), release: make(chan struct{}), output: output}
	adapter := ai.NewAdapter(gen, nil, nil)

	var wg sync.WaitGroup
	var improveErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, improveErr = e.Improve(context.Background(), adapter, target)
	}()
	<-gen.started
	during()
	close(gen.release)
	wg.Wait()
	return improveErr
}

func TestImproveFollowsMovedEntry(t *testing.T) {
	e := New("s1", Options{})
	before := e.Document()
	globex, initech := before.Experience[0], before.Experience[1]

	err := improveInFlight(t, e, Target{Section: "experience", Index: 0}, "Rewritten Globex", func() {
		_, err := e.MoveEntry(resume.CategoryExperience, 0, 1)
		require.NoError(t, err)
	})
	require.NoError(t, err)

	doc := e.Document()
	require.Len(t, doc.Experience, 2)
	assert.Equal(t, initech.ID, doc.Experience[0].ID)
	assert.Equal(t, initech.Description, doc.Experience[0].Description)
	assert.Equal(t, globex.ID, doc.Experience[1].ID)
	assert.Equal(t, "Rewritten Globex", doc.Experience[1].Description)
}

func TestImproveDiscardedWhenEntryRemoved(t *testing.T) {
	e := New("s1", Options{})
	initech := e.Document().Experience[1]

	err := improveInFlight(t, e, Target{Section: "experience", Index: 0}, "Rewritten Globex", func() {
		_, err := e.Update(func(d resume.Document) (resume.Document, error) {
			return resume.RemoveEntry(d, resume.CategoryExperience, 0)
		})
		require.NoError(t, err)
	})
	assert.ErrorIs(t, err, ErrStale)

	doc := e.Document()
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, initech.ID, doc.Experience[0].ID)
	assert.Equal(t, initech.Description, doc.Experience[0].Description)
}

func TestSetFieldByID(t *testing.T) {
	e := New("s1", Options{})
	second := e.Document().Experience[1]

	doc, err := e.SetField(Target{Section: "experience", ID: second.ID}, "by id")
	require.NoError(t, err)
	assert.Equal(t, "by id", doc.Experience[1].Description)

	_, err = e.SetField(Target{Section: "experience", ID: "missing"}, "x")
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func TestSlotsOnlyLatestTokenWins(t *testing.T) {
	s := NewSlots()
	first := s.Begin("a")
	second := s.Begin("a")
	other := s.Begin("b")

	assert.False(t, s.Complete(first))
	assert.True(t, s.Complete(second))
	assert.False(t, s.Complete(second))
	assert.True(t, s.Complete(other))
	assert.False(t, s.Complete(Token{}))
}

func TestRegistryEviction(t *testing.T) {
	r := NewRegistry(func(id, _ string) *Editor { return New(id, Options{}) }, time.Minute, nil)
	a := r.Create("")
	b := r.Create("device-1")
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, r.Len())

	got, ok := r.Get(a.ID())
	require.True(t, ok)
	assert.Same(t, a, got)

	assert.Equal(t, 0, r.Evict(time.Now()))
	assert.Equal(t, 2, r.Evict(time.Now().Add(2*time.Minute)))
	_, ok = r.Get(a.ID())
	assert.False(t, ok)
}

func TestRegistryObserver(t *testing.T) {
	r := NewRegistry(func(id, _ string) *Editor { return New(id, Options{}) }, time.Minute, nil)
	var counts []int
	r.SetObserver(func(active int) { counts = append(counts, active) })

	a := r.Create("")
	r.Create("")
	r.Delete(a.ID())
	r.Evict(time.Now().Add(time.Hour))
	assert.Equal(t, []int{1, 2, 1, 0}, counts)
}

func TestNewWithoutThemeUsesDefaultQuietly(t *testing.T) {
	var buf bytes.Buffer
	engine := render.NewEngine(nil, render.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	e := New("quiet", Options{Engine: engine})
	assert.Equal(t, engine.Themes().All()[0].ID, e.ThemeID())
	assert.NotContains(t, buf.String(), "theme fallback")

	e = New("loud", Options{Engine: engine, ThemeID: "no-such-theme"})
	assert.Equal(t, engine.Themes().All()[0].ID, e.ThemeID())
	assert.Contains(t, buf.String(), "theme fallback")
}

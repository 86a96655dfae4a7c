package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"scatterview/internal/dataset"
	"scatterview/internal/logging"
	"scatterview/internal/plot"
	"scatterview/internal/render"
	"scatterview/internal/render/term"
)

const watchDebounce = 300 * time.Millisecond

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

// fileChangedMsg reports a debounced write to the session's file.
type fileChangedMsg struct {
	s    *session
	path string
}

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !dataset.Supported(name) {
			continue
		}
		items = append(items, fileItem{title: name, desc: strings.ToLower(filepath.Ext(name)), path: filepath.Join(m.cwd, name)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath replaces the session with a fresh one for p. The returned command
// starts surface initialization and the file watch.
func (m *Model) loadPath(p string) tea.Cmd {
	records, err := dataset.Load(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		return nil
	}
	if m.s != nil {
		m.s.close()
	}
	s := m.newSession(p)
	m.s = s
	m.selPath = p
	if err := s.plotter.SetData(records, dataset.Infer(records, m.cfg.Palette, m.cfg.Gradient)); err != nil {
		m.status = "plot error: " + err.Error()
	} else {
		m.status = fmt.Sprintf("loaded: %s  points=%d  color by %s", filepath.Base(p), len(records), s.plotter.Attribute())
	}
	m.refreshAttrs()

	if w, err := dataset.Watch(s.ctx, p, watchDebounce); err == nil {
		s.watcher = w
	} else {
		logging.Logger().Warn("tui: watch disabled", "path", p, "err", err)
	}
	return tea.Batch(m.ensureSurface(), s.watchCmd())
}

func (m *Model) newSession(p string) *session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{path: p, ctx: ctx, cancel: cancel}
	s.canvas = term.NewCanvas(m.area.Size())
	s.ctrl = render.New(m.surf, s.canvas, m.area,
		render.WithMaxPixelRatio(m.cfg.MaxPixelRatio),
		render.WithOnSelect(s.onSelect),
		render.WithOnDeselect(s.onDeselect),
		render.WithOnError(s.onError),
	)
	s.plotter = plot.New(s.ctrl,
		plot.WithAttribute(m.cfg.DefaultAttribute),
		plot.WithExcluded(m.cfg.ExcludedAttributes...),
	)
	return s
}

// reload re-reads the session file after a change on disk. The camera keeps
// its framing.
func (m *Model) reload(s *session) {
	records, err := dataset.Load(s.path)
	if err != nil {
		m.status = "reload error: " + err.Error()
		return
	}
	if err := s.plotter.SetData(records, dataset.Infer(records, m.cfg.Palette, m.cfg.Gradient)); err != nil {
		m.status = "plot error: " + err.Error()
		return
	}
	s.selected = nil
	s.ctrl.Select(nil)
	m.refreshAttrs()
	m.status = fmt.Sprintf("reloaded: %s  points=%d", filepath.Base(s.path), len(records))
}

func (s *session) watchCmd() tea.Cmd {
	if s.watcher == nil {
		return nil
	}
	ch := s.watcher.Changes()
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return fileChangedMsg{s: s, path: p}
	}
}

func (s *session) close() {
	s.cancel()
	if s.watcher != nil {
		s.watcher.Close()
	}
}

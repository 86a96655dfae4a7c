package tui

import (
	"context"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	spinner "github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"scatterview/internal/config"
	"scatterview/internal/dataset"
	"scatterview/internal/plot"
	"scatterview/internal/render"
	"scatterview/internal/render/term"
)

type Model struct {
	cfg *config.Config

	width  int
	height int

	showSidebar bool
	showAttrs   bool
	helpVisible bool

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Attribute switch
	attrs list.Model

	spin spinner.Model

	// map area reported to the render controller as the canvas container
	area *mapArea

	surf *term.Surface
	s    *session
}

// session is one loaded dataset: its plotter, controller and surface handle.
// Opening another file replaces the session, so camera framing happens once
// per file while reloads of the same file keep it.
type session struct {
	path    string
	ctx     context.Context
	cancel  context.CancelFunc
	canvas  *term.Canvas
	ctrl    *render.Controller
	plotter *plot.Plotter
	view    *term.Plot
	watcher *dataset.Watcher

	selected []int
	status   string
}

func New(cfg *config.Config) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	m := Model{
		cfg:         cfg,
		helpVisible: true,
		status:      "scatterview ready",
		area:        &mapArea{},
		surf:        &term.Surface{Highlight: cfg.Highlight},
	}
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)

	ad := list.NewDefaultDelegate()
	ad.ShowDescription = true
	m.attrs = list.New(nil, ad, 0, 0)
	m.attrs.Title = "Color by"
	m.attrs.SetShowHelp(false)
	m.attrs.SetShowStatusBar(false)
	m.attrs.SetFilteringEnabled(false)

	m.spin = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle))
	m.refreshDir()
	return m
}

// NewWithPath preloads a file's data at launch.
func NewWithPath(cfg *config.Config, path string) Model {
	m := New(cfg)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.s != nil {
		cmds = append(cmds, m.s.watchCmd())
	}
	return tea.Batch(cmds...)
}

// Session accessors, mostly for the command layer and tests.

func (m Model) Plotter() *plot.Plotter {
	if m.s == nil {
		return nil
	}
	return m.s.plotter
}

func (m Model) Selected() []int {
	if m.s == nil {
		return nil
	}
	return m.s.selected
}

func (m Model) Status() string { return m.status }

// Close stops the file watcher of the current session.
func (m Model) Close() {
	if m.s != nil {
		m.s.close()
	}
}

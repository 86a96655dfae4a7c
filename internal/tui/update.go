package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	spinner "github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"scatterview/internal/dataset"
	"scatterview/internal/render"
	"scatterview/internal/render/term"
)

// initDoneMsg carries a finished surface initialization back to Update.
type initDoneMsg struct {
	s   *session
	res render.InitResult
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	if m.s != nil && m.s.status != "" {
		m.status = m.s.status
		m.s.status = ""
	}
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.resized()
	case initDoneMsg:
		if msg.s != m.s {
			return nil
		}
		m.s.ctrl.InitDone(msg.res)
		if m.s.ctrl.State() == render.Ready {
			m.s.view, _ = msg.res.Handle.(*term.Plot)
			m.s.ctrl.Resize()
		}
		return nil
	case fileChangedMsg:
		if msg.s != m.s {
			return nil
		}
		m.reload(m.s)
		return m.s.watchCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return cmd
	case tea.KeyMsg:
		return m.key(msg)
	case tea.MouseMsg:
		m.mouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) key(msg tea.KeyMsg) tea.Cmd {
	// If list is visible and filtering, send keys to list and ignore global commands
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return cmd
	}
	switch msg.String() {
	case "ctrl+c", "q":
		m.Close()
		return tea.Quit
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.showAttrs = false
			m.refreshDir()
		}
		return m.resized()
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.showSidebar = false
			m.refreshAttrs()
		}
		return m.resized()
	case "h":
		m.helpVisible = !m.helpVisible
		return nil
	case "enter":
		switch {
		case m.showSidebar:
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				return m.loadPath(it.path)
			}
		case m.showAttrs:
			m.applyAttr()
		}
		return nil
	}

	if m.showSidebar || m.showAttrs {
		var cmd tea.Cmd
		if m.showSidebar {
			m.l, cmd = m.l.Update(msg)
		} else {
			m.attrs, cmd = m.attrs.Update(msg)
		}
		return cmd
	}

	if m.s == nil {
		return nil
	}
	switch msg.String() {
	case "s":
		tool := render.ToolLasso
		if m.s.ctrl.Tool() == render.ToolLasso {
			tool = render.ToolDefault
		}
		m.s.ctrl.SetTool(tool)
		m.status = "tool: " + string(tool)
	case "esc":
		m.s.ctrl.Select(nil)
		m.s.selected = nil
		m.status = "selection cleared"
	case "r":
		m.reload(m.s)
	}
	v := m.s.view
	if v == nil {
		return nil
	}
	switch msg.String() {
	case "+", "=":
		v.ZoomIn()
		m.status = fmt.Sprintf("distance: %.3g", v.Distance())
	case "-", "_":
		v.ZoomOut()
		m.status = fmt.Sprintf("distance: %.3g", v.Distance())
	case "up":
		v.Pan(0, -1)
	case "down":
		v.Pan(0, 1)
	case "left":
		v.Pan(-2, 0)
	case "right":
		v.Pan(2, 0)
	}
	return nil
}

func (m *Model) mouse(msg tea.MouseMsg) {
	if m.s == nil || m.s.view == nil {
		return
	}
	cx, cy, inside := m.layout().cell(msg.X, msg.Y)
	v := m.s.view
	switch msg.Action {
	case tea.MouseActionPress:
		if !inside {
			return
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			v.ZoomIn()
		case tea.MouseButtonWheelDown:
			v.ZoomOut()
		case tea.MouseButtonLeft:
			v.Press(cx, cy)
		}
	case tea.MouseActionMotion:
		v.Motion(cx, cy)
	case tea.MouseActionRelease:
		v.Release(cx, cy)
	}
}

// resized updates the layout and, when the map area changed, lets the
// controller propagate it. A session still waiting for its surface gets one
// as soon as the map area is known.
func (m *Model) resized() tea.Cmd {
	if !m.relayout() || m.s == nil {
		return nil
	}
	if m.s.ctrl.State() == render.Ready {
		m.s.ctrl.Resize()
		return nil
	}
	return m.ensureSurface()
}

// ensureSurface starts surface initialization for the current session when
// the controller asks for it.
func (m *Model) ensureSurface() tea.Cmd {
	s := m.s
	if s == nil || m.width == 0 || s.ctrl.State() != render.Uninitialized {
		return nil
	}
	s.canvas.SetSize(m.area.Size())
	initFn := s.ctrl.SurfaceAvailable()
	if initFn == nil {
		return nil
	}
	ctx := s.ctx
	return func() tea.Msg {
		return initDoneMsg{s: s, res: initFn(ctx)}
	}
}

// Surface callbacks; they run inside Update.

func (s *session) onSelect(ids []int) {
	s.selected = ids
	if len(ids) == 1 {
		s.status = s.describe(ids[0])
		return
	}
	s.status = fmt.Sprintf("selected %d points", len(ids))
}

func (s *session) onDeselect() {
	s.selected = nil
	s.status = "selection cleared"
}

func (s *session) onError(err error) {
	s.status = "surface error: " + err.Error()
}

func (s *session) describe(id int) string {
	records := s.plotter.Records()
	if id < 0 || id >= len(records) {
		return fmt.Sprintf("selected #%d", id)
	}
	r := records[id]
	parts := []string{fmt.Sprintf("#%d", id)}
	for _, d := range s.plotter.Descriptors() {
		if v, ok := r.Attrs[d.Name]; ok {
			parts = append(parts, d.Name+"="+dataset.Label(v))
		}
	}
	return strings.Join(parts, "  ")
}

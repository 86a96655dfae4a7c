package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"scatterview/internal/encode"
	"scatterview/internal/render"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lo := m.layout()

	// Header
	header := titleStyle.Render(" scatterview ─ terminal point cloud viewer ")
	header = lipgloss.NewStyle().Width(lo.contentW).Padding(0).Render(header)

	mapView := lipgloss.NewStyle().Width(lo.mapW).Height(lo.mapH).Render(m.renderMap(lo))

	// Body row
	var body string
	switch {
	case m.showSidebar:
		sidebar := lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	case m.showAttrs:
		panel := lipgloss.NewStyle().Width(attrsWidth).Render(m.attrs.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, mapView, " ", panel)
	default:
		body = mapView
	}

	// Footer / help
	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	if strings.Contains(m.status, "error") {
		status = warnStyle.Render(" " + m.status + " ")
	}
	legend := m.renderLegend()
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, help)
	spacerW := max(0, lo.contentW-lipgloss.Width(left)-lipgloss.Width(legend))
	right := lipgloss.Place(spacerW+lipgloss.Width(legend), 1, lipgloss.Right, lipgloss.Center, legend)
	footer := lipgloss.NewStyle().Width(lo.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(lo.contentW).Height(m.height).Render(ui)
}

func (m Model) renderMap(lo layout) string {
	if m.s == nil {
		hint := boxStyle.Render("no dataset loaded\nTab opens the file sidebar")
		return lipgloss.Place(lo.mapW, lo.mapH, lipgloss.Center, lipgloss.Center, hint)
	}
	if m.s.view == nil || m.s.plotter.Loading() {
		msg := m.spin.View() + " loading " + m.s.ctrl.State().String()
		return lipgloss.Place(lo.mapW, lo.mapH, lipgloss.Center, lipgloss.Center, msg)
	}
	return m.s.view.View()
}

// renderLegend shows the active attribute and its colors.
func (m Model) renderLegend() string {
	if m.s == nil {
		return ""
	}
	d := m.s.plotter.Descriptor()
	if d == nil {
		return ""
	}
	parts := []string{dimStyle.Render(d.Name + ":")}
	switch d.Kind {
	case encode.Discrete:
		for i, o := range d.Options {
			if i == 6 {
				parts = append(parts, dimStyle.Render(fmt.Sprintf("+%d", len(d.Options)-i)))
				break
			}
			label := o.Label
			if label == "" {
				label = "∅"
			}
			parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(o.Color)).Render("● "+label))
		}
	case encode.Continuous:
		parts = append(parts, dimStyle.Render(fmt.Sprintf("%g", d.Range.Min)))
		for _, c := range d.Range.Colors {
			parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("█"))
		}
		parts = append(parts, dimStyle.Render(fmt.Sprintf("%g", d.Range.Max)))
	}
	if m.s.ctrl.Tool() == render.ToolLasso {
		parts = append(parts, accentStyle.Render("[lasso]"))
	}
	return strings.Join(parts, " ") + " "
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"click select",
		"s lasso",
		"esc clear",
		"a color by",
		"Tab files",
		"r reload",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}

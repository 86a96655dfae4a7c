package tui

const (
	sidebarWidth = 28
	attrsWidth   = 26
	headerHeight = 1
	footerHeight = 2
)

// mapArea is the container of the plot canvas: the cell area left for the
// map after header, footer and side panels.
type mapArea struct {
	w, h int
}

func (a *mapArea) Size() (int, int) { return a.w, a.h }

type layout struct {
	contentW, contentH int
	mapX, mapY         int
	mapW, mapH         int
}

// layout must match View.
func (m Model) layout() layout {
	lo := layout{
		contentW: max(10, m.width),
		contentH: max(4, m.height-headerHeight-footerHeight),
		mapY:     headerHeight,
	}
	lo.mapW = lo.contentW
	if m.showSidebar {
		lo.mapX = sidebarWidth + 1
		lo.mapW -= sidebarWidth + 1
	}
	if m.showAttrs {
		lo.mapW -= attrsWidth + 1
	}
	lo.mapW = max(10, lo.mapW)
	lo.mapH = lo.contentH
	return lo
}

// relayout recomputes panel sizes and reports whether the map area changed.
func (m *Model) relayout() bool {
	lo := m.layout()
	m.l.SetSize(sidebarWidth-2, lo.contentH-2)
	m.attrs.SetSize(attrsWidth-2, lo.contentH-2)
	if m.area.w == lo.mapW && m.area.h == lo.mapH {
		return false
	}
	m.area.w, m.area.h = lo.mapW, lo.mapH
	return true
}

// cell converts a terminal position to map cell coordinates.
func (lo layout) cell(x, y int) (int, int, bool) {
	cx, cy := x-lo.mapX, y-lo.mapY
	return cx, cy, cx >= 0 && cx < lo.mapW && cy >= 0 && cy < lo.mapH
}

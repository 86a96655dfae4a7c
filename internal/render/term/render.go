package term

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const zoomStep = 1.2

// unit is the world half-extent shown across the shorter canvas axis.
// Degenerate framings (zero distance) fall back to 1.
func (p *Plot) unit() float64 {
	if p.distance <= 0 {
		return 1
	}
	return p.distance
}

// scale is micro pixels per world unit.
func (p *Plot) scale() float64 {
	w, h := p.canvas.Size()
	return float64(min(w*2, h*4)) / 2 / p.unit()
}

// screenXYMicro maps world coordinates into the 2x4 microgrid per cell.
func (p *Plot) screenXYMicro(x, y float64) (int, int, bool) {
	w, h := p.canvas.Size()
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	s := p.scale()
	wMic := w * 2
	hMic := h * 4
	mx := int(math.Floor(float64(wMic)/2 + (x-p.target[0])*s))
	my := int(math.Floor(float64(hMic)/2 - (y-p.target[1])*s))
	if mx < 0 || my < 0 || mx >= wMic || my >= hMic {
		return mx, my, false
	}
	return mx, my, true
}

// CellToWorld converts a canvas cell back into world coordinates.
func (p *Plot) CellToWorld(cx, cy int) (float64, float64, bool) {
	w, h := p.canvas.Size()
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	s := p.scale()
	mx := float64(cx*2) + 1
	my := float64(cy*4) + 2
	x := p.target[0] + (mx-float64(w*2)/2)/s
	y := p.target[1] - (my-float64(h*4)/2)/s
	return x, y, true
}

// Zoom scales the camera distance by factor, clamped to the configured
// minimum and maximum distance when those are set.
func (p *Plot) Zoom(factor float64) {
	d := p.unit() * factor
	if p.minDistance > 0 && d < p.minDistance {
		d = p.minDistance
	}
	if p.maxDistance > 0 && d > p.maxDistance {
		d = p.maxDistance
	}
	p.distance = d
}

func (p *Plot) ZoomIn()  { p.Zoom(1 / zoomStep) }
func (p *Plot) ZoomOut() { p.Zoom(zoomStep) }

// Pan moves the camera target by whole cells.
func (p *Plot) Pan(dx, dy int) {
	s := p.scale()
	p.target[0] += float64(dx*2) / s
	p.target[1] -= float64(dy*4) / s
}

// nearest returns the visible point closest to the cell within radius cells.
func (p *Plot) nearest(cx, cy, radius int) (int, bool) {
	hx, hy := cx*2+1, cy*4+2
	best := (radius*4)*(radius*4) + 1
	id := 0
	for i := 1; i < len(p.points); i++ {
		pt := p.points[i]
		if !pt.Visible() {
			continue
		}
		mx, my, ok := p.screenXYMicro(pt.X(), pt.Y())
		if !ok {
			continue
		}
		dx := mx - hx
		dy := my - hy
		if d := dx*dx + dy*dy; d < best {
			best = d
			id = i
		}
	}
	return id, id > 0
}

// inRect returns the visible points whose cell lies in the rectangle spanned
// by two corner cells.
func (p *Plot) inRect(a, b [2]int) []int {
	x0, x1 := min(a[0], b[0]), max(a[0], b[0])
	y0, y1 := min(a[1], b[1]), max(a[1], b[1])
	var ids []int
	for i := 1; i < len(p.points); i++ {
		pt := p.points[i]
		if !pt.Visible() {
			continue
		}
		mx, my, ok := p.screenXYMicro(pt.X(), pt.Y())
		if !ok {
			continue
		}
		cx, cy := mx/2, my/4
		if cx >= x0 && cx <= x1 && cy >= y0 && cy <= y1 {
			ids = append(ids, i)
		}
	}
	return ids
}

// Press starts a lasso drag, or selects the point under the cell when the
// lasso is off.
func (p *Plot) Press(cx, cy int) {
	if p.lasso {
		p.dragging = true
		p.dragFrom = [2]int{cx, cy}
		p.dragTo = p.dragFrom
		return
	}
	if id, ok := p.nearest(cx, cy, 1); ok {
		p.emitSelect([]int{id})
		return
	}
	p.emitDeselect()
}

// Motion extends a lasso drag.
func (p *Plot) Motion(cx, cy int) {
	if p.dragging {
		p.dragTo = [2]int{cx, cy}
	}
}

// Release finishes a lasso drag and selects everything inside it.
func (p *Plot) Release(cx, cy int) {
	if !p.dragging {
		return
	}
	p.dragging = false
	p.dragTo = [2]int{cx, cy}
	if ids := p.inRect(p.dragFrom, p.dragTo); len(ids) > 0 {
		p.emitSelect(ids)
		return
	}
	p.emitDeselect()
}

func (p *Plot) emitSelect(ids []int) {
	p.Select(ids)
	if p.onSelect != nil {
		p.onSelect(ids)
	}
}

func (p *Plot) emitDeselect() {
	clear(p.selected)
	if p.onDeselect != nil {
		p.onDeselect()
	}
}

// View renders the canvas as lines of braille cells.
func (p *Plot) View() string {
	w, h := p.canvas.Size()
	if w <= 0 || h <= 0 {
		return ""
	}
	br := newBrailleBuf(w, h)
	for i := 1; i < len(p.points); i++ {
		pt := p.points[i]
		if !pt.Visible() {
			continue
		}
		mx, my, ok := p.screenXYMicro(pt.X(), pt.Y())
		if !ok {
			continue
		}
		color := p.palette.Hex(pt.Channel())
		if p.selected[i] {
			color = p.highlight
		}
		br.setPixel(mx, my, color)
	}
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		lines[y] = p.renderRow(br, y)
	}
	return strings.Join(lines, "\n")
}

// renderRow styles runs of equally colored cells together.
func (p *Plot) renderRow(br *brailleBuf, y int) string {
	var sb strings.Builder
	var run []rune
	runColor := ""
	flush := func() {
		if len(run) == 0 {
			return
		}
		if runColor == "" {
			sb.WriteString(string(run))
		} else {
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(string(run)))
		}
		run = run[:0]
	}
	for x := 0; x < br.w; x++ {
		r := br.glyph(x, y)
		color := br.c[y][x]
		if r == ' ' {
			color = ""
		}
		if p.dragging && p.onLassoEdge(x, y) && r == ' ' {
			r = '·'
			color = p.highlight
		}
		if color != runColor {
			flush()
			runColor = color
		}
		run = append(run, r)
	}
	flush()
	return sb.String()
}

func (p *Plot) onLassoEdge(x, y int) bool {
	x0, x1 := min(p.dragFrom[0], p.dragTo[0]), max(p.dragFrom[0], p.dragTo[0])
	y0, y1 := min(p.dragFrom[1], p.dragTo[1]), max(p.dragFrom[1], p.dragTo[1])
	if x < x0 || x > x1 || y < y0 || y > y1 {
		return false
	}
	return x == x0 || x == x1 || y == y0 || y == y1
}

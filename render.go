package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cellGrid is one frame of the terminal view: a rune per cell plus an
// optional style per cell.
type cellGrid struct {
	w, h   int
	runes  [][]rune
	styles [][]*lipgloss.Style
}

func newCellGrid(w, h int) *cellGrid {
	g := &cellGrid{w: w, h: h}
	g.runes = make([][]rune, h)
	g.styles = make([][]*lipgloss.Style, h)
	for y := 0; y < h; y++ {
		g.runes[y] = make([]rune, w)
		g.styles[y] = make([]*lipgloss.Style, w)
		for x := 0; x < w; x++ {
			g.runes[y][x] = ' '
		}
	}
	return g
}

func (g *cellGrid) set(x, y int, r rune, st *lipgloss.Style) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.runes[y][x] = r
	g.styles[y][x] = st
}

func (g *cellGrid) render() string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			if st := g.styles[y][x]; st != nil {
				b.WriteString(st.Render(string(g.runes[y][x])))
			} else {
				b.WriteRune(g.runes[y][x])
			}
		}
		if y < g.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m model) View() string {
	if m.width == 0 || m.height < 2 {
		return ""
	}
	g := newCellGrid(m.width, m.height-1)
	m.drawRaster(g)
	m.drawConnections(g)
	m.drawObjects(g)
	return g.render() + "\n" + m.statusLine()
}

// drawRaster projects the sketch sheet under everything else, sampling one
// logical point per cell.
func (m model) drawRaster(g *cellGrid) {
	vp := m.sess.viewport
	styleCache := make(map[string]*lipgloss.Style)
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			l := vp.ToLogical(Point{float64(x) + 0.5, float64(y) + 0.5})
			c, ok := m.sess.raster.Sample(l)
			if !ok {
				continue
			}
			hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
			st, ok := styleCache[hex]
			if !ok {
				s := lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
				st = &s
				styleCache[hex] = st
			}
			g.set(x, y, '▓', st)
		}
	}
}

// drawConnections draws each edge clipped to its endpoints' borders, styled
// by the active theme. Objects are drawn afterwards and paint over the
// portions the line would cross.
func (m model) drawConnections(g *cellGrid) {
	ls := m.sess.theme.LineStyle()
	st := lipgloss.NewStyle().Foreground(ls.Color)
	if ls.Glow {
		st = st.Bold(true)
	}

	vp := m.sess.viewport
	for _, e := range m.sess.graph.Edges() {
		a, okA := m.sess.objects.Get(e.A)
		b, okB := m.sess.objects.Get(e.B)
		if !okA || !okB {
			continue
		}
		line, ok := clipToBorder(a.Bounds(), b.Bounds())
		if !ok {
			continue
		}
		from := vp.ToScreen(line.From)
		to := vp.ToScreen(line.To)
		i := 0
		plot(int(math.Round(from.X)), int(math.Round(from.Y)),
			int(math.Round(to.X)), int(math.Round(to.Y)),
			func(x, y int) {
				if !ls.Dashed || i%2 == 0 {
					g.set(x, y, ls.Rune, &st)
				}
				i++
			})
	}
}

func (m model) drawObjects(g *cellGrid) {
	for _, o := range m.sess.objects.All() {
		m.drawObject(g, o)
	}
}

func (m model) drawObject(g *cellGrid, o *Object) {
	vp := m.sess.viewport
	tl := vp.ToScreen(o.Pos)
	x0 := int(math.Round(tl.X))
	y0 := int(math.Round(tl.Y))
	w := int(math.Round(o.Size.X * vp.Scale))
	h := int(math.Round(o.Size.Y * vp.Scale))

	selected := o.ID == m.selected
	pending := m.mode == ModeConnect && o.ID == m.connectFrom
	st := m.sess.theme.objectStyle(o, selected, pending)

	if w < 3 || h < 2 {
		g.set(x0, y0, '▪', &st)
		return
	}

	// Frame. The bottom-right corner doubles as the resize handle.
	for x := x0 + 1; x < x0+w-1; x++ {
		g.set(x, y0, '─', &st)
		g.set(x, y0+h-1, '─', &st)
	}
	for y := y0 + 1; y < y0+h-1; y++ {
		g.set(x0, y, '│', &st)
		g.set(x0+w-1, y, '│', &st)
	}
	g.set(x0, y0, '╭', &st)
	g.set(x0+w-1, y0, '╮', &st)
	g.set(x0, y0+h-1, '╰', &st)
	corner := '╯'
	if selected {
		corner = '◢'
	}
	g.set(x0+w-1, y0+h-1, corner, &st)

	// Clear the interior so lines and sketch never bleed through.
	for y := y0 + 1; y < y0+h-1; y++ {
		for x := x0 + 1; x < x0+w-1; x++ {
			g.set(x, y, ' ', nil)
		}
	}

	if o.Title != "" {
		title := " " + o.Title + " "
		if len([]rune(title)) > w-4 && w > 4 {
			title = string([]rune(title)[:w-4])
		}
		for i, r := range []rune(title) {
			g.set(x0+2+i, y0, r, &st)
		}
	}

	switch o.Kind {
	case KindText:
		lines := strings.Split(o.Payload, "\n")
		for i, line := range lines {
			if i >= h-2 {
				break
			}
			runes := []rune(line)
			if len(runes) > w-4 {
				runes = runes[:w-4]
			}
			for j, r := range runes {
				g.set(x0+2+j, y0+1+i, r, nil)
			}
		}
	case KindImage:
		for y := y0 + 1; y < y0+h-1; y++ {
			for x := x0 + 1; x < x0+w-1; x++ {
				g.set(x, y, '▒', &st)
			}
		}
		tag := "[image]"
		ty := y0 + h/2
		tx := x0 + (w-len(tag))/2
		for i, r := range tag {
			g.set(tx+i, ty, r, &st)
		}
	}
}

func (m model) statusLine() string {
	t := m.sess.theme
	vp := m.sess.viewport

	left := " " + m.modeString() + " "
	right := fmt.Sprintf(" %s · %d%% · %d objects · %d links ",
		t.String(), int(math.Round(vp.Scale*100)), m.sess.objects.Len(), m.sess.graph.Len())

	bar := t.statusStyle()
	msg := ""
	if m.status != "" {
		msg = " " + t.messageStyle().Render(m.status)
	}

	used := lipgloss.Width(bar.Render(left)) + lipgloss.Width(msg) + lipgloss.Width(bar.Render(right))
	pad := m.width - used
	if pad < 0 {
		pad = 0
	}
	return bar.Render(left) + msg + strings.Repeat(" ", pad) + bar.Render(right)
}

func (m model) modeString() string {
	switch m.mode {
	case ModeConnect:
		if m.connectFrom != "" {
			return "CONNECT⇢"
		}
		return "CONNECT"
	case ModeDraw:
		return "DRAW"
	case ModeEditTitle:
		return "TITLE: " + m.input
	case ModeEditBody:
		return "TEXT: " + m.input
	case ModeImageInput:
		return "IMAGE PATH: " + m.input
	case ModeSearch:
		return "SEARCH: " + m.input
	default:
		return "NORMAL"
	}
}

// plot rasterizes a line over grid cells (Bresenham).
func plot(x0, y0, x1, y1 int, visit func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		visit(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

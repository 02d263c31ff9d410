package main

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type dragKind int

const (
	dragNone dragKind = iota
	dragMove
	dragResize
	dragPan
	dragPaint
)

type model struct {
	sess      *Session
	exportDir string

	width  int
	height int

	mode Mode

	// Drag/resize state machine. startPos/startSize let escape roll the
	// gesture back completely.
	drag         dragKind
	dragID       string
	dragOffset   Point
	resizeAnchor Point
	startPos     Point
	startSize    Point
	lastPointer  Point

	// Connect mode: empty means no start object picked yet.
	connectFrom string

	selected string
	input    string
	status   string
}

func initialModel(sess *Session, cfg *Config) model {
	return model{
		sess:      sess,
		exportDir: cfg.ExportDir,
		mode:      ModeNormal,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

// imagePayloadMsg is the completion of an asynchronous image file read. The
// object is created only once the payload has fully arrived.
type imagePayloadMsg struct {
	title   string
	payload string
}

// imageSkippedMsg reports a read that produced no object: missing file or
// not an image. Dropped silently apart from the log.
type imageSkippedMsg struct {
	path string
}

func loadImageCmd(path string, log *zap.Logger) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("image read failed", zap.String("path", path), zap.Error(err))
			return imageSkippedMsg{path: path}
		}
		mime := http.DetectContentType(data)
		if !strings.HasPrefix(mime, "image/") {
			log.Info("ignored non-image file", zap.String("path", path), zap.String("type", mime))
			return imageSkippedMsg{path: path}
		}
		payload := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
		return imagePayloadMsg{title: filepath.Base(path), payload: payload}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sess.SetViewSize(float64(msg.Width), float64(msg.Height-1))
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case imagePayloadMsg:
		o := m.sess.CreateImage(msg.title, msg.payload)
		m.selected = o.ID
		m.sess.Save()
		m.status = "added " + msg.title
		return m, nil

	case imageSkippedMsg:
		return m, nil
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := Point{float64(msg.X), float64(msg.Y)}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.sess.viewport.ZoomAt(p, 1)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.sess.viewport.ZoomAt(p, -1)
		return m, nil
	}

	switch m.mode {
	case ModeConnect:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.handleConnectPick(p)
		}
		return m, nil
	case ModeDraw:
		m.handleDrawMouse(msg, p)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		m.beginDrag(msg.Button, p)
	case tea.MouseActionMotion:
		m.continueDrag(p)
	case tea.MouseActionRelease:
		m.endDrag()
	}
	return m, nil
}

// beginDrag decides between moving, resizing and panning from where the
// press landed. A press on an object's bottom-right corner grabs the
// resize handle; anywhere else on the object starts a move; empty canvas
// pans.
func (m *model) beginDrag(button tea.MouseButton, p Point) {
	if button == tea.MouseButtonMiddle || button == tea.MouseButtonRight {
		m.drag = dragPan
		m.lastPointer = p
		return
	}
	if button != tea.MouseButtonLeft {
		return
	}

	o := m.sess.ObjectAtScreen(p)
	if o == nil {
		m.selected = ""
		m.drag = dragPan
		m.lastPointer = p
		return
	}

	m.selected = o.ID
	m.dragID = o.ID
	m.startPos = o.Pos
	m.startSize = o.Size

	corner := m.sess.viewport.ToScreen(Point{o.Pos.X + o.Size.X, o.Pos.Y + o.Size.Y})
	if p.X >= corner.X-resizeHandleSize && p.Y >= corner.Y-resizeHandleSize {
		m.drag = dragResize
		m.resizeAnchor = p
		return
	}

	m.drag = dragMove
	topLeft := m.sess.viewport.ToScreen(o.Pos)
	m.dragOffset = Point{p.X - topLeft.X, p.Y - topLeft.Y}
}

func (m *model) continueDrag(p Point) {
	switch m.drag {
	case dragMove:
		pos := m.sess.viewport.ToLogical(Point{p.X - m.dragOffset.X, p.Y - m.dragOffset.Y})
		m.sess.objects.Update(m.dragID, Patch{Pos: &pos})
	case dragResize:
		scale := m.sess.viewport.Scale
		size := Point{
			X: m.startSize.X + (p.X-m.resizeAnchor.X)/scale,
			Y: m.startSize.Y + (p.Y-m.resizeAnchor.Y)/scale,
		}
		m.sess.objects.Update(m.dragID, Patch{Size: &size})
	case dragPan:
		m.sess.viewport.PanBy(p.X-m.lastPointer.X, p.Y-m.lastPointer.Y)
		m.lastPointer = p
	}
}

// endDrag returns to idle and persists geometry changes.
func (m *model) endDrag() {
	changed := m.drag == dragMove || m.drag == dragResize
	m.drag = dragNone
	m.dragID = ""
	if changed {
		m.sess.Save()
	}
}

// cancelDrag rolls the in-flight gesture back to where it started.
func (m *model) cancelDrag() {
	switch m.drag {
	case dragMove:
		pos := m.startPos
		m.sess.objects.Update(m.dragID, Patch{Pos: &pos})
	case dragResize:
		size := m.startSize
		m.sess.objects.Update(m.dragID, Patch{Size: &size})
	}
	m.drag = dragNone
	m.dragID = ""
}

// handleConnectPick is the two-phase connect gesture: first pick arms the
// pending state, second pick on a different object commits the edge.
// Picking the start object again backs out with no side effects.
func (m *model) handleConnectPick(p Point) {
	o := m.sess.ObjectAtScreen(p)
	if o == nil {
		return
	}
	if m.connectFrom == "" {
		m.connectFrom = o.ID
		m.status = "connect: pick a target"
		return
	}
	if o.ID == m.connectFrom {
		m.leaveConnectMode("")
		return
	}
	if m.sess.Connect(m.connectFrom, o.ID) {
		m.sess.Save()
		m.leaveConnectMode("connected")
	} else {
		m.leaveConnectMode("already connected")
	}
}

func (m *model) leaveConnectMode(status string) {
	m.connectFrom = ""
	m.mode = ModeNormal
	m.status = status
}

func (m *model) handleDrawMouse(msg tea.MouseMsg, p Point) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		// One snapshot per stroke.
		m.sess.raster.Snapshot()
		m.drag = dragPaint
		m.paintAt(p)
	case tea.MouseActionMotion:
		if m.drag == dragPaint {
			m.paintAt(p)
		}
	case tea.MouseActionRelease:
		if m.drag == dragPaint {
			m.drag = dragNone
			m.sess.Save()
		}
	}
}

func (m *model) paintAt(p Point) {
	l := m.sess.viewport.ToLogical(p)
	m.sess.raster.Paint(l, brushRadius/m.sess.viewport.Scale, m.sess.theme.brushColor())
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.mode {
	case ModeEditTitle, ModeEditBody, ModeImageInput, ModeSearch:
		return m.handleInputKey(key)
	case ModeConnect:
		if key == "esc" || key == "c" {
			m.leaveConnectMode("")
		}
		return m, nil
	case ModeDraw:
		return m.handleDrawKey(key)
	}
	return m.handleNormalKey(key)
}

func (m model) handleNormalKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		m.sess.Save()
		return m, tea.Quit

	case "t":
		o := m.sess.CreateText("note", "")
		m.selected = o.ID
		m.sess.Save()

	case "i":
		m.mode = ModeImageInput
		m.input = ""

	case "c":
		m.mode = ModeConnect
		m.connectFrom = ""
		m.status = "connect: pick a start object"

	case "d":
		m.mode = ModeDraw
		m.status = "draw: drag to sketch, u undoes, esc leaves"

	case "/":
		m.mode = ModeSearch
		m.input = ""

	case "enter":
		if o, ok := m.sess.objects.Get(m.selected); ok {
			m.mode = ModeEditTitle
			m.input = o.Title
		}

	case "E":
		if o, ok := m.sess.objects.Get(m.selected); ok && o.Kind == KindText {
			m.mode = ModeEditBody
			m.input = o.Payload
		}

	case "x", "delete":
		if m.selected != "" {
			m.sess.DeleteObject(m.selected)
			m.selected = ""
			m.sess.Save()
		}

	case "y":
		m.yankSelected()

	case "e":
		m.exportPNG()

	case "T":
		m.sess.SetTheme(m.sess.theme.Next())
		m.status = "theme: " + m.sess.theme.String()

	case "R":
		m.sess.ResetWorkspace()
		m.selected = ""
		m.status = "workspace cleared"

	case "u":
		if m.sess.raster.Restore() {
			m.sess.Save()
		}

	case "h", "left":
		m.sess.viewport.PanBy(panStep, 0)
	case "l", "right":
		m.sess.viewport.PanBy(-panStep, 0)
	case "k", "up":
		m.sess.viewport.PanBy(0, panStep)
	case "j", "down":
		m.sess.viewport.PanBy(0, -panStep)

	case "+", "=":
		m.sess.viewport.ZoomAt(Point{float64(m.width) / 2, float64(m.height-1) / 2}, 1)
	case "-":
		m.sess.viewport.ZoomAt(Point{float64(m.width) / 2, float64(m.height-1) / 2}, -1)
	case "0":
		m.sess.viewport.Reset()

	case "esc":
		if m.drag != dragNone {
			m.cancelDrag()
		} else {
			m.selected = ""
			m.status = ""
		}
	}
	return m, nil
}

func (m model) handleDrawKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "d":
		if m.drag == dragPaint {
			m.drag = dragNone
		}
		m.mode = ModeNormal
		m.status = ""
	case "u":
		if m.sess.raster.Restore() {
			m.sess.Save()
		}
	case "ctrl+c", "q":
		m.sess.Save()
		return m, tea.Quit
	}
	return m, nil
}

func (m model) handleInputKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		m.mode = ModeNormal
		m.input = ""
		return m, nil

	case "enter":
		return m.commitInput()

	case "backspace":
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
		return m, nil

	case "space":
		m.input += " "
		return m, nil

	default:
		if len([]rune(key)) == 1 {
			m.input += key
		}
		return m, nil
	}
}

func (m model) commitInput() (tea.Model, tea.Cmd) {
	input := m.input
	mode := m.mode
	m.mode = ModeNormal
	m.input = ""

	switch mode {
	case ModeImageInput:
		if input == "" {
			return m, nil
		}
		return m, loadImageCmd(input, m.sess.log)

	case ModeSearch:
		hits := m.sess.Search(input)
		if len(hits) == 0 {
			m.status = "no matches"
			return m, nil
		}
		m.sess.CenterOn(hits[0])
		m.selected = hits[0].ID
		m.status = fmt.Sprintf("%d match(es)", len(hits))

	case ModeEditTitle:
		m.sess.objects.Update(m.selected, Patch{Title: &input})
		m.sess.Save()

	case ModeEditBody:
		m.sess.objects.Update(m.selected, Patch{Payload: &input})
		m.sess.Save()
	}
	return m, nil
}

func (m *model) yankSelected() {
	o, ok := m.sess.objects.Get(m.selected)
	if !ok {
		return
	}
	text := o.Payload
	if o.Kind == KindImage || text == "" {
		text = o.Title
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.sess.log.Warn("clipboard write failed", zap.Error(err))
		m.status = "clipboard unavailable"
		return
	}
	m.status = "yanked"
}

func (m *model) exportPNG() {
	name := "skein-" + time.Now().Format("20060102-150405") + ".png"
	path := filepath.Join(m.exportDir, name)
	if err := exportWorkspacePNG(m.sess, path); err != nil {
		m.sess.log.Warn("export failed", zap.Error(err))
		m.status = "export failed"
		return
	}
	m.status = "exported " + name
}

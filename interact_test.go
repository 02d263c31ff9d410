package main

import (
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func newTestModel() (model, *memStore) {
	store := newMemStore()
	sess := NewSession(store, zap.NewNop())
	m := initialModel(sess, &Config{})
	nm, _ := m.Update(tea.WindowSizeMsg{Width: 800, Height: 601})
	return nm.(model), store
}

func mouse(t *testing.T, m model, x, y int, action tea.MouseAction, button tea.MouseButton) model {
	t.Helper()
	nm, _ := m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: button})
	return nm.(model)
}

func press(t *testing.T, m model, x, y int) model {
	return mouse(t, m, x, y, tea.MouseActionPress, tea.MouseButtonLeft)
}

func moveTo(t *testing.T, m model, x, y int) model {
	return mouse(t, m, x, y, tea.MouseActionMotion, tea.MouseButtonLeft)
}

func release(t *testing.T, m model, x, y int) model {
	return mouse(t, m, x, y, tea.MouseActionRelease, tea.MouseButtonLeft)
}

func pressKey(t *testing.T, m model, key string) (model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	nm, cmd := m.Update(msg)
	return nm.(model), cmd
}

func TestDragMovesObject(t *testing.T) {
	m, store := newTestModel()
	o := m.sess.objects.Create(CreateOpts{Kind: KindText, At: &Point{100, 100}, Size: &Point{60, 30}})

	m = press(t, m, 110, 110)
	m = moveTo(t, m, 150, 140)

	// Offset from the grab point is preserved: the pointer moved by
	// (40, 30), so at 1:1 scale the object did too.
	if o.Pos != (Point{140, 130}) {
		t.Errorf("pos = %+v, want (140, 130)", o.Pos)
	}

	m = release(t, m, 150, 140)
	if m.drag != dragNone {
		t.Error("release did not return to idle")
	}
	if _, ok := store.Get(keyLayout); !ok {
		t.Error("drop did not persist the layout")
	}
}

func TestDragTransformsThroughViewport(t *testing.T) {
	m, _ := newTestModel()
	m.sess.viewport.Scale = 2
	o := m.sess.objects.Create(CreateOpts{Kind: KindText, At: &Point{10, 10}, Size: &Point{40, 30}})

	// Screen rect is (20,20)-(100,80) at scale 2.
	m = press(t, m, 30, 30)
	m = moveTo(t, m, 50, 50)

	if o.Pos != (Point{20, 20}) {
		t.Errorf("pos = %+v, want (20, 20)", o.Pos)
	}
	release(t, m, 50, 50)
}

func TestDragEndingOffObjectStillTerminates(t *testing.T) {
	m, _ := newTestModel()
	o := m.sess.objects.Create(CreateOpts{Kind: KindText, At: &Point{100, 100}, Size: &Point{60, 30}})

	m = press(t, m, 110, 110)
	m = release(t, m, 700, 500)
	if m.drag != dragNone {
		t.Fatal("drag survived a release outside the object")
	}

	before := o.Pos
	m = moveTo(t, m, 400, 400)
	if o.Pos != before {
		t.Error("motion after release still moved the object")
	}
}

func TestResizeDividesByScale(t *testing.T) {
	m, _ := newTestModel()
	m.sess.viewport.Scale = 2
	o := m.sess.objects.Create(CreateOpts{Kind: KindText, At: &Point{10, 10}, Size: &Point{40, 30}})

	// Bottom-right corner sits at screen (100, 80); grab the handle.
	m = press(t, m, 99, 79)
	if m.drag != dragResize {
		t.Fatalf("drag = %v, want resize", m.drag)
	}
	m = moveTo(t, m, 119, 89)

	if o.Size != (Point{50, 35}) {
		t.Errorf("size = %+v, want (50, 35)", o.Size)
	}
	release(t, m, 119, 89)
}

func TestEscapeRollsBackDrag(t *testing.T) {
	m, _ := newTestModel()
	o := m.sess.objects.Create(CreateOpts{Kind: KindText, At: &Point{100, 100}, Size: &Point{60, 30}})

	m = press(t, m, 110, 110)
	m = moveTo(t, m, 300, 300)
	m, _ = pressKey(t, m, "esc")

	if o.Pos != (Point{100, 100}) {
		t.Errorf("pos = %+v, want the pre-drag (100, 100)", o.Pos)
	}
	if m.drag != dragNone {
		t.Error("escape left the drag armed")
	}
}

func TestConnectModeTwoPhase(t *testing.T) {
	m, _ := newTestModel()
	a := m.sess.objects.Create(CreateOpts{Kind: KindText, At: &Point{0, 0}, Size: &Point{30, 20}})
	b := m.sess.objects.Create(CreateOpts{Kind: KindText, At: &Point{200, 0}, Size: &Point{30, 20}})

	m, _ = pressKey(t, m, "c")
	if m.mode != ModeConnect {
		t.Fatal("c did not enter connect mode")
	}

	m = press(t, m, 5, 5) // pick a
	if m.connectFrom != a.ID {
		t.Fatalf("pending start = %q, want %q", m.connectFrom, a.ID)
	}

	m = press(t, m, 205, 5) // commit to b
	if m.sess.graph.Len() != 1 {
		t.Fatalf("edges = %d, want 1", m.sess.graph.Len())
	}
	if !m.sess.graph.Connected(a.ID, b.ID) {
		t.Error("edge missing after commit")
	}
	if m.mode != ModeNormal {
		t.Error("commit did not leave connect mode")
	}
}

func TestConnectSameObjectAborts(t *testing.T) {
	m, _ := newTestModel()
	m.sess.objects.Create(CreateOpts{Kind: KindText, At: &Point{0, 0}, Size: &Point{30, 20}})

	m, _ = pressKey(t, m, "c")
	m = press(t, m, 5, 5)
	m = press(t, m, 6, 6) // same object again

	if m.sess.graph.Len() != 0 {
		t.Error("aborted connect created an edge")
	}
	if m.mode != ModeNormal || m.connectFrom != "" {
		t.Error("abort did not reset connect state")
	}
}

func TestConnectEscapeCancels(t *testing.T) {
	m, _ := newTestModel()
	m, _ = pressKey(t, m, "c")
	m, _ = pressKey(t, m, "esc")
	if m.mode != ModeNormal || m.connectFrom != "" {
		t.Error("escape did not reset connect state")
	}
}

func TestDeleteCascadesAndPersists(t *testing.T) {
	m, store := newTestModel()
	a := m.sess.objects.Create(CreateOpts{Kind: KindText, At: &Point{0, 0}, Size: &Point{30, 20}})
	b := m.sess.objects.Create(CreateOpts{Kind: KindText, At: &Point{200, 0}, Size: &Point{30, 20}})
	m.sess.Connect(a.ID, b.ID)

	m = press(t, m, 5, 5)
	m = release(t, m, 5, 5)
	m, _ = pressKey(t, m, "x")

	if _, ok := m.sess.objects.Get(a.ID); ok {
		t.Error("selected object survived delete")
	}
	if _, ok := m.sess.objects.Get(b.ID); !ok {
		t.Error("other object was deleted too")
	}
	if m.sess.graph.Len() != 0 {
		t.Error("edges survived the cascade")
	}
	if _, ok := store.Get(keyLayout); !ok {
		t.Error("delete did not persist")
	}
}

func TestWheelZoomsAtCursor(t *testing.T) {
	m, _ := newTestModel()
	anchor := m.sess.viewport.ToLogical(Point{100, 50})

	m = mouse(t, m, 100, 50, tea.MouseActionPress, tea.MouseButtonWheelUp)

	if m.sess.viewport.Scale <= 1 {
		t.Errorf("scale = %v, want > 1", m.sess.viewport.Scale)
	}
	got := m.sess.viewport.ToLogical(Point{100, 50})
	if math.Abs(got.X-anchor.X) > 1e-9 || math.Abs(got.Y-anchor.Y) > 1e-9 {
		t.Errorf("anchor moved: %+v -> %+v", anchor, got)
	}
}

func TestDrawStrokeThenUndo(t *testing.T) {
	m, store := newTestModel()
	m, _ = pressKey(t, m, "d")
	if m.mode != ModeDraw {
		t.Fatal("d did not enter draw mode")
	}

	m = press(t, m, 100, 100)
	m = moveTo(t, m, 120, 100)
	m = release(t, m, 120, 100)

	if m.sess.raster.Blank() {
		t.Fatal("stroke left no pixels")
	}
	if _, ok := store.Get(keyDrawing); !ok {
		t.Fatal("stroke was not persisted")
	}

	m, _ = pressKey(t, m, "u")
	if !m.sess.raster.Blank() {
		t.Error("undo did not roll the stroke back")
	}
	if _, ok := store.Get(keyDrawing); ok {
		t.Error("undone blank sheet still stored")
	}
}

func TestImagePayloadCreatesObject(t *testing.T) {
	m, _ := newTestModel()
	nm, _ := m.Update(imagePayloadMsg{title: "pic.png", payload: "data:image/png;base64,AA=="})
	m = nm.(model)

	all := m.sess.objects.All()
	if len(all) != 1 {
		t.Fatalf("objects = %d, want 1", len(all))
	}
	if all[0].Kind != KindImage || all[0].Title != "pic.png" {
		t.Errorf("object = %+v", all[0])
	}
	if m.selected != all[0].ID {
		t.Error("new image not selected")
	}
}

func TestImageSkippedCreatesNothing(t *testing.T) {
	m, _ := newTestModel()
	nm, _ := m.Update(imageSkippedMsg{path: "nope.txt"})
	m = nm.(model)
	if m.sess.objects.Len() != 0 {
		t.Error("skipped read still created an object")
	}
}

func TestLoadImageCmd(t *testing.T) {
	dir := t.TempDir()

	textPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(textPath, []byte("just text"), 0644); err != nil {
		t.Fatal(err)
	}

	pngPath := filepath.Join(dir, "dot.png")
	f, err := os.Create(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	log := zap.NewNop()

	if _, ok := loadImageCmd(textPath, log)().(imageSkippedMsg); !ok {
		t.Error("non-image file was not skipped")
	}
	if _, ok := loadImageCmd(filepath.Join(dir, "missing.png"), log)().(imageSkippedMsg); !ok {
		t.Error("missing file was not skipped")
	}

	msg, ok := loadImageCmd(pngPath, log)().(imagePayloadMsg)
	if !ok {
		t.Fatal("png file did not produce a payload")
	}
	if msg.title != "dot.png" || !strings.HasPrefix(msg.payload, "data:image/png;base64,") {
		t.Errorf("payload = %.40q title = %q", msg.payload, msg.title)
	}
}

func TestSearchCentersFirstHit(t *testing.T) {
	m, _ := newTestModel()
	o := m.sess.objects.Create(CreateOpts{Kind: KindText, At: &Point{5000, 5000}, Size: &Point{40, 20}, Title: "treasure"})

	m, _ = pressKey(t, m, "/")
	for _, r := range "treasure" {
		m, _ = pressKey(t, m, string(r))
	}
	m, _ = pressKey(t, m, "enter")

	if m.selected != o.ID {
		t.Fatal("search did not select the hit")
	}
	center := m.sess.viewport.ToLogical(Point{400, 300})
	want := o.Bounds().Center()
	if center != want {
		t.Errorf("view center = %+v, want %+v", center, want)
	}
}

func TestEditTitleCommit(t *testing.T) {
	m, store := newTestModel()
	o := m.sess.objects.Create(CreateOpts{Kind: KindText, At: &Point{0, 0}, Size: &Point{40, 20}})
	m.selected = o.ID

	m, _ = pressKey(t, m, "enter")
	if m.mode != ModeEditTitle {
		t.Fatal("enter did not start title editing")
	}
	for _, r := range "plan" {
		m, _ = pressKey(t, m, string(r))
	}
	m, _ = pressKey(t, m, "enter")

	if o.Title != "plan" {
		t.Errorf("title = %q, want %q", o.Title, "plan")
	}
	if _, ok := store.Get(keyLayout); !ok {
		t.Error("title edit did not persist")
	}
}

package main

import (
	"strings"

	"go.uber.org/zap"
)

// Session is the single owner of all mutable workspace state. Every
// component receives it explicitly; there are no package-level globals. All
// mutation happens on the UI event loop, so no locking.
type Session struct {
	viewport *Viewport
	objects  *Store
	graph    *Graph
	raster   *Raster
	codec    *Codec
	theme    Theme
	log      *zap.Logger

	// Viewport dimensions in screen units, kept current by the controller.
	viewW, viewH float64
}

func NewSession(store Storage, log *zap.Logger) *Session {
	return &Session{
		viewport: NewViewport(),
		objects:  NewStore(),
		graph:    NewGraph(),
		raster:   NewRaster(),
		codec:    NewCodec(store, log),
		theme:    ThemeSketch,
		log:      log,
	}
}

func (s *Session) SetViewSize(w, h float64) {
	s.viewW, s.viewH = w, h
}

// visibleCenter is the logical point currently in the middle of the view.
func (s *Session) visibleCenter() Point {
	return s.viewport.ToLogical(Point{s.viewW / 2, s.viewH / 2})
}

// CreateText places a new text block centered in the view, decorated with
// fresh hints from the active theme.
func (s *Session) CreateText(title, body string) *Object {
	return s.objects.Create(CreateOpts{
		Kind:     KindText,
		CenterOn: s.visibleCenter(),
		Title:    title,
		Payload:  body,
		Hints:    s.theme.NewHints(),
	})
}

// CreateImage places a new image block; payload is a data-URI encoded
// image delivered by the file read completion.
func (s *Session) CreateImage(title, payload string) *Object {
	return s.objects.Create(CreateOpts{
		Kind:     KindImage,
		CenterOn: s.visibleCenter(),
		Title:    title,
		Payload:  payload,
		Hints:    s.theme.NewHints(),
	})
}

// DeleteObject removes the object and cascades to its edges.
func (s *Session) DeleteObject(id string) {
	s.objects.Delete(id)
	s.graph.DisconnectAll(id)
}

func (s *Session) Connect(a, b string) bool {
	return s.graph.Connect(a, b)
}

func (s *Session) Save() {
	s.codec.Save(s.objects, s.graph, s.raster)
}

func (s *Session) Load() error {
	if t, ok := s.codec.LoadTheme(); ok {
		s.theme = t
	}
	return s.codec.Load(s.objects, s.graph, s.raster)
}

// SetTheme switches themes and persists the choice. Connection styling is
// theme-derived and recomputed per draw, so the next render restyles
// everything.
func (s *Session) SetTheme(t Theme) {
	s.theme = t
	s.codec.SaveTheme(t)
}

// ResetWorkspace clears all objects, edges and the sketch sheet, in memory
// and in storage.
func (s *Session) ResetWorkspace() {
	s.objects.Reset()
	s.graph.Reset()
	s.raster.Clear()
	s.codec.ResetStorage()
}

// Search returns objects whose title or payload contains the query,
// case-insensitively, in insertion order.
func (s *Session) Search(query string) []*Object {
	if query == "" {
		return nil
	}
	q := strings.ToLower(query)
	var hits []*Object
	for _, o := range s.objects.All() {
		if strings.Contains(strings.ToLower(o.Title), q) ||
			strings.Contains(strings.ToLower(o.Payload), q) {
			hits = append(hits, o)
		}
	}
	return hits
}

// CenterOn pans the view so the object's center lands mid-screen. Scale is
// untouched.
func (s *Session) CenterOn(o *Object) {
	c := o.Bounds().Center()
	s.viewport.Pan.X = s.viewW/2 - c.X*s.viewport.Scale
	s.viewport.Pan.Y = s.viewH/2 - c.Y*s.viewport.Scale
}

// ObjectAtScreen returns the topmost object under a screen point, or nil.
// Later-created objects win, matching stacking order.
func (s *Session) ObjectAtScreen(p Point) *Object {
	l := s.viewport.ToLogical(p)
	all := s.objects.All()
	for i := len(all) - 1; i >= 0; i-- {
		o := all[i]
		b := o.Bounds()
		if l.X >= b.X && l.X < b.X+b.W && l.Y >= b.Y && l.Y < b.Y+b.H {
			return o
		}
	}
	return nil
}

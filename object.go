package main

import "github.com/google/uuid"

type Kind int

const (
	KindText Kind = iota
	KindImage
)

func (k Kind) String() string {
	if k == KindImage {
		return "image"
	}
	return "text"
}

func kindFromName(name string) Kind {
	if name == "image" {
		return KindImage
	}
	return KindText
}

// StyleHints carries theme-dependent decoration. The engine persists and
// re-applies these verbatim but never interprets them: the sketch theme
// reads Rotation, the neon theme reads Accent.
type StyleHints struct {
	Rotation float64
	Accent   string
}

// Object is a positioned, sized block on the canvas. Position and Size are
// logical units; Payload is plain text for KindText and a data-URI encoded
// image for KindImage.
type Object struct {
	ID      string
	Kind    Kind
	Pos     Point
	Size    Point
	Title   string
	Payload string
	Hints   StyleHints
}

func (o *Object) Bounds() Rect {
	return Rect{o.Pos.X, o.Pos.Y, o.Size.X, o.Size.Y}
}

func defaultSize(k Kind) Point {
	if k == KindImage {
		return Point{defaultImageWidth, defaultImageHeight}
	}
	return Point{defaultTextWidth, defaultTextHeight}
}

// CreateOpts describes a new object. Zero-value fields fall back to
// defaults: an empty ID gets a fresh one, a nil At centers the object on
// CenterOn, a nil Size takes the kind's default. Reconstruction from a
// saved record always supplies everything explicitly.
type CreateOpts struct {
	ID       string
	Kind     Kind
	At       *Point
	CenterOn Point
	Size     *Point
	Title    string
	Payload  string
	Hints    StyleHints
}

// Store holds the live objects of the session, keyed by id, iterable in
// insertion order.
type Store struct {
	objects map[string]*Object
	order   []string
}

func NewStore() *Store {
	return &Store{objects: make(map[string]*Object)}
}

func (s *Store) Create(opts CreateOpts) *Object {
	size := defaultSize(opts.Kind)
	if opts.Size != nil {
		size = *opts.Size
	}
	size = clampSize(size)

	pos := Point{opts.CenterOn.X - size.X/2, opts.CenterOn.Y - size.Y/2}
	if opts.At != nil {
		pos = *opts.At
	}

	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}

	o := &Object{
		ID:      id,
		Kind:    opts.Kind,
		Pos:     pos,
		Size:    size,
		Title:   opts.Title,
		Payload: opts.Payload,
		Hints:   opts.Hints,
	}
	s.objects[id] = o
	s.order = append(s.order, id)
	return o
}

func (s *Store) Get(id string) (*Object, bool) {
	o, ok := s.objects[id]
	return o, ok
}

// Patch is a partial object update; nil fields are left untouched.
type Patch struct {
	Pos     *Point
	Size    *Point
	Title   *string
	Payload *string
	Hints   *StyleHints
}

// Update merges the patch into the object. A missing id is a no-op: the
// interaction pipeline may race a delete against a drag in flight, and that
// must never take the session down.
func (s *Store) Update(id string, p Patch) {
	o, ok := s.objects[id]
	if !ok {
		return
	}
	if p.Pos != nil {
		o.Pos = *p.Pos
	}
	if p.Size != nil {
		o.Size = clampSize(*p.Size)
	}
	if p.Title != nil {
		o.Title = *p.Title
	}
	if p.Payload != nil {
		o.Payload = *p.Payload
	}
	if p.Hints != nil {
		o.Hints = *p.Hints
	}
}

// Delete removes the object. Connection cleanup is the caller's job.
func (s *Store) Delete(id string) {
	if _, ok := s.objects[id]; !ok {
		return
	}
	delete(s.objects, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// All returns the live objects in insertion order.
func (s *Store) All() []*Object {
	out := make([]*Object, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.objects[id])
	}
	return out
}

func (s *Store) Len() int {
	return len(s.order)
}

func (s *Store) Reset() {
	s.objects = make(map[string]*Object)
	s.order = nil
}

func clampSize(size Point) Point {
	if size.X < minObjectWidth {
		size.X = minObjectWidth
	}
	if size.Y < minObjectHeight {
		size.Y = minObjectHeight
	}
	return size
}

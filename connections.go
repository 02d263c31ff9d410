package main

import "math"

// Edge is an unordered pair of object ids.
type Edge struct {
	A, B string
}

// Graph is the undirected connection set between objects. Edges carry no
// geometry of their own: endpoints are recomputed from the current object
// bounds on every draw.
type Graph struct {
	edges []Edge
}

func NewGraph() *Graph {
	return &Graph{}
}

// Connect adds an edge between a and b. Self-edges and duplicates in either
// orientation are no-ops. Reports whether an edge was added.
func (g *Graph) Connect(a, b string) bool {
	if a == b {
		return false
	}
	if g.Connected(a, b) {
		return false
	}
	g.edges = append(g.edges, Edge{A: a, B: b})
	return true
}

func (g *Graph) Connected(a, b string) bool {
	for _, e := range g.edges {
		if (e.A == a && e.B == b) || (e.A == b && e.B == a) {
			return true
		}
	}
	return false
}

// DisconnectAll drops every edge touching id. Called when an object is
// deleted so no edge can reference a dead endpoint.
func (g *Graph) DisconnectAll(id string) {
	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.A != id && e.B != id {
			kept = append(kept, e)
		}
	}
	g.edges = kept
}

func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

func (g *Graph) Len() int {
	return len(g.edges)
}

func (g *Graph) Reset() {
	g.edges = nil
}

// Line is a segment between two border points, in logical units.
type Line struct {
	From, To Point
}

// borderPoint returns where the ray from r's center toward target exits r's
// boundary. The larger of the two half-extent ratios picks the edge the ray
// crosses first, so no per-edge case analysis is needed. ok is false when
// target coincides with the center and no direction exists.
func borderPoint(r Rect, target Point) (Point, bool) {
	c := r.Center()
	dx := target.X - c.X
	dy := target.Y - c.Y

	ratio := math.Max(math.Abs(dx)/(r.W/2), math.Abs(dy)/(r.H/2))
	if ratio == 0 {
		return Point{}, false
	}
	return Point{c.X + dx/ratio, c.Y + dy/ratio}, true
}

// clipToBorder computes the visible segment of the center-to-center line
// between two objects: each endpoint sits on its own rectangle's border.
// ok is false for coincident centers, where the line degenerates to nothing.
func clipToBorder(a, b Rect) (Line, bool) {
	from, ok := borderPoint(a, b.Center())
	if !ok {
		return Line{}, false
	}
	to, ok := borderPoint(b, a.Center())
	if !ok {
		return Line{}, false
	}
	return Line{From: from, To: to}, true
}

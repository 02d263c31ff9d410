package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Storage keys. The codec is the only component that touches storage.
const (
	keyLayout  = "workspaceLayout"
	keyDrawing = "workspaceDrawing"
	keyTheme   = "workspaceTheme"
)

// Storage is a flat string key-value store.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// fileStore keeps one file per key under a state directory.
type fileStore struct {
	dir string
}

func newFileStore(dir string) (*fileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("state dir: %w", err)
	}
	return &fileStore{dir: dir}, nil
}

func (f *fileStore) path(key string) string {
	return filepath.Join(f.dir, key)
}

func (f *fileStore) Get(key string) (string, bool) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (f *fileStore) Set(key, value string) error {
	return os.WriteFile(f.path(key), []byte(value), 0644)
}

func (f *fileStore) Delete(key string) error {
	err := os.Remove(f.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// memStore is an in-memory Storage, used in tests.
type memStore struct {
	m map[string]string
}

func newMemStore() *memStore {
	return &memStore{m: make(map[string]string)}
}

func (s *memStore) Get(key string) (string, bool) {
	v, ok := s.m[key]
	return v, ok
}

func (s *memStore) Set(key, value string) error {
	s.m[key] = value
	return nil
}

func (s *memStore) Delete(key string) error {
	delete(s.m, key)
	return nil
}

type objectRecord struct {
	ID       string  `json:"id"`
	Kind     string  `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Title    string  `json:"title"`
	Payload  string  `json:"payload"`
	Rotation float64 `json:"rotation,omitempty"`
	Accent   string  `json:"accent,omitempty"`
}

type edgeRecord struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type layoutRecord struct {
	Layout      []objectRecord `json:"layout"`
	Connections []edgeRecord   `json:"connections"`
}

// Codec serializes the workspace to storage and rebuilds it. Saves are
// best-effort: a full disk or a broken encode is logged and the session
// keeps running on its in-memory state.
type Codec struct {
	store Storage
	log   *zap.Logger
}

func NewCodec(store Storage, log *zap.Logger) *Codec {
	return &Codec{store: store, log: log}
}

func (c *Codec) Save(objects *Store, graph *Graph, raster *Raster) {
	rec := layoutRecord{
		Layout:      []objectRecord{},
		Connections: []edgeRecord{},
	}
	for _, o := range objects.All() {
		rec.Layout = append(rec.Layout, objectRecord{
			ID:       o.ID,
			Kind:     o.Kind.String(),
			X:        o.Pos.X,
			Y:        o.Pos.Y,
			W:        o.Size.X,
			H:        o.Size.Y,
			Title:    o.Title,
			Payload:  o.Payload,
			Rotation: o.Hints.Rotation,
			Accent:   o.Hints.Accent,
		})
	}
	for _, e := range graph.Edges() {
		rec.Connections = append(rec.Connections, edgeRecord{Start: e.A, End: e.B})
	}

	data, err := json.Marshal(rec)
	if err != nil {
		c.log.Warn("layout encode failed", zap.Error(err))
		return
	}
	if err := c.store.Set(keyLayout, string(data)); err != nil {
		c.log.Warn("layout write failed", zap.Error(err))
	}

	c.saveRaster(raster)
}

// saveRaster writes the sketch sheet, or removes the stored entry when the
// sheet is blank so an empty image never accumulates in storage.
func (c *Codec) saveRaster(raster *Raster) {
	if raster.Blank() {
		if err := c.store.Delete(keyDrawing); err != nil {
			c.log.Warn("drawing delete failed", zap.Error(err))
		}
		return
	}
	encoded, err := raster.Encode()
	if err != nil {
		c.log.Warn("drawing encode failed", zap.Error(err))
		return
	}
	if err := c.store.Set(keyDrawing, encoded); err != nil {
		c.log.Warn("drawing write failed", zap.Error(err))
	}
}

// Load rebuilds the object store, graph and raster from storage. A missing
// record yields an empty workspace. Every object field is applied
// explicitly, so default placement and theme hint randomization never run
// for reconstructed objects.
func (c *Codec) Load(objects *Store, graph *Graph, raster *Raster) error {
	objects.Reset()
	graph.Reset()
	raster.Clear()

	if data, ok := c.store.Get(keyLayout); ok {
		var rec layoutRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return fmt.Errorf("layout decode: %w", err)
		}
		for _, or := range rec.Layout {
			objects.Create(CreateOpts{
				ID:      or.ID,
				Kind:    kindFromName(or.Kind),
				At:      &Point{or.X, or.Y},
				Size:    &Point{or.W, or.H},
				Title:   or.Title,
				Payload: or.Payload,
				Hints:   StyleHints{Rotation: or.Rotation, Accent: or.Accent},
			})
		}
		for _, er := range rec.Connections {
			_, okA := objects.Get(er.Start)
			_, okB := objects.Get(er.End)
			if okA && okB {
				graph.Connect(er.Start, er.End)
			}
		}
	}

	if encoded, ok := c.store.Get(keyDrawing); ok {
		if err := raster.Decode(encoded); err != nil {
			// A corrupt drawing should not hold the layout hostage.
			c.log.Warn("drawing decode failed", zap.Error(err))
			raster.Clear()
		}
	}
	return nil
}

func (c *Codec) SaveTheme(t Theme) {
	if err := c.store.Set(keyTheme, t.String()); err != nil {
		c.log.Warn("theme write failed", zap.Error(err))
	}
}

func (c *Codec) LoadTheme() (Theme, bool) {
	name, ok := c.store.Get(keyTheme)
	if !ok {
		return ThemeSketch, false
	}
	return themeFromName(name), true
}

// ResetStorage drops the persisted workspace entirely.
func (c *Codec) ResetStorage() {
	for _, key := range []string{keyLayout, keyDrawing} {
		if err := c.store.Delete(key); err != nil {
			c.log.Warn("storage reset failed", zap.String("key", key), zap.Error(err))
		}
	}
}

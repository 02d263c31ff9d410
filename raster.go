package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/fogleman/gg"
)

const rasterURIPrefix = "data:image/png;base64,"

// Raster is the freehand sketch sheet: a fixed-size logical-space bitmap
// independent of pan and zoom. Strokes are painted in logical coordinates;
// the viewport only matters when the sheet is projected for display.
type Raster struct {
	img       *image.RGBA
	snapshots [][]byte
}

func NewRaster() *Raster {
	return &Raster{img: image.NewRGBA(image.Rect(0, 0, rasterWidth, rasterHeight))}
}

// Paint stamps a round brush dab at the logical point. Points outside the
// sheet are silently dropped.
func (r *Raster) Paint(p Point, radius float64, col color.Color) {
	if p.X < -radius || p.Y < -radius ||
		p.X > rasterWidth+radius || p.Y > rasterHeight+radius {
		return
	}
	dc := gg.NewContextForRGBA(r.img)
	dc.SetColor(col)
	dc.DrawCircle(p.X, p.Y, radius)
	dc.Fill()
}

// Sample reads the pixel under the logical point. ok is false outside the
// sheet or where nothing has been painted.
func (r *Raster) Sample(p Point) (color.RGBA, bool) {
	x, y := int(p.X), int(p.Y)
	if x < 0 || y < 0 || x >= rasterWidth || y >= rasterHeight {
		return color.RGBA{}, false
	}
	c := r.img.RGBAAt(x, y)
	if c.A == 0 {
		return color.RGBA{}, false
	}
	return c, true
}

// Blank reports whether every pixel is fully transparent. A blank sheet is
// dropped from storage entirely rather than serialized.
func (r *Raster) Blank() bool {
	for _, b := range r.img.Pix {
		if b != 0 {
			return false
		}
	}
	return true
}

func (r *Raster) Clear() {
	for i := range r.img.Pix {
		r.img.Pix[i] = 0
	}
}

// Encode serializes the sheet as a PNG data URI.
func (r *Raster) Encode() (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.img); err != nil {
		return "", fmt.Errorf("encode raster: %w", err)
	}
	return rasterURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode replaces the sheet contents with a previously encoded image.
func (r *Raster) Decode(encoded string) error {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(encoded, rasterURIPrefix))
	if err != nil {
		return fmt.Errorf("decode raster: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode raster: %w", err)
	}
	r.Clear()
	draw.Draw(r.img, r.img.Bounds(), img, image.Point{}, draw.Src)
	return nil
}

// Snapshot pushes a copy of the sheet onto the undo stack, evicting the
// oldest entry past the depth limit.
func (r *Raster) Snapshot() {
	pix := make([]byte, len(r.img.Pix))
	copy(pix, r.img.Pix)
	r.snapshots = append(r.snapshots, pix)
	if len(r.snapshots) > maxRasterSnapshots {
		r.snapshots = r.snapshots[1:]
	}
}

// Restore pops the most recent snapshot back onto the sheet. Reports
// whether there was one.
func (r *Raster) Restore() bool {
	if len(r.snapshots) == 0 {
		return false
	}
	last := len(r.snapshots) - 1
	copy(r.img.Pix, r.snapshots[last])
	r.snapshots = r.snapshots[:last]
	return true
}

func (r *Raster) Image() *image.RGBA {
	return r.img
}

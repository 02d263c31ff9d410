package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const exportPadding = 24.0

// exportWorkspacePNG renders the whole workspace — sketch sheet,
// connections and objects — to a PNG at logical 1:1 scale, independent of
// the current pan and zoom.
func exportWorkspacePNG(sess *Session, path string) error {
	minX, minY, maxX, maxY, ok := exportBounds(sess)
	if !ok {
		return fmt.Errorf("nothing to export")
	}
	minX -= exportPadding
	minY -= exportPadding
	maxX += exportPadding
	maxY += exportPadding

	dc := gg.NewContext(int(maxX-minX), int(maxY-minY))
	dc.SetColor(color.White)
	dc.Clear()
	dc.Translate(-minX, -minY)

	face, err := exportFace()
	if err != nil {
		return err
	}
	dc.SetFontFace(face)

	if !sess.raster.Blank() {
		dc.DrawImage(sess.raster.Image(), 0, 0)
	}

	drawExportConnections(dc, sess)

	for _, o := range sess.objects.All() {
		drawExportObject(dc, sess.theme, o)
	}

	return dc.SavePNG(path)
}

func exportBounds(sess *Session) (minX, minY, maxX, maxY float64, ok bool) {
	for _, o := range sess.objects.All() {
		b := o.Bounds()
		if !ok {
			minX, minY, maxX, maxY = b.X, b.Y, b.X+b.W, b.Y+b.H
			ok = true
			continue
		}
		if b.X < minX {
			minX = b.X
		}
		if b.Y < minY {
			minY = b.Y
		}
		if b.X+b.W > maxX {
			maxX = b.X + b.W
		}
		if b.Y+b.H > maxY {
			maxY = b.Y + b.H
		}
	}
	if !sess.raster.Blank() {
		if !ok {
			return 0, 0, rasterWidth, rasterHeight, true
		}
		if minX > 0 {
			minX = 0
		}
		if minY > 0 {
			minY = 0
		}
		if maxX < rasterWidth {
			maxX = rasterWidth
		}
		if maxY < rasterHeight {
			maxY = rasterHeight
		}
	}
	return minX, minY, maxX, maxY, ok
}

func exportFace() (font.Face, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    13,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func drawExportConnections(dc *gg.Context, sess *Session) {
	ls := sess.theme.LineStyle()
	dc.SetColor(parseHexColor(string(ls.Color)))
	dc.SetLineWidth(2)
	if ls.Dashed {
		dc.SetDash(6, 4)
	}
	for _, e := range sess.graph.Edges() {
		a, okA := sess.objects.Get(e.A)
		b, okB := sess.objects.Get(e.B)
		if !okA || !okB {
			continue
		}
		line, ok := clipToBorder(a.Bounds(), b.Bounds())
		if !ok {
			continue
		}
		dc.DrawLine(line.From.X, line.From.Y, line.To.X, line.To.Y)
		dc.Stroke()
	}
	dc.SetDash()
}

func drawExportObject(dc *gg.Context, t Theme, o *Object) {
	dc.Push()
	defer dc.Pop()

	b := o.Bounds()
	if o.Hints.Rotation != 0 {
		c := b.Center()
		dc.RotateAbout(gg.Radians(o.Hints.Rotation), c.X, c.Y)
	}

	border := color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	if t == ThemeNeon && o.Hints.Accent != "" {
		border = parseHexColor(o.Hints.Accent)
	}

	dc.DrawRectangle(b.X, b.Y, b.W, b.H)
	dc.SetColor(color.White)
	dc.FillPreserve()
	dc.SetColor(border)
	dc.SetLineWidth(2)
	dc.Stroke()

	switch o.Kind {
	case KindImage:
		if img, err := decodeDataURI(o.Payload); err == nil {
			drawScaledImage(dc, img, b)
		}
	case KindText:
		dc.SetColor(color.Black)
		if o.Payload != "" {
			dc.DrawStringWrapped(o.Payload, b.X+6, b.Y+22, 0, 0, b.W-12, 1.4, gg.AlignLeft)
		}
	}

	if o.Title != "" {
		dc.SetColor(border)
		dc.DrawString(o.Title, b.X+6, b.Y+14)
	}
}

func drawScaledImage(dc *gg.Context, img image.Image, b Rect) {
	size := img.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return
	}
	dc.Push()
	dc.Translate(b.X, b.Y)
	dc.Scale(b.W/float64(size.X), b.H/float64(size.Y))
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

// decodeDataURI turns a "data:image/...;base64," payload back into pixels.
func decodeDataURI(uri string) (image.Image, error) {
	idx := strings.Index(uri, ";base64,")
	if idx < 0 {
		return nil, fmt.Errorf("not a data uri")
	}
	raw, err := base64.StdEncoding.DecodeString(uri[idx+len(";base64,"):])
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return img, nil
}

func parseHexColor(s string) color.RGBA {
	c := color.RGBA{A: 0xff}
	if len(s) == 7 && s[0] == '#' {
		fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	}
	return c
}

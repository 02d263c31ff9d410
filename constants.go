package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeConnect
	ModeDraw
	ModeEditTitle
	ModeEditBody
	ModeImageInput
	ModeSearch
)

const (
	minScale      = 0.2
	maxScale      = 3.0
	zoomIntensity = 0.1

	minObjectWidth  = 24.0
	minObjectHeight = 12.0

	defaultTextWidth   = 160.0
	defaultTextHeight  = 90.0
	defaultImageWidth  = 200.0
	defaultImageHeight = 140.0

	// Corner zone (in screen cells) that acts as the resize handle.
	resizeHandleSize = 2.0

	panStep = 4.0

	// Fixed logical dimensions of the freehand sketch sheet.
	rasterWidth  = 1600
	rasterHeight = 1000

	brushRadius = 3.0

	maxRasterSnapshots = 32
)

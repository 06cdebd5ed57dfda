package view

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/parcad/parcad/pkg/cad"
)

// Standard orientations a 3D view can snap to.
const (
	Isometric = "Isometric"
	Front     = "Front"
	Top       = "Top"
	Right     = "Right"
	Back      = "Back"
	Left      = "Left"
	Bottom    = "Bottom"
	Dimetric  = "Dimetric"
	Trimetric = "Trimetric"
)

var orientations = map[string]bool{
	Isometric: true,
	Front:     true,
	Top:       true,
	Right:     true,
	Back:      true,
	Left:      true,
	Bottom:    true,
	Dimetric:  true,
	Trimetric: true,
}

// Image dimensions for exported screenshots.
const (
	imageWidth  = 640
	imageHeight = 480
	imageMargin = 40
)

// SceneView is the 3D scene view. It renders each object's placed extent
// under the current orientation; a sketch, not a real renderer, but
// enough visual feedback for an agent to judge layout.
type SceneView struct {
	doc         *cad.Document
	orientation string
	fitted      bool
}

// NewSceneView creates a scene view on doc, oriented isometrically.
func NewSceneView(doc *cad.Document) *SceneView {
	return &SceneView{doc: doc, orientation: Isometric}
}

// TypeName identifies the view kind.
func (v *SceneView) TypeName() string { return "SceneView" }

// Document returns the viewed document.
func (v *SceneView) Document() *cad.Document { return v.doc }

// Orientation returns the current orientation name.
func (v *SceneView) Orientation() string { return v.orientation }

// SetOrientation snaps the view to a named standard orientation.
func (v *SceneView) SetOrientation(name string) error {
	if !orientations[name] {
		return fmt.Errorf("invalid view name: %s", name)
	}
	v.orientation = name
	return nil
}

// FitAll zooms so every object is visible.
func (v *SceneView) FitAll() {
	v.fitted = true
}

// SaveImage rasterizes the view to a PNG file.
func (v *SceneView) SaveImage(path string) error {
	img := v.render()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// project maps a document-space point to view-space (x right, y up).
func (v *SceneView) project(p cad.Vector) (float64, float64) {
	switch v.orientation {
	case Front:
		return p.X, p.Z
	case Back:
		return -p.X, p.Z
	case Top:
		return p.X, p.Y
	case Bottom:
		return p.X, -p.Y
	case Right:
		return p.Y, p.Z
	case Left:
		return -p.Y, p.Z
	case Dimetric:
		return axonometric(p, 15*math.Pi/180)
	case Trimetric:
		return axonometric(p, 20*math.Pi/180)
	default: // Isometric
		return axonometric(p, 30*math.Pi/180)
	}
}

func axonometric(p cad.Vector, tilt float64) (float64, float64) {
	x := (p.X - p.Y) * math.Cos(tilt)
	y := (p.X+p.Y)*math.Sin(tilt) + p.Z
	return x, y
}

type rectangle struct {
	minX, minY, maxX, maxY float64
	fill                   cad.Color
}

// render projects each visible object's bounding box and fills it.
func (v *SceneView) render() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, imageWidth, imageHeight))
	// White background.
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}

	var rects []rectangle
	bounds := rectangle{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
	for _, obj := range v.doc.Objects() {
		if visible, ok := obj.ViewAttr("Visibility"); ok {
			if b, isBool := visible.(bool); isBool && !b {
				continue
			}
		}
		box := obj.BoundingBox()
		r := rectangle{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1), fill: obj.ShapeColor()}
		for _, corner := range boxCorners(box) {
			x, y := v.project(corner)
			r.minX = math.Min(r.minX, x)
			r.minY = math.Min(r.minY, y)
			r.maxX = math.Max(r.maxX, x)
			r.maxY = math.Max(r.maxY, y)
		}
		rects = append(rects, r)
		bounds.minX = math.Min(bounds.minX, r.minX)
		bounds.minY = math.Min(bounds.minY, r.minY)
		bounds.maxX = math.Max(bounds.maxX, r.maxX)
		bounds.maxY = math.Max(bounds.maxY, r.maxY)
	}
	if len(rects) == 0 {
		return img
	}

	spanX := bounds.maxX - bounds.minX
	spanY := bounds.maxY - bounds.minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	scale := math.Min(
		float64(imageWidth-2*imageMargin)/spanX,
		float64(imageHeight-2*imageMargin)/spanY,
	)

	toPixel := func(x, y float64) (int, int) {
		px := imageMargin + int((x-bounds.minX)*scale)
		// Flip: view-space y is up, image y is down.
		py := imageHeight - imageMargin - int((y-bounds.minY)*scale)
		return px, py
	}

	for _, r := range rects {
		x0, y1 := toPixel(r.minX, r.minY)
		x1, y0 := toPixel(r.maxX, r.maxY)
		fillRect(img, x0, y0, x1, y1, r.fill)
	}
	return img
}

func boxCorners(b cad.BoundingBox) [8]cad.Vector {
	return [8]cad.Vector{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c cad.Color) {
	fill := color.RGBA{
		R: uint8(clamp01(c[0]) * 255),
		G: uint8(clamp01(c[1]) * 255),
		B: uint8(clamp01(c[2]) * 255),
		A: 255,
	}
	border := color.RGBA{
		R: fill.R / 2,
		G: fill.G / 2,
		B: fill.B / 2,
		A: 255,
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if x < 0 || y < 0 || x >= imageWidth || y >= imageHeight {
				continue
			}
			if x == x0 || x == x1 || y == y0 || y == y1 {
				img.SetRGBA(x, y, border)
			} else {
				img.SetRGBA(x, y, fill)
			}
		}
	}
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

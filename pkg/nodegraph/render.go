package nodegraph

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Scene screenshots are fixed-size sketches: node boxes at their scene
// positions with straight edge lines, enough for an agent to see the
// graph topology.
const (
	renderWidth  = 800
	renderHeight = 600
	nodeBoxW     = 90
	nodeBoxH     = 50
	renderPad    = 60
)

// SaveImage rasterizes the scene to a PNG file.
func (s *Scene) SaveImage(path string) error {
	img := s.render()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func (s *Scene) render() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, renderWidth, renderHeight))
	bg := color.RGBA{0x2b, 0x2b, 0x2b, 0xff}
	for y := 0; y < renderHeight; y++ {
		for x := 0; x < renderWidth; x++ {
			img.SetRGBA(x, y, bg)
		}
	}

	nodes := s.Nodes()
	if len(nodes) == 0 {
		return img
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		x, y := n.Position()
		minX, minY = math.Min(minX, x), math.Min(minY, y)
		maxX, maxY = math.Max(maxX, x), math.Max(maxY, y)
	}
	spanX := math.Max(maxX-minX, 1)
	spanY := math.Max(maxY-minY, 1)
	scale := math.Min(
		float64(renderWidth-2*renderPad)/spanX,
		float64(renderHeight-2*renderPad)/spanY,
	)
	if scale > 1 {
		scale = 1
	}

	center := func(n *Node) (int, int) {
		x, y := n.Position()
		return renderPad + int((x-minX)*scale), renderPad + int((y-minY)*scale)
	}

	edgeColor := color.RGBA{0xff, 0xa5, 0x00, 0xff}
	for _, e := range s.Edges() {
		x0, y0 := center(e.Source.node)
		x1, y1 := center(e.Target.node)
		drawLine(img, x0, y0, x1, y1, edgeColor)
	}

	boxFill := color.RGBA{0x4a, 0x4a, 0x5a, 0xff}
	boxEdge := color.RGBA{0xd0, 0xd0, 0xd0, 0xff}
	for _, n := range nodes {
		cx, cy := center(n)
		drawBox(img, cx-nodeBoxW/2, cy-nodeBoxH/2, cx+nodeBoxW/2, cy+nodeBoxH/2, boxFill, boxEdge)
	}
	return img
}

func drawBox(img *image.RGBA, x0, y0, x1, y1 int, fill, edge color.RGBA) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if x < 0 || y < 0 || x >= renderWidth || y >= renderHeight {
				continue
			}
			if x == x0 || x == x1 || y == y0 || y == y1 {
				img.SetRGBA(x, y, edge)
			} else {
				img.SetRGBA(x, y, fill)
			}
		}
	}
}

// drawLine is Bresenham's algorithm.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if x0 >= 0 && y0 >= 0 && x0 < renderWidth && y0 < renderHeight {
			img.SetRGBA(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package cad

import "math"

// Vector is a 3-component spatial vector.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + w.
func (v Vector) Add(w Vector) Vector {
	return Vector{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Scale returns v scaled by s.
func (v Vector) Scale(s float64) Vector {
	return Vector{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the euclidean norm of v.
func (v Vector) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Rotation is an axis/angle rotation. Angle is in degrees.
type Rotation struct {
	Axis  Vector  `json:"axis"`
	Angle float64 `json:"angle"`
}

// Placement combines a position with an orientation.
type Placement struct {
	Base     Vector   `json:"base"`
	Rotation Rotation `json:"rotation"`
}

// Color is an RGBA color with components in [0, 1].
type Color [4]float64

// BoundingBox is an axis-aligned extent in document space.
type BoundingBox struct {
	Min Vector `json:"min"`
	Max Vector `json:"max"`
}

// Union returns the smallest box containing both b and o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		Min: Vector{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)},
		Max: Vector{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)},
	}
}

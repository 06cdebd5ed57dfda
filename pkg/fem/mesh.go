package fem

import (
	"fmt"
	"math"

	"github.com/parcad/parcad/pkg/cad"
)

// GenerateMesh runs mesh generation for a Fem::FemMeshGmsh object. The
// target geometry comes from the mesh's Part reference. Node and element
// counts are derived from the part's extent and the requested element
// size; they land on the mesh object as result properties.
func GenerateMesh(mesh *cad.Object) error {
	partVal, ok := mesh.Property("Part")
	if !ok {
		return fmt.Errorf("mesh object '%s' has no Part property", mesh.Name())
	}
	part, _ := partVal.(*cad.Object)
	if part == nil {
		return fmt.Errorf("mesh object '%s' has no target part", mesh.Name())
	}

	size := 10.0
	if v, ok := mesh.Property("ElementSizeMax"); ok {
		if f, isNum := v.(float64); isNum && f > 0 {
			size = f
		}
	}

	box := part.BoundingBox()
	extent := cad.Vector{
		X: box.Max.X - box.Min.X,
		Y: box.Max.Y - box.Min.Y,
		Z: box.Max.Z - box.Min.Z,
	}
	nx := cells(extent.X, size)
	ny := cells(extent.Y, size)
	nz := cells(extent.Z, size)

	mesh.AddProperty("ElementCount", float64(nx*ny*nz))
	mesh.AddProperty("NodeCount", float64((nx+1)*(ny+1)*(nz+1)))
	return nil
}

func cells(span, size float64) int {
	if span <= 0 {
		return 1
	}
	return int(math.Max(1, math.Ceil(span/size)))
}

package coerce

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parcad/parcad/pkg/cad"
	"github.com/parcad/parcad/pkg/console"
)

func setup(t *testing.T) (*cad.Document, *cad.Object) {
	t.Helper()
	doc, err := cad.NewApp().NewDocument("Main")
	require.NoError(t, err)
	box, err := doc.AddObject("Part::Box", "Box")
	require.NoError(t, err)
	return doc, box
}

func TestPlacementCoercion(t *testing.T) {
	_, box := setup(t)

	SetObjectProperties(console.Discard(), box.Document(), box, map[string]any{
		"Placement": map[string]any{
			"Base":     map[string]any{"x": 1.0, "y": 2.0, "z": 3.0},
			"Rotation": map[string]any{"Axis": map[string]any{"x": 1.0}, "Angle": 90.0},
		},
	})

	v, ok := box.Property("Placement")
	require.True(t, ok)
	placement := v.(cad.Placement)
	require.Equal(t, cad.Vector{X: 1, Y: 2, Z: 3}, placement.Base)
	require.Equal(t, cad.Vector{X: 1, Z: 1}, placement.Rotation.Axis)
	require.Equal(t, 90.0, placement.Rotation.Angle)
}

func TestPlacementPositionAliasAndDefaults(t *testing.T) {
	_, box := setup(t)

	SetObjectProperties(console.Discard(), box.Document(), box, map[string]any{
		"Placement": map[string]any{
			"Position": map[string]any{"z": 5.0},
		},
	})

	v, _ := box.Property("Placement")
	placement := v.(cad.Placement)
	require.Equal(t, cad.Vector{Z: 5}, placement.Base)
	require.Equal(t, cad.Vector{Z: 1}, placement.Rotation.Axis, "axis defaults to unit z")
	require.Equal(t, 0.0, placement.Rotation.Angle)
}

func TestVectorShapedCoercion(t *testing.T) {
	doc, _ := setup(t)
	ext, err := doc.AddObject("Part::Extrusion", "Ext")
	require.NoError(t, err)
	require.True(t, ext.HasProperty("Dir"))

	SetObjectProperties(console.Discard(), doc, ext, map[string]any{
		"Dir": map[string]any{"x": 0.0, "y": 0.0, "z": 10.0},
	})

	v, _ := ext.Property("Dir")
	require.Equal(t, cad.Vector{Z: 10}, v)
}

func TestReferenceByName(t *testing.T) {
	doc, box := setup(t)
	cut, err := doc.AddObject("Part::Cut", "Cut")
	require.NoError(t, err)

	SetObjectProperties(console.Discard(), doc, cut, map[string]any{
		"Base": "Box",
	})
	v, _ := cut.Property("Base")
	require.Same(t, box, v)

	// An unresolvable name leaves the property untouched.
	SetObjectProperties(console.Discard(), doc, cut, map[string]any{
		"Tool": "Ghost",
	})
	v, _ = cut.Property("Tool")
	require.Nil(t, v)
}

func TestShapeColorGoesToViewAttributes(t *testing.T) {
	doc, box := setup(t)

	SetObjectProperties(console.Discard(), doc, box, map[string]any{
		"ShapeColor": []any{1.0, 0.5, 0.0, 1.0},
	})

	require.Equal(t, cad.Color{1, 0.5, 0, 1}, box.ShapeColor())
	require.False(t, box.HasProperty("ShapeColor"), "ShapeColor must not become a document property")
}

func TestViewObjectMapping(t *testing.T) {
	doc, box := setup(t)

	SetObjectProperties(console.Discard(), doc, box, map[string]any{
		"ViewObject": map[string]any{
			"Visibility": false,
			"ShapeColor": []any{0.0, 0.0, 1.0, 1.0},
		},
	})

	vis, ok := box.ViewAttr("Visibility")
	require.True(t, ok)
	require.Equal(t, false, vis)
	require.Equal(t, cad.Color{0, 0, 1, 1}, box.ShapeColor())
}

func TestPerKeyErrorIsolation(t *testing.T) {
	doc, box := setup(t)

	// One bad key must not stop the good ones from applying.
	SetObjectProperties(console.Discard(), doc, box, map[string]any{
		"Length":     50.0,
		"ShapeColor": []any{"not", "a", "color", "!"},
		"Width":      7.0,
	})

	length, _ := box.Property("Length")
	require.Equal(t, 50.0, length)
	width, _ := box.Property("Width")
	require.Equal(t, 7.0, width)
	require.Equal(t, cad.Color{0.8, 0.8, 0.8, 1.0}, box.ShapeColor(), "bad color keeps the default")
}

func TestResolveReferencesWholeListFails(t *testing.T) {
	doc, _ := setup(t)

	refs, err := ResolveReferences(doc, []any{
		[]any{"Box", "Face1"},
		[]any{"Ghost", "Face2"},
	})
	require.Nil(t, refs)
	require.EqualError(t, err, "referenced object 'Ghost' not found")
}

func TestResolveReferencesMapEntries(t *testing.T) {
	doc, box := setup(t)

	refs, err := ResolveReferences(doc, []any{
		map[string]any{"object_name": "Box", "face": "Face3"},
		map[string]any{"name": "Box", "face": "Face6"},
	})
	require.NoError(t, err)
	require.Len(t, refs, 2)
	require.Same(t, box, refs[0].Object)
	require.Equal(t, "Face3", refs[0].Face)
	require.Equal(t, "Face6", refs[1].Face)
}

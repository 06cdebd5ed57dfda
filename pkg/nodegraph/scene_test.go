package nodegraph

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateNodeAndDefaults(t *testing.T) {
	scene := NewScene()

	n, err := scene.CreateNode("generators.solid_box", "", 100, 50)
	require.NoError(t, err)
	require.Equal(t, "Box", n.Title(), "empty title falls back to the type default")
	require.NotEmpty(t, n.ID())
	require.Len(t, n.Inputs(), 3)
	require.Len(t, n.Outputs(), 1)

	_, err = scene.CreateNode("generators.solid_dodecahedron", "", 0, 0)
	require.EqualError(t, err, "node type 'generators.solid_dodecahedron' is not registered")
}

func TestFindNodeByIDThenTitle(t *testing.T) {
	scene := NewScene()
	n, err := scene.CreateNode("inputs.number", "MyNumber", 0, 0)
	require.NoError(t, err)

	byID, err := scene.FindNode(n.ID())
	require.NoError(t, err)
	require.Same(t, n, byID)

	byTitle, err := scene.FindNode("MyNumber")
	require.NoError(t, err)
	require.Same(t, n, byTitle)

	_, err = scene.FindNode("Nowhere")
	require.EqualError(t, err, "node 'Nowhere' not found in scene")
}

func TestSocketSelectorIndexFirst(t *testing.T) {
	scene := NewScene()
	n, err := scene.CreateNode("generators.solid_box", "Box", 0, 0)
	require.NoError(t, err)

	byIndex, err := n.Input("1")
	require.NoError(t, err)
	require.Equal(t, "Width", byIndex.Name)

	byName, err := n.Input("Height")
	require.NoError(t, err)
	require.Equal(t, 2, byName.Index)

	_, err = n.Input("9")
	require.Error(t, err)
	require.Contains(t, err.Error(), "out of range")

	_, err = n.Input("Banana")
	require.EqualError(t, err, "input socket 'Banana' not found")
}

func TestLinkReplaceAndUnlink(t *testing.T) {
	scene := NewScene()
	numA, err := scene.CreateNode("inputs.number", "A", 0, 0)
	require.NoError(t, err)
	numB, err := scene.CreateNode("inputs.number", "B", 0, 0)
	require.NoError(t, err)
	box, err := scene.CreateNode("generators.solid_box", "Box", 0, 0)
	require.NoError(t, err)
	_ = box

	_, err = scene.Link("A", "Value", "Box", "Length")
	require.NoError(t, err)
	require.Len(t, scene.Edges(), 1)

	// Linking the same input again replaces the previous edge.
	edge, err := scene.Link("B", "0", "Box", "0")
	require.NoError(t, err)
	require.Len(t, scene.Edges(), 1)
	require.Same(t, numB.Outputs()[0], edge.Source)

	err = scene.Unlink("B", "Value", "Box", "Length")
	require.NoError(t, err)
	require.Empty(t, scene.Edges())

	err = scene.Unlink("A", "Value", "Box", "Length")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no edge from")

	_ = numA
}

func TestDeleteNodeRemovesTouchingEdges(t *testing.T) {
	scene := NewScene()
	_, err := scene.CreateNode("inputs.number", "N", 0, 0)
	require.NoError(t, err)
	_, err = scene.CreateNode("generators.solid_box", "Box", 0, 0)
	require.NoError(t, err)
	_, err = scene.Link("N", "Value", "Box", "Length")
	require.NoError(t, err)

	require.NoError(t, scene.DeleteNode("N"))
	require.Empty(t, scene.Edges())
	require.Len(t, scene.Nodes(), 1)
}

func TestClearAndHistory(t *testing.T) {
	scene := NewScene()
	_, err := scene.CreateNode("inputs.number", "N", 0, 0)
	require.NoError(t, err)
	scene.Clear()

	require.Empty(t, scene.Nodes())
	require.Empty(t, scene.Edges())

	history := scene.History()
	require.Len(t, history, 2)
	require.Contains(t, history[0].Description, "Created node")
	require.Equal(t, "Cleared scene", history[1].Description)
}

func TestGraphState(t *testing.T) {
	scene := NewScene()
	num, err := scene.CreateNode("inputs.number", "N", 10, 20)
	require.NoError(t, err)
	num.Outputs()[0].SetValue(5.0)
	sphere, err := scene.CreateNode("generators.solid_sphere", "S", 30, 40)
	require.NoError(t, err)
	_, err = scene.Link("N", "Value", "S", "Radius")
	require.NoError(t, err)

	state := scene.GraphState()
	nodes, ok := state["nodes"].([]any)
	require.True(t, ok)
	require.Len(t, nodes, 2)
	edges, ok := state["edges"].([]any)
	require.True(t, ok)
	require.Len(t, edges, 1)

	first := nodes[0].(map[string]any)
	require.Equal(t, "N", first["title"])
	require.Equal(t, "inputs.number", first["type"])

	edge := edges[0].(map[string]any)
	require.Equal(t, num.ID(), edge["source_node"])
	require.Equal(t, sphere.ID(), edge["target_node"])
	require.Equal(t, "Radius", edge["target_socket"])

	sockets := first["outputs"].([]any)
	value := sockets[0].(map[string]any)
	require.Equal(t, 5.0, value["value"])
}

func TestRegistryActiveEditor(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.ActiveEditor()
	require.EqualError(t, err, "no visible node editor is open")

	hidden := NewEditor("Hidden")
	hidden.SetVisible(false)
	reg.Register(hidden)
	_, err = reg.ActiveEditor()
	require.Error(t, err)

	shown := NewEditor("Shown")
	reg.Register(shown)
	got, err := reg.ActiveEditor()
	require.NoError(t, err)
	require.Same(t, shown, got)

	reg.Unregister(shown)
	_, err = reg.ActiveEditor()
	require.Error(t, err)
}

func TestSceneSaveImage(t *testing.T) {
	scene := NewScene()
	_, err := scene.CreateNode("inputs.number", "N", 0, 0)
	require.NoError(t, err)
	_, err = scene.CreateNode("generators.solid_box", "Box", 200, 100)
	require.NoError(t, err)
	_, err = scene.Link("N", "Value", "Box", "Length")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "graph.png")
	require.NoError(t, scene.SaveImage(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 800, img.Bounds().Dx())
	require.Equal(t, 600, img.Bounds().Dy())
}

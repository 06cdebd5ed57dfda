package dispatch

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/parcad/parcad/pkg/bridge"
	"github.com/parcad/parcad/pkg/cad"
	"github.com/parcad/parcad/pkg/console"
	"github.com/parcad/parcad/pkg/gui"
	"github.com/parcad/parcad/pkg/nodegraph"
	"github.com/parcad/parcad/pkg/script"
	"github.com/parcad/parcad/pkg/view"
)

type testEnv struct {
	app      *cad.App
	gui      *view.Gui
	registry *nodegraph.Registry
	disp     *Dispatcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	loop := gui.NewLoop()
	go loop.Run()

	con := console.Discard()
	app := cad.NewApp()
	g := view.NewGui(app)
	br := bridge.New(loop, bridge.WithInterval(time.Millisecond), bridge.WithConsole(con))
	br.Start()
	t.Cleanup(func() {
		br.Stop()
		loop.Quit()
		loop.Wait()
	})

	registry := nodegraph.NewRegistry()
	registry.Register(nodegraph.NewEditor("Nodes"))

	disp := New(Deps{
		App:       app,
		Gui:       g,
		Bridge:    br,
		Console:   con,
		Interp:    script.New(app, con),
		Nodes:     registry,
		AllowCode: true,
	})
	return &testEnv{app: app, gui: g, registry: registry, disp: disp}
}

func TestCreateDocument(t *testing.T) {
	env := newTestEnv(t)

	res := env.disp.CreateDocument("Main")
	if !res.Success {
		t.Fatalf("CreateDocument failed: %s", res.Error)
	}
	if res.Payload["document_name"] != "Main" {
		t.Errorf("payload = %v", res.Payload)
	}
	if env.app.Document("Main") == nil {
		t.Error("document not created")
	}
	if env.gui.ActiveView() == nil {
		t.Error("no active view after document creation")
	}
}

func TestCreateObjectMissingDocument(t *testing.T) {
	env := newTestEnv(t)

	res := env.disp.CreateObject("Ghost", ObjectSpec{Name: "Box", Type: "Part::Box"})
	if res.Success {
		t.Fatal("create in missing document succeeded")
	}
	if res.Error != "Document 'Ghost' not found." {
		t.Errorf("error = %q", res.Error)
	}
}

func TestCreateAndEditObject(t *testing.T) {
	env := newTestEnv(t)
	env.disp.CreateDocument("Main")

	res := env.disp.CreateObject("Main", ObjectSpec{
		Name: "Box",
		Type: "Part::Box",
		Properties: map[string]any{
			"Length":     20.0,
			"ShapeColor": []any{1.0, 0.0, 0.0, 1.0},
		},
	})
	if !res.Success {
		t.Fatalf("CreateObject failed: %s", res.Error)
	}

	obj := env.app.Document("Main").Object("Box")
	if obj == nil {
		t.Fatal("object not created")
	}
	if v, _ := obj.Property("Length"); v != 20.0 {
		t.Errorf("Length = %v", v)
	}
	if obj.ShapeColor() != (cad.Color{1, 0, 0, 1}) {
		t.Errorf("ShapeColor = %v", obj.ShapeColor())
	}

	res = env.disp.EditObject("Main", "Box", map[string]any{"Height": 5.0})
	if !res.Success {
		t.Fatalf("EditObject failed: %s", res.Error)
	}
	if v, _ := obj.Property("Height"); v != 5.0 {
		t.Errorf("Height = %v", v)
	}

	res = env.disp.EditObject("Main", "Ghost", nil)
	if res.Success || res.Error != "Object 'Ghost' not found in document 'Main'." {
		t.Errorf("edit missing object: %+v", res)
	}
}

func TestCreateFemObjectsWithAnalysis(t *testing.T) {
	env := newTestEnv(t)
	env.disp.CreateDocument("Main")

	res := env.disp.CreateObject("Main", ObjectSpec{Name: "Analysis", Type: "Fem::AnalysisPython"})
	if !res.Success {
		t.Fatalf("analysis: %s", res.Error)
	}
	res = env.disp.CreateObject("Main", ObjectSpec{
		Name:     "Material",
		Type:     "Fem::MaterialCommon",
		Analysis: "Analysis",
	})
	if !res.Success {
		t.Fatalf("material: %s", res.Error)
	}
	material := env.app.Document("Main").Object("Material")
	if material.Analysis() != "Analysis" {
		t.Errorf("material not attached: %q", material.Analysis())
	}
}

func TestCreateMeshRequiresPartProperty(t *testing.T) {
	env := newTestEnv(t)
	env.disp.CreateDocument("Main")
	env.disp.CreateObject("Main", ObjectSpec{Name: "Analysis", Type: "Fem::AnalysisPython"})

	res := env.disp.CreateObject("Main", ObjectSpec{
		Name:     "Mesh",
		Type:     "Fem::FemMeshGmsh",
		Analysis: "Analysis",
	})
	if res.Success {
		t.Fatal("mesh without Part property succeeded")
	}
	if res.Error != "'Part' property not found in properties." {
		t.Errorf("error = %q", res.Error)
	}
}

func TestCreateMeshGeneratesCounts(t *testing.T) {
	env := newTestEnv(t)
	env.disp.CreateDocument("Main")
	env.disp.CreateObject("Main", ObjectSpec{Name: "Box", Type: "Part::Box"})
	env.disp.CreateObject("Main", ObjectSpec{Name: "Analysis", Type: "Fem::AnalysisPython"})

	res := env.disp.CreateObject("Main", ObjectSpec{
		Name:       "Mesh",
		Type:       "Fem::FemMeshGmsh",
		Analysis:   "Analysis",
		Properties: map[string]any{"Part": "Box", "ElementSizeMax": 5.0},
	})
	if !res.Success {
		t.Fatalf("mesh: %s", res.Error)
	}
	mesh := env.app.Document("Main").Object("Mesh")
	if _, ok := mesh.Property("ElementCount"); !ok {
		t.Error("mesh generation did not record ElementCount")
	}
}

func TestDeleteObject(t *testing.T) {
	env := newTestEnv(t)
	env.disp.CreateDocument("Main")
	env.disp.CreateObject("Main", ObjectSpec{Name: "Box", Type: "Part::Box"})

	res := env.disp.DeleteObject("Main", "Box")
	if !res.Success {
		t.Fatalf("DeleteObject failed: %s", res.Error)
	}
	if env.app.Document("Main").Object("Box") != nil {
		t.Error("object still present")
	}

	res = env.disp.DeleteObject("Main", "Box")
	if res.Success {
		t.Error("double delete succeeded")
	}
}

func TestGetObjectsReadsDirectly(t *testing.T) {
	env := newTestEnv(t)

	if got := env.disp.GetObjects("Nowhere"); len(got) != 0 {
		t.Errorf("missing document: %v", got)
	}

	env.disp.CreateDocument("Main")
	env.disp.CreateObject("Main", ObjectSpec{Name: "Box", Type: "Part::Box"})
	objs := env.disp.GetObjects("Main")
	if len(objs) != 1 || objs[0]["Name"] != "Box" {
		t.Errorf("objects = %v", objs)
	}

	if env.disp.GetObject("Main", "Ghost") != nil {
		t.Error("missing object serialized")
	}
	if env.disp.GetObject("Main", "Box") == nil {
		t.Error("present object not serialized")
	}
}

func TestExecuteCodeGate(t *testing.T) {
	env := newTestEnv(t)

	res := env.disp.ExecuteCode("newdoc Scripted")
	if !res.Success {
		t.Fatalf("ExecuteCode failed: %s", res.Error)
	}
	message, _ := res.Payload["message"].(string)
	if !strings.HasPrefix(message, "Script executed successfully.") {
		t.Errorf("message = %q", message)
	}
	if env.app.Document("Scripted") == nil {
		t.Error("script did not run")
	}

	env.disp.allowCode = false
	res = env.disp.ExecuteCode("newdoc Blocked")
	if res.Success {
		t.Fatal("gated execute_code succeeded")
	}
	if !strings.Contains(res.Error, "code execution is disabled") {
		t.Errorf("error = %q", res.Error)
	}
}

func TestScreenshotCapabilityCheck(t *testing.T) {
	env := newTestEnv(t)

	// No active view at all.
	if _, ok := env.disp.GetActiveScreenshot("Isometric"); ok {
		t.Error("screenshot with no view succeeded")
	}

	env.disp.CreateDocument("Main")
	env.disp.CreateObject("Main", ObjectSpec{Name: "Box", Type: "Part::Box"})

	shot, ok := env.disp.GetActiveScreenshot("Front")
	if !ok {
		t.Fatal("scene view screenshot failed")
	}
	if _, err := base64.StdEncoding.DecodeString(shot); err != nil {
		t.Errorf("screenshot is not base64: %v", err)
	}

	// Sheet views lack the export capability.
	env.gui.SetActiveView(view.NewSheetView(env.app.Document("Main")))
	if _, ok := env.disp.GetActiveScreenshot("Front"); ok {
		t.Error("sheet view screenshot succeeded")
	}
}

func TestListDocuments(t *testing.T) {
	env := newTestEnv(t)
	env.disp.CreateDocument("A")
	env.disp.CreateDocument("B")

	docs := env.disp.ListDocuments()
	if len(docs) != 2 || docs[0] != "A" || docs[1] != "B" {
		t.Errorf("documents = %v", docs)
	}
}

func TestNodeOperations(t *testing.T) {
	env := newTestEnv(t)

	res := env.disp.NodesCreateNode("inputs.number", "N", 0, 0)
	if !res.Success {
		t.Fatalf("NodesCreateNode failed: %s", res.Error)
	}
	res = env.disp.NodesCreateNode("generators.solid_box", "Box", 200, 100)
	if !res.Success {
		t.Fatalf("NodesCreateNode failed: %s", res.Error)
	}

	res = env.disp.NodesLink("N", "Value", "Box", "Length")
	if !res.Success {
		t.Fatalf("NodesLink failed: %s", res.Error)
	}

	res = env.disp.NodesSetSocketValue("Box", "Width", 9.0)
	if !res.Success {
		t.Fatalf("NodesSetSocketValue failed: %s", res.Error)
	}
	res = env.disp.NodesGetSocketValue("Box", "Width")
	if !res.Success || res.Payload["value"] != 9.0 {
		t.Errorf("NodesGetSocketValue: %+v", res)
	}

	res = env.disp.NodesGetGraph()
	if !res.Success {
		t.Fatalf("NodesGetGraph failed: %s", res.Error)
	}
	nodes, _ := res.Payload["nodes"].([]any)
	if len(nodes) != 2 {
		t.Errorf("graph nodes = %v", res.Payload["nodes"])
	}

	if shot, ok := env.disp.NodesScreenshot(); !ok || shot == "" {
		t.Error("node screenshot failed")
	}

	res = env.disp.NodesUnlink("N", "Value", "Box", "Length")
	if !res.Success {
		t.Fatalf("NodesUnlink failed: %s", res.Error)
	}
	res = env.disp.NodesDeleteNode("N")
	if !res.Success {
		t.Fatalf("NodesDeleteNode failed: %s", res.Error)
	}
	res = env.disp.NodesClear()
	if !res.Success {
		t.Fatalf("NodesClear failed: %s", res.Error)
	}
}

func TestNodeOperationsWithoutEditor(t *testing.T) {
	env := newTestEnv(t)
	ed, err := env.registry.ActiveEditor()
	if err != nil {
		t.Fatalf("ActiveEditor: %v", err)
	}
	ed.SetVisible(false)

	res := env.disp.NodesCreateNode("inputs.number", "", 0, 0)
	if res.Success {
		t.Fatal("node creation without a visible editor succeeded")
	}
	if !strings.Contains(res.Error, "no visible node editor is open") {
		t.Errorf("error = %q", res.Error)
	}
}

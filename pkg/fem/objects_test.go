package fem

import (
	"strings"
	"testing"

	"github.com/parcad/parcad/pkg/cad"
)

func newDoc(t *testing.T) *cad.Document {
	t.Helper()
	doc, err := cad.NewApp().NewDocument("Main")
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	return doc
}

func TestConstructorDispatch(t *testing.T) {
	cases := []struct {
		kind   string
		typeID string
	}{
		{"AnalysisPython", "Fem::AnalysisPython"},
		{"MaterialCommon", "Fem::MaterialCommon"},
		{"ConstraintFixed", "Fem::ConstraintFixed"},
		{"ConstraintForce", "Fem::ConstraintForce"},
		{"ConstraintPressure", "Fem::ConstraintPressure"},
		{"FemMeshGmsh", "Fem::FemMeshGmsh"},
	}
	for _, tc := range cases {
		ctor, ok := ConstructorFor(tc.kind)
		if !ok {
			t.Errorf("no constructor for %s", tc.kind)
			continue
		}
		doc := newDoc(t)
		obj, err := ctor(doc, tc.kind)
		if err != nil {
			t.Errorf("%s: %v", tc.kind, err)
			continue
		}
		if obj.TypeID() != tc.typeID {
			t.Errorf("%s: type %s, want %s", tc.kind, obj.TypeID(), tc.typeID)
		}
	}

	if _, ok := ConstructorFor("SolverElmer"); ok {
		t.Error("unknown kind has a constructor")
	}
}

func TestAttachToAnalysis(t *testing.T) {
	doc := newDoc(t)
	analysis, err := MakeAnalysis(doc, "Analysis")
	if err != nil {
		t.Fatalf("MakeAnalysis: %v", err)
	}
	material, err := MakeMaterialSolid(doc, "Material")
	if err != nil {
		t.Fatalf("MakeMaterialSolid: %v", err)
	}

	if err := AttachToAnalysis(doc, "Analysis", material); err != nil {
		t.Fatalf("AttachToAnalysis: %v", err)
	}
	groupVal, _ := analysis.Property("Group")
	group := groupVal.([]*cad.Object)
	if len(group) != 1 || group[0] != material {
		t.Errorf("group = %v", group)
	}
	if material.Analysis() != "Analysis" {
		t.Errorf("back-reference = %q", material.Analysis())
	}
}

func TestAttachToAnalysisErrors(t *testing.T) {
	doc := newDoc(t)
	material, _ := MakeMaterialSolid(doc, "Material")

	err := AttachToAnalysis(doc, "Ghost", material)
	if err == nil || !strings.Contains(err.Error(), "analysis 'Ghost' not found") {
		t.Errorf("missing analysis: %v", err)
	}

	// A plain object is not a container.
	if _, err := doc.AddObject("Part::Box", "Box"); err != nil {
		t.Fatalf("AddObject: %v", err)
	}
	err = AttachToAnalysis(doc, "Box", material)
	if err == nil || !strings.Contains(err.Error(), "not an analysis container") {
		t.Errorf("non-container: %v", err)
	}
}

func TestGenerateMeshRequiresPart(t *testing.T) {
	doc := newDoc(t)
	mesh, _ := MakeMeshGmsh(doc, "Mesh")

	err := GenerateMesh(mesh)
	if err == nil || !strings.Contains(err.Error(), "has no target part") {
		t.Fatalf("mesh without part: %v", err)
	}
}

func TestGenerateMeshCountsFromExtent(t *testing.T) {
	doc := newDoc(t)
	box, _ := doc.AddObject("Part::Box", "Box")
	if err := box.SetProperty("Length", 20.0); err != nil {
		t.Fatalf("SetProperty: %v", err)
	}
	mesh, _ := MakeMeshGmsh(doc, "Mesh")
	if err := mesh.SetProperty("Part", box); err != nil {
		t.Fatalf("SetProperty(Part): %v", err)
	}
	if err := mesh.SetProperty("ElementSizeMax", 10.0); err != nil {
		t.Fatalf("SetProperty(ElementSizeMax): %v", err)
	}

	if err := GenerateMesh(mesh); err != nil {
		t.Fatalf("GenerateMesh: %v", err)
	}
	elements, ok := mesh.Property("ElementCount")
	if !ok {
		t.Fatal("ElementCount not set")
	}
	// 20x10x10 box at element size 10: 2x1x1 cells.
	if elements != 2.0 {
		t.Errorf("ElementCount = %v, want 2", elements)
	}
	nodes, _ := mesh.Property("NodeCount")
	if nodes != 12.0 {
		t.Errorf("NodeCount = %v, want 12", nodes)
	}
}

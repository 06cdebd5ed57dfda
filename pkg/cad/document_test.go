package cad

import (
	"strings"
	"testing"
)

func TestAddObjectDefaultsAndDuplicates(t *testing.T) {
	app := NewApp()
	doc, err := app.NewDocument("Main")
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	obj, err := doc.AddObject("Part::Box", "")
	if err != nil {
		t.Fatalf("AddObject: %v", err)
	}
	if obj.Name() != "New_Object" {
		t.Errorf("default name: got %q, want New_Object", obj.Name())
	}

	if _, err := doc.AddObject("Part::Box", "New_Object"); err == nil {
		t.Error("duplicate name accepted")
	}
}

func TestObjectsPreserveCreationOrder(t *testing.T) {
	doc := mustDoc(t, "Main")
	names := []string{"C", "A", "B"}
	for _, n := range names {
		if _, err := doc.AddObject("Part::Box", n); err != nil {
			t.Fatalf("AddObject(%s): %v", n, err)
		}
	}
	objs := doc.Objects()
	if len(objs) != 3 {
		t.Fatalf("got %d objects, want 3", len(objs))
	}
	for i, obj := range objs {
		if obj.Name() != names[i] {
			t.Errorf("position %d: got %s, want %s", i, obj.Name(), names[i])
		}
	}
}

func TestRemoveObjectNotFound(t *testing.T) {
	doc := mustDoc(t, "Main")
	err := doc.RemoveObject("Ghost")
	if err == nil {
		t.Fatal("expected error for missing object")
	}
	want := "object 'Ghost' not found in document 'Main'"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestSetPropertyTypeDiscipline(t *testing.T) {
	doc := mustDoc(t, "Main")
	box, err := doc.AddObject("Part::Box", "Box")
	if err != nil {
		t.Fatalf("AddObject: %v", err)
	}

	// Numeric properties accept any numeric input.
	if err := box.SetProperty("Length", 25); err != nil {
		t.Errorf("int into float property: %v", err)
	}
	v, _ := box.Property("Length")
	if v != 25.0 {
		t.Errorf("Length = %v, want 25", v)
	}

	// Undeclared property names are rejected.
	err = box.SetProperty("NoSuch", 1)
	if err == nil {
		t.Fatal("undeclared property accepted")
	}
	if !strings.Contains(err.Error(), "has no property 'NoSuch'") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSchemaDeclaresPlacementAndLabel(t *testing.T) {
	doc := mustDoc(t, "Main")
	cyl, err := doc.AddObject("Part::Cylinder", "Cyl")
	if err != nil {
		t.Fatalf("AddObject: %v", err)
	}
	for _, name := range []string{"Radius", "Height", "Placement", "Label"} {
		if !cyl.HasProperty(name) {
			t.Errorf("missing declared property %s", name)
		}
	}
	p, _ := cyl.Property("Placement")
	placement, ok := p.(Placement)
	if !ok {
		t.Fatalf("Placement has type %T", p)
	}
	if placement.Rotation.Axis != (Vector{Z: 1}) {
		t.Errorf("default rotation axis = %v, want z unit", placement.Rotation.Axis)
	}
}

func TestSnapshotShape(t *testing.T) {
	doc := mustDoc(t, "Main")
	box, err := doc.AddObject("Part::Box", "Box")
	if err != nil {
		t.Fatalf("AddObject: %v", err)
	}
	snap := box.Snapshot()

	if snap["Name"] != "Box" || snap["Type"] != "Part::Box" {
		t.Errorf("snapshot header: %v", snap)
	}
	props, ok := snap["Properties"].(map[string]any)
	if !ok {
		t.Fatalf("Properties has type %T", snap["Properties"])
	}
	placement, ok := props["Placement"].(map[string]any)
	if !ok {
		t.Fatalf("serialized Placement has type %T", props["Placement"])
	}
	if _, ok := placement["Base"].(map[string]any); !ok {
		t.Error("Placement.Base not serialized as mapping")
	}
	viewAttrs, ok := snap["ViewObject"].(map[string]any)
	if !ok {
		t.Fatalf("ViewObject has type %T", snap["ViewObject"])
	}
	if _, ok := viewAttrs["ShapeColor"]; !ok {
		t.Error("default ShapeColor missing from view attributes")
	}
}

func TestAppActiveDocumentTracking(t *testing.T) {
	app := NewApp()
	if app.ActiveDocument() != nil {
		t.Error("fresh app has an active document")
	}
	a, _ := app.NewDocument("A")
	b, _ := app.NewDocument("B")
	if app.ActiveDocument() != b {
		t.Error("latest document is not active")
	}
	if err := app.SetActiveDocument("A"); err != nil {
		t.Fatalf("SetActiveDocument: %v", err)
	}
	if app.ActiveDocument() != a {
		t.Error("SetActiveDocument did not switch")
	}
	if err := app.SetActiveDocument("Ghost"); err == nil {
		t.Error("activating a missing document succeeded")
	}
}

func TestRecomputeBumpsRevision(t *testing.T) {
	doc := mustDoc(t, "Main")
	before := doc.Revision()
	doc.Recompute()
	if doc.Revision() != before+1 {
		t.Errorf("revision %d after recompute, want %d", doc.Revision(), before+1)
	}
}

func mustDoc(t *testing.T, name string) *Document {
	t.Helper()
	doc, err := NewApp().NewDocument(name)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	return doc
}

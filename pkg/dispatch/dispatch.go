// Package dispatch implements the command set the RPC endpoint exposes.
// Every mutating operation follows the same template: validate inputs,
// build a closure, hand it to the bridge for execution on the GUI thread,
// and translate the raw result into a success or error envelope. Closures
// always catch their own failures and encode them as string results; a
// closure that panicked or returned nil would desynchronize the bridge.
package dispatch

import (
	"fmt"
	"strings"

	"github.com/parcad/parcad/pkg/bridge"
	"github.com/parcad/parcad/pkg/cad"
	"github.com/parcad/parcad/pkg/cad/coerce"
	"github.com/parcad/parcad/pkg/console"
	"github.com/parcad/parcad/pkg/fem"
	"github.com/parcad/parcad/pkg/nodegraph"
	"github.com/parcad/parcad/pkg/partslib"
	"github.com/parcad/parcad/pkg/script"
	"github.com/parcad/parcad/pkg/view"
)

// ObjectSpec is the wire shape of a create_object request.
type ObjectSpec struct {
	Name       string         `json:"Name"`
	Type       string         `json:"Type"`
	Analysis   string         `json:"Analysis,omitempty"`
	Properties map[string]any `json:"Properties,omitempty"`
}

// Dispatcher routes operations onto the live application state.
type Dispatcher struct {
	app     *cad.App
	gui     *view.Gui
	bridge  *bridge.Bridge
	con     *console.Console
	library *partslib.Library
	interp  *script.Interp
	nodes   *nodegraph.Registry

	allowCode bool
}

// Deps collects the collaborators a Dispatcher needs.
type Deps struct {
	App       *cad.App
	Gui       *view.Gui
	Bridge    *bridge.Bridge
	Console   *console.Console
	Library   *partslib.Library
	Interp    *script.Interp
	Nodes     *nodegraph.Registry
	AllowCode bool
}

// New creates a dispatcher.
func New(deps Deps) *Dispatcher {
	con := deps.Console
	if con == nil {
		con = console.Default()
	}
	return &Dispatcher{
		app:       deps.App,
		gui:       deps.Gui,
		bridge:    deps.Bridge,
		con:       con,
		library:   deps.Library,
		interp:    deps.Interp,
		nodes:     deps.Nodes,
		allowCode: deps.AllowCode,
	}
}

// guarded wraps a GUI-thread action so the resulting bridge task always
// returns a non-nil value: true on success, the failure text otherwise.
// Panics become failure text too; they must never escape into the drain
// loop.
func guarded(fn func() error) bridge.Task {
	return func() (result any) {
		defer func() {
			if r := recover(); r != nil {
				result = fmt.Sprintf("internal error: %v", r)
			}
		}()
		if err := fn(); err != nil {
			return err.Error()
		}
		return true
	}
}

// valued is guarded for actions that produce payload: the task returns
// the payload map on success, the failure text otherwise.
func valued(fn func() (map[string]any, error)) bridge.Task {
	return func() (result any) {
		defer func() {
			if r := recover(); r != nil {
				result = fmt.Sprintf("internal error: %v", r)
			}
		}()
		payload, err := fn()
		if err != nil {
			return err.Error()
		}
		if payload == nil {
			payload = map[string]any{}
		}
		return payload
	}
}

// envelope maps a raw bridge result onto a Response: boolean true means
// success with the given payload, anything else is the error text.
func envelope(result any, payload map[string]any) Response {
	if result == true {
		return Ok(payload)
	}
	return Fail(fmt.Sprintf("%v", result))
}

// Ping is the transport health check.
func (d *Dispatcher) Ping() bool { return true }

// CreateDocument creates a new named document.
func (d *Dispatcher) CreateDocument(name string) Response {
	if name == "" {
		name = "New_Document"
	}
	result := d.bridge.SubmitAndWait(guarded(func() error {
		doc, err := d.app.NewDocument(name)
		if err != nil {
			return err
		}
		doc.Recompute()
		d.gui.SetActiveView(view.NewSceneView(doc))
		d.con.Message("Document '%s' created via RPC.", name)
		return nil
	}))
	return envelope(result, map[string]any{"document_name": name})
}

// CreateObject creates an object described by spec in the named document.
func (d *Dispatcher) CreateObject(docName string, spec ObjectSpec) Response {
	if spec.Name == "" {
		spec.Name = "New_Object"
	}
	if spec.Properties == nil {
		spec.Properties = map[string]any{}
	}
	result := d.bridge.SubmitAndWait(guarded(func() error {
		return d.createObjectGUI(docName, spec)
	}))
	return envelope(result, map[string]any{"object_name": spec.Name})
}

func (d *Dispatcher) createObjectGUI(docName string, spec ObjectSpec) error {
	doc := d.app.Document(docName)
	if doc == nil {
		d.con.Error("Document '%s' not found.", docName)
		return fmt.Errorf("Document '%s' not found.", docName)
	}

	switch {
	case spec.Type == "Fem::FemMeshGmsh" && spec.Analysis != "":
		mesh, err := fem.MakeMeshGmsh(doc, spec.Name)
		if err != nil {
			return err
		}
		if err := fem.AttachToAnalysis(doc, spec.Analysis, mesh); err != nil {
			return err
		}
		partName, ok := spec.Properties["Part"].(string)
		if !ok {
			return fmt.Errorf("'Part' property not found in properties.")
		}
		part := doc.Object(partName)
		if part == nil {
			return fmt.Errorf("referenced object '%s' not found", partName)
		}
		if err := mesh.SetProperty("Part", part); err != nil {
			return err
		}
		rest := make(map[string]any, len(spec.Properties))
		for k, v := range spec.Properties {
			if k != "Part" {
				rest[k] = v
			}
		}
		coerce.SetObjectProperties(d.con, doc, mesh, rest)
		doc.Recompute()
		if err := fem.GenerateMesh(mesh); err != nil {
			return err
		}
		d.con.Message("FEM mesh '%s' generated successfully in '%s'.", mesh.Name(), docName)

	case strings.HasPrefix(spec.Type, "Fem::"):
		kind := strings.TrimPrefix(spec.Type, "Fem::")
		ctor, ok := fem.ConstructorFor(kind)
		if !ok {
			return fmt.Errorf("no creation method 'Make%s' found for type '%s'", kind, spec.Type)
		}
		obj, err := ctor(doc, spec.Name)
		if err != nil {
			return err
		}
		coerce.SetObjectProperties(d.con, doc, obj, spec.Properties)
		if spec.Type != "Fem::AnalysisPython" && spec.Analysis != "" {
			if err := fem.AttachToAnalysis(doc, spec.Analysis, obj); err != nil {
				return err
			}
		}
		d.con.Message("FEM object '%s' created.", obj.Name())

	default:
		obj, err := doc.AddObject(spec.Type, spec.Name)
		if err != nil {
			return err
		}
		coerce.SetObjectProperties(d.con, doc, obj, spec.Properties)
		d.con.Message("%s '%s' added to '%s' via RPC.", spec.Type, obj.Name(), docName)
	}

	doc.Recompute()
	return nil
}

// EditObject applies properties to an existing object.
func (d *Dispatcher) EditObject(docName, objName string, properties map[string]any) Response {
	result := d.bridge.SubmitAndWait(guarded(func() error {
		doc := d.app.Document(docName)
		if doc == nil {
			d.con.Error("Document '%s' not found.", docName)
			return fmt.Errorf("Document '%s' not found.", docName)
		}
		obj := doc.Object(objName)
		if obj == nil {
			d.con.Error("Object '%s' not found in document '%s'.", objName, docName)
			return fmt.Errorf("Object '%s' not found in document '%s'.", objName, docName)
		}

		props := properties
		// References need whole-list resolution before the per-key
		// best-effort pass; a bad name must fail the edit, not be
		// silently skipped.
		if refsVal, present := props["References"]; present && obj.HasProperty("References") {
			list, ok := refsVal.([]any)
			if !ok {
				return fmt.Errorf("References expects a list of [name, face] pairs")
			}
			refs, err := coerce.ResolveReferences(doc, list)
			if err != nil {
				return err
			}
			if err := obj.SetProperty("References", refs); err != nil {
				return err
			}
			d.con.Message("References updated for '%s' in '%s'.", objName, docName)
			rest := make(map[string]any, len(props))
			for k, v := range props {
				if k != "References" {
					rest[k] = v
				}
			}
			props = rest
		}

		coerce.SetObjectProperties(d.con, doc, obj, props)
		doc.Recompute()
		d.con.Message("Object '%s' updated via RPC.", objName)
		return nil
	}))
	return envelope(result, map[string]any{"object_name": objName})
}

// DeleteObject removes the named object.
func (d *Dispatcher) DeleteObject(docName, objName string) Response {
	result := d.bridge.SubmitAndWait(guarded(func() error {
		doc := d.app.Document(docName)
		if doc == nil {
			d.con.Error("Document '%s' not found.", docName)
			return fmt.Errorf("Document '%s' not found.", docName)
		}
		if err := doc.RemoveObject(objName); err != nil {
			return err
		}
		doc.Recompute()
		d.con.Message("Object '%s' deleted via RPC.", objName)
		return nil
	}))
	return envelope(result, map[string]any{"object_name": objName})
}

// ExecuteCode runs a console script against the live application state.
// Arbitrary state mutation: trusted callers only, and disabled unless the
// config enables it.
func (d *Dispatcher) ExecuteCode(code string) Response {
	if !d.allowCode {
		return Fail("code execution is disabled; enable it in the addon configuration")
	}
	result := d.bridge.SubmitAndWait(valued(func() (map[string]any, error) {
		output, err := d.interp.Run(code)
		if err != nil {
			d.con.Error("Error executing script: %v", err)
			return nil, fmt.Errorf("Error executing script: %v", err)
		}
		d.con.Message("Script executed successfully.")
		return map[string]any{
			"message": "Script executed successfully.\nOutput: " + output,
		}, nil
	}))
	if payload, ok := result.(map[string]any); ok {
		return Ok(payload)
	}
	return Fail(fmt.Sprintf("%v", result))
}

// GetObjects serializes every object in the document. Read-only: it does
// not go through the bridge. A missing document yields an empty list.
func (d *Dispatcher) GetObjects(docName string) []map[string]any {
	doc := d.app.Document(docName)
	if doc == nil {
		return []map[string]any{}
	}
	objs := doc.Objects()
	out := make([]map[string]any, 0, len(objs))
	for _, obj := range objs {
		out = append(out, obj.Snapshot())
	}
	return out
}

// GetObject serializes one object, or returns nil if the document or
// object is absent.
func (d *Dispatcher) GetObject(docName, objName string) map[string]any {
	doc := d.app.Document(docName)
	if doc == nil {
		return nil
	}
	obj := doc.Object(objName)
	if obj == nil {
		return nil
	}
	return obj.Snapshot()
}

// ListDocuments returns all open document names.
func (d *Dispatcher) ListDocuments() []string {
	return d.app.ListDocuments()
}

// GetPartsList returns the relative paths of the parts library contents.
func (d *Dispatcher) GetPartsList() []string {
	if d.library == nil {
		return []string{}
	}
	parts, err := d.library.List()
	if err != nil {
		d.con.Warning("parts library listing failed: %v", err)
		return []string{}
	}
	return parts
}

// InsertPartFromLibrary instantiates a stored part into the active
// document.
func (d *Dispatcher) InsertPartFromLibrary(relativePath string) Response {
	if d.library == nil {
		return Fail("no parts library configured")
	}
	result := d.bridge.SubmitAndWait(guarded(func() error {
		return d.library.Insert(d.app, relativePath)
	}))
	return envelope(result, map[string]any{"message": "Part inserted from library."})
}

// Package script is the dispatcher's customization escape hatch: a small
// line-oriented console language executed against the live application
// state. It is arbitrary state mutation by design and therefore only for
// trusted callers; the dispatcher gates it behind a config flag.
//
// One command per line, words split on whitespace, '#' starts a comment:
//
//	newdoc Name                      create a document and make it active
//	activedoc Name                   switch the active document
//	addobject Doc Type Name          create an object
//	delete Doc.Obj                   remove an object
//	set Doc.Obj.Prop <json>          assign a property (coerced)
//	get Doc.Obj.Prop                 print a property value as JSON
//	objects Doc                      print the document's object names
//	recompute Doc                    recompute a document
//	let name <json>                  bind a scope variable
//	print words...                   print words ($name expands variables)
//
// Variables live in a process-wide scope that survives across calls.
package script

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/parcad/parcad/pkg/cad"
	"github.com/parcad/parcad/pkg/cad/coerce"
	"github.com/parcad/parcad/pkg/console"
)

// Interp executes console scripts against an App.
type Interp struct {
	mu   sync.Mutex
	app  *cad.App
	con  *console.Console
	vars map[string]any
}

// New creates an interpreter with an empty scope.
func New(app *cad.App, con *console.Console) *Interp {
	return &Interp{app: app, con: con, vars: make(map[string]any)}
}

// Run executes code line by line, returning the captured output. The
// first failing line aborts the rest; output produced before the failure
// is kept in the error message's context by the caller.
func (in *Interp) Run(code string) (string, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	var out strings.Builder
	for lineNo, raw := range strings.Split(code, "\n") {
		line := strings.TrimSpace(raw)
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}
		if err := in.exec(&out, line); err != nil {
			return out.String(), fmt.Errorf("line %d: %w", lineNo+1, err)
		}
	}
	return out.String(), nil
}

func (in *Interp) exec(out *strings.Builder, line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "newdoc":
		if len(args) != 1 {
			return fmt.Errorf("newdoc expects a document name")
		}
		_, err := in.app.NewDocument(in.expand(args[0]))
		return err

	case "activedoc":
		if len(args) != 1 {
			return fmt.Errorf("activedoc expects a document name")
		}
		return in.app.SetActiveDocument(in.expand(args[0]))

	case "addobject":
		if len(args) != 3 {
			return fmt.Errorf("addobject expects: doc type name")
		}
		doc := in.app.Document(in.expand(args[0]))
		if doc == nil {
			return fmt.Errorf("document '%s' not found", args[0])
		}
		_, err := doc.AddObject(in.expand(args[1]), in.expand(args[2]))
		return err

	case "delete":
		doc, obj, _, err := in.target(args, 2)
		if err != nil {
			return err
		}
		return doc.RemoveObject(obj.Name())

	case "set":
		if len(args) < 2 {
			return fmt.Errorf("set expects: doc.obj.prop <json>")
		}
		doc, obj, prop, err := in.target(args[:1], 3)
		if err != nil {
			return err
		}
		value, err := in.parseJSON(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		coerce.SetObjectProperties(in.con, doc, obj, map[string]any{prop: value})
		return nil

	case "get":
		_, obj, prop, err := in.target(args, 3)
		if err != nil {
			return err
		}
		value, ok := obj.Property(prop)
		if !ok {
			return fmt.Errorf("object '%s' has no property '%s'", obj.Name(), prop)
		}
		data, err := json.Marshal(serialize(value))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n", data)
		return nil

	case "objects":
		if len(args) != 1 {
			return fmt.Errorf("objects expects a document name")
		}
		doc := in.app.Document(in.expand(args[0]))
		if doc == nil {
			return fmt.Errorf("document '%s' not found", args[0])
		}
		for _, obj := range doc.Objects() {
			fmt.Fprintf(out, "%s\n", obj.Name())
		}
		return nil

	case "recompute":
		if len(args) != 1 {
			return fmt.Errorf("recompute expects a document name")
		}
		doc := in.app.Document(in.expand(args[0]))
		if doc == nil {
			return fmt.Errorf("document '%s' not found", args[0])
		}
		doc.Recompute()
		return nil

	case "let":
		if len(args) < 2 {
			return fmt.Errorf("let expects: name <json>")
		}
		value, err := in.parseJSON(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		in.vars[args[0]] = value
		return nil

	case "print":
		words := make([]string, len(args))
		for i, a := range args {
			words[i] = in.expand(a)
		}
		fmt.Fprintf(out, "%s\n", strings.Join(words, " "))
		return nil

	default:
		return fmt.Errorf("unknown command '%s'", cmd)
	}
}

// target parses a dotted path argument into its document, object and
// optionally property. parts is 2 for doc.obj, 3 for doc.obj.prop.
func (in *Interp) target(args []string, parts int) (*cad.Document, *cad.Object, string, error) {
	if len(args) < 1 {
		return nil, nil, "", fmt.Errorf("missing target path")
	}
	segs := strings.SplitN(in.expand(args[0]), ".", parts)
	if len(segs) != parts {
		return nil, nil, "", fmt.Errorf("target '%s' must have %d dotted segments", args[0], parts)
	}
	doc := in.app.Document(segs[0])
	if doc == nil {
		return nil, nil, "", fmt.Errorf("document '%s' not found", segs[0])
	}
	obj := doc.Object(segs[1])
	if obj == nil {
		return nil, nil, "", fmt.Errorf("object '%s' not found in document '%s'", segs[1], segs[0])
	}
	prop := ""
	if parts == 3 {
		prop = segs[2]
	}
	return doc, obj, prop, nil
}

func (in *Interp) parseJSON(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(in.expand(s)), &v); err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return v, nil
}

// expand replaces $name tokens with the string form of scope variables.
func (in *Interp) expand(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	for name, value := range in.vars {
		s = strings.ReplaceAll(s, "$"+name, fmt.Sprintf("%v", value))
	}
	return s
}

func serialize(v any) any {
	switch val := v.(type) {
	case cad.Vector:
		return map[string]any{"x": val.X, "y": val.Y, "z": val.Z}
	case cad.Placement:
		return map[string]any{
			"Base": map[string]any{"x": val.Base.X, "y": val.Base.Y, "z": val.Base.Z},
			"Rotation": map[string]any{
				"Axis":  map[string]any{"x": val.Rotation.Axis.X, "y": val.Rotation.Axis.Y, "z": val.Rotation.Axis.Z},
				"Angle": val.Rotation.Angle,
			},
		}
	case *cad.Object:
		if val == nil {
			return nil
		}
		return val.Name()
	default:
		return v
	}
}

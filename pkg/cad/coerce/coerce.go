// Package coerce maps loosely-typed property mappings, as they arrive
// from the wire, onto an object's typed properties. Assignment is
// best-effort: each key is handled in isolation, and a failing key is
// logged and skipped without aborting the rest.
package coerce

import (
	"fmt"

	"github.com/parcad/parcad/pkg/cad"
	"github.com/parcad/parcad/pkg/console"
)

// referenceProps are properties whose string values name another object
// in the same document.
var referenceProps = map[string]bool{
	"Base":    true,
	"Tool":    true,
	"Source":  true,
	"Profile": true,
}

// SetObjectProperties assigns each entry of props onto obj, coercing
// values by the shape of the supplied value and the type the object
// already holds. Failures are reported to con per key; processing always
// continues with the next key.
func SetObjectProperties(con *console.Console, doc *cad.Document, obj *cad.Object, props map[string]any) {
	for name, value := range props {
		if err := setProperty(doc, obj, name, value); err != nil {
			con.Error("Property '%s' assignment error: %v", name, err)
		}
	}
}

func setProperty(doc *cad.Document, obj *cad.Object, name string, value any) error {
	if obj.HasProperty(name) {
		switch {
		case name == "Placement":
			if m, ok := asMap(value); ok {
				return obj.SetProperty(name, placementFromMap(m))
			}
		case currentIsVector(obj, name):
			if m, ok := asMap(value); ok {
				return obj.SetProperty(name, vectorFromMap(m))
			}
		case referenceProps[name]:
			if ref, ok := value.(string); ok {
				target := doc.Object(ref)
				if target == nil {
					return fmt.Errorf("referenced object '%s' not found", ref)
				}
				return obj.SetProperty(name, target)
			}
		case name == "References":
			if list, ok := value.([]any); ok {
				refs, err := ResolveReferences(doc, list)
				if err != nil {
					return err
				}
				return obj.SetProperty(name, refs)
			}
		}
		return obj.SetProperty(name, value)
	}

	// ShapeColor and the ViewObject mapping live on the view
	// representation, a namespace separate from the object's own
	// properties.
	switch name {
	case "ShapeColor":
		color, err := colorFromValue(value)
		if err != nil {
			return err
		}
		obj.SetViewAttr(name, color)
		return nil
	case "ViewObject":
		m, ok := asMap(value)
		if !ok {
			return fmt.Errorf("ViewObject expects a mapping, got %T", value)
		}
		return setViewAttrs(obj, m)
	}

	return obj.SetProperty(name, value)
}

func setViewAttrs(obj *cad.Object, attrs map[string]any) error {
	var firstErr error
	for k, v := range attrs {
		if k == "ShapeColor" {
			color, err := colorFromValue(v)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			obj.SetViewAttr(k, color)
			continue
		}
		obj.SetViewAttr(k, v)
	}
	return firstErr
}

// ResolveReferences turns a wire-format reference list into live object
// references. Every name must resolve or the whole list fails. Entries
// may be [name, face] pairs or {"object_name": ..., "face": ...} maps.
func ResolveReferences(doc *cad.Document, list []any) ([]cad.Reference, error) {
	refs := make([]cad.Reference, 0, len(list))
	for _, entry := range list {
		name, face, err := referencePair(entry)
		if err != nil {
			return nil, err
		}
		target := doc.Object(name)
		if target == nil {
			return nil, fmt.Errorf("referenced object '%s' not found", name)
		}
		refs = append(refs, cad.Reference{Object: target, Face: face})
	}
	return refs, nil
}

func referencePair(entry any) (name, face string, err error) {
	switch e := entry.(type) {
	case []any:
		if len(e) != 2 {
			return "", "", fmt.Errorf("reference entry must be a [name, face] pair, got %d elements", len(e))
		}
		n, ok1 := e[0].(string)
		f, ok2 := e[1].(string)
		if !ok1 || !ok2 {
			return "", "", fmt.Errorf("reference pair must hold two strings")
		}
		return n, f, nil
	case map[string]any:
		n, _ := e["object_name"].(string)
		if n == "" {
			n, _ = e["name"].(string)
		}
		f, _ := e["face"].(string)
		if n == "" {
			return "", "", fmt.Errorf("reference entry missing object name")
		}
		return n, f, nil
	default:
		return "", "", fmt.Errorf("unsupported reference entry type %T", entry)
	}
}

// placementFromMap builds a Placement from a nested mapping. The position
// block may be named either "Base" or "Position"; missing coordinates
// default to 0, the rotation axis defaults to unit Z, the angle to 0.
func placementFromMap(m map[string]any) cad.Placement {
	pos := map[string]any{}
	if p, ok := asMap(m["Base"]); ok {
		pos = p
	} else if p, ok := asMap(m["Position"]); ok {
		pos = p
	}
	rot := map[string]any{}
	if r, ok := asMap(m["Rotation"]); ok {
		rot = r
	}
	axis := cad.Vector{Z: 1}
	if a, ok := asMap(rot["Axis"]); ok {
		axis = cad.Vector{X: num(a, "x", 0), Y: num(a, "y", 0), Z: num(a, "z", 1)}
	}
	return cad.Placement{
		Base: vectorFromMap(pos),
		Rotation: cad.Rotation{
			Axis:  axis,
			Angle: num(rot, "Angle", 0),
		},
	}
}

func vectorFromMap(m map[string]any) cad.Vector {
	return cad.Vector{X: num(m, "x", 0), Y: num(m, "y", 0), Z: num(m, "z", 0)}
}

func colorFromValue(value any) (cad.Color, error) {
	list, ok := value.([]any)
	if !ok || len(list) != 4 {
		return cad.Color{}, fmt.Errorf("ShapeColor expects a 4-element [r, g, b, a] sequence, got %T", value)
	}
	var c cad.Color
	for i, comp := range list {
		f, ok := toFloat(comp)
		if !ok {
			return cad.Color{}, fmt.Errorf("ShapeColor component %d is not a number", i)
		}
		c[i] = f
	}
	return c, nil
}

func currentIsVector(obj *cad.Object, name string) bool {
	cur, _ := obj.Property(name)
	_, ok := cur.(cad.Vector)
	return ok
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func num(m map[string]any, key string, def float64) float64 {
	if f, ok := toFloat(m[key]); ok {
		return f
	}
	return def
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

package cad

import "fmt"

// Reference points at a sub-element (a face) of another object in the
// same document. Used by constraint-style properties.
type Reference struct {
	Object *Object
	Face   string
}

// Object is a named, typed entity within a Document with an open-ended
// property set. Data properties live on the object itself; appearance
// attributes live in a separate view-representation namespace.
type Object struct {
	name     string
	typeID   string
	analysis string
	doc      *Document

	props map[string]any
	order []string
	view  map[string]any
}

func newObject(doc *Document, typeID, name string) *Object {
	o := &Object{
		name:   name,
		typeID: typeID,
		doc:    doc,
		props:  make(map[string]any),
		view: map[string]any{
			"ShapeColor": Color{0.8, 0.8, 0.8, 1.0},
			"Visibility": true,
		},
	}
	declareSchema(o)
	return o
}

// Name returns the object's name, unique within its document.
func (o *Object) Name() string { return o.name }

// TypeID returns the namespaced type tag, e.g. "Part::Box".
func (o *Object) TypeID() string { return o.typeID }

// Document returns the owning document.
func (o *Object) Document() *Document { return o.doc }

// Analysis returns the name of the analysis container this object is
// attached to, or "" for plain objects.
func (o *Object) Analysis() string { return o.analysis }

// SetAnalysis records the analysis back-reference.
func (o *Object) SetAnalysis(name string) {
	o.lock()
	defer o.unlock()
	o.analysis = name
}

// HasProperty reports whether the object declares the named property.
func (o *Object) HasProperty(name string) bool {
	o.rlock()
	defer o.runlock()
	_, ok := o.props[name]
	return ok
}

// Property returns the current value of a declared property.
func (o *Object) Property(name string) (any, bool) {
	o.rlock()
	defer o.runlock()
	v, ok := o.props[name]
	return v, ok
}

// PropertyNames returns the declared property names in declaration order.
func (o *Object) PropertyNames() []string {
	o.rlock()
	defer o.runlock()
	names := make([]string, len(o.order))
	copy(names, o.order)
	return names
}

// AddProperty declares a new property with an initial value. Declaring an
// already-declared name overwrites the value.
func (o *Object) AddProperty(name string, value any) {
	o.lock()
	defer o.unlock()
	o.declare(name, value)
}

// declare is AddProperty without locking, for callers that already hold
// the document lock (schema setup during object construction).
func (o *Object) declare(name string, value any) {
	if _, ok := o.props[name]; !ok {
		o.order = append(o.order, name)
	}
	o.props[name] = value
}

// SetProperty assigns a declared property. The expected type is whatever
// the property currently holds: numeric properties accept any numeric
// value, typed properties (Vector, Placement, references) only accept the
// same kind. Assigning an undeclared property is an error.
func (o *Object) SetProperty(name string, value any) error {
	o.lock()
	defer o.unlock()
	cur, ok := o.props[name]
	if !ok {
		return fmt.Errorf("object '%s' has no property '%s'", o.name, name)
	}
	switch cur.(type) {
	case float64:
		f, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("property '%s' expects a number, got %T", name, value)
		}
		o.props[name] = f
	case Vector:
		v, ok := value.(Vector)
		if !ok {
			return fmt.Errorf("property '%s' expects a vector, got %T", name, value)
		}
		o.props[name] = v
	case Placement:
		p, ok := value.(Placement)
		if !ok {
			return fmt.Errorf("property '%s' expects a placement, got %T", name, value)
		}
		o.props[name] = p
	case *Object:
		ref, ok := value.(*Object)
		if !ok {
			return fmt.Errorf("property '%s' expects an object reference, got %T", name, value)
		}
		o.props[name] = ref
	case []Reference:
		refs, ok := value.([]Reference)
		if !ok {
			return fmt.Errorf("property '%s' expects a reference list, got %T", name, value)
		}
		o.props[name] = refs
	default:
		o.props[name] = value
	}
	return nil
}

// ViewAttr returns an attribute of the view representation.
func (o *Object) ViewAttr(name string) (any, bool) {
	o.rlock()
	defer o.runlock()
	v, ok := o.view[name]
	return v, ok
}

// SetViewAttr assigns an attribute of the view representation.
func (o *Object) SetViewAttr(name string, value any) {
	o.lock()
	defer o.unlock()
	o.view[name] = value
}

// ShapeColor returns the view representation's shape color.
func (o *Object) ShapeColor() Color {
	o.rlock()
	defer o.runlock()
	if c, ok := o.view["ShapeColor"].(Color); ok {
		return c
	}
	return Color{0.8, 0.8, 0.8, 1.0}
}

// BoundingBox derives the object's spatial extent from its shape
// properties and placement. Objects without dimensional properties get a
// unit cube at their placement base.
func (o *Object) BoundingBox() BoundingBox {
	o.rlock()
	defer o.runlock()

	dim := func(name, alt string) float64 {
		if f, ok := toFloat(o.props[name]); ok && f > 0 {
			return f
		}
		if alt != "" {
			if f, ok := toFloat(o.props[alt]); ok && f > 0 {
				return f
			}
		}
		return 1
	}

	var size Vector
	switch {
	case o.props["Radius"] != nil:
		r := dim("Radius", "")
		h := r * 2
		if o.props["Height"] != nil {
			h = dim("Height", "")
		}
		size = Vector{r * 2, r * 2, h}
	default:
		size = Vector{dim("Length", "Width"), dim("Width", "Length"), dim("Height", "Length")}
	}

	base := Vector{}
	if pl, ok := o.props["Placement"].(Placement); ok {
		base = pl.Base
	}
	return BoundingBox{Min: base, Max: base.Add(size)}
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

func (o *Object) lock() {
	if o.doc != nil {
		o.doc.mu.Lock()
	}
}

func (o *Object) unlock() {
	if o.doc != nil {
		o.doc.mu.Unlock()
	}
}

func (o *Object) rlock() {
	if o.doc != nil {
		o.doc.mu.RLock()
	}
}

func (o *Object) runlock() {
	if o.doc != nil {
		o.doc.mu.RUnlock()
	}
}

package cad

import (
	"fmt"
	"sync"
)

// Document is a named, mutable container of Objects. All mutation is
// expected to happen on the GUI thread; the lock exists so read-only
// serialization can run off that thread.
type Document struct {
	mu sync.RWMutex

	name     string
	objects  map[string]*Object
	order    []string
	revision int
}

func newDocument(name string) *Document {
	return &Document{
		name:    name,
		objects: make(map[string]*Object),
	}
}

// Name returns the document name.
func (d *Document) Name() string { return d.name }

// AddObject creates a new object of the given namespaced type.
func (d *Document) AddObject(typeID, name string) (*Object, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if name == "" {
		name = "New_Object"
	}
	if _, exists := d.objects[name]; exists {
		return nil, fmt.Errorf("object '%s' already exists in document '%s'", name, d.name)
	}
	o := newObject(d, typeID, name)
	d.objects[name] = o
	d.order = append(d.order, name)
	return o, nil
}

// adopt attaches a detached object (built by a constructor) to the document.
func (d *Document) adopt(o *Object) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.objects[o.name]; exists {
		return fmt.Errorf("object '%s' already exists in document '%s'", o.name, d.name)
	}
	o.doc = d
	d.objects[o.name] = o
	d.order = append(d.order, o.name)
	return nil
}

// Object returns the named object, or nil if absent.
func (d *Document) Object(name string) *Object {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.objects[name]
}

// Objects returns all objects in creation order.
func (d *Document) Objects() []*Object {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Object, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.objects[name])
	}
	return out
}

// RemoveObject deletes the named object from the document.
func (d *Document) RemoveObject(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.objects[name]; !ok {
		return fmt.Errorf("object '%s' not found in document '%s'", name, d.name)
	}
	delete(d.objects, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return nil
}

// Recompute re-evaluates the document after mutation. The model keeps no
// dependency graph; recompute just bumps the revision so views and
// serializers can detect staleness.
func (d *Document) Recompute() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revision++
}

// Revision returns the number of recomputes performed so far.
func (d *Document) Revision() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.revision
}

// BoundingBox returns the union extent of every object in the document.
func (d *Document) BoundingBox() BoundingBox {
	objs := d.Objects()
	if len(objs) == 0 {
		return BoundingBox{Min: Vector{}, Max: Vector{1, 1, 1}}
	}
	box := objs[0].BoundingBox()
	for _, o := range objs[1:] {
		box = box.Union(o.BoundingBox())
	}
	return box
}

// Package nodegraph models the visual-scripting editor: scenes of typed
// nodes connected through sockets, with an undo history. Editor surfaces
// announce themselves through an explicit Registry instead of being
// discovered by scanning live widgets, so lookup failures are clean
// errors rather than heuristics.
package nodegraph

import (
	"fmt"
	"sync"
)

// Registry tracks the node editors currently open in the host.
type Registry struct {
	mu      sync.RWMutex
	editors []*Editor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register announces an editor surface.
func (r *Registry) Register(e *Editor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.editors = append(r.editors, e)
}

// Unregister removes an editor surface.
func (r *Registry) Unregister(e *Editor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.editors {
		if cur == e {
			r.editors = append(r.editors[:i], r.editors[i+1:]...)
			return
		}
	}
}

// ActiveEditor returns the first visible registered editor.
func (r *Registry) ActiveEditor() (*Editor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.editors {
		if e.Visible() {
			return e, nil
		}
	}
	return nil, fmt.Errorf("no visible node editor is open")
}

// Editor is one visual-scripting surface with its scene.
type Editor struct {
	mu      sync.RWMutex
	title   string
	visible bool
	scene   *Scene
}

// NewEditor creates a visible editor with an empty scene.
func NewEditor(title string) *Editor {
	return &Editor{title: title, visible: true, scene: NewScene()}
}

// Title returns the editor window title.
func (e *Editor) Title() string { return e.title }

// Visible reports whether the editor is currently shown.
func (e *Editor) Visible() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.visible
}

// SetVisible shows or hides the editor.
func (e *Editor) SetVisible(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visible = v
}

// Scene returns the editor's node scene.
func (e *Editor) Scene() *Scene { return e.scene }

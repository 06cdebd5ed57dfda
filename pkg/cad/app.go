package cad

import (
	"fmt"
	"sync"
)

// App is the process-wide document registry, standing in for the running
// host application. At most one document is active at a time; implicit
// operations (screenshots, part insertion) target the active document.
type App struct {
	mu     sync.RWMutex
	docs   map[string]*Document
	order  []string
	active string
}

// NewApp creates an empty application state.
func NewApp() *App {
	return &App{docs: make(map[string]*Document)}
}

// NewDocument creates a document with the given name and makes it active.
func (a *App) NewDocument(name string) (*Document, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if name == "" {
		name = "New_Document"
	}
	if _, exists := a.docs[name]; exists {
		return nil, fmt.Errorf("document '%s' already exists", name)
	}
	d := newDocument(name)
	a.docs[name] = d
	a.order = append(a.order, name)
	a.active = name
	return d, nil
}

// Document returns the named document, or nil if absent.
func (a *App) Document(name string) *Document {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.docs[name]
}

// ListDocuments returns document names in creation order.
func (a *App) ListDocuments() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// ActiveDocument returns the currently active document, or nil.
func (a *App) ActiveDocument() *Document {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.active == "" {
		return nil
	}
	return a.docs[a.active]
}

// SetActiveDocument switches the active document.
func (a *App) SetActiveDocument(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.docs[name]; !ok {
		return fmt.Errorf("document '%s' not found", name)
	}
	a.active = name
	return nil
}

// CloseDocument removes a document from the registry.
func (a *App) CloseDocument(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.docs[name]; !ok {
		return fmt.Errorf("document '%s' not found", name)
	}
	delete(a.docs, name)
	for i, n := range a.order {
		if n == name {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	if a.active == name {
		a.active = ""
		if len(a.order) > 0 {
			a.active = a.order[len(a.order)-1]
		}
	}
	return nil
}

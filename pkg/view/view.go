// Package view models the host's document views. Only some view kinds can
// export images; screenshot capture probes for that capability instead of
// assuming it, because sheet-style views have nothing to rasterize.
package view

import (
	"sync"

	"github.com/parcad/parcad/pkg/cad"
)

// View is a display surface attached to a document.
type View interface {
	TypeName() string
	Document() *cad.Document
}

// ImageExporter is the capability a view must have for screenshot
// capture: orient, fit, and rasterize to a PNG file.
type ImageExporter interface {
	View
	SetOrientation(name string) error
	FitAll()
	SaveImage(path string) error
}

// Gui tracks which view is active, the way the host's main window does.
// Mutation happens on the GUI thread; the lock covers the read path used
// by off-thread diagnostics.
type Gui struct {
	mu     sync.RWMutex
	app    *cad.App
	active View
}

// NewGui creates the view state for an application.
func NewGui(app *cad.App) *Gui {
	return &Gui{app: app}
}

// App returns the application this Gui fronts.
func (g *Gui) App() *cad.App { return g.app }

// ActiveView returns the active view, or nil when no document is open.
func (g *Gui) ActiveView() View {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active
}

// SetActiveView switches the active view.
func (g *Gui) SetActiveView(v View) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = v
}

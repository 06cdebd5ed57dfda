package dispatch

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/parcad/parcad/pkg/view"
)

// GetActiveScreenshot captures the active view as base64-encoded PNG
// bytes. It returns ok=false, never an error, when the view is missing
// or its kind cannot export images; capture problems are logged and
// degrade the same way.
func (d *Dispatcher) GetActiveScreenshot(viewName string) (string, bool) {
	if viewName == "" {
		viewName = view.Isometric
	}

	// Capability probe runs on the GUI thread; the answer is a plain
	// bool, which is non-nil and therefore always wakes us.
	supports := d.bridge.SubmitAndWait(func() any {
		v := d.gui.ActiveView()
		if v == nil {
			d.con.Warning("No active view available")
			return false
		}
		_, ok := v.(view.ImageExporter)
		d.con.Message("View type: %s, image export: %v", v.TypeName(), ok)
		return ok
	})
	if supports != true {
		d.con.Warning("Current view does not support screenshots")
		return "", false
	}

	tmp, err := os.CreateTemp("", "parcad-view-*.png")
	if err != nil {
		d.con.Warning("Failed to create screenshot file: %v", err)
		return "", false
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	result := d.bridge.SubmitAndWait(guarded(func() error {
		return d.saveActiveScreenshot(tmpPath, viewName)
	}))
	if result != true {
		d.con.Warning("Failed to capture screenshot: %v", result)
		return "", false
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		d.con.Warning("Failed to read screenshot: %v", err)
		return "", false
	}
	return base64.StdEncoding.EncodeToString(data), true
}

// saveActiveScreenshot runs on the GUI thread.
func (d *Dispatcher) saveActiveScreenshot(path, viewName string) error {
	v := d.gui.ActiveView()
	exporter, ok := v.(view.ImageExporter)
	if !ok {
		return fmt.Errorf("current view does not support screenshots")
	}
	if err := exporter.SetOrientation(viewName); err != nil {
		return err
	}
	exporter.FitAll()
	return exporter.SaveImage(path)
}

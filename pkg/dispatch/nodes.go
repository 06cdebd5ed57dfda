package dispatch

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/parcad/parcad/pkg/nodegraph"
)

// Node-editor operations. They all resolve the active editor first and
// fail cleanly when none is open; scene mutations run on the GUI thread
// like everything else.

func (d *Dispatcher) activeScene() (*nodegraph.Scene, error) {
	ed, err := d.nodes.ActiveEditor()
	if err != nil {
		return nil, err
	}
	return ed.Scene(), nil
}

// NodesCreateNode adds a node of the given registered type to the scene.
func (d *Dispatcher) NodesCreateNode(opCode, title string, x, y float64) Response {
	var nodeID string
	result := d.bridge.SubmitAndWait(guarded(func() error {
		scene, err := d.activeScene()
		if err != nil {
			return err
		}
		n, err := scene.CreateNode(opCode, title, x, y)
		if err != nil {
			return err
		}
		nodeID = n.ID()
		d.con.Message("Node '%s' (%s) created.", n.Title(), opCode)
		return nil
	}))
	if result != true {
		return Fail(fmt.Sprintf("%v", result))
	}
	return Ok(map[string]any{"node_id": nodeID})
}

// NodesDeleteNode removes a node, selected by id or title, along with
// every edge touching it.
func (d *Dispatcher) NodesDeleteNode(idOrTitle string) Response {
	result := d.bridge.SubmitAndWait(guarded(func() error {
		scene, err := d.activeScene()
		if err != nil {
			return err
		}
		if err := scene.DeleteNode(idOrTitle); err != nil {
			return err
		}
		d.con.Message("Node '%s' deleted.", idOrTitle)
		return nil
	}))
	return envelope(result, map[string]any{"node": idOrTitle})
}

// NodesLink connects an output socket to an input socket. Sockets are
// selected by index or by name.
func (d *Dispatcher) NodesLink(fromNode, fromSocket, toNode, toSocket string) Response {
	var edgeID string
	result := d.bridge.SubmitAndWait(guarded(func() error {
		scene, err := d.activeScene()
		if err != nil {
			return err
		}
		edge, err := scene.Link(fromNode, fromSocket, toNode, toSocket)
		if err != nil {
			return err
		}
		edgeID = edge.ID
		return nil
	}))
	if result != true {
		return Fail(fmt.Sprintf("%v", result))
	}
	return Ok(map[string]any{"edge_id": edgeID})
}

// NodesUnlink removes the edge between the given sockets.
func (d *Dispatcher) NodesUnlink(fromNode, fromSocket, toNode, toSocket string) Response {
	result := d.bridge.SubmitAndWait(guarded(func() error {
		scene, err := d.activeScene()
		if err != nil {
			return err
		}
		return scene.Unlink(fromNode, fromSocket, toNode, toSocket)
	}))
	return envelope(result, nil)
}

// NodesSetSocketValue stores a literal value on a node's input socket.
func (d *Dispatcher) NodesSetSocketValue(node, socket string, value any) Response {
	result := d.bridge.SubmitAndWait(guarded(func() error {
		scene, err := d.activeScene()
		if err != nil {
			return err
		}
		n, err := scene.FindNode(node)
		if err != nil {
			return err
		}
		s, err := n.Input(socket)
		if err != nil {
			return err
		}
		s.SetValue(value)
		scene.StoreHistory(fmt.Sprintf("Set %s.%s", n.Title(), s.Name))
		return nil
	}))
	return envelope(result, map[string]any{"node": node, "socket": socket})
}

// NodesGetSocketValue reads a socket value, looking at outputs first and
// falling back to inputs.
func (d *Dispatcher) NodesGetSocketValue(node, socket string) Response {
	result := d.bridge.SubmitAndWait(valued(func() (map[string]any, error) {
		scene, err := d.activeScene()
		if err != nil {
			return nil, err
		}
		n, err := scene.FindNode(node)
		if err != nil {
			return nil, err
		}
		s, err := n.Output(socket)
		if err != nil {
			s, err = n.Input(socket)
			if err != nil {
				return nil, err
			}
		}
		return map[string]any{"value": s.Value()}, nil
	}))
	if payload, ok := result.(map[string]any); ok {
		return Ok(payload)
	}
	return Fail(fmt.Sprintf("%v", result))
}

// NodesClear removes every node and edge from the scene.
func (d *Dispatcher) NodesClear() Response {
	result := d.bridge.SubmitAndWait(guarded(func() error {
		scene, err := d.activeScene()
		if err != nil {
			return err
		}
		scene.Clear()
		d.con.Message("Node scene cleared.")
		return nil
	}))
	return envelope(result, nil)
}

// NodesGetGraph returns the full node and edge state of the scene.
func (d *Dispatcher) NodesGetGraph() Response {
	result := d.bridge.SubmitAndWait(valued(func() (map[string]any, error) {
		scene, err := d.activeScene()
		if err != nil {
			return nil, err
		}
		return scene.GraphState(), nil
	}))
	if payload, ok := result.(map[string]any); ok {
		return Ok(payload)
	}
	return Fail(fmt.Sprintf("%v", result))
}

// NodesScreenshot renders the scene to base64-encoded PNG bytes. Like
// GetActiveScreenshot it degrades to ok=false instead of failing the
// call.
func (d *Dispatcher) NodesScreenshot() (string, bool) {
	tmp, err := os.CreateTemp("", "parcad-nodes-*.png")
	if err != nil {
		d.con.Warning("Failed to create screenshot file: %v", err)
		return "", false
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	result := d.bridge.SubmitAndWait(guarded(func() error {
		scene, err := d.activeScene()
		if err != nil {
			return err
		}
		return scene.SaveImage(tmpPath)
	}))
	if result != true {
		d.con.Warning("Failed to capture node editor: %v", result)
		return "", false
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		d.con.Warning("Failed to read screenshot: %v", err)
		return "", false
	}
	return base64.StdEncoding.EncodeToString(data), true
}

package nodegraph

import (
	"fmt"
	"strconv"
	"sync"
)

// SocketSpec describes one socket of a node type.
type SocketSpec struct {
	Name string
	Type string
}

// NodeSpec describes a registered node type: its op code, default title,
// and socket layout.
type NodeSpec struct {
	OpCode  string
	Title   string
	Inputs  []SocketSpec
	Outputs []SocketSpec
}

var (
	specMu    sync.RWMutex
	nodeSpecs = map[string]NodeSpec{}
)

// RegisterNodeType adds a node type to the catalog. Later registrations
// under the same op code replace earlier ones.
func RegisterNodeType(spec NodeSpec) {
	specMu.Lock()
	defer specMu.Unlock()
	nodeSpecs[spec.OpCode] = spec
}

// SpecFor looks up a node type by op code.
func SpecFor(opCode string) (NodeSpec, bool) {
	specMu.RLock()
	defer specMu.RUnlock()
	spec, ok := nodeSpecs[opCode]
	return spec, ok
}

func init() {
	for _, spec := range []NodeSpec{
		{
			OpCode:  "generators.solid_box",
			Title:   "Box",
			Inputs:  []SocketSpec{{"Length", "number"}, {"Width", "number"}, {"Height", "number"}},
			Outputs: []SocketSpec{{"Shape", "shape"}},
		},
		{
			OpCode:  "generators.solid_cylinder",
			Title:   "Cylinder",
			Inputs:  []SocketSpec{{"Radius", "number"}, {"Height", "number"}},
			Outputs: []SocketSpec{{"Shape", "shape"}},
		},
		{
			OpCode:  "generators.solid_sphere",
			Title:   "Sphere",
			Inputs:  []SocketSpec{{"Radius", "number"}},
			Outputs: []SocketSpec{{"Shape", "shape"}},
		},
		{
			OpCode:  "inputs.number",
			Title:   "Number",
			Inputs:  []SocketSpec{},
			Outputs: []SocketSpec{{"Value", "number"}},
		},
		{
			OpCode:  "inputs.vector",
			Title:   "Vector",
			Inputs:  []SocketSpec{{"X", "number"}, {"Y", "number"}, {"Z", "number"}},
			Outputs: []SocketSpec{{"Vector", "vector"}},
		},
		{
			OpCode:  "operations.boolean",
			Title:   "Boolean",
			Inputs:  []SocketSpec{{"Base", "shape"}, {"Tool", "shape"}, {"Operation", "string"}},
			Outputs: []SocketSpec{{"Result", "shape"}},
		},
		{
			OpCode:  "operations.transform",
			Title:   "Transform",
			Inputs:  []SocketSpec{{"Shape", "shape"}, {"Translation", "vector"}, {"Rotation", "vector"}},
			Outputs: []SocketSpec{{"Result", "shape"}},
		},
		{
			OpCode:  "viewers.scene",
			Title:   "Scene Viewer",
			Inputs:  []SocketSpec{{"Shape", "shape"}},
			Outputs: []SocketSpec{},
		},
	} {
		RegisterNodeType(spec)
	}
}

// Node is one node in a scene.
type Node struct {
	id      string
	title   string
	opCode  string
	x, y    float64
	inputs  []*Socket
	outputs []*Socket
}

// ID returns the node's unique identity.
func (n *Node) ID() string { return n.id }

// Title returns the display title.
func (n *Node) Title() string { return n.title }

// OpCode returns the node's type tag.
func (n *Node) OpCode() string { return n.opCode }

// Position returns the node's scene coordinates.
func (n *Node) Position() (x, y float64) { return n.x, n.y }

// SetPosition moves the node.
func (n *Node) SetPosition(x, y float64) {
	n.x, n.y = x, y
}

// Inputs returns the input sockets in declaration order.
func (n *Node) Inputs() []*Socket { return n.inputs }

// Outputs returns the output sockets in declaration order.
func (n *Node) Outputs() []*Socket { return n.outputs }

// Input finds an input socket by selector: a numeric selector is an
// index, anything else is a name.
func (n *Node) Input(selector string) (*Socket, error) {
	return findSocket(n.inputs, selector, "input")
}

// Output finds an output socket by selector.
func (n *Node) Output(selector string) (*Socket, error) {
	return findSocket(n.outputs, selector, "output")
}

func findSocket(sockets []*Socket, selector, kind string) (*Socket, error) {
	// Index first, then name.
	if idx, err := strconv.Atoi(selector); err == nil {
		if idx < 0 || idx >= len(sockets) {
			return nil, fmt.Errorf("%s socket index %d out of range (%d sockets)", kind, idx, len(sockets))
		}
		return sockets[idx], nil
	}
	for _, s := range sockets {
		if s.Name == selector {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%s socket '%s' not found", kind, selector)
}

// Socket is one connection point on a node. Input sockets hold a value
// used when nothing is linked to them.
type Socket struct {
	Name  string
	Index int
	Kind  string // "input" or "output"
	Type  string

	node  *Node
	value any
}

// Node returns the owning node.
func (s *Socket) Node() *Node { return s.node }

// Value returns the socket's stored value.
func (s *Socket) Value() any { return s.value }

// SetValue stores a value on the socket.
func (s *Socket) SetValue(v any) { s.value = v }

func buildSockets(n *Node, specs []SocketSpec, kind string) []*Socket {
	sockets := make([]*Socket, 0, len(specs))
	for i, spec := range specs {
		sockets = append(sockets, &Socket{
			Name:  spec.Name,
			Index: i,
			Kind:  kind,
			Type:  spec.Type,
			node:  n,
		})
	}
	return sockets
}

package nodegraph

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Edge connects an output socket to an input socket.
type Edge struct {
	ID     string
	Source *Socket
	Target *Socket
}

// HistoryEntry records one undoable mutation.
type HistoryEntry struct {
	Description string
	Time        time.Time
}

// Scene holds a graph of nodes and edges. All mutation is expected on the
// GUI thread; the lock covers the read-only JSON and render paths.
type Scene struct {
	mu      sync.RWMutex
	nodes   []*Node
	edges   []*Edge
	history []HistoryEntry
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// CreateNode instantiates a node of the given registered type. An empty
// title falls back to the type's default title.
func (s *Scene) CreateNode(opCode, title string, x, y float64) (*Node, error) {
	spec, ok := SpecFor(opCode)
	if !ok {
		return nil, fmt.Errorf("node type '%s' is not registered", opCode)
	}
	if title == "" {
		title = spec.Title
	}
	n := &Node{
		id:     uuid.NewString(),
		title:  title,
		opCode: opCode,
		x:      x,
		y:      y,
	}
	n.inputs = buildSockets(n, spec.Inputs, "input")
	n.outputs = buildSockets(n, spec.Outputs, "output")

	s.mu.Lock()
	s.nodes = append(s.nodes, n)
	s.mu.Unlock()
	s.StoreHistory(fmt.Sprintf("Created node '%s'", n.title))
	return n, nil
}

// FindNode locates a node by id, falling back to title.
func (s *Scene) FindNode(idOrTitle string) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.nodes {
		if n.id == idOrTitle {
			return n, nil
		}
	}
	for _, n := range s.nodes {
		if n.title == idOrTitle {
			return n, nil
		}
	}
	return nil, fmt.Errorf("node '%s' not found in scene", idOrTitle)
}

// DeleteNode removes a node and every edge touching it.
func (s *Scene) DeleteNode(idOrTitle string) error {
	n, err := s.FindNode(idOrTitle)
	if err != nil {
		return err
	}
	s.mu.Lock()
	for i, cur := range s.nodes {
		if cur == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			break
		}
	}
	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.Source.node != n && e.Target.node != n {
			kept = append(kept, e)
		}
	}
	s.edges = kept
	s.mu.Unlock()
	s.StoreHistory(fmt.Sprintf("Deleted node '%s'", n.title))
	return nil
}

// Nodes returns the scene's nodes in creation order.
func (s *Scene) Nodes() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Edges returns the scene's edges in creation order.
func (s *Scene) Edges() []*Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// Link connects an output socket of one node to an input socket of
// another. Sockets are selected by index-or-name. Linking an input that
// is already connected replaces the old edge, matching editor behavior.
func (s *Scene) Link(fromNode, fromSocket, toNode, toSocket string) (*Edge, error) {
	src, dst, err := s.endpoints(fromNode, fromSocket, toNode, toSocket)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.Target != dst {
			kept = append(kept, e)
		}
	}
	s.edges = kept
	edge := &Edge{ID: uuid.NewString(), Source: src, Target: dst}
	s.edges = append(s.edges, edge)
	s.mu.Unlock()
	s.StoreHistory(fmt.Sprintf("Linked %s.%s -> %s.%s", src.node.title, src.Name, dst.node.title, dst.Name))
	return edge, nil
}

// Unlink disconnects a previously linked pair of sockets.
func (s *Scene) Unlink(fromNode, fromSocket, toNode, toSocket string) error {
	src, dst, err := s.endpoints(fromNode, fromSocket, toNode, toSocket)
	if err != nil {
		return err
	}
	s.mu.Lock()
	found := false
	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.Source == src && e.Target == dst {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	s.edges = kept
	s.mu.Unlock()
	if !found {
		return fmt.Errorf("no edge from %s.%s to %s.%s", fromNode, fromSocket, toNode, toSocket)
	}
	s.StoreHistory(fmt.Sprintf("Unlinked %s.%s -> %s.%s", src.node.title, src.Name, dst.node.title, dst.Name))
	return nil
}

func (s *Scene) endpoints(fromNode, fromSocket, toNode, toSocket string) (*Socket, *Socket, error) {
	from, err := s.FindNode(fromNode)
	if err != nil {
		return nil, nil, err
	}
	to, err := s.FindNode(toNode)
	if err != nil {
		return nil, nil, err
	}
	src, err := from.Output(fromSocket)
	if err != nil {
		return nil, nil, fmt.Errorf("node '%s': %w", from.title, err)
	}
	dst, err := to.Input(toSocket)
	if err != nil {
		return nil, nil, fmt.Errorf("node '%s': %w", to.title, err)
	}
	return src, dst, nil
}

// Clear removes every node and edge.
func (s *Scene) Clear() {
	s.mu.Lock()
	s.nodes = nil
	s.edges = nil
	s.mu.Unlock()
	s.StoreHistory("Cleared scene")
}

// StoreHistory appends an undo-history entry.
func (s *Scene) StoreHistory(description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, HistoryEntry{Description: description, Time: time.Now()})
}

// History returns the undo history, oldest first.
func (s *Scene) History() []HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

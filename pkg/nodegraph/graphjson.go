package nodegraph

import "fmt"

// GraphState serializes the scene to the wire payload:
// {"nodes": [...], "edges": [...]}. A node or edge that cannot be
// serialized degrades to an entry with an "error" field instead of
// aborting the whole payload.
func (s *Scene) GraphState() map[string]any {
	nodes := []any{}
	for _, n := range s.Nodes() {
		nodes = append(nodes, describeNode(n))
	}
	edges := []any{}
	for _, e := range s.Edges() {
		edges = append(edges, describeEdge(e))
	}
	return map[string]any{"nodes": nodes, "edges": edges}
}

func describeNode(n *Node) (entry map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			entry = map[string]any{"error": fmt.Sprintf("unserializable node: %v", r)}
		}
	}()
	x, y := n.Position()
	return map[string]any{
		"id":       n.ID(),
		"title":    n.Title(),
		"type":     n.OpCode(),
		"position": map[string]any{"x": x, "y": y},
		"inputs":   describeSockets(n.Inputs(), "inputs"),
		"outputs":  describeSockets(n.Outputs(), "outputs"),
	}
}

func describeSockets(sockets []*Socket, sourceList string) []any {
	out := []any{}
	for _, s := range sockets {
		desc := map[string]any{
			"name":        s.Name,
			"index":       s.Index,
			"source_list": sourceList,
		}
		if s.Type != "" {
			desc["type"] = s.Type
		}
		if s.value != nil {
			desc["value"] = s.value
		}
		out = append(out, desc)
	}
	return out
}

func describeEdge(e *Edge) (entry map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			entry = map[string]any{"error": fmt.Sprintf("unserializable edge: %v", r)}
		}
	}()
	return map[string]any{
		"id":            e.ID,
		"source_node":   e.Source.node.ID(),
		"source_socket": e.Source.Name,
		"source_index":  e.Source.Index,
		"target_node":   e.Target.node.ID(),
		"target_socket": e.Target.Name,
		"target_index":  e.Target.Index,
	}
}

// Package client is the agent-side stub for the addon's RPC endpoint:
// one method per remote operation, no business logic. Connection
// acquisition pings the endpoint so transport failures surface before
// the first real call.
package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/parcad/parcad/pkg/dispatch"
)

// Client holds one persistent connection to the addon. Calls are
// serialized; the endpoint answers in request order.
type Client struct {
	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	nextID int
}

// Connect dials the endpoint and verifies it with a ping.
func Connect(host string, port int) (*Client, error) {
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("%s:%d", host, port), 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC server: %w", err)
	}
	reader := bufio.NewReaderSize(conn, 16*1024*1024)
	c := &Client{conn: conn, reader: reader}
	if err := c.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// Close shuts the connection down.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// call sends one command line and reads one response line.
func (c *Client) call(method string, params any) (dispatch.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	cmd := map[string]any{
		"id":     fmt.Sprintf("%d", c.nextID),
		"method": method,
	}
	if params != nil {
		cmd["params"] = params
	}
	line, err := json.Marshal(cmd)
	if err != nil {
		return dispatch.Response{}, fmt.Errorf("failed to encode %s request: %w", method, err)
	}
	line = append(line, '\n')
	if _, err := c.conn.Write(line); err != nil {
		return dispatch.Response{}, fmt.Errorf("failed to send %s request: %w", method, err)
	}

	reply, err := c.reader.ReadBytes('\n')
	if err != nil {
		return dispatch.Response{}, fmt.Errorf("failed to read %s response: %w", method, err)
	}
	var resp dispatch.Response
	if err := json.Unmarshal(reply, &resp); err != nil {
		return dispatch.Response{}, fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return resp, nil
}

// Ping checks that the endpoint is alive.
func (c *Client) Ping() error {
	resp, err := c.call("ping", nil)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("ping rejected: %s", resp.Error)
	}
	return nil
}

// CreateDocument creates a named document.
func (c *Client) CreateDocument(name string) (dispatch.Response, error) {
	return c.call("create_document", map[string]any{"name": name})
}

// CreateObject creates an object in the named document.
func (c *Client) CreateObject(docName string, spec dispatch.ObjectSpec) (dispatch.Response, error) {
	return c.call("create_object", map[string]any{"doc_name": docName, "obj_data": spec})
}

// EditObject updates properties on an existing object.
func (c *Client) EditObject(docName, objName string, properties map[string]any) (dispatch.Response, error) {
	return c.call("edit_object", map[string]any{
		"doc_name":   docName,
		"obj_name":   objName,
		"properties": properties,
	})
}

// DeleteObject removes an object.
func (c *Client) DeleteObject(docName, objName string) (dispatch.Response, error) {
	return c.call("delete_object", map[string]any{"doc_name": docName, "obj_name": objName})
}

// ExecuteCode runs a console script on the addon side.
func (c *Client) ExecuteCode(code string) (dispatch.Response, error) {
	return c.call("execute_code", map[string]any{"code": code})
}

// GetObjects lists every object in a document.
func (c *Client) GetObjects(docName string) ([]map[string]any, error) {
	resp, err := c.call("get_objects", map[string]any{"doc_name": docName})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("get_objects failed: %s", resp.Error)
	}
	raw, _ := resp.Payload["objects"].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// GetObject fetches one object, or nil if absent.
func (c *Client) GetObject(docName, objName string) (map[string]any, error) {
	resp, err := c.call("get_object", map[string]any{"doc_name": docName, "obj_name": objName})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("get_object failed: %s", resp.Error)
	}
	obj, _ := resp.Payload["object"].(map[string]any)
	return obj, nil
}

// ListDocuments returns the open document names.
func (c *Client) ListDocuments() ([]string, error) {
	resp, err := c.call("list_documents", nil)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("list_documents failed: %s", resp.Error)
	}
	return stringList(resp.Payload["documents"]), nil
}

// GetPartsList returns the parts-library paths.
func (c *Client) GetPartsList() ([]string, error) {
	resp, err := c.call("get_parts_list", nil)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("get_parts_list failed: %s", resp.Error)
	}
	return stringList(resp.Payload["parts"]), nil
}

// InsertPartFromLibrary instantiates a stored part into the active
// document.
func (c *Client) InsertPartFromLibrary(relativePath string) (dispatch.Response, error) {
	return c.call("insert_part_from_library", map[string]any{"relative_path": relativePath})
}

// GetActiveScreenshot captures the active view. An empty string with nil
// error means the view does not support screenshots.
func (c *Client) GetActiveScreenshot(viewName string) (string, error) {
	resp, err := c.call("get_active_screenshot", map[string]any{"view_name": viewName})
	if err != nil {
		return "", err
	}
	if !resp.Success {
		return "", fmt.Errorf("get_active_screenshot failed: %s", resp.Error)
	}
	shot, _ := resp.Payload["screenshot"].(string)
	return shot, nil
}

// NodesCreateNode adds a node to the active editor scene.
func (c *Client) NodesCreateNode(nodeType, title string, x, y float64) (dispatch.Response, error) {
	return c.call("nodes_create_node", map[string]any{
		"type":  nodeType,
		"title": title,
		"x":     x,
		"y":     y,
	})
}

// NodesDeleteNode removes a node by id or title.
func (c *Client) NodesDeleteNode(node string) (dispatch.Response, error) {
	return c.call("nodes_delete_node", map[string]any{"node": node})
}

// NodesLink connects an output socket to an input socket.
func (c *Client) NodesLink(fromNode, fromSocket, toNode, toSocket string) (dispatch.Response, error) {
	return c.call("nodes_link", linkArgs(fromNode, fromSocket, toNode, toSocket))
}

// NodesUnlink removes the edge between two sockets.
func (c *Client) NodesUnlink(fromNode, fromSocket, toNode, toSocket string) (dispatch.Response, error) {
	return c.call("nodes_unlink", linkArgs(fromNode, fromSocket, toNode, toSocket))
}

// NodesSetSocketValue stores a literal on an input socket.
func (c *Client) NodesSetSocketValue(node, socket string, value any) (dispatch.Response, error) {
	return c.call("nodes_set_socket_value", map[string]any{
		"node":   node,
		"socket": socket,
		"value":  value,
	})
}

// NodesGetSocketValue reads a socket value.
func (c *Client) NodesGetSocketValue(node, socket string) (dispatch.Response, error) {
	return c.call("nodes_get_socket_value", map[string]any{"node": node, "socket": socket})
}

// NodesClear empties the active editor scene.
func (c *Client) NodesClear() (dispatch.Response, error) {
	return c.call("nodes_clear", nil)
}

// NodesGetGraph returns the scene's node and edge state.
func (c *Client) NodesGetGraph() (dispatch.Response, error) {
	return c.call("nodes_get_graph", nil)
}

// NodesScreenshot renders the editor scene. Empty string with nil error
// means no editor is open.
func (c *Client) NodesScreenshot() (string, error) {
	resp, err := c.call("nodes_screenshot", nil)
	if err != nil {
		return "", err
	}
	if !resp.Success {
		return "", fmt.Errorf("nodes_screenshot failed: %s", resp.Error)
	}
	shot, _ := resp.Payload["screenshot"].(string)
	return shot, nil
}

func linkArgs(fromNode, fromSocket, toNode, toSocket string) map[string]any {
	return map[string]any{
		"from_node":   fromNode,
		"from_socket": fromSocket,
		"to_node":     toNode,
		"to_socket":   toSocket,
	}
}

func stringList(v any) []string {
	raw, _ := v.([]any)
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

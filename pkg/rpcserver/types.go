package rpcserver

import "encoding/json"

// Command represents one request line received from a client.
type Command struct {
	ID     string          `json:"id,omitempty"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Method name constants
const (
	MethodPing                  = "ping"
	MethodCreateDocument        = "create_document"
	MethodCreateObject          = "create_object"
	MethodEditObject            = "edit_object"
	MethodDeleteObject          = "delete_object"
	MethodExecuteCode           = "execute_code"
	MethodGetObjects            = "get_objects"
	MethodGetObject             = "get_object"
	MethodListDocuments         = "list_documents"
	MethodGetPartsList          = "get_parts_list"
	MethodInsertPartFromLibrary = "insert_part_from_library"
	MethodGetActiveScreenshot   = "get_active_screenshot"
	MethodNodesCreateNode       = "nodes_create_node"
	MethodNodesDeleteNode       = "nodes_delete_node"
	MethodNodesLink             = "nodes_link"
	MethodNodesUnlink           = "nodes_unlink"
	MethodNodesSetSocketValue   = "nodes_set_socket_value"
	MethodNodesGetSocketValue   = "nodes_get_socket_value"
	MethodNodesClear            = "nodes_clear"
	MethodNodesGetGraph         = "nodes_get_graph"
	MethodNodesScreenshot       = "nodes_screenshot"
)

// documentParams covers every method addressed by document name alone.
type documentParams struct {
	DocName string `json:"doc_name"`
}

// objectParams addresses one object within a document.
type objectParams struct {
	DocName string `json:"doc_name"`
	ObjName string `json:"obj_name"`
}

// linkParams addresses a socket pair for link and unlink.
type linkParams struct {
	FromNode   string `json:"from_node"`
	FromSocket string `json:"from_socket"`
	ToNode     string `json:"to_node"`
	ToSocket   string `json:"to_socket"`
}

// socketParams addresses one socket on one node.
type socketParams struct {
	Node   string `json:"node"`
	Socket string `json:"socket"`
	Value  any    `json:"value,omitempty"`
}

package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerNodeTools() {
	s.mcpServer.AddTool(mcp.NewTool("nodes_create_node",
		mcp.WithDescription("Create a node in the visual node editor. Node types include "+
			"generators.solid_box, generators.solid_cylinder, generators.solid_sphere, "+
			"inputs.number, inputs.vector, operations.boolean, operations.transform and viewers.scene."),
		mcp.WithString("node_type", mcp.Description("The registered node type tag."), mcp.Required()),
		mcp.WithString("title", mcp.Description("Optional node title; defaults to the type's display name.")),
		mcp.WithNumber("x", mcp.Description("X position in the scene.")),
		mcp.WithNumber("y", mcp.Description("Y position in the scene.")),
	), s.handleNodesCreateNode)

	s.mcpServer.AddTool(mcp.NewTool("nodes_delete_node",
		mcp.WithDescription("Delete a node from the editor, along with every connection touching it."),
		mcp.WithString("node", mcp.Description("The node id or title."), mcp.Required()),
	), s.handleNodesDeleteNode)

	s.mcpServer.AddTool(mcp.NewTool("nodes_link",
		mcp.WithDescription("Connect an output socket of one node to an input socket of another. "+
			"Sockets are selected by numeric index or by name."),
		mcp.WithString("from_node", mcp.Description("Source node id or title."), mcp.Required()),
		mcp.WithString("from_socket", mcp.Description("Source output socket index or name."), mcp.Required()),
		mcp.WithString("to_node", mcp.Description("Target node id or title."), mcp.Required()),
		mcp.WithString("to_socket", mcp.Description("Target input socket index or name."), mcp.Required()),
	), s.handleNodesLink)

	s.mcpServer.AddTool(mcp.NewTool("nodes_unlink",
		mcp.WithDescription("Remove the connection between two sockets."),
		mcp.WithString("from_node", mcp.Description("Source node id or title."), mcp.Required()),
		mcp.WithString("from_socket", mcp.Description("Source output socket index or name."), mcp.Required()),
		mcp.WithString("to_node", mcp.Description("Target node id or title."), mcp.Required()),
		mcp.WithString("to_socket", mcp.Description("Target input socket index or name."), mcp.Required()),
	), s.handleNodesUnlink)

	s.mcpServer.AddTool(mcp.NewTool("nodes_set_socket_value",
		mcp.WithDescription("Set a literal value on a node's input socket."),
		mcp.WithString("node", mcp.Description("The node id or title."), mcp.Required()),
		mcp.WithString("socket", mcp.Description("The input socket index or name."), mcp.Required()),
		mcp.WithObject("value", mcp.Description("The value to store.")),
	), s.handleNodesSetSocketValue)

	s.mcpServer.AddTool(mcp.NewTool("nodes_get_socket_value",
		mcp.WithDescription("Read the value of a socket, checking outputs first."),
		mcp.WithString("node", mcp.Description("The node id or title."), mcp.Required()),
		mcp.WithString("socket", mcp.Description("The socket index or name."), mcp.Required()),
	), s.handleNodesGetSocketValue)

	s.mcpServer.AddTool(mcp.NewTool("nodes_clear",
		mcp.WithDescription("Remove every node and connection from the editor scene."),
	), s.handleNodesClear)

	s.mcpServer.AddTool(mcp.NewTool("nodes_get_graph",
		mcp.WithDescription("Get the full node-editor state: nodes with their sockets and values, and all connections."),
	), s.handleNodesGetGraph)

	s.mcpServer.AddTool(mcp.NewTool("nodes_screenshot",
		mcp.WithDescription("Get a screenshot of the node editor, showing the node graph layout."),
	), s.handleNodesScreenshot)
}

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt("asset_creation_strategy",
		mcp.WithPromptDescription("Recommended workflow for creating assets in the CAD application."),
	), s.handleAssetCreationStrategy)
}

func (s *Server) handleAssetCreationStrategy(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return mcp.NewGetPromptResult(
		"Asset creation strategy",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(assetCreationStrategy)),
		},
	), nil
}

const assetCreationStrategy = `Asset Creation Strategy

When creating content in the CAD application, always follow these steps:

0. Before starting any task, use get_objects() to confirm the current state of the document.

1. Utilize the parts library:
   - Check available parts using get_parts_list().
   - If the required part exists in the library, use insert_part_from_library() to insert it into your document.

2. If the appropriate asset is not available in the parts library:
   - Create basic shapes (boxes, cylinders, spheres) using create_object().
   - Adjust and define detailed properties of the shapes as necessary using edit_object().

3. Always assign clear and descriptive names to objects when adding them to the document.

4. Explicitly set the position, scale, and rotation properties of created or inserted objects using edit_object() to ensure proper spatial relationships.

5. After editing an object, verify that the set properties have been correctly applied by using get_object().

6. If detailed customization or specialized operations are necessary, use execute_code() to run a console script.

Only revert to basic creation methods in the following cases:
- When the required asset is not available in the parts library.
- When a basic shape is explicitly requested.
- When creating complex shapes requires custom scripting.`

func (s *Server) handleNodesCreateNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodeType, err := req.RequireString("node_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := req.GetArguments()
	title, _ := args["title"].(string)
	x, _ := args["x"].(float64)
	y, _ := args["y"].(float64)

	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := conn.NodesCreateNode(nodeType, title, x, y)
	if err != nil {
		return textResult("Failed to create node: %v", err), nil
	}
	if !res.Success {
		return textResult("Failed to create node: %s", res.Error), nil
	}
	nodeID, _ := res.Payload["node_id"].(string)
	return textResult("Node created with id '%s'", nodeID), nil
}

func (s *Server) handleNodesDeleteNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := conn.NodesDeleteNode(node)
	if err != nil {
		return textResult("Failed to delete node: %v", err), nil
	}
	if !res.Success {
		return textResult("Failed to delete node: %s", res.Error), nil
	}
	return textResult("Node '%s' deleted successfully", node), nil
}

func (s *Server) handleNodesLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fromNode, fromSocket, toNode, toSocket, errResult := linkRequestArgs(req)
	if errResult != nil {
		return errResult, nil
	}
	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := conn.NodesLink(fromNode, fromSocket, toNode, toSocket)
	if err != nil {
		return textResult("Failed to link sockets: %v", err), nil
	}
	if !res.Success {
		return textResult("Failed to link sockets: %s", res.Error), nil
	}
	return textResult("Linked %s.%s -> %s.%s", fromNode, fromSocket, toNode, toSocket), nil
}

func (s *Server) handleNodesUnlink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fromNode, fromSocket, toNode, toSocket, errResult := linkRequestArgs(req)
	if errResult != nil {
		return errResult, nil
	}
	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := conn.NodesUnlink(fromNode, fromSocket, toNode, toSocket)
	if err != nil {
		return textResult("Failed to unlink sockets: %v", err), nil
	}
	if !res.Success {
		return textResult("Failed to unlink sockets: %s", res.Error), nil
	}
	return textResult("Unlinked %s.%s -> %s.%s", fromNode, fromSocket, toNode, toSocket), nil
}

func linkRequestArgs(req mcp.CallToolRequest) (fromNode, fromSocket, toNode, toSocket string, errResult *mcp.CallToolResult) {
	var err error
	if fromNode, err = req.RequireString("from_node"); err != nil {
		return "", "", "", "", mcp.NewToolResultError(err.Error())
	}
	if fromSocket, err = req.RequireString("from_socket"); err != nil {
		return "", "", "", "", mcp.NewToolResultError(err.Error())
	}
	if toNode, err = req.RequireString("to_node"); err != nil {
		return "", "", "", "", mcp.NewToolResultError(err.Error())
	}
	if toSocket, err = req.RequireString("to_socket"); err != nil {
		return "", "", "", "", mcp.NewToolResultError(err.Error())
	}
	return fromNode, fromSocket, toNode, toSocket, nil
}

func (s *Server) handleNodesSetSocketValue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	socket, err := req.RequireString("socket")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value := req.GetArguments()["value"]

	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := conn.NodesSetSocketValue(node, socket, value)
	if err != nil {
		return textResult("Failed to set socket value: %v", err), nil
	}
	if !res.Success {
		return textResult("Failed to set socket value: %s", res.Error), nil
	}
	return textResult("Value set on %s.%s", node, socket), nil
}

func (s *Server) handleNodesGetSocketValue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	socket, err := req.RequireString("socket")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := conn.NodesGetSocketValue(node, socket)
	if err != nil {
		return textResult("Failed to get socket value: %v", err), nil
	}
	if !res.Success {
		return textResult("Failed to get socket value: %s", res.Error), nil
	}
	return jsonResult(res.Payload)
}

func (s *Server) handleNodesClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := conn.NodesClear()
	if err != nil {
		return textResult("Failed to clear node scene: %v", err), nil
	}
	if !res.Success {
		return textResult("Failed to clear node scene: %s", res.Error), nil
	}
	return mcp.NewToolResultText("Node scene cleared"), nil
}

func (s *Server) handleNodesGetGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := conn.NodesGetGraph()
	if err != nil {
		return textResult("Failed to get node graph: %v", err), nil
	}
	if !res.Success {
		return textResult("Failed to get node graph: %s", res.Error), nil
	}
	return jsonResult(res.Payload)
}

func (s *Server) handleNodesScreenshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	shot, err := conn.NodesScreenshot()
	if err != nil {
		return textResult("Failed to get node editor screenshot: %v", err), nil
	}
	if shot == "" {
		return mcp.NewToolResultText("Failed to get node editor screenshot or no node editor is open."), nil
	}
	return contentResult(mcp.NewImageContent(shot, "image/png")), nil
}

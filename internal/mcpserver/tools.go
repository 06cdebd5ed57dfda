package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/parcad/parcad/pkg/dispatch"
)

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a new document in the CAD application."),
		mcp.WithString("name", mcp.Description("The name of the document to create."), mcp.Required()),
	), s.handleCreateDocument)

	s.mcpServer.AddTool(mcp.NewTool("create_object",
		mcp.WithDescription("Create a new object in a document. Object types include Part primitives "+
			"(Part::Box, Part::Cylinder, Part::Sphere, Part::Cone, Part::Torus), boolean operations "+
			"(Part::Cut, Part::Fuse, Part::Common), Draft shapes (Draft::Circle, Draft::Rectangle), "+
			"PartDesign features and Fem analysis objects."),
		mcp.WithString("doc_name", mcp.Description("The name of the document to create the object in."), mcp.Required()),
		mcp.WithString("obj_name", mcp.Description("The name of the object."), mcp.Required()),
		mcp.WithString("obj_type", mcp.Description("The type of the object, e.g. 'Part::Box'."), mcp.Required()),
		mcp.WithString("analysis_name", mcp.Description("The analysis container to attach Fem objects to.")),
		mcp.WithObject("obj_properties", mcp.Description("Properties of the object, e.g. {\"Length\": 10, \"Placement\": {\"Base\": {\"x\": 0, \"y\": 0, \"z\": 0}}}.")),
	), s.handleCreateObject)

	s.mcpServer.AddTool(mcp.NewTool("edit_object",
		mcp.WithDescription("Edit properties of an existing object, including its Placement and view "+
			"attributes such as ShapeColor."),
		mcp.WithString("doc_name", mcp.Description("The name of the document."), mcp.Required()),
		mcp.WithString("obj_name", mcp.Description("The name of the object to edit."), mcp.Required()),
		mcp.WithObject("obj_properties", mcp.Description("The properties to change."), mcp.Required()),
	), s.handleEditObject)

	s.mcpServer.AddTool(mcp.NewTool("delete_object",
		mcp.WithDescription("Delete an object from a document."),
		mcp.WithString("doc_name", mcp.Description("The name of the document."), mcp.Required()),
		mcp.WithString("obj_name", mcp.Description("The name of the object to delete."), mcp.Required()),
	), s.handleDeleteObject)

	s.mcpServer.AddTool(mcp.NewTool("execute_code",
		mcp.WithDescription("Execute a console script in the CAD application. Commands: newdoc, activedoc, "+
			"addobject, delete, set, get, objects, recompute, let, print."),
		mcp.WithString("code", mcp.Description("The script to execute."), mcp.Required()),
	), s.handleExecuteCode)

	s.mcpServer.AddTool(mcp.NewTool("get_view",
		mcp.WithDescription("Get a screenshot of the active view. Available views: Isometric, Front, Top, "+
			"Right, Back, Left, Bottom, Dimetric, Trimetric."),
		mcp.WithString("view_name", mcp.Description("The name of the view orientation."), mcp.Required()),
	), s.handleGetView)

	s.mcpServer.AddTool(mcp.NewTool("get_objects",
		mcp.WithDescription("Get all objects in a document, with their types, properties and view attributes."),
		mcp.WithString("doc_name", mcp.Description("The name of the document."), mcp.Required()),
	), s.handleGetObjects)

	s.mcpServer.AddTool(mcp.NewTool("get_object",
		mcp.WithDescription("Get one object with its properties and view attributes."),
		mcp.WithString("doc_name", mcp.Description("The name of the document."), mcp.Required()),
		mcp.WithString("obj_name", mcp.Description("The name of the object."), mcp.Required()),
	), s.handleGetObject)

	s.mcpServer.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List the names of all open documents."),
	), s.handleListDocuments)

	s.mcpServer.AddTool(mcp.NewTool("get_parts_list",
		mcp.WithDescription("Get the list of parts available in the parts library."),
	), s.handleGetPartsList)

	s.mcpServer.AddTool(mcp.NewTool("insert_part_from_library",
		mcp.WithDescription("Insert a part from the parts library into the active document."),
		mcp.WithString("relative_path", mcp.Description("The relative path of the part in the library."), mcp.Required()),
	), s.handleInsertPartFromLibrary)
}

func (s *Server) handleCreateDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := conn.CreateDocument(name)
	if err != nil {
		return textResult("Failed to create document: %v", err), nil
	}
	if !res.Success {
		return textResult("Failed to create document: %s", res.Error), nil
	}
	docName, _ := res.Payload["document_name"].(string)
	return textResult("Document '%s' created successfully", docName), nil
}

func (s *Server) handleCreateObject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	docName, err := req.RequireString("doc_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	objName, err := req.RequireString("obj_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	objType, err := req.RequireString("obj_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	analysis, _ := args["analysis_name"].(string)
	properties, _ := args["obj_properties"].(map[string]any)

	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := conn.CreateObject(docName, dispatch.ObjectSpec{
		Name:       objName,
		Type:       objType,
		Analysis:   analysis,
		Properties: properties,
	})
	if err != nil {
		return textResult("Failed to create object: %v", err), nil
	}
	if !res.Success {
		return textResult("Failed to create object: %s", res.Error), nil
	}
	created, _ := res.Payload["object_name"].(string)
	contents := []mcp.Content{mcp.NewTextContent(fmt.Sprintf("Object '%s' created successfully", created))}
	return contentResult(s.screenshotContents(conn, contents)...), nil
}

func (s *Server) handleEditObject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docName, err := req.RequireString("doc_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	objName, err := req.RequireString("obj_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	properties, _ := req.GetArguments()["obj_properties"].(map[string]any)

	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := conn.EditObject(docName, objName, properties)
	if err != nil {
		return textResult("Failed to edit object: %v", err), nil
	}
	if !res.Success {
		return textResult("Failed to edit object: %s", res.Error), nil
	}
	contents := []mcp.Content{mcp.NewTextContent(fmt.Sprintf("Object '%s' edited successfully", objName))}
	return contentResult(s.screenshotContents(conn, contents)...), nil
}

func (s *Server) handleDeleteObject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docName, err := req.RequireString("doc_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	objName, err := req.RequireString("obj_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := conn.DeleteObject(docName, objName)
	if err != nil {
		return textResult("Failed to delete object: %v", err), nil
	}
	if !res.Success {
		return textResult("Failed to delete object: %s", res.Error), nil
	}
	contents := []mcp.Content{mcp.NewTextContent(fmt.Sprintf("Object '%s' deleted successfully", objName))}
	return contentResult(s.screenshotContents(conn, contents)...), nil
}

func (s *Server) handleExecuteCode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := conn.ExecuteCode(code)
	if err != nil {
		return textResult("Failed to execute code: %v", err), nil
	}
	if !res.Success {
		return textResult("Failed to execute code: %s", res.Error), nil
	}
	message, _ := res.Payload["message"].(string)
	contents := []mcp.Content{mcp.NewTextContent(message)}
	return contentResult(s.screenshotContents(conn, contents)...), nil
}

func (s *Server) handleGetView(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	viewName, err := req.RequireString("view_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	shot, err := conn.GetActiveScreenshot(viewName)
	if err != nil {
		return textResult("Failed to get screenshot: %v", err), nil
	}
	if shot == "" {
		return mcp.NewToolResultText("Cannot get screenshot in the current view type (such as a sheet view)"), nil
	}
	return contentResult(mcp.NewImageContent(shot, "image/png")), nil
}

func (s *Server) handleGetObjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docName, err := req.RequireString("doc_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	objects, err := conn.GetObjects(docName)
	if err != nil {
		return textResult("Failed to get objects: %v", err), nil
	}
	return jsonResult(objects)
}

func (s *Server) handleGetObject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docName, err := req.RequireString("doc_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	objName, err := req.RequireString("obj_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	object, err := conn.GetObject(docName, objName)
	if err != nil {
		return textResult("Failed to get object: %v", err), nil
	}
	if object == nil {
		return textResult("Object '%s' not found in document '%s'.", objName, docName), nil
	}
	return jsonResult(object)
}

func (s *Server) handleListDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	docs, err := conn.ListDocuments()
	if err != nil {
		return textResult("Failed to list documents: %v", err), nil
	}
	if len(docs) == 0 {
		return mcp.NewToolResultText("No documents are open."), nil
	}
	return jsonResult(docs)
}

func (s *Server) handleGetPartsList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	parts, err := conn.GetPartsList()
	if err != nil {
		return textResult("Failed to get parts list: %v", err), nil
	}
	if len(parts) == 0 {
		return mcp.NewToolResultText("No parts found in the parts library. Configure a parts library directory first."), nil
	}
	return jsonResult(parts)
}

func (s *Server) handleInsertPartFromLibrary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	relativePath, err := req.RequireString("relative_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	conn, err := s.connection()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := conn.InsertPartFromLibrary(relativePath)
	if err != nil {
		return textResult("Failed to insert part from library: %v", err), nil
	}
	if !res.Success {
		return textResult("Failed to insert part from library: %s", res.Error), nil
	}
	contents := []mcp.Content{mcp.NewTextContent("Part inserted from library successfully")}
	return contentResult(s.screenshotContents(conn, contents)...), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

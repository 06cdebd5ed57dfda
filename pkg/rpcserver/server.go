// Package rpcserver exposes the dispatcher over line-delimited JSON on a
// TCP socket. One listener, requests serviced sequentially in arrival
// order; the dispatcher's bridge is where the real serialization onto
// the GUI thread happens.
package rpcserver

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/parcad/parcad/pkg/console"
	"github.com/parcad/parcad/pkg/dispatch"
)

// Server owns the TCP listener and the method table.
type Server struct {
	mu       sync.Mutex
	host     string
	port     int
	con      *console.Console
	disp     *dispatch.Dispatcher
	listener net.Listener
	wg       sync.WaitGroup
}

// NewServer creates a stopped server bound to host:port on Start.
func NewServer(host string, port int, disp *dispatch.Dispatcher, con *console.Console) *Server {
	if con == nil {
		con = console.Default()
	}
	return &Server{host: host, port: port, con: con, disp: disp}
}

// Start opens the listener. Calling Start on a running server is a
// no-op; the returned message says which case applied.
func (s *Server) Start() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return "RPC Server already running.", nil
	}
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.host, s.port))
	if err != nil {
		return "", fmt.Errorf("failed to start RPC server: %w", err)
	}
	s.listener = ln
	s.wg.Add(1)
	go s.acceptLoop(ln)
	s.con.Message("RPC Server started at %s:%d", s.host, s.port)
	return fmt.Sprintf("RPC Server started at %s:%d.", s.host, s.port), nil
}

// Stop closes the listener. Idempotent like Start.
func (s *Server) Stop() (string, error) {
	s.mu.Lock()
	ln := s.listener
	s.listener = nil
	s.mu.Unlock()
	if ln == nil {
		return "RPC Server was not running.", nil
	}
	ln.Close()
	s.wg.Wait()
	s.con.Message("RPC Server stopped.")
	return "RPC Server stopped.", nil
}

// Running reports whether the listener is open.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener != nil
}

// Addr returns the listener address, or "" when stopped. Useful when the
// configured port is 0.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			// Listener closed by Stop.
			return
		}
		// Connections are serviced one line at a time on their own
		// goroutine; the transport is sequential per client and the
		// bridge serializes all mutation anyway.
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(conn)
		}()
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	writer := bufio.NewWriter(conn)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var cmd Command
		if err := json.Unmarshal(line, &cmd); err != nil {
			s.send(writer, "", "", dispatch.Fail(fmt.Sprintf("Failed to parse command: %v", err)))
			continue
		}
		s.send(writer, cmd.ID, cmd.Method, s.handleCommand(cmd))
	}
	if err := scanner.Err(); err != nil {
		s.con.Warning("RPC connection error: %v", err)
	}
}

// handleCommand routes one command onto the dispatcher.
func (s *Server) handleCommand(cmd Command) dispatch.Response {
	switch cmd.Method {
	case MethodPing:
		if s.disp.Ping() {
			return dispatch.Ok(map[string]any{"pong": true})
		}
		return dispatch.Fail("ping failed")

	case MethodCreateDocument:
		var p struct {
			Name string `json:"name"`
		}
		if err := unmarshalParams(cmd.Params, &p); err != nil {
			return dispatch.Fail(err.Error())
		}
		return s.disp.CreateDocument(p.Name)

	case MethodCreateObject:
		var p struct {
			DocName string              `json:"doc_name"`
			ObjData dispatch.ObjectSpec `json:"obj_data"`
		}
		if err := unmarshalParams(cmd.Params, &p); err != nil {
			return dispatch.Fail(err.Error())
		}
		return s.disp.CreateObject(p.DocName, p.ObjData)

	case MethodEditObject:
		var p struct {
			DocName    string         `json:"doc_name"`
			ObjName    string         `json:"obj_name"`
			Properties map[string]any `json:"properties"`
		}
		if err := unmarshalParams(cmd.Params, &p); err != nil {
			return dispatch.Fail(err.Error())
		}
		return s.disp.EditObject(p.DocName, p.ObjName, p.Properties)

	case MethodDeleteObject:
		var p objectParams
		if err := unmarshalParams(cmd.Params, &p); err != nil {
			return dispatch.Fail(err.Error())
		}
		return s.disp.DeleteObject(p.DocName, p.ObjName)

	case MethodExecuteCode:
		var p struct {
			Code string `json:"code"`
		}
		if err := unmarshalParams(cmd.Params, &p); err != nil {
			return dispatch.Fail(err.Error())
		}
		return s.disp.ExecuteCode(p.Code)

	case MethodGetObjects:
		var p documentParams
		if err := unmarshalParams(cmd.Params, &p); err != nil {
			return dispatch.Fail(err.Error())
		}
		return dispatch.Ok(map[string]any{"objects": s.disp.GetObjects(p.DocName)})

	case MethodGetObject:
		var p objectParams
		if err := unmarshalParams(cmd.Params, &p); err != nil {
			return dispatch.Fail(err.Error())
		}
		return dispatch.Ok(map[string]any{"object": s.disp.GetObject(p.DocName, p.ObjName)})

	case MethodListDocuments:
		return dispatch.Ok(map[string]any{"documents": s.disp.ListDocuments()})

	case MethodGetPartsList:
		return dispatch.Ok(map[string]any{"parts": s.disp.GetPartsList()})

	case MethodInsertPartFromLibrary:
		var p struct {
			RelativePath string `json:"relative_path"`
		}
		if err := unmarshalParams(cmd.Params, &p); err != nil {
			return dispatch.Fail(err.Error())
		}
		return s.disp.InsertPartFromLibrary(p.RelativePath)

	case MethodGetActiveScreenshot:
		var p struct {
			ViewName string `json:"view_name"`
		}
		if err := unmarshalParams(cmd.Params, &p); err != nil {
			return dispatch.Fail(err.Error())
		}
		shot, ok := s.disp.GetActiveScreenshot(p.ViewName)
		if !ok {
			return dispatch.Ok(map[string]any{"screenshot": nil})
		}
		return dispatch.Ok(map[string]any{"screenshot": shot})

	case MethodNodesCreateNode:
		var p struct {
			Type  string  `json:"type"`
			Title string  `json:"title"`
			X     float64 `json:"x"`
			Y     float64 `json:"y"`
		}
		if err := unmarshalParams(cmd.Params, &p); err != nil {
			return dispatch.Fail(err.Error())
		}
		return s.disp.NodesCreateNode(p.Type, p.Title, p.X, p.Y)

	case MethodNodesDeleteNode:
		var p struct {
			Node string `json:"node"`
		}
		if err := unmarshalParams(cmd.Params, &p); err != nil {
			return dispatch.Fail(err.Error())
		}
		return s.disp.NodesDeleteNode(p.Node)

	case MethodNodesLink:
		var p linkParams
		if err := unmarshalParams(cmd.Params, &p); err != nil {
			return dispatch.Fail(err.Error())
		}
		return s.disp.NodesLink(p.FromNode, p.FromSocket, p.ToNode, p.ToSocket)

	case MethodNodesUnlink:
		var p linkParams
		if err := unmarshalParams(cmd.Params, &p); err != nil {
			return dispatch.Fail(err.Error())
		}
		return s.disp.NodesUnlink(p.FromNode, p.FromSocket, p.ToNode, p.ToSocket)

	case MethodNodesSetSocketValue:
		var p socketParams
		if err := unmarshalParams(cmd.Params, &p); err != nil {
			return dispatch.Fail(err.Error())
		}
		return s.disp.NodesSetSocketValue(p.Node, p.Socket, p.Value)

	case MethodNodesGetSocketValue:
		var p socketParams
		if err := unmarshalParams(cmd.Params, &p); err != nil {
			return dispatch.Fail(err.Error())
		}
		return s.disp.NodesGetSocketValue(p.Node, p.Socket)

	case MethodNodesClear:
		return s.disp.NodesClear()

	case MethodNodesGetGraph:
		return s.disp.NodesGetGraph()

	case MethodNodesScreenshot:
		shot, ok := s.disp.NodesScreenshot()
		if !ok {
			return dispatch.Ok(map[string]any{"screenshot": nil})
		}
		return dispatch.Ok(map[string]any{"screenshot": shot})

	default:
		return dispatch.Fail(fmt.Sprintf("Unknown method: %s", cmd.Method))
	}
}

func unmarshalParams(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("Invalid params: %v", err)
	}
	return nil
}

// send writes one response line: the envelope fields plus the command id
// and method for correlation.
func (s *Server) send(w *bufio.Writer, id, method string, resp dispatch.Response) {
	body, err := json.Marshal(resp)
	if err != nil {
		body, _ = json.Marshal(dispatch.Fail(fmt.Sprintf("Failed to encode response: %v", err)))
	}
	var fields map[string]any
	json.Unmarshal(body, &fields)
	if fields == nil {
		fields = map[string]any{"success": false, "error": "empty response"}
	}
	if id != "" {
		fields["id"] = id
	}
	if method != "" {
		fields["method"] = method
	}
	line, err := json.Marshal(fields)
	if err != nil {
		s.con.Error("Failed to marshal response: %v", err)
		return
	}
	w.Write(line)
	w.WriteByte('\n')
	w.Flush()
}

package rpcserver

import (
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/parcad/parcad/pkg/bridge"
	"github.com/parcad/parcad/pkg/cad"
	"github.com/parcad/parcad/pkg/client"
	"github.com/parcad/parcad/pkg/console"
	"github.com/parcad/parcad/pkg/dispatch"
	"github.com/parcad/parcad/pkg/gui"
	"github.com/parcad/parcad/pkg/nodegraph"
	"github.com/parcad/parcad/pkg/script"
	"github.com/parcad/parcad/pkg/view"
)

func newTestDispatcher(t *testing.T) *dispatch.Dispatcher {
	t.Helper()
	loop := gui.NewLoop()
	go loop.Run()

	con := console.Discard()
	app := cad.NewApp()
	br := bridge.New(loop, bridge.WithInterval(time.Millisecond), bridge.WithConsole(con))
	br.Start()
	t.Cleanup(func() {
		br.Stop()
		loop.Quit()
		loop.Wait()
	})

	registry := nodegraph.NewRegistry()
	registry.Register(nodegraph.NewEditor("Nodes"))

	return dispatch.New(dispatch.Deps{
		App:       app,
		Gui:       view.NewGui(app),
		Bridge:    br,
		Console:   con,
		Interp:    script.New(app, con),
		Nodes:     registry,
		AllowCode: true,
	})
}

// startTestServer starts a server on an ephemeral port and returns a
// connected client.
func startTestServer(t *testing.T) (*Server, *client.Client) {
	t.Helper()
	srv := NewServer("127.0.0.1", 0, newTestDispatcher(t), console.Discard())
	if _, err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })

	host, portStr, err := net.SplitHostPort(srv.Addr())
	if err != nil {
		t.Fatalf("Addr: %v", err)
	}
	port, _ := strconv.Atoi(portStr)

	c, err := client.Connect(host, port)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return srv, c
}

func TestStartStopLifecycleMessages(t *testing.T) {
	srv := NewServer("127.0.0.1", 0, newTestDispatcher(t), console.Discard())

	msg, err := srv.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !strings.HasPrefix(msg, "RPC Server started at ") {
		t.Errorf("start message = %q", msg)
	}

	msg, err = srv.Start()
	if err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if msg != "RPC Server already running." {
		t.Errorf("second start message = %q", msg)
	}

	msg, err = srv.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if msg != "RPC Server stopped." {
		t.Errorf("stop message = %q", msg)
	}

	msg, err = srv.Stop()
	if err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if msg != "RPC Server was not running." {
		t.Errorf("second stop message = %q", msg)
	}
	if srv.Running() {
		t.Error("Running after Stop")
	}
}

func TestRoundTripDocumentWorkflow(t *testing.T) {
	_, c := startTestServer(t)

	res, err := c.CreateDocument("Main")
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if !res.Success || res.Payload["document_name"] != "Main" {
		t.Fatalf("create_document response: %+v", res)
	}

	res, err = c.CreateObject("Main", dispatch.ObjectSpec{
		Name:       "Box",
		Type:       "Part::Box",
		Properties: map[string]any{"Length": 15.0},
	})
	if err != nil {
		t.Fatalf("CreateObject: %v", err)
	}
	if !res.Success {
		t.Fatalf("create_object failed: %s", res.Error)
	}

	objs, err := c.GetObjects("Main")
	if err != nil {
		t.Fatalf("GetObjects: %v", err)
	}
	if len(objs) != 1 || objs[0]["Name"] != "Box" {
		t.Errorf("objects = %v", objs)
	}

	obj, err := c.GetObject("Main", "Box")
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	props, _ := obj["Properties"].(map[string]any)
	if props["Length"] != 15.0 {
		t.Errorf("Length over the wire = %v", props["Length"])
	}

	docs, err := c.ListDocuments()
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 1 || docs[0] != "Main" {
		t.Errorf("documents = %v", docs)
	}
}

func TestRoundTripErrorEnvelope(t *testing.T) {
	_, c := startTestServer(t)

	res, err := c.CreateObject("Ghost", dispatch.ObjectSpec{Name: "Box", Type: "Part::Box"})
	if err != nil {
		t.Fatalf("CreateObject: %v", err)
	}
	if res.Success {
		t.Fatal("create in missing document succeeded")
	}
	if res.Error != "Document 'Ghost' not found." {
		t.Errorf("error over the wire = %q", res.Error)
	}
}

func TestRoundTripNodeOperations(t *testing.T) {
	_, c := startTestServer(t)

	res, err := c.NodesCreateNode("generators.solid_box", "Box", 10, 20)
	if err != nil {
		t.Fatalf("NodesCreateNode: %v", err)
	}
	if !res.Success {
		t.Fatalf("nodes_create_node failed: %s", res.Error)
	}
	nodeID, _ := res.Payload["node_id"].(string)
	if nodeID == "" {
		t.Fatal("no node_id in response")
	}

	res, err = c.NodesSetSocketValue(nodeID, "Length", 25.0)
	if err != nil {
		t.Fatalf("NodesSetSocketValue: %v", err)
	}
	if !res.Success {
		t.Fatalf("nodes_set_socket_value failed: %s", res.Error)
	}

	res, err = c.NodesGetSocketValue(nodeID, "Length")
	if err != nil {
		t.Fatalf("NodesGetSocketValue: %v", err)
	}
	if !res.Success || res.Payload["value"] != 25.0 {
		t.Errorf("value over the wire: %+v", res)
	}

	res, err = c.NodesGetGraph()
	if err != nil {
		t.Fatalf("NodesGetGraph: %v", err)
	}
	nodes, _ := res.Payload["nodes"].([]any)
	if len(nodes) != 1 {
		t.Errorf("graph nodes = %v", res.Payload["nodes"])
	}
}

func TestUnknownMethod(t *testing.T) {
	s := NewServer("127.0.0.1", 0, newTestDispatcher(t), console.Discard())
	resp := s.handleCommand(Command{ID: "1", Method: "no_such_method"})
	if resp.Success {
		t.Fatal("unknown method succeeded")
	}
	if !strings.Contains(resp.Error, "no_such_method") {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestInvalidParams(t *testing.T) {
	s := NewServer("127.0.0.1", 0, newTestDispatcher(t), console.Discard())
	resp := s.handleCommand(Command{
		ID:     "1",
		Method: MethodCreateDocument,
		Params: []byte(`"not an object"`),
	})
	if resp.Success {
		t.Fatal("invalid params succeeded")
	}
	if !strings.HasPrefix(resp.Error, "Invalid params:") {
		t.Errorf("error = %q", resp.Error)
	}
}

package dispatch

import (
	"encoding/json"
	"testing"
)

func TestResponseMarshalFlattensPayload(t *testing.T) {
	res := Ok(map[string]any{"document_name": "Main"})
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["success"] != true {
		t.Errorf("success = %v", m["success"])
	}
	if m["document_name"] != "Main" {
		t.Errorf("document_name = %v", m["document_name"])
	}
	if _, present := m["error"]; present {
		t.Error("error key present on success envelope")
	}
	if _, present := m["Payload"]; present {
		t.Error("payload marshaled as its own key")
	}
}

func TestResponseMarshalError(t *testing.T) {
	data, err := json.Marshal(Fail("boom"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["success"] != false || m["error"] != "boom" {
		t.Errorf("envelope = %v", m)
	}
}

func TestResponseUnmarshalLiftsEnvelopeKeys(t *testing.T) {
	var res Response
	input := `{"success": true, "object_name": "Box", "count": 2}`
	if err := json.Unmarshal([]byte(input), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !res.Success || res.Error != "" {
		t.Errorf("envelope = %+v", res)
	}
	if res.Payload["object_name"] != "Box" || res.Payload["count"] != 2.0 {
		t.Errorf("payload = %v", res.Payload)
	}
	if _, present := res.Payload["success"]; present {
		t.Error("success leaked into payload")
	}

	var failed Response
	if err := json.Unmarshal([]byte(`{"success": false, "error": "nope"}`), &failed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if failed.Success || failed.Error != "nope" || len(failed.Payload) != 0 {
		t.Errorf("envelope = %+v", failed)
	}
}

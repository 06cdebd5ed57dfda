package dispatch

import "encoding/json"

// Response is the uniform envelope every operation returns: a success
// flag plus either operation-specific payload fields or an error message.
// Payload keys marshal at the top level of the JSON object, next to
// "success".
type Response struct {
	Success bool
	Error   string
	Payload map[string]any
}

// Ok builds a success envelope with the given payload.
func Ok(payload map[string]any) Response {
	return Response{Success: true, Payload: payload}
}

// Fail builds an error envelope.
func Fail(message string) Response {
	return Response{Success: false, Error: message}
}

// MarshalJSON flattens the payload into the envelope object.
func (r Response) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Payload)+2)
	for k, v := range r.Payload {
		m[k] = v
	}
	m["success"] = r.Success
	if r.Error != "" {
		m["error"] = r.Error
	}
	return json.Marshal(m)
}

// UnmarshalJSON is the inverse: success and error are lifted out, every
// other key lands in the payload.
func (r *Response) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if s, ok := m["success"].(bool); ok {
		r.Success = s
	}
	if e, ok := m["error"].(string); ok {
		r.Error = e
	}
	delete(m, "success")
	delete(m, "error")
	r.Payload = m
	return nil
}

package envelope

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParsePreservesFields(t *testing.T) {
	req, err := Parse([]byte(`{"requestId":"t1","action":"PING","data":{"x":1}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if req.RequestID != "t1" || req.Action != "PING" {
		t.Fatalf("got %+v", req)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte(`not-json`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestNewResponseGeneratesUUIDWhenBlank(t *testing.T) {
	resp := NewResponse(&Request{RequestID: ""}, 0, "", nil)
	if resp.RequestID == "" {
		t.Fatal("expected a generated requestId")
	}
	if len(strings.Split(resp.RequestID, "-")) != 5 {
		t.Fatalf("requestId %q does not look like a UUID v4", resp.RequestID)
	}
}

func TestNewResponsePreservesRequestID(t *testing.T) {
	resp := NewResponse(&Request{RequestID: "abc"}, 0, "", nil)
	if resp.RequestID != "abc" {
		t.Fatalf("got %q, want abc", resp.RequestID)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	resp := NewResponse(&Request{RequestID: "t1"}, 0, "ok", map[string]string{"action": "PONG"})
	out := Format(resp)

	var decoded Response
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("unmarshal formatted response: %v", err)
	}
	if decoded.RequestID != resp.RequestID || decoded.Code != resp.Code || decoded.Message != resp.Message {
		t.Fatalf("round trip mismatch: got %+v", decoded)
	}
	if decoded.ServerTime == "" || !strings.HasSuffix(decoded.ServerTime, "Z") {
		t.Fatalf("serverTime %q missing Z suffix", decoded.ServerTime)
	}
}

func TestFormatFallsBackOnSerializationFailure(t *testing.T) {
	resp := NewResponse(&Request{RequestID: "t1"}, 0, "ok", map[string]interface{}{
		"bad": func() {}, // channel/func values cannot be marshalled
	})
	out := Format(resp)
	if string(out) != `{"code":500,"message":"internal server error"}` {
		t.Fatalf("got %q", out)
	}
}

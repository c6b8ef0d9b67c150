package router

import (
	"testing"

	"github.com/commatea/protoframe/pkg/envelope"
)

func TestRoutePingCaseInsensitive(t *testing.T) {
	r := New(true)
	for _, action := range []string{"PING", "ping", "PiNg"} {
		resp := r.Route(&envelope.Request{RequestID: "1", Action: action})
		if resp.Code != 0 {
			t.Fatalf("action %q: got code %d, want 0", action, resp.Code)
		}
		data, ok := resp.Data.(map[string]string)
		if !ok || data["action"] != "PONG" {
			t.Fatalf("action %q: got data %+v, want PONG", action, resp.Data)
		}
	}
}

func TestRouteEchoFallback(t *testing.T) {
	r := New(true)
	resp := r.Route(&envelope.Request{RequestID: "1", Action: "DO_THING", Data: []byte(`{"x":1}`)})
	if resp.Code != 0 {
		t.Fatalf("got code %d, want 0", resp.Code)
	}
	echo, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("got data %+v, want echo map", resp.Data)
	}
	if echo["echoAction"] != "DO_THING" {
		t.Fatalf("got echoAction %v", echo["echoAction"])
	}
	if _, present := echo["echoData"]; !present {
		t.Fatalf("expected echoData to be present when request carries data")
	}
}

func TestRouteEchoFallbackOmitsEchoDataWhenAbsent(t *testing.T) {
	r := New(true)
	resp := r.Route(&envelope.Request{RequestID: "1", Action: "DO_THING"})
	echo := resp.Data.(map[string]interface{})
	if _, present := echo["echoData"]; present {
		t.Fatalf("expected echoData to be absent when request carries no data")
	}
}

func TestRouteBlankActionReturns400(t *testing.T) {
	r := New(true)
	for _, action := range []string{"", "   "} {
		resp := r.Route(&envelope.Request{RequestID: "1", Action: action})
		if resp.Code != 400 || resp.Message != msgMissingField {
			t.Fatalf("action %q: got code=%d message=%q", action, resp.Code, resp.Message)
		}
	}
}

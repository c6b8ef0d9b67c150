// Package envelope parses inbound request envelopes and formats outbound
// response envelopes, the two JSON shapes every protocol family outside
// of Raw and Modbus RTU framing speaks. Grounded on the teacher's
// protocol.Request/protocol.Response shape (pkg/protocol/protocol.go),
// narrowed to the three fields this wire format actually validates.
package envelope

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// fallbackResponse is returned by Format when a response cannot be
// serialised for any reason. It must itself never fail to marshal.
var fallbackResponse = []byte(`{"code":500,"message":"internal server error"}`)

// Request is the inbound envelope shape: { requestId?, action, data? }.
type Request struct {
	RequestID string          `json:"requestId,omitempty"`
	Action    string          `json:"action"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Response is the outbound envelope shape.
type Response struct {
	RequestID  string      `json:"requestId"`
	Code       int         `json:"code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	ServerTime string      `json:"serverTime"`
}

// ErrBlankAction marks a request whose action field is absent or blank.
// Callers surface it as a code=400 response, not a connection error.
type ErrBlankAction struct{}

func (ErrBlankAction) Error() string { return "missing field: action" }

// Parse accepts raw bytes representing exactly one JSON object — whether
// they arrived as a length-prefixed payload or as a value already
// extracted by the streaming tokenizer — and returns the decoded
// Request. It never partially mutates anything on error.
func Parse(raw []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}
	return &req, nil
}

// NewResponse builds a Response for req, generating a UUID v4 requestId
// when req's is missing or blank, and stamping serverTime at the moment
// of construction.
func NewResponse(req *Request, code int, message string, data interface{}) *Response {
	id := ""
	if req != nil {
		id = req.RequestID
	}
	if strings.TrimSpace(id) == "" {
		id = uuid.New().String()
	}
	return &Response{
		RequestID:  id,
		Code:       code,
		Message:    message,
		Data:       data,
		ServerTime: formatServerTime(time.Now().UTC()),
	}
}

// Format serialises resp to UTF-8 JSON bytes. It is total: a
// serialisation failure falls back to a fixed byte sequence rather than
// ever returning an error, so the connection can stay open per the
// InternalSerializationError policy.
func Format(resp *Response) []byte {
	b, err := json.Marshal(resp)
	if err != nil {
		return fallbackResponse
	}
	return b
}

// formatServerTime renders t as an RFC-3339 UTC instant with millisecond
// precision and a literal "Z" suffix.
func formatServerTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// Package router dispatches a parsed request envelope to an action
// handler and produces the response envelope. Grounded on the
// teacher's Request/Response command-dispatch shape in
// pkg/protocol/protocol.go, narrowed to this protocol's three built-in
// behaviours: PING, echo fallback, and the blank-action error.
package router

import (
	"strings"

	"github.com/commatea/protoframe/pkg/envelope"
)

const (
	codeOK          = 0
	codeBadRequest  = 400
	msgMissingField = "missing field: action"
)

// Router dispatches requests to PING/echo handling. RespondEnabled
// gates whether Route's result is ever written back to the connection;
// the caller (ConnectionPipeline) is responsible for honouring it.
type Router struct {
	RespondEnabled bool
}

// New creates a Router with the given respond-enabled setting.
func New(respondEnabled bool) *Router {
	return &Router{RespondEnabled: respondEnabled}
}

// Route produces the response envelope for req. It never returns an
// error: every outcome, including a blank action, is expressed as a
// Response.
func (r *Router) Route(req *envelope.Request) *envelope.Response {
	action := strings.TrimSpace(req.Action)

	if action == "" {
		return envelope.NewResponse(req, codeBadRequest, msgMissingField, nil)
	}

	if strings.EqualFold(action, "PING") {
		return envelope.NewResponse(req, codeOK, "", map[string]string{"action": "PONG"})
	}

	echo := map[string]interface{}{"echoAction": req.Action}
	if len(req.Data) > 0 {
		echo["echoData"] = req.Data
	}
	return envelope.NewResponse(req, codeOK, "", echo)
}

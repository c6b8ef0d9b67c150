package server

import (
	"encoding/hex"
	"errors"
	"net"
	"time"

	"github.com/commatea/protoframe/pkg/autodetect"
	"github.com/commatea/protoframe/pkg/config"
	"github.com/commatea/protoframe/pkg/envelope"
	"github.com/commatea/protoframe/pkg/framing"
	"github.com/commatea/protoframe/pkg/jsonstream"
	"github.com/commatea/protoframe/pkg/logger"
	"github.com/commatea/protoframe/pkg/metrics"
	"github.com/commatea/protoframe/pkg/modbus"
	"github.com/commatea/protoframe/pkg/router"
)

// pipelineState is the tagged variant driving a Connection's decoder
// chain, per Design Notes §9: explicit state transitions rather than
// runtime handler insertion.
type pipelineState int

const (
	stateDetecting pipelineState = iota
	stateJSON
	stateModbus
	stateLength
	stateLine
	stateRaw
)

func initialState(framingMode string) pipelineState {
	switch framingMode {
	case "raw":
		return stateRaw
	case "length-field":
		return stateLength
	case "json-object":
		return stateJSON
	case "line":
		return stateLine
	case "modbus-rtu":
		return stateModbus
	default: // "auto"
		return stateDetecting
	}
}

func (s pipelineState) label() string {
	switch s {
	case stateJSON:
		return "json-object"
	case stateModbus:
		return "modbus-rtu"
	case stateLength:
		return "length-field"
	case stateLine:
		return "line"
	case stateRaw:
		return "raw"
	default:
		return "auto"
	}
}

const readChunkSize = 4096

// Connection owns one accepted net.Conn's decoding pipeline: the
// active framing state, its framers and accumulated buffer, and the
// router it dispatches parsed requests to. All fields are touched
// only from the goroutine running Serve — per §5, no cross-connection
// sharing, no locking needed. Grounded on the teacher's per-connection
// struct shape (pkg/core.Gateway, pkg/api/ws.Client): one struct per
// connection, owned buffers, explicit Close.
type Connection struct {
	conn   net.Conn
	cfg    config.TCPConfig
	router *router.Router
	log    *logger.Logger

	state     pipelineState
	frameMode string
	buf       []byte

	detector      *autodetect.Detector
	modbusFramer  *modbus.Framer
	lengthFramer  *framing.LengthPrefixFramer
	lineFramer    *framing.LineFramer
	rawFramer     *framing.RawFramer
	jsonExtractor *jsonstream.Extractor
}

// NewConnection builds a Connection ready to Serve conn under cfg.
func NewConnection(conn net.Conn, cfg config.TCPConfig, rt *router.Router, log *logger.Logger) *Connection {
	state := initialState(cfg.Framing)
	c := &Connection{
		conn:          conn,
		cfg:           cfg,
		router:        rt,
		log:           log,
		state:         state,
		frameMode:     state.label(),
		modbusFramer:  modbus.New(cfg.MaxFrameLength),
		lengthFramer:  framing.NewLengthPrefixFramer(cfg.MaxFrameLength),
		lineFramer:    framing.NewLineFramer(cfg.MaxFrameLength),
		rawFramer:     framing.NewRawFramer(),
		jsonExtractor: jsonstream.New(cfg.MaxFrameLength),
	}
	if state == stateDetecting {
		c.detector = autodetect.New(cfg.DetectWindow, cfg.MaxFrameLength)
	}
	return c
}

// Serve runs the connection's read loop until the peer closes, an
// idle timeout elapses, or a fatal framing error occurs. It always
// closes conn before returning.
func (c *Connection) Serve() error {
	defer c.conn.Close()

	metrics.ConnectionOpened()
	defer metrics.ConnectionClosed()

	c.log.Info("connection accepted", "remote", c.conn.RemoteAddr().String(), "framing", c.frameMode)
	defer c.log.Info("connection closed", "remote", c.conn.RemoteAddr().String())

	readBuf := make([]byte, readChunkSize)
	idleTimeout := time.Duration(c.cfg.ReaderIdleSeconds) * time.Second

	for {
		if idleTimeout > 0 {
			if err := c.conn.SetReadDeadline(time.Now().Add(idleTimeout)); err != nil {
				return err
			}
		}

		n, err := c.conn.Read(readBuf)
		if n > 0 {
			if handleErr := c.handle(readBuf[:n]); handleErr != nil {
				return handleErr
			}
		}
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return ErrIdleTimeout
			}
			return nil // peer closed: orderly EOF or reset, not a protocol error
		}
	}
}

// handle dispatches one inbound chunk through the active pipeline
// state. A non-nil return is fatal: Serve closes the connection.
func (c *Connection) handle(chunk []byte) error {
	switch c.state {
	case stateDetecting:
		return c.handleDetecting(chunk)
	case stateJSON:
		return c.handleJSON(chunk)
	case stateModbus:
		return c.handleModbus(chunk)
	case stateLength:
		return c.handleLength(chunk)
	case stateLine:
		return c.handleLine(chunk)
	case stateRaw:
		return c.handleRaw(chunk)
	default:
		return nil
	}
}

// commit installs next as the connection's permanent pipeline state.
// Irreversible for the lifetime of the connection, per §4.7.
func (c *Connection) commit(next pipelineState) {
	c.state = next
	c.frameMode = next.label()
	c.detector = nil
}

func (c *Connection) handleDetecting(chunk []byte) error {
	switch c.detector.Feed(chunk) {
	case autodetect.DecidedJSON:
		retained := c.detector.Retained()
		c.commit(stateJSON)
		return c.handleJSON(retained)
	case autodetect.DecidedModbus:
		retained := c.detector.Retained()
		c.commit(stateModbus)
		return c.handleModbus(retained)
	default:
		return nil
	}
}

func (c *Connection) handleJSON(chunk []byte) error {
	values, err := c.jsonExtractor.Feed(chunk)
	for _, v := range values {
		c.dispatchEnvelope(v)
	}
	if err != nil {
		kind := "malformed"
		if errors.Is(err, jsonstream.ErrTooLong) {
			kind = "too_long"
		}
		metrics.IncFramingError(c.frameMode, kind)
		c.attemptBestEffortError()
		return ErrStreamCorruption
	}
	return nil
}

func (c *Connection) handleLength(chunk []byte) error {
	c.buf = append(c.buf, chunk...)
	payloads, remaining, err := c.lengthFramer.Decode(c.buf)
	c.buf = remaining
	for _, p := range payloads {
		c.dispatchEnvelope(p)
	}
	if err != nil {
		metrics.IncFramingError(c.frameMode, "frame_too_long")
		return framing.ErrFrameTooLong
	}
	return nil
}

func (c *Connection) handleLine(chunk []byte) error {
	c.buf = append(c.buf, chunk...)
	lines, remaining, err := c.lineFramer.Decode(c.buf)
	c.buf = remaining
	for _, line := range lines {
		c.dispatchEnvelope(line)
	}
	if err != nil {
		metrics.IncFramingError(c.frameMode, "frame_too_long")
		return framing.ErrFrameTooLong
	}
	return nil
}

func (c *Connection) handleModbus(chunk []byte) error {
	c.buf = append(c.buf, chunk...)
	frames, remaining := c.modbusFramer.Decode(c.buf)
	c.buf = remaining
	for _, frame := range frames {
		c.log.Debug("modbus frame observed", "hex", hex.EncodeToString(frame))
		metrics.IncFrame(c.frameMode, metrics.DirectionInbound, metrics.StatusSuccess)
	}
	return nil
}

func (c *Connection) handleRaw(chunk []byte) error {
	chunks, _, _ := c.rawFramer.Decode(chunk)
	for _, ch := range chunks {
		c.log.Debug("raw chunk observed", "bytes", len(ch))
		metrics.IncFrame(c.frameMode, metrics.DirectionInbound, metrics.StatusSuccess)
	}
	return nil
}

// dispatchEnvelope parses raw as a request envelope, routes it, and
// writes the response. A parse failure is a PayloadDecodeError: it
// produces a code=400 response and leaves the connection open, never
// propagating as a fatal error.
func (c *Connection) dispatchEnvelope(raw []byte) {
	req, err := envelope.Parse(raw)
	if err != nil {
		c.log.Warn("malformed request payload", "error", err)
		metrics.IncFrame(c.frameMode, metrics.DirectionInbound, metrics.StatusFailed)
		metrics.IncFramingError(c.frameMode, "payload_decode")
		c.writeResponse(envelope.NewResponse(nil, 400, "malformed request payload", nil))
		return
	}

	resp := c.router.Route(req)
	c.log.Info("request routed", "requestId", resp.RequestID, "action", req.Action, "code", resp.Code)
	c.writeResponse(resp)
}

// writeResponse formats resp and writes it through the active
// framing's outbound convention. Suppressed entirely when
// respondEnabled is false, per §4.9.
func (c *Connection) writeResponse(resp *envelope.Response) {
	if !c.router.RespondEnabled {
		return
	}

	body := envelope.Format(resp)

	var out []byte
	switch c.state {
	case stateLength:
		out = c.lengthFramer.Encode(body)
	case stateLine:
		out = c.lineFramer.Encode(body)
	default: // stateJSON, and JSON resolved from Auto
		out = body
	}

	if _, err := c.conn.Write(out); err != nil {
		c.log.Warn("response write failed", "error", err)
		metrics.IncFrame(c.frameMode, metrics.DirectionOutbound, metrics.StatusFailed)
		return
	}
	metrics.IncFrame(c.frameMode, metrics.DirectionOutbound, metrics.StatusSuccess)
}

// attemptBestEffortError resolves Open Question (a): on stream
// corruption, try to flush a 400-class response with a short deadline
// before the connection closes, rather than racing an unconditional
// write against an immediate close.
func (c *Connection) attemptBestEffortError() {
	if !c.router.RespondEnabled {
		return
	}
	resp := envelope.NewResponse(nil, 400, "malformed json stream", nil)
	c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	c.conn.Write(envelope.Format(resp))
}

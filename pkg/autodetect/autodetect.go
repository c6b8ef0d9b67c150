// Package autodetect implements the one-shot peek-and-commit decision
// that resolves Auto framing mode to either JSON or Modbus RTU. It is
// the only pipeline-mutation operation in the system: once committed,
// a connection never re-enters detection. Modeled on the teacher's
// pkg/protocol/dynamic protocol sniffing, narrowed to this spec's two
// candidate protocols and exact decision order.
package autodetect

import "github.com/commatea/protoframe/pkg/modbus"

// Decision is the framing regime an AutoDetector commits a connection to.
type Decision int

const (
	// Pending means no decision has been reached yet; keep buffering.
	Pending Decision = iota
	// DecidedJSON commits the connection to JsonObject framing.
	DecidedJSON
	// DecidedModbus commits the connection to ModbusRtu framing.
	DecidedModbus
)

// DefaultDetectWindow is the byte budget consumed before defaulting to
// Modbus RTU when neither JSON nor a CRC-valid Modbus candidate has
// been recognised.
const DefaultDetectWindow = 64

// Detector is a per-connection, one-shot decider. It retains every byte
// it has seen until it commits; once Feed returns a non-Pending
// decision, Retained hands those bytes to the caller for replay into
// the newly installed decoder.
type Detector struct {
	detectWindow   int
	maxFrameLength int
	retained       []byte
}

// New creates a Detector. detectWindow is the byte budget before
// defaulting to Modbus RTU (0 selects DefaultDetectWindow).
// maxFrameLength bounds Modbus candidate recognition the same way it
// bounds the committed Modbus RTU decoder.
func New(detectWindow, maxFrameLength int) *Detector {
	if detectWindow <= 0 {
		detectWindow = DefaultDetectWindow
	}
	return &Detector{detectWindow: detectWindow, maxFrameLength: maxFrameLength}
}

// Feed appends chunk to the retained buffer and evaluates the decision
// rules in order. On a non-Pending return, Retained holds every byte
// seen so far (including chunk) for replay into the committed decoder;
// the Detector must not be fed again after committing.
func (d *Detector) Feed(chunk []byte) Decision {
	d.retained = append(d.retained, chunk...)
	return d.evaluate()
}

// Retained returns every byte seen so far, owned by the caller once
// Feed has returned a non-Pending decision. Valid to call regardless of
// decision state.
func (d *Detector) Retained() []byte {
	return d.retained
}

func (d *Detector) evaluate() Decision {
	buf := d.retained

	i := 0
	for i < len(buf) && isWhitespace(buf[i]) {
		i++
	}
	if i < len(buf) && (buf[i] == '{' || buf[i] == '[') {
		return DecidedJSON
	}

	if len(buf) > 0 && buf[0] <= 247 {
		if modbus.HasValidCandidate(buf, d.maxFrameLength) {
			return DecidedModbus
		}
	}

	if len(buf) >= d.detectWindow {
		return DecidedModbus
	}

	return Pending
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

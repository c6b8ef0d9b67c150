// Package jsonstream implements a non-blocking, incremental extractor for
// root-level JSON values arriving across arbitrary TCP chunk boundaries.
// Per the design notes this is a hand-written tokenizer covering only the
// shapes the wire protocol needs (object, array, string, number,
// true/false/null) — its only hard contract is chunk-boundary
// indifference, which is exercised by feeding the same JSON one byte at a
// time and in one piece and comparing the emitted values.
package jsonstream

import "errors"

// ErrMalformed is returned when a byte cannot legally continue the value
// in progress. It is fatal for the owning connection: mid-stream
// corruption destroys the ability to locate the next value boundary.
var ErrMalformed = errors.New("jsonstream: malformed JSON")

// ErrTooLong is returned when the bytes accumulated for the in-progress
// root value exceed the configured maximum before that value completes.
var ErrTooLong = errors.New("jsonstream: stream exceeds max frame length")

type tokenizerState int

const (
	stateIdle tokenizerState = iota
	stateAccumulating
	stateInString
	stateInStringEscape
	stateInLiteral // true / false / null / number, only ever at depth 0 or nested
)

// Extractor incrementally consumes byte chunks and yields complete
// root-level JSON values. It is not safe for concurrent use; a single
// connection's handler must drive it synchronously between reads.
type Extractor struct {
	maxLen int

	state      tokenizerState
	depth      int
	value      []byte
	pendingLen int
}

// New creates an Extractor that terminates any single root value whose
// accumulated byte count exceeds maxLen.
func New(maxLen int) *Extractor {
	return &Extractor{maxLen: maxLen}
}

// Feed ingests chunk and returns every root-level JSON value it
// completes, in order. Whitespace between root values is absorbed
// silently. An error is always fatal: the caller must not call Feed
// again on this Extractor afterwards.
func (e *Extractor) Feed(chunk []byte) ([][]byte, error) {
	var values [][]byte

	for i := 0; i < len(chunk); i++ {
		b := chunk[i]

		if e.state == stateIdle {
			if isJSONSpace(b) {
				continue
			}
			e.beginValue()
		}

		if e.state == stateInLiteral && !isLiteralByte(b) {
			e.state = stateAccumulating
			if e.depth == 0 {
				values = append(values, e.emit())
			}
			// b was not part of the literal; re-run this iteration of
			// the loop against the (possibly new) current value.
			i--
			continue
		}

		wasInString := e.state == stateInString

		if err := e.accumulate(b); err != nil {
			return values, err
		}

		rootStringClosed := wasInString && b == '"' && e.state == stateAccumulating && e.depth == 0
		rootBracketClosed := e.state == stateAccumulating && e.depth == 0 && isBracketClose(b)
		if rootStringClosed || rootBracketClosed {
			values = append(values, e.emit())
		}
	}

	return values, nil
}

func (e *Extractor) beginValue() {
	e.state = stateAccumulating
	e.depth = 0
	e.value = e.value[:0]
	e.pendingLen = 0
}

// emit snapshots the accumulated value and resets the tokenizer to Idle.
func (e *Extractor) emit() []byte {
	done := make([]byte, len(e.value))
	copy(done, e.value)
	e.state = stateIdle
	e.depth = 0
	e.value = nil
	e.pendingLen = 0
	return done
}

// accumulate appends b to the in-progress value, advancing the
// tokenizer's bracket/string/escape state machine.
func (e *Extractor) accumulate(b byte) error {
	switch e.state {
	case stateInLiteral:
		// Continuation byte of a number/true/false/null; termination is
		// handled entirely by Feed's top-of-loop isLiteralByte check.

	case stateInStringEscape:
		e.state = stateInString

	case stateInString:
		switch b {
		case '\\':
			e.state = stateInStringEscape
		case '"':
			e.state = stateAccumulating
		}

	case stateAccumulating:
		switch {
		case b == '"':
			e.state = stateInString
		case b == '{' || b == '[':
			e.depth++
		case b == '}' || b == ']':
			e.depth--
			if e.depth < 0 {
				return ErrMalformed
			}
		case b == ',' || b == ':':
			if e.depth == 0 {
				return ErrMalformed
			}
		case isJSONSpace(b):
			// whitespace inside a structured value; harmless
		case isLiteralStart(b):
			e.state = stateInLiteral
		default:
			return ErrMalformed
		}

	default:
		return ErrMalformed
	}

	e.pendingLen++
	if e.pendingLen > e.maxLen {
		return ErrTooLong
	}
	e.value = append(e.value, b)
	return nil
}

func isBracketClose(b byte) bool { return b == '}' || b == ']' }

// Flush must be called when the connection ends (or the decoding path
// is otherwise abandoned) to surface a bare trailing scalar that never
// saw a terminating delimiter, e.g. a lone "42" at end of stream.
func (e *Extractor) Flush() ([]byte, bool) {
	if e.state == stateInLiteral && e.depth == 0 {
		return e.emit(), true
	}
	return nil, false
}

func isJSONSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isLiteralStart(b byte) bool {
	return b == '-' || (b >= '0' && b <= '9') || b == 't' || b == 'f' || b == 'n'
}

func isLiteralByte(b byte) bool {
	switch {
	case b >= '0' && b <= '9':
		return true
	case b == '-' || b == '+' || b == '.' || b == 'e' || b == 'E':
		return true
	case b >= 'a' && b <= 'z':
		return true
	}
	return false
}

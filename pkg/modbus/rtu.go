// Package modbus extracts complete Modbus RTU frames from a byte stream,
// resynchronising on CRC failure the way a master recovering from a noisy
// RS-485 bus would. It is the CRC-based analogue of the teacher's
// protocol/modbus RTU parser, generalized to the priority-ordered
// candidate-length rules this framer must honour exactly.
package modbus

import (
	"github.com/commatea/protoframe/pkg/crc"
)

const minFrameLength = 5

// Framer extracts complete RTU frames from an append-only buffer,
// resynchronising one byte at a time when no candidate frame validates.
type Framer struct {
	maxFrameLength int
}

// New creates a Framer bounding every frame (and the resync discard
// window) to maxFrameLength bytes.
func New(maxFrameLength int) *Framer {
	return &Framer{maxFrameLength: maxFrameLength}
}

// Decode consumes as many complete frames as buf currently yields and
// returns them along with the bytes remaining. It never revisits bytes:
// a consumed frame or a resync byte is gone from remaining. The
// buffer-level discard below is the only bound on unresolved bytes; no
// single candidate length is ever rejected as "too long" on its own
// (see DESIGN.md), so there is no error to report here.
func (f *Framer) Decode(buf []byte) (frames [][]byte, remaining []byte) {
	for {
		if len(buf) < minFrameLength {
			return frames, buf
		}

		if len(buf) > f.maxFrameLength {
			discard := len(buf) - f.maxFrameLength
			buf = buf[discard:]
			continue
		}

		length, ok := f.firstValidCandidate(buf)
		if !ok {
			buf = buf[1:]
			continue
		}

		frame := make([]byte, length)
		copy(frame, buf[:length])
		frames = append(frames, frame)
		buf = buf[length:]
	}
}

// HasValidCandidate reports whether buf's head holds a full, CRC-valid
// Modbus RTU candidate frame per the same priority-ordered enumeration
// Decode uses. Used by AutoDetector to recognise Modbus RTU without
// consuming any bytes. Returns false on a buffer too short to carry a
// function code.
func HasValidCandidate(buf []byte, maxFrameLength int) bool {
	if len(buf) < 2 {
		return false
	}
	for _, length := range candidateLengths(buf) {
		if length < minFrameLength || length > maxFrameLength || length > len(buf) {
			continue
		}
		if crc.Valid(buf[:length]) {
			return true
		}
	}
	return false
}

// firstValidCandidate returns the length of the first candidate frame
// (in the priority order of §4.2) whose CRC validates against buf, and
// whether any candidate validated.
func (f *Framer) firstValidCandidate(buf []byte) (int, bool) {
	for _, length := range candidateLengths(buf) {
		if length < minFrameLength || length > f.maxFrameLength || length > len(buf) {
			continue
		}
		if crc.Valid(buf[:length]) {
			return length, true
		}
	}
	return 0, false
}

// candidateLengths enumerates candidate frame lengths for the buffer
// head in priority order: exception response, default fixed-length
// request/response, read-response shape, write-multiple request.
func candidateLengths(buf []byte) []int {
	var candidates []int

	function := buf[1]

	if function&0x80 != 0 {
		candidates = append(candidates, minFrameLength)
	}

	candidates = append(candidates, 8)

	if len(buf) >= 3 {
		byteCount := int(buf[2])
		candidates = append(candidates, 5+byteCount)
	}

	if (function == 0x0F || function == 0x10) && len(buf) >= 7 {
		byteCount := int(buf[6])
		candidates = append(candidates, 9+byteCount)
	}

	return candidates
}

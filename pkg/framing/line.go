package framing

import "bytes"

// LineFramer splits an inbound byte stream on LF, tolerating a
// preceding CR as part of the same delimiter (both are stripped from
// the returned line). Outbound, it appends a trailing LF when the
// payload doesn't already end in one.
type LineFramer struct {
	maxFrameLength int
}

// NewLineFramer creates a LineFramer terminating the connection if an
// unterminated line grows past maxFrameLength bytes.
func NewLineFramer(maxFrameLength int) *LineFramer {
	return &LineFramer{maxFrameLength: maxFrameLength}
}

// Decode extracts every complete line currently available in buf.
func (f *LineFramer) Decode(buf []byte) (lines [][]byte, remaining []byte, err error) {
	for {
		idx := bytes.IndexByte(buf, '\n')
		if idx == -1 {
			if len(buf) > f.maxFrameLength {
				return lines, buf, ErrFrameTooLong
			}
			return lines, buf, nil
		}

		end := idx
		if end > 0 && buf[end-1] == '\r' {
			end--
		}

		line := make([]byte, end)
		copy(line, buf[:end])
		lines = append(lines, line)
		buf = buf[idx+1:]
	}
}

// Encode appends a trailing LF to payload unless it already ends in one.
func (f *LineFramer) Encode(payload []byte) []byte {
	if len(payload) > 0 && payload[len(payload)-1] == '\n' {
		return payload
	}
	out := make([]byte, len(payload)+1)
	copy(out, payload)
	out[len(payload)] = '\n'
	return out
}

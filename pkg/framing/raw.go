package framing

// RawFramer hands whatever bytes are currently buffered straight to the
// binary logging sink with no framing guarantee: every inbound chunk is
// a "frame" in its own right, and nothing is ever held back or
// reassembled. There is no outbound direction for Raw mode.
type RawFramer struct{}

// NewRawFramer creates a RawFramer.
func NewRawFramer() *RawFramer { return &RawFramer{} }

// Decode returns buf itself as a single chunk and an empty remainder:
// Raw framing makes no claim about message boundaries.
func (f *RawFramer) Decode(buf []byte) (chunks [][]byte, remaining []byte, err error) {
	if len(buf) == 0 {
		return nil, buf, nil
	}
	chunk := make([]byte, len(buf))
	copy(chunk, buf)
	return [][]byte{chunk}, nil, nil
}

package framing

import "encoding/binary"

// LengthPrefixFramer implements the u32-big-endian-length-prefixed wire
// framing: inbound, a 4-byte length header is followed by exactly that
// many payload bytes; outbound, the header is prepended.
type LengthPrefixFramer struct {
	maxFrameLength int
}

// NewLengthPrefixFramer creates a LengthPrefixFramer rejecting any
// declared payload length over maxFrameLength.
func NewLengthPrefixFramer(maxFrameLength int) *LengthPrefixFramer {
	return &LengthPrefixFramer{maxFrameLength: maxFrameLength}
}

// Decode extracts every complete payload currently available in buf and
// returns the unconsumed remainder. A declared length over
// maxFrameLength is fatal: it is surfaced as ErrFrameTooLong and the
// caller must close the connection, since the header has already
// committed the stream to a frame boundary the server cannot locate.
func (f *LengthPrefixFramer) Decode(buf []byte) (payloads [][]byte, remaining []byte, err error) {
	for {
		if len(buf) < lengthHeaderSize {
			return payloads, buf, nil
		}

		length := int(binary.BigEndian.Uint32(buf[:lengthHeaderSize]))
		if length > f.maxFrameLength {
			return payloads, buf, ErrFrameTooLong
		}

		total := lengthHeaderSize + length
		if len(buf) < total {
			return payloads, buf, nil
		}

		payload := make([]byte, length)
		copy(payload, buf[lengthHeaderSize:total])
		payloads = append(payloads, payload)
		buf = buf[total:]
	}
}

// Encode prepends payload's length as a 4-byte big-endian header.
func (f *LengthPrefixFramer) Encode(payload []byte) []byte {
	out := make([]byte, lengthHeaderSize+len(payload))
	binary.BigEndian.PutUint32(out[:lengthHeaderSize], uint32(len(payload)))
	copy(out[lengthHeaderSize:], payload)
	return out
}

package framing

import (
	"bytes"
	"testing"
)

func TestRawFramerPassesChunksThroughUnaltered(t *testing.T) {
	f := NewRawFramer()

	chunks, remaining, err := f.Decode([]byte{0x01, 0x02, 0x03})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no remainder, got %d bytes", len(remaining))
	}
	if len(chunks) != 1 || !bytes.Equal(chunks[0], []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("got %v", chunks)
	}
}

func TestRawFramerEmptyBuffer(t *testing.T) {
	f := NewRawFramer()
	chunks, remaining, err := f.Decode(nil)
	if err != nil || chunks != nil || len(remaining) != 0 {
		t.Fatalf("got chunks=%v remaining=%v err=%v", chunks, remaining, err)
	}
}

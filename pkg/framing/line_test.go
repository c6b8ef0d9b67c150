package framing

import (
	"bytes"
	"testing"
)

func TestLineRoundTripStripsAtMostOneTrailingLF(t *testing.T) {
	f := NewLineFramer(1024)
	payload := []byte("hello world")

	decoded, remaining, err := f.Decode(f.Encode(payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no remainder, got %d bytes", len(remaining))
	}
	if len(decoded) != 1 || !bytes.Equal(decoded[0], payload) {
		t.Fatalf("got %v, want %q", decoded, payload)
	}
}

func TestLineCRLFStripped(t *testing.T) {
	f := NewLineFramer(1024)
	decoded, _, err := f.Decode([]byte("hello\r\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded) != 1 || string(decoded[0]) != "hello" {
		t.Fatalf("got %v", decoded)
	}
}

func TestLineMultipleLines(t *testing.T) {
	f := NewLineFramer(1024)
	decoded, remaining, err := f.Decode([]byte("one\ntwo\nthr"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded) != 2 || string(decoded[0]) != "one" || string(decoded[1]) != "two" {
		t.Fatalf("got %v", decoded)
	}
	if string(remaining) != "thr" {
		t.Fatalf("expected partial line held as remainder, got %q", remaining)
	}
}

func TestLineMaxFrameLengthBoundary(t *testing.T) {
	f := NewLineFramer(8)

	ok := bytes.Repeat([]byte("a"), 8)
	if _, _, err := f.Decode(ok); err != nil {
		t.Fatalf("unterminated line at exactly maxFrameLength should not yet error: %v", err)
	}

	tooLong := bytes.Repeat([]byte("a"), 9)
	_, _, err := f.Decode(tooLong)
	if err != ErrFrameTooLong {
		t.Fatalf("unterminated line over maxFrameLength should be ErrFrameTooLong, got %v", err)
	}
}

func TestLineEncodeDoesNotDoubleLF(t *testing.T) {
	f := NewLineFramer(1024)
	out := f.Encode([]byte("already terminated\n"))
	if bytes.Count(out, []byte("\n")) != 1 {
		t.Fatalf("expected exactly one trailing LF, got %q", out)
	}
}

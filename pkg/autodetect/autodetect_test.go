package autodetect

import (
	"testing"

	"github.com/commatea/protoframe/pkg/crc"
)

func TestFeedCommitsJSONOnBraceAfterWhitespace(t *testing.T) {
	d := New(64, 256)
	decision := d.Feed([]byte("  \r\n{\"action\":\"PING\"}"))
	if decision != DecidedJSON {
		t.Fatalf("got %v, want DecidedJSON", decision)
	}
}

func TestFeedCommitsJSONOnLeadingBracket(t *testing.T) {
	d := New(64, 256)
	if decision := d.Feed([]byte("[1,2,3]")); decision != DecidedJSON {
		t.Fatalf("got %v, want DecidedJSON", decision)
	}
}

func TestFeedCommitsModbusOnValidCandidate(t *testing.T) {
	frame := crc.AppendCRC([]byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x01})
	d := New(64, 256)
	if decision := d.Feed(frame); decision != DecidedModbus {
		t.Fatalf("got %v, want DecidedModbus", decision)
	}
}

func TestFeedPendingOnPartialModbusFrame(t *testing.T) {
	frame := crc.AppendCRC([]byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x01})
	d := New(64, 256)
	if decision := d.Feed(frame[:3]); decision != Pending {
		t.Fatalf("got %v, want Pending", decision)
	}
}

func TestFeedDefaultsToModbusAtDetectWindow(t *testing.T) {
	d := New(8, 256)
	garbage := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	if decision := d.Feed(garbage); decision != Pending {
		t.Fatalf("got %v before reaching window, want Pending", decision)
	}
	if decision := d.Feed([]byte{0xFF}); decision != DecidedModbus {
		t.Fatalf("got %v at detect window, want DecidedModbus", decision)
	}
}

func TestRetainedAccumulatesAcrossFeeds(t *testing.T) {
	d := New(64, 256)
	d.Feed([]byte("  "))
	d.Feed([]byte("{\"a\":1}"))
	if string(d.Retained()) != "  {\"a\":1}" {
		t.Fatalf("got %q", d.Retained())
	}
}

func TestDefaultDetectWindowUsedWhenZero(t *testing.T) {
	d := New(0, 256)
	if d.detectWindow != DefaultDetectWindow {
		t.Fatalf("got %d, want %d", d.detectWindow, DefaultDetectWindow)
	}
}

package rdesc

import (
	"bytes"
	"log"
	"reflect"
	"testing"
)

func TestPreparsedRoundTrip(t *testing.T) {
	p := mustParse(t, bootMouseDescriptor)

	blob, err := p.Serialize()
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if len(blob) < blobHeaderWireSize {
		t.Fatalf("blob too short: %d bytes", len(blob))
	}

	got, err := DeserializePreparsedData(blob)
	if err != nil {
		t.Fatalf("DeserializePreparsedData() error = %v", err)
	}

	if got.UsagePage != p.UsagePage || got.Usage != p.Usage {
		t.Errorf("top-level usage mismatch: got (%#x,%#x), want (%#x,%#x)",
			got.UsagePage, got.Usage, p.UsagePage, p.Usage)
	}
	if !reflect.DeepEqual(got.InputCaps, p.InputCaps) {
		t.Errorf("InputCaps round-trip mismatch:\ngot  %+v\nwant %+v", got.InputCaps, p.InputCaps)
	}
	if !reflect.DeepEqual(got.Collections, p.Collections) {
		t.Errorf("Collections round-trip mismatch:\ngot  %+v\nwant %+v", got.Collections, p.Collections)
	}
}

func TestPreparsedReleaseIsSafeWithoutSerialize(t *testing.T) {
	p := mustParse(t, bootMouseDescriptor)
	p.Release() // no blob yet; must not panic
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, blobHeaderWireSize))
	if _, err := DeserializePreparsedData(buf.Bytes()); err == nil {
		t.Fatal("expected an error for a zeroed (bad-magic) blob")
	}
}

func TestGCAllocator(t *testing.T) {
	a := GCAllocator{}
	b, err := a.Alloc(16)
	if err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	if len(b) != 16 {
		t.Fatalf("len(b) = %d, want 16", len(b))
	}
	a.Free(b) // no-op, must not panic
}

func TestParseWithNilLoggerDefaults(t *testing.T) {
	// Parse must not panic when given a nil logger, even though this
	// test doesn't capture log.Default()'s output.
	if _, err := Parse(bootMouseDescriptor, nil, nil); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	_ = log.Default()
}

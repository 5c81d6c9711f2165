package rdesc

import (
	"bytes"
	"log"
	"testing"
)

// bootMouseDescriptor is the canonical 3-button USB HID boot mouse
// report descriptor, byte-for-byte as it appears in the USB HID
// specification's examples.
var bootMouseDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x02, // Usage (Mouse)
	0xA1, 0x01, // Collection (Application)
	0x09, 0x01, //   Usage (Pointer)
	0xA1, 0x00, //   Collection (Physical)
	0x05, 0x09, //     Usage Page (Button)
	0x19, 0x01, //     Usage Minimum (1)
	0x29, 0x03, //     Usage Maximum (3)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x95, 0x03, //     Report Count (3)
	0x75, 0x01, //     Report Size (1)
	0x81, 0x02, //     Input (Data,Var,Abs)
	0x95, 0x01, //     Report Count (1)
	0x75, 0x05, //     Report Size (5)
	0x81, 0x01, //     Input (Const,Array,Abs)
	0x05, 0x01, //     Usage Page (Generic Desktop)
	0x09, 0x30, //     Usage (X)
	0x09, 0x31, //     Usage (Y)
	0x15, 0x81, //     Logical Minimum (-127)
	0x25, 0x7F, //     Logical Maximum (127)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x02, //     Report Count (2)
	0x81, 0x06, //     Input (Data,Var,Rel)
	0xC0,       //   End Collection
	0xC0,       // End Collection
}

func mustParse(t *testing.T, data []byte) *PreparsedData {
	t.Helper()
	p, err := Parse(data, nil, log.New(bytes.NewBuffer(nil), "", 0))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p
}

func TestParseBootMouse(t *testing.T) {
	p := mustParse(t, bootMouseDescriptor)

	if p.UsagePage != UsagePageGenericDesktop || p.Usage != 0x02 {
		t.Fatalf("top-level usage = (%#x, %#x), want (0x01, 0x02)", p.UsagePage, p.Usage)
	}
	if len(p.Collections) != 2 {
		t.Fatalf("len(Collections) = %d, want 2", len(p.Collections))
	}
	if p.Collections[0].Type != CollectionApplication {
		t.Errorf("Collections[0].Type = %v, want CollectionApplication", p.Collections[0].Type)
	}
	if p.Collections[1].Type != CollectionPhysical {
		t.Errorf("Collections[1].Type = %v, want CollectionPhysical", p.Collections[1].Type)
	}
	if p.Collections[1].Parent != 0 {
		t.Errorf("Collections[1].Parent = %d, want 0", p.Collections[1].Parent)
	}

	// Three Input Main items: the 3-button range (one ValueCaps, a
	// usage range, ReportCount 3), the 5-bit constant pad (one
	// ValueCaps, no usage), and X/Y (variable, one ValueCaps per axis).
	if len(p.InputCaps) != 4 {
		t.Fatalf("len(InputCaps) = %d, want 4", len(p.InputCaps))
	}
	if len(p.OutputCaps) != 0 || len(p.FeatureCaps) != 0 {
		t.Errorf("OutputCaps/FeatureCaps not empty: %d/%d", len(p.OutputCaps), len(p.FeatureCaps))
	}

	buttons := p.ButtonCaps(Input)
	if len(buttons) != 2 {
		t.Fatalf("len(ButtonCaps) = %d, want 2 (the button range and the array-typed constant pad)", len(buttons))
	}

	var buttonRange *ValueCaps
	for i := range p.InputCaps {
		if p.InputCaps[i].IsRange() {
			buttonRange = &p.InputCaps[i]
		}
	}
	if buttonRange == nil {
		t.Fatal("no ValueCaps with IsRange set found")
	}
	if buttonRange.UsageMin != 1 || buttonRange.UsageMax != 3 {
		t.Errorf("button range = [%d,%d], want [1,3]", buttonRange.UsageMin, buttonRange.UsageMax)
	}
	if buttonRange.ReportCount != 3 {
		t.Errorf("button range ReportCount = %d, want 3", buttonRange.ReportCount)
	}

	wantByteLen := uint32(3) // 1 button byte + X + Y; no REPORT_ID, no prefix byte
	if got := maxReportByteLength(p.InputCaps); got != wantByteLen {
		t.Errorf("maxReportByteLength(Input) = %d, want %d", got, wantByteLen)
	}
}

func TestParseBootMouseBitConservation(t *testing.T) {
	p := mustParse(t, bootMouseDescriptor)
	for _, c := range p.InputCaps {
		byteLen := maxReportByteLength(p.InputCaps)
		if c.EndBit() > uint64(byteLen)*8 {
			t.Errorf("cap with ReportID %d ends at bit %d, exceeds report length %d bytes", c.ReportID, c.EndBit(), byteLen)
		}
	}
}

func TestParseTruncatedDescriptor(t *testing.T) {
	data := append(append([]byte{}, bootMouseDescriptor...), 0x26, 0x01) // dangling 2-byte item
	_, err := Parse(data, nil, log.New(bytes.NewBuffer(nil), "", 0))
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error = %v (%T), want *ParseError", err, err)
	}
	if pe.Kind != DescriptorTruncated {
		t.Fatalf("Kind = %v, want DescriptorTruncated", pe.Kind)
	}
}

func TestParseUnknownTagAborts(t *testing.T) {
	// A reserved item type (type=3) aborts the parse outright.
	data := []byte{0x0C} // tag=0, type=3(reserved), size=0
	_, err := Parse(data, nil, log.New(bytes.NewBuffer(nil), "", 0))
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error = %v (%T), want *ParseError", err, err)
	}
	if pe.Kind != UnknownTag {
		t.Fatalf("Kind = %v, want UnknownTag", pe.Kind)
	}
}

func TestParseStackUnderflowIsNonFatal(t *testing.T) {
	var logBuf bytes.Buffer
	data := []byte{0xC0} // End Collection with nothing open
	p, err := Parse(data, nil, log.New(&logBuf, "", 0))
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil (non-fatal)", err)
	}
	if len(p.Collections) != 0 {
		t.Errorf("len(Collections) = %d, want 0", len(p.Collections))
	}
	if logBuf.Len() == 0 {
		t.Errorf("expected a warning to be logged for an unmatched End Collection")
	}
}

func TestParseUnfinishedNestingIsNonFatal(t *testing.T) {
	var logBuf bytes.Buffer
	data := []byte{0xA1, 0x01} // Collection opened, never closed
	p, err := Parse(data, nil, log.New(&logBuf, "", 0))
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil (non-fatal)", err)
	}
	if len(p.Collections) != 1 {
		t.Errorf("len(Collections) = %d, want 1", len(p.Collections))
	}
	if logBuf.Len() == 0 {
		t.Errorf("expected a warning to be logged for an unclosed collection")
	}
}

func TestParseDelimiterRejected(t *testing.T) {
	data := []byte{0xA9, 0x01} // Delimiter local item (tag 0xA, type 2, size 1)
	_, err := Parse(data, nil, log.New(bytes.NewBuffer(nil), "", 0))
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error = %v (%T), want *ParseError", err, err)
	}
	if pe.Kind != UnknownTag {
		t.Fatalf("Kind = %v, want UnknownTag", pe.Kind)
	}
}

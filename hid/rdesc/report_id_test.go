package rdesc

import "testing"

// twoReportIDDescriptor declares two Input fields under distinct
// REPORT_ID items, each sized so the two report IDs need different
// per-direction byte lengths: 2 bytes for ID 1 (1 reserved prefix byte
// + 1 data byte), 4 bytes for ID 2 (1 reserved prefix byte + 3 data
// bytes).
var twoReportIDDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x06, // Usage (Keyboard)
	0xA1, 0x01, // Collection (Application)
	0x85, 0x01, //   Report ID (1)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x01, //   Logical Maximum (1)
	0x75, 0x01, //   Report Size (1)
	0x95, 0x08, //   Report Count (8)
	0x81, 0x02, //   Input (Data,Var,Abs)
	0x85, 0x02, //   Report ID (2)
	0x75, 0x08, //   Report Size (8)
	0x95, 0x03, //   Report Count (3)
	0x81, 0x02, //   Input (Data,Var,Abs)
	0xC0, // End Collection
}

func TestParseTwoReportIDs(t *testing.T) {
	p := mustParse(t, twoReportIDDescriptor)

	if len(p.InputCaps) != 2 {
		t.Fatalf("len(InputCaps) = %d, want 2", len(p.InputCaps))
	}
	byID := map[ReportID]*ValueCaps{}
	for i := range p.InputCaps {
		byID[p.InputCaps[i].ReportID] = &p.InputCaps[i]
	}
	c1, ok := byID[1]
	if !ok {
		t.Fatal("missing report ID 1")
	}
	if c1.ReportCount != 8 || c1.BitSize != 1 {
		t.Errorf("report ID 1: ReportCount=%d BitSize=%d, want 8/1", c1.ReportCount, c1.BitSize)
	}
	c2, ok := byID[2]
	if !ok {
		t.Fatal("missing report ID 2")
	}
	if c2.ReportCount != 3 || c2.BitSize != 8 {
		t.Errorf("report ID 2: ReportCount=%d BitSize=%d, want 3/8", c2.ReportCount, c2.BitSize)
	}

	desc := p.Describe()
	if len(desc.ReportIDs) != 2 {
		t.Fatalf("len(ReportIDs) = %d, want 2", len(desc.ReportIDs))
	}
	lengths := map[ReportID]uint16{}
	for _, r := range desc.ReportIDs {
		lengths[r.ReportID] = r.InputLength
	}
	if lengths[1] != 2 {
		t.Errorf("InputLength for report ID 1 = %d, want 2", lengths[1])
	}
	if lengths[2] != 4 {
		t.Errorf("InputLength for report ID 2 = %d, want 4", lengths[2])
	}

	// The top-level summary reports the largest per-ID length, since a
	// caller allocating one buffer per direction needs to fit every
	// report ID that can arrive on it.
	if desc.CollectionDesc[0].InputLength != 4 {
		t.Errorf("top-level InputLength = %d, want 4", desc.CollectionDesc[0].InputLength)
	}
}

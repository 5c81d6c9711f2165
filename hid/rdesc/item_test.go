package rdesc

import "testing"

func TestItemReaderSizes(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want item
	}{
		{
			name: "zero-size global item",
			data: []byte{0xA4}, // Push: tag 0xA, type Global=1, size 0
			want: item{Tag: 0xA, Type: ItemGlobal, Size: 0, Raw: 0, Signed: 0, Offset: 0},
		},
		{
			name: "one-byte item",
			data: []byte{0x15, 0x80}, // Logical Minimum, 1 byte, -128
			want: item{Tag: 0x1, Type: ItemGlobal, Size: 1, Raw: 0x80, Signed: -128, Offset: 0},
		},
		{
			name: "two-byte item",
			data: []byte{0x26, 0xFF, 0x00}, // Logical Maximum, 2 bytes, 255
			want: item{Tag: 0x2, Type: ItemGlobal, Size: 2, Raw: 255, Signed: 255, Offset: 0},
		},
		{
			name: "four-byte item",
			data: []byte{0x37, 0x01, 0x00, 0x00, 0x01}, // Physical Maximum, 4 bytes
			want: item{Tag: 0x3, Type: ItemGlobal, Size: 4, Raw: 0x01000001, Signed: 0x01000001, Offset: 0},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newItemReader(c.data)
			got, err := r.next()
			if err != nil {
				t.Fatalf("next() error = %v", err)
			}
			if got != c.want {
				t.Fatalf("next() = %+v, want %+v", got, c.want)
			}
			if _, err := r.next(); err != errEOF {
				t.Fatalf("second next() error = %v, want errEOF", err)
			}
		})
	}
}

func TestItemReaderTruncated(t *testing.T) {
	r := newItemReader([]byte{0x26, 0x01}) // claims 2 bytes, only 1 present
	_, err := r.next()
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error = %v (%T), want *ParseError", err, err)
	}
	if pe.Kind != DescriptorTruncated {
		t.Fatalf("Kind = %v, want DescriptorTruncated", pe.Kind)
	}
}

func TestItemReaderLongItemRejected(t *testing.T) {
	r := newItemReader([]byte{0xFE, 0x02, 0x00, 0xAA, 0xBB})
	_, err := r.next()
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error = %v (%T), want *ParseError", err, err)
	}
	if pe.Kind != UnknownTag {
		t.Fatalf("Kind = %v, want UnknownTag", pe.Kind)
	}
}

func TestSignExtend(t *testing.T) {
	cases := []struct {
		raw  uint32
		size int
		want int32
	}{
		{0xFF, 1, -1},
		{0x7F, 1, 127},
		{0xFFFF, 2, -1},
		{0x7FFF, 2, 32767},
		{0xFFFFFFFF, 4, -1},
	}
	for _, c := range cases {
		if got := signExtend(c.raw, c.size); got != c.want {
			t.Errorf("signExtend(%#x, %d) = %d, want %d", c.raw, c.size, got, c.want)
		}
	}
}

package rdesc

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// preparsedMagic identifies a serialized PreparsedData blob. It has no
// meaning beyond letting a caller sanity-check a byte slice before
// handing it to DeserializePreparsedData.
const preparsedMagic = 0x48_49_44_50 // "HIDP"

// Allocator supplies backing storage for a PreparsedData's serialized
// blob. Parsing itself never fails for want of memory on the Go heap;
// this exists so a host embedding the parser in its own arena- or
// pool-managed allocation discipline can plug in its own exhaustion
// policy instead of always falling back to the garbage collector, the
// way the caller-supplied pool handle works in spec.md §5's allocator
// contract.
type Allocator interface {
	// Alloc returns a zeroed byte slice of length n, or an error if
	// the allocator refuses the request.
	Alloc(n int) ([]byte, error)
	// Free releases a slice previously returned by Alloc. Implementations
	// that rely on the garbage collector may treat this as a no-op.
	Free(b []byte)
}

// GCAllocator is the default Allocator: ordinary Go heap allocation
// via make(), which never fails and needs no explicit Free.
type GCAllocator struct{}

func (GCAllocator) Alloc(n int) ([]byte, error) { return make([]byte, n), nil }
func (GCAllocator) Free([]byte)                 {}

// blobHeader is the fixed, position-independent prefix of a
// serialized PreparsedData, per spec.md §3.2 and §6.3.
type blobHeader struct {
	Magic     uint32
	Size      uint32
	UsagePage uint16
	Usage     uint16

	InputCapsStart        uint16
	InputCapsCount        uint16
	InputCapsEnd          uint16
	InputReportByteLength uint16

	OutputCapsStart        uint16
	OutputCapsCount        uint16
	OutputCapsEnd          uint16
	OutputReportByteLength uint16

	FeatureCapsStart        uint16
	FeatureCapsCount        uint16
	FeatureCapsEnd          uint16
	FeatureReportByteLength uint16

	NumberLinkCollectionNodes uint16
	_                         uint16 // pad to a 4-byte boundary
}

// PreparsedData is the decoded form of the opaque blob spec.md §3.2
// describes: a fixed header plus the three per-direction capability
// arrays and the collection array. Callers that need the literal
// relocatable byte block (e.g. to hand to another process) use
// Serialize.
type PreparsedData struct {
	UsagePage uint16
	Usage     uint16

	InputCaps   []ValueCaps
	OutputCaps  []ValueCaps
	FeatureCaps []ValueCaps

	Collections []CollectionNode

	alloc Allocator
	blob  []byte

	// hasReportTracking, reportByteLen and reportIDUsed mirror
	// ParserState's bit-cursor bookkeeping (layout.go): the per
	// (direction, reportID) byte length computed while walking the
	// descriptor, including the report-ID prefix reservation and Main
	// items with report_count == 0 that never emit a ValueCaps. Only
	// present on data returned by build(); DeserializePreparsedData
	// leaves hasReportTracking false since the wire format carries no
	// such breakdown, and Describe/directionLength fall back to
	// recomputing from the capability arrays.
	hasReportTracking bool
	reportByteLen     [numDirections][256]uint32
	reportIDUsed      [256]bool
}

// Caps returns the capability array for the given direction.
func (p *PreparsedData) Caps(dir Direction) []ValueCaps {
	switch dir {
	case Input:
		return p.InputCaps
	case Output:
		return p.OutputCaps
	case Feature:
		return p.FeatureCaps
	default:
		return nil
	}
}

// ButtonCaps returns the subset of dir's capabilities flagged
// IS_BUTTON — the split real callers need from HidP_GetButtonCaps
// without this package interpreting live reports (spec.md §1, out of
// scope). Pure classification over already-built ValueCaps; adds no
// parsing logic.
func (p *PreparsedData) ButtonCaps(dir Direction) []ValueCaps {
	return filterCaps(p.Caps(dir), func(c *ValueCaps) bool { return c.IsButton() })
}

// ValueCapsOnly returns the subset of dir's capabilities NOT flagged
// IS_BUTTON, mirroring HidP_GetValueCaps.
func (p *PreparsedData) ValueCapsOnly(dir Direction) []ValueCaps {
	return filterCaps(p.Caps(dir), func(c *ValueCaps) bool { return !c.IsButton() })
}

func filterCaps(caps []ValueCaps, keep func(*ValueCaps) bool) []ValueCaps {
	out := make([]ValueCaps, 0, len(caps))
	for i := range caps {
		if keep(&caps[i]) {
			out = append(out, caps[i])
		}
	}
	return out
}

// Release returns the PreparsedData's allocated blob (if any) to its
// Allocator, mirroring spec.md §6.1's free_collection_description
// contract: the blob is freed through the same allocator that built
// it.
func (p *PreparsedData) Release() {
	if p.alloc != nil && p.blob != nil {
		p.alloc.Free(p.blob)
		p.blob = nil
	}
}

// build runs the PreparsedBuilder step (spec.md §4.6): it packs the
// accumulated capability and collection arrays, plus the top-level
// usage identity latched during collection processing, into a
// PreparsedData.
func (st *ParserState) build(alloc Allocator) (*PreparsedData, error) {
	return &PreparsedData{
		UsagePage:   st.TopUsagePage,
		Usage:       st.TopUsage,
		InputCaps:   st.caps[Input],
		OutputCaps:  st.caps[Output],
		FeatureCaps: st.caps[Feature],
		Collections: st.collections,
		alloc:       alloc,

		hasReportTracking: true,
		reportByteLen:     st.reportByteLen,
		reportIDUsed:      st.reportIDUsed,
	}, nil
}

// directionLength returns the byte length dir's report buffer needs
// across every report ID the descriptor uses, preferring the
// cursor-tracked lengths and falling back to the capability-only
// computation for data that crossed DeserializePreparsedData.
func (p *PreparsedData) directionLength(dir Direction) uint32 {
	if !p.hasReportTracking {
		return maxReportByteLength(p.Caps(dir))
	}
	var max uint32
	for id := 0; id < 256; id++ {
		if p.reportIDUsed[id] {
			if n := p.reportByteLen[dir][id]; n > max {
				max = n
			}
		}
	}
	return max
}

// Serialize packs p into the wire format spec.md §6.3 describes: a
// fixed header followed by the four capability arrays concatenated in
// input/output/feature/collection order. The result is allocated
// through p's Allocator (GCAllocator if none was supplied to Parse).
func (p *PreparsedData) Serialize() ([]byte, error) {
	hdr := blobHeader{
		Magic:     preparsedMagic,
		UsagePage: p.UsagePage,
		Usage:     p.Usage,

		InputCapsStart:        0,
		InputCapsCount:        uint16(len(p.InputCaps)),
		InputCapsEnd:          uint16(len(p.InputCaps)),
		InputReportByteLength: uint16(p.directionLength(Input)),

		OutputCapsCount:        uint16(len(p.OutputCaps)),
		OutputReportByteLength: uint16(p.directionLength(Output)),

		FeatureCapsCount:        uint16(len(p.FeatureCaps)),
		FeatureReportByteLength: uint16(p.directionLength(Feature)),

		NumberLinkCollectionNodes: uint16(len(p.Collections)),
	}
	hdr.OutputCapsStart = hdr.InputCapsEnd
	hdr.OutputCapsEnd = hdr.OutputCapsStart + hdr.OutputCapsCount
	hdr.FeatureCapsStart = hdr.OutputCapsEnd
	hdr.FeatureCapsEnd = hdr.FeatureCapsStart + hdr.FeatureCapsCount

	var buf bytes.Buffer
	for _, v := range []any{hdr, p.InputCaps, p.OutputCaps, p.FeatureCaps, p.Collections} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("hid report descriptor: serialize preparsed data: %w", err)
		}
	}
	size := buf.Len()

	alloc := p.alloc
	if alloc == nil {
		alloc = GCAllocator{}
	}
	blob, err := alloc.Alloc(size)
	if err != nil {
		return nil, &ParseError{Kind: AllocFailure}
	}
	copy(blob, buf.Bytes())
	binary.LittleEndian.PutUint32(blob[4:8], uint32(size))
	p.blob = blob
	return blob, nil
}

func maxReportByteLength(caps []ValueCaps) uint32 {
	var max uint32
	for i := range caps {
		if n := ceilBits(caps[i].EndBit()); n > max {
			max = n
		}
	}
	return max
}

// DeserializePreparsedData decodes a blob previously produced by
// Serialize. It is the inverse operation used when a preparsed blob
// crosses a process boundary, per spec.md §6.3's "relocatable,
// self-contained byte block".
func DeserializePreparsedData(blob []byte) (*PreparsedData, error) {
	r := bytes.NewReader(blob)
	var hdr blobHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("hid report descriptor: deserialize preparsed data: %w", err)
	}
	if hdr.Magic != preparsedMagic {
		return nil, fmt.Errorf("hid report descriptor: deserialize preparsed data: bad magic %#x", hdr.Magic)
	}
	readCaps := func(n uint16) ([]ValueCaps, error) {
		out := make([]ValueCaps, n)
		if n == 0 {
			return out, nil
		}
		if err := binary.Read(r, binary.LittleEndian, out); err != nil {
			return nil, err
		}
		return out, nil
	}
	inputCaps, err := readCaps(hdr.InputCapsCount)
	if err != nil {
		return nil, err
	}
	outputCaps, err := readCaps(hdr.OutputCapsCount)
	if err != nil {
		return nil, err
	}
	featureCaps, err := readCaps(hdr.FeatureCapsCount)
	if err != nil {
		return nil, err
	}
	collections := make([]CollectionNode, hdr.NumberLinkCollectionNodes)
	if hdr.NumberLinkCollectionNodes > 0 {
		if err := binary.Read(r, binary.LittleEndian, collections); err != nil {
			return nil, err
		}
	}
	return &PreparsedData{
		UsagePage:   hdr.UsagePage,
		Usage:       hdr.Usage,
		InputCaps:   inputCaps,
		OutputCaps:  outputCaps,
		FeatureCaps: featureCaps,
		Collections: collections,
	}, nil
}

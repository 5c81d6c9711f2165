package rdesc

import "encoding/binary"

// Precomputed wire sizes of the fixed-width records making up a
// serialized blob, used to report PreparsedDataLength without paying
// for a full Serialize.
var (
	valueCapsWireSize      = binary.Size(ValueCaps{})
	collectionNodeWireSize = binary.Size(CollectionNode{})
	blobHeaderWireSize     = binary.Size(blobHeader{})
)

// CollectionDesc summarizes one top-level collection: its usage
// identity, the per-direction byte length a report buffer for it needs,
// and the PreparsedData backing it. spec.md §6.4 describes an array of
// these; this implementation only ever latches the outermost
// collection (collection number 1), so the array built by
// GetCollectionDescription always has exactly one entry.
type CollectionDesc struct {
	UsagePage           uint16
	Usage               uint16
	CollectionNumber    uint8
	InputLength         uint16
	OutputLength        uint16
	FeatureLength       uint16
	PreparsedDataLength uint32
	PreparsedData       *PreparsedData
}

// ReportIDDesc is one row of DeviceDescription.ReportIDs: the
// per-direction byte length reserved for one report ID, per spec.md
// §4.7.
type ReportIDDesc struct {
	ReportID         ReportID
	CollectionNumber uint8
	InputLength      uint16
	OutputLength     uint16
	FeatureLength    uint16
}

// DeviceDescription is the CollectionDescriber's output (spec.md §4.7,
// §6.4): the top-level collection summary plus one row per report ID
// actually used anywhere in the descriptor.
type DeviceDescription struct {
	CollectionDesc []CollectionDesc
	ReportIDs      []ReportIDDesc
}

// Describe runs the CollectionDescriber over an already-parsed
// PreparsedData, producing the same summary GetCollectionDescription
// returns from raw bytes.
func (p *PreparsedData) Describe() *DeviceDescription {
	desc := &DeviceDescription{
		CollectionDesc: []CollectionDesc{{
			UsagePage:           p.UsagePage,
			Usage:               p.Usage,
			CollectionNumber:    1,
			InputLength:         uint16(p.directionLength(Input)),
			OutputLength:        uint16(p.directionLength(Output)),
			FeatureLength:       uint16(p.directionLength(Feature)),
			PreparsedDataLength: uint32(p.wireSize()),
			PreparsedData:       p,
		}},
	}

	if p.hasReportTracking {
		// Cursor-tracked lengths (layout.go), computed while walking
		// the descriptor: these include report IDs whose only Main
		// item has report_count == 0, which emit no ValueCaps and so
		// would otherwise never appear below.
		for id := 0; id < 256; id++ {
			if !p.reportIDUsed[id] {
				continue
			}
			desc.ReportIDs = append(desc.ReportIDs, ReportIDDesc{
				ReportID:         ReportID(id),
				CollectionNumber: 1,
				InputLength:      uint16(p.reportByteLen[Input][id]),
				OutputLength:     uint16(p.reportByteLen[Output][id]),
				FeatureLength:    uint16(p.reportByteLen[Feature][id]),
			})
		}
		return desc
	}

	// p crossed DeserializePreparsedData, which carries only the
	// capability arrays: fall back to deriving report IDs and lengths
	// from them directly.
	var seen [256]bool
	var lengths [256][numDirections]uint32

	record := func(dir Direction, caps []ValueCaps) {
		for i := range caps {
			id := caps[i].ReportID
			seen[id] = true
			if n := ceilBits(caps[i].EndBit()); n > lengths[id][dir] {
				lengths[id][dir] = n
			}
		}
	}
	record(Input, p.InputCaps)
	record(Output, p.OutputCaps)
	record(Feature, p.FeatureCaps)

	for id := 0; id < 256; id++ {
		if !seen[id] {
			continue
		}
		l := lengths[id]
		desc.ReportIDs = append(desc.ReportIDs, ReportIDDesc{
			ReportID:         ReportID(id),
			CollectionNumber: 1,
			InputLength:      uint16(l[Input]),
			OutputLength:     uint16(l[Output]),
			FeatureLength:    uint16(l[Feature]),
		})
	}
	return desc
}

func (p *PreparsedData) wireSize() int {
	return blobHeaderWireSize +
		(len(p.InputCaps)+len(p.OutputCaps)+len(p.FeatureCaps))*valueCapsWireSize +
		len(p.Collections)*collectionNodeWireSize
}

// GetCollectionDescription is the spec.md §6.1 entry point that goes
// straight from raw descriptor bytes to a DeviceDescription, the way a
// caller that only wants the summary (not the full PreparsedData) would
// use it. alloc may be nil to use GCAllocator.
func GetCollectionDescription(data []byte, alloc Allocator) (*DeviceDescription, error) {
	p, err := Parse(data, alloc, nil)
	if err != nil {
		return nil, err
	}
	return p.Describe(), nil
}

// GetCollectionDescriptionFiltered is GetCollectionDescription
// restricted to descriptors whose outermost collection matches the
// given usage page and usage. A usagePage or usage of 0 matches any
// value in that field. This is a supplement over the original API
// surface: enumerating several hidraw nodes and keeping only the ones
// claiming, say, a Generic Desktop Mouse collection is a common enough
// filter that callers shouldn't have to parse-then-check by hand.
func GetCollectionDescriptionFiltered(data []byte, alloc Allocator, usagePage, usage uint16) (*DeviceDescription, error) {
	p, err := Parse(data, alloc, nil)
	if err != nil {
		return nil, err
	}
	if usagePage != 0 && p.UsagePage != usagePage {
		return nil, errUsageMismatch
	}
	if usage != 0 && p.Usage != usage {
		return nil, errUsageMismatch
	}
	return p.Describe(), nil
}

var errUsageMismatch = errSentinel("hid report descriptor: top-level collection usage does not match filter")

package rdesc

// Main item tags.
const (
	tagInput = 0x8
	tagOutput = 0x9
	tagCollection = 0xA
	tagFeature = 0xB
	tagEndCollection = 0xC
)

// Global item tags.
const (
	tagUsagePage = 0x0
	tagLogicalMinimum = 0x1
	tagLogicalMaximum = 0x2
	tagPhysicalMinimum = 0x3
	tagPhysicalMaximum = 0x4
	tagUnitExponent = 0x5
	tagUnit = 0x6
	tagReportSize = 0x7
	tagReportID = 0x8
	tagReportCount = 0x9
	tagPush = 0xA
	tagPop = 0xB
)

// Local item tags.
const (
	tagUsage = 0x0
	tagUsageMinimum = 0x1
	tagUsageMaximum = 0x2
	tagDesignatorIndex = 0x3
	tagDesignatorMinimum = 0x4
	tagDesignatorMaximum = 0x5
	tagStringIndex = 0x7
	tagStringMinimum = 0x8
	tagStringMaximum = 0x9
	tagDelimiter = 0xA
)

// Main item data-bit meanings, shared by Input/Output/Feature. Output
// and Feature additionally define bits 7 (Volatile) and 8 (Buffered
// Bytes); Input items never set them.
const (
	bitConstant   = 1 << 0 // 0 = Data, 1 = Constant
	bitVariable   = 1 << 1 // 0 = Array, 1 = Variable
	bitRelative   = 1 << 2 // 0 = Absolute, 1 = Relative
	bitWrap       = 1 << 3
	bitNonLinear  = 1 << 4
	bitNoPreferred = 1 << 5
	bitNullState  = 1 << 6
	bitVolatile   = 1 << 7
	bitBufferedBytes = 1 << 8
)

// CollectionType is the data value of a COLLECTION Main item.
type CollectionType uint8

const (
	CollectionPhysical CollectionType = iota
	CollectionApplication
	CollectionLogical
	CollectionReport
	CollectionNamedArray
	CollectionUsageSwitch
	CollectionUsageModifier
)

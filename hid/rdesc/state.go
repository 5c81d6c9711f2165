package rdesc

import "log"

// globalItems is the "global subset" of parser state: the fields that
// GLOBAL_PUSH copies onto the global stack and GLOBAL_POP restores.
// See spec.md §4.2.
type globalItems struct {
	UsagePage    uint16
	LogicalMin   int32
	LogicalMax   int32
	PhysicalMin  int32
	PhysicalMax  int32
	UnitExponent int32
	Unit         uint32
	ReportSize   uint8
	ReportID     ReportID
	ReportCount  uint16
}

// itemState is everything a Main item reads from when it is emitted:
// the global subset, plus the enclosing collection's link identity,
// which is not part of the pushable subset.
type itemState struct {
	globalItems
	LinkCollection uint16
	LinkUsagePage  uint16
	LinkUsage      uint16
}

// usageSlots holds up to 256 local usage entries, shared by the usage,
// designator, and string local-item models (spec.md §4.3). In list
// mode every slot 0..size-1 is a single usage (min == max). In range
// mode only slot 0 is valid and min/max bound the range.
type usageSlots struct {
	page    [256]uint16
	min     [256]uint16
	max     [256]uint16
	size    int
	isRange bool
}

func (s *usageSlots) clear() { *s = usageSlots{} }

// addUsage appends one USAGE entry (list mode), resetting to list mode
// first if the set was left in range mode by a prior
// Minimum/Maximum pair.
func (s *usageSlots) addUsage(page, val uint16) error {
	if s.isRange {
		s.size = 0
		s.isRange = false
	}
	if s.size >= len(s.min) {
		return errUsageOverflow
	}
	s.page[s.size] = page
	s.min[s.size] = val
	s.max[s.size] = val
	s.size++
	return nil
}

func (s *usageSlots) setMinimum(page, val uint16) {
	prevMax := uint16(0)
	if s.size > 0 {
		prevMax = s.max[0]
	}
	s.page[0] = page
	s.min[0] = val
	s.max[0] = prevMax
	s.size = 1
	s.isRange = true
}

func (s *usageSlots) setMaximum(page, val uint16) {
	prevMin := uint16(0)
	if s.size > 0 {
		prevMin = s.min[0]
	}
	s.page[0] = page
	s.min[0] = prevMin
	s.max[0] = val
	s.size = 1
	s.isRange = true
}

// errUsageOverflow is a private sentinel translated to a ParseError at
// the call site, where the offending item's offset is known.
var errUsageOverflow = errSentinel("usage overflow")

// collectionLink is the (link_collection, link_usage_page, link_usage)
// triple saved on the collection stack by COLLECTION and restored by
// END_COLLECTION. See spec.md §4.4.
type collectionLink struct {
	Collection uint16
	UsagePage  uint16
	Usage      uint16
}

// CollectionNode is one entry of the preparsed collection array: the
// identity and nesting parent of one COLLECTION item.
type CollectionNode struct {
	Type           CollectionType
	UsagePage      uint16
	Usage          uint16
	Parent         uint16
	ParentUsagePage uint16
	ParentUsage    uint16
}

// maxNestingDepth bounds the global-item and collection stacks. The
// grammar allows unbounded PUSH/COLLECTION nesting in principle; a cap
// turns a pathological or corrupt descriptor into a clean
// StackOverflow instead of unbounded memory growth.
const maxNestingDepth = 1024

// ParserState is the live state of one parse: global items, local
// items, the two stacks, and the accumulators for each report
// direction. It is created by Parse, mutated by every item, and
// discarded once Parse returns — see spec.md §3.3.
type ParserState struct {
	logger *log.Logger

	items itemState

	globalStack     []globalItems
	collectionStack []collectionLink

	usages      usageSlots
	designators usageSlots
	strings     usageSlots

	caps        [numDirections][]ValueCaps
	collections []CollectionNode

	bitCursor     [numDirections][256]uint32
	reportByteLen [numDirections][256]uint32
	reportIDUsed  [256]bool
	nextDataIndex [numDirections]uint16

	// TopUsagePage/TopUsage are latched from the first (outermost)
	// COLLECTION item, per spec.md §4.4 step 4.
	TopUsagePage uint16
	TopUsage     uint16

	sawWarning bool
}

func newParserState(logger *log.Logger) *ParserState {
	if logger == nil {
		logger = log.Default()
	}
	return &ParserState{
		logger:          logger,
		globalStack:     make([]globalItems, 0, 32),
		collectionStack: make([]collectionLink, 0, 32),
	}
}

func (st *ParserState) warnf(format string, args ...any) {
	st.sawWarning = true
	st.logger.Printf("hid report descriptor: "+format, args...)
}

// clearLocal resets every local-item model. Every Main item and every
// COLLECTION/END_COLLECTION clears local state (spec.md §4.3, §4.4).
func (st *ParserState) clearLocal() {
	st.usages.clear()
	st.designators.clear()
	st.strings.clear()
}

func (st *ParserState) handleItem(it item) error {
	switch it.Type {
	case ItemGlobal:
		return st.handleGlobal(it)
	case ItemLocal:
		return st.handleLocal(it)
	case ItemMain:
		return st.handleMain(it)
	default:
		return fatal(UnknownTag, it.Offset)
	}
}

func (st *ParserState) handleGlobal(it item) error {
	switch it.Tag {
	case tagUsagePage:
		st.items.UsagePage = uint16(it.Raw)
	case tagLogicalMinimum:
		st.items.LogicalMin = it.Signed
	case tagLogicalMaximum:
		st.items.LogicalMax = it.Signed
	case tagPhysicalMinimum:
		st.items.PhysicalMin = it.Signed
	case tagPhysicalMaximum:
		st.items.PhysicalMax = it.Signed
	case tagUnitExponent:
		st.items.UnitExponent = it.Signed
	case tagUnit:
		st.items.Unit = it.Raw
	case tagReportSize:
		st.items.ReportSize = uint8(it.Raw)
	case tagReportID:
		st.items.ReportID = ReportID(it.Raw)
	case tagReportCount:
		st.items.ReportCount = uint16(it.Raw)
	case tagPush:
		if len(st.globalStack) >= maxNestingDepth {
			return fatal(StackOverflow, it.Offset)
		}
		st.globalStack = append(st.globalStack, st.items.globalItems)
	case tagPop:
		n := len(st.globalStack)
		if n == 0 {
			st.warnf("GLOBAL POP with empty stack at offset %d", it.Offset)
			return nil
		}
		st.items.globalItems = st.globalStack[n-1]
		st.globalStack = st.globalStack[:n-1]
	default:
		return fatal(UnknownTag, it.Offset)
	}
	return nil
}

func (st *ParserState) handleLocal(it item) error {
	page := st.items.UsagePage
	switch it.Tag {
	case tagUsage:
		usagePage := page
		val := uint16(it.Raw)
		if it.Size > 2 {
			// A 32-bit USAGE packs the page into the high word; 0
			// there means "inherit the current global page".
			if hi := uint16(it.Raw >> 16); hi != 0 {
				usagePage = hi
			}
			val = uint16(it.Raw)
		}
		if err := st.usages.addUsage(usagePage, val); err != nil {
			return fatal(UsageOverflow, it.Offset)
		}
	case tagUsageMinimum:
		usagePage := page
		val := uint16(it.Raw)
		if it.Size > 2 {
			if hi := uint16(it.Raw >> 16); hi != 0 {
				usagePage = hi
			}
		}
		st.usages.setMinimum(usagePage, val)
	case tagUsageMaximum:
		usagePage := page
		val := uint16(it.Raw)
		if it.Size > 2 {
			if hi := uint16(it.Raw >> 16); hi != 0 {
				usagePage = hi
			}
		}
		st.usages.setMaximum(usagePage, val)
	case tagDesignatorIndex:
		if err := st.designators.addUsage(0, uint16(it.Raw)); err != nil {
			return fatal(UsageOverflow, it.Offset)
		}
	case tagDesignatorMinimum:
		st.designators.setMinimum(0, uint16(it.Raw))
	case tagDesignatorMaximum:
		st.designators.setMaximum(0, uint16(it.Raw))
	case tagStringIndex:
		if err := st.strings.addUsage(0, uint16(it.Raw)); err != nil {
			return fatal(UsageOverflow, it.Offset)
		}
	case tagStringMinimum:
		st.strings.setMinimum(0, uint16(it.Raw))
	case tagStringMaximum:
		st.strings.setMaximum(0, uint16(it.Raw))
	case tagDelimiter:
		// Usage delimiters are deliberately unimplemented; see
		// spec.md §4.3 and §9.
		return fatal(UnknownTag, it.Offset)
	default:
		return fatal(UnknownTag, it.Offset)
	}
	return nil
}

func (st *ParserState) handleMain(it item) error {
	switch it.Tag {
	case tagInput:
		return st.emitMain(Input, uint16(it.Raw))
	case tagOutput:
		return st.emitMain(Output, uint16(it.Raw))
	case tagFeature:
		return st.emitMain(Feature, uint16(it.Raw))
	case tagCollection:
		return st.beginCollection(CollectionType(it.Raw), it.Offset)
	case tagEndCollection:
		return st.endCollection(it.Offset)
	default:
		return fatal(UnknownTag, it.Offset)
	}
}

func (st *ParserState) beginCollection(typ CollectionType, offset int) error {
	if len(st.collectionStack) >= maxNestingDepth {
		return fatal(StackOverflow, offset)
	}
	st.collectionStack = append(st.collectionStack, collectionLink{
		Collection: st.items.LinkCollection,
		UsagePage:  st.items.LinkUsagePage,
		Usage:      st.items.LinkUsage,
	})

	n := uint16(len(st.collections))
	usage := uint16(0)
	if st.usages.size > 0 {
		usage = st.usages.min[0]
	}
	node := CollectionNode{
		Type:            typ,
		UsagePage:       st.items.UsagePage,
		Usage:           usage,
		Parent:          st.items.LinkCollection,
		ParentUsagePage: st.items.LinkUsagePage,
		ParentUsage:     st.items.LinkUsage,
	}
	st.collections = append(st.collections, node)

	st.items.LinkCollection = n
	st.items.LinkUsagePage = st.items.UsagePage
	st.items.LinkUsage = usage

	if n == 0 {
		st.TopUsagePage = st.items.UsagePage
		st.TopUsage = usage
	}

	st.clearLocal()
	return nil
}

func (st *ParserState) endCollection(offset int) error {
	n := len(st.collectionStack)
	if n == 0 {
		st.warnf("END_COLLECTION with empty stack at offset %d", offset)
		st.clearLocal()
		return nil
	}
	top := st.collectionStack[n-1]
	st.collectionStack = st.collectionStack[:n-1]
	st.items.LinkCollection = top.Collection
	st.items.LinkUsagePage = top.UsagePage
	st.items.LinkUsage = top.Usage
	st.clearLocal()
	return nil
}

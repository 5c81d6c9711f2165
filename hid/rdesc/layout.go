package rdesc

// emitMain expands one Input/Output/Feature Main item into zero or
// more ValueCaps records, per spec.md §4.5.
func (st *ParserState) emitMain(dir Direction, bitField uint16) error {
	g := st.items.globalItems
	reportID := g.ReportID
	size := uint32(g.ReportSize)
	count := uint32(g.ReportCount)

	cursor := &st.bitCursor[dir][reportID]
	if *cursor == 0 && reportID != 0 {
		// Byte 0 of every report using a nonzero report ID is reserved
		// for the ID prefix. A descriptor that never declares
		// REPORT_ID lays its single report out starting at bit 0.
		*cursor = 8
	}
	*cursor += size * count
	if got := ceilBits(uint64(*cursor)); got > st.reportByteLen[dir][reportID] {
		st.reportByteLen[dir][reportID] = got
	}
	// Mark the ID touched even when count == 0 below emits no ValueCaps:
	// the cursor (and, for a nonzero ID, its prefix-byte reservation)
	// still moved, so the ID still needs a ReportIDs[] entry.
	st.reportIDUsed[reportID] = true

	isAbsolute := bitField&bitRelative == 0
	isConstant := bitField&bitConstant != 0
	isArray := bitField&bitVariable == 0

	defer st.clearLocal()

	if count == 0 {
		return nil
	}

	fieldEnd := *cursor
	fieldStart := fieldEnd - size*count
	isButton := size == 1 || isArray

	U := st.usages.size
	if U == 0 {
		U = 1
	}

	var flags Flags
	if isAbsolute {
		flags |= FlagIsAbsolute
	}
	if isConstant {
		flags |= FlagIsConstant
	}
	if isButton {
		flags |= FlagIsButton
	}

	emit := func(usagePage, usageMin, usageMax uint16, startBit uint32, recCount uint32, more bool) {
		f := flags
		if usageMin != usageMax {
			f |= FlagIsRange
		}
		desigMin, desigMax := slotOrZero(&st.designators, 0)
		if st.designators.size > 0 {
			f |= st.designatorFlag()
		}
		strMin, strMax := slotOrZero(&st.strings, 0)
		if st.strings.size > 0 {
			f |= st.stringFlag()
		}
		if more {
			f |= FlagArrayHasMore
		}

		dataMin := st.nextDataIndex[dir]
		dataMax := dataMin
		if usageMax >= usageMin {
			dataMax = dataMin + (usageMax - usageMin)
		}
		if usageMin != 0 || usageMax != 0 {
			st.nextDataIndex[dir] = dataMax + 1
		}

		rec := ValueCaps{
			UsagePage:      usagePage,
			UsageMin:       usageMin,
			UsageMax:       usageMax,
			ReportID:       reportID,
			StartByte:      startBit / 8,
			StartBit:       uint8(startBit % 8),
			BitSize:        uint8(size),
			ReportCount:    uint16(recCount),
			LogicalMin:     g.LogicalMin,
			LogicalMax:     g.LogicalMax,
			PhysicalMin:    g.PhysicalMin,
			PhysicalMax:    g.PhysicalMax,
			Units:          g.Unit,
			UnitsExp:       g.UnitExponent,
			DataIndexMin:   dataMin,
			DataIndexMax:   dataMax,
			DesignatorMin:  desigMin,
			DesignatorMax:  desigMax,
			StringMin:      strMin,
			StringMax:      strMax,
			LinkCollection: st.items.LinkCollection,
			LinkUsagePage:  st.items.LinkUsagePage,
			LinkUsage:      st.items.LinkUsage,
			BitField:       bitField,
			Flags:          f,
		}
		st.caps[dir] = append(st.caps[dir], rec)
	}

	if !isArray {
		// Variable: one record per usage slot, walking from the last
		// slot to the first. The first record processed (the last
		// usage slot) absorbs whatever is left of the Main item's
		// report count once every other slot has claimed one bit
		// group; see spec.md §4.5 step 7 and §9's open question about
		// what happens when count < U.
		signedRemaining := int64(count) - int64(U-1)
		if signedRemaining < 0 {
			st.warnf("variable Main item has report_count %d < usage count %d; clamping", count, U)
			signedRemaining = 0
		}
		remaining := uint32(signedRemaining)
		bit := fieldEnd
		for i := U - 1; i >= 0; i-- {
			recCount := uint32(1)
			if i == U-1 {
				recCount = remaining
			}
			bit -= size * recCount
			page, min, max := usageTriple(&st.usages, i)
			emit(page, min, max, bit, recCount, false)
		}
		return nil
	}

	// Array: U records share one base position and the Main item's
	// full report count; all but the last carry ARRAY_HAS_MORE.
	for i := 0; i < U; i++ {
		page, min, max := usageTriple(&st.usages, i)
		emit(page, min, max, fieldStart, count, i < U-1)
	}
	return nil
}

func usageTriple(s *usageSlots, i int) (page, min, max uint16) {
	if i < s.size {
		return s.page[i], s.min[i], s.max[i]
	}
	return 0, 0, 0
}

func slotOrZero(s *usageSlots, i int) (min, max uint16) {
	if i < s.size {
		return s.min[i], s.max[i]
	}
	return 0, 0
}

func (st *ParserState) designatorFlag() Flags {
	if st.designators.isRange {
		return FlagIsDesignatorRange
	}
	return 0
}

func (st *ParserState) stringFlag() Flags {
	if st.strings.isRange {
		return FlagIsStringRange
	}
	return 0
}

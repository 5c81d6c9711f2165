package rdesc

import "testing"

func TestUsageSlotsListMode(t *testing.T) {
	var s usageSlots
	if err := s.addUsage(0x01, 0x30); err != nil {
		t.Fatalf("addUsage() error = %v", err)
	}
	if err := s.addUsage(0x01, 0x31); err != nil {
		t.Fatalf("addUsage() error = %v", err)
	}
	if s.size != 2 || s.isRange {
		t.Fatalf("size=%d isRange=%v, want 2/false", s.size, s.isRange)
	}
	page, min, max := usageTriple(&s, 0)
	if page != 0x01 || min != 0x30 || max != 0x30 {
		t.Errorf("slot 0 = (%#x,%d,%d), want (0x01,0x30,0x30)", page, min, max)
	}
}

func TestUsageSlotsRangeMode(t *testing.T) {
	var s usageSlots
	s.setMinimum(0x09, 1)
	s.setMaximum(0x09, 3)
	if !s.isRange || s.size != 1 {
		t.Fatalf("isRange=%v size=%d, want true/1", s.isRange, s.size)
	}
	_, min, max := usageTriple(&s, 0)
	if min != 1 || max != 3 {
		t.Errorf("range = [%d,%d], want [1,3]", min, max)
	}
}

func TestUsageSlotsAddAfterRangeResetsToList(t *testing.T) {
	var s usageSlots
	s.setMinimum(0x09, 1)
	s.setMaximum(0x09, 3)
	if err := s.addUsage(0x09, 5); err != nil {
		t.Fatalf("addUsage() error = %v", err)
	}
	if s.isRange {
		t.Fatalf("isRange = true after addUsage, want false")
	}
	if s.size != 1 {
		t.Fatalf("size = %d, want 1", s.size)
	}
}

func TestUsageSlotsOverflow(t *testing.T) {
	var s usageSlots
	for i := 0; i < 256; i++ {
		if err := s.addUsage(0x01, uint16(i)); err != nil {
			t.Fatalf("addUsage(%d) error = %v", i, err)
		}
	}
	if err := s.addUsage(0x01, 256); err != errUsageOverflow {
		t.Fatalf("addUsage() error = %v, want errUsageOverflow", err)
	}
}

func TestGlobalPushPop(t *testing.T) {
	st := newParserState(nil)
	st.items.UsagePage = 0x01
	st.items.ReportSize = 8

	if err := st.handleGlobal(item{Tag: tagPush, Type: ItemGlobal}); err != nil {
		t.Fatalf("push error = %v", err)
	}
	st.items.UsagePage = 0x09
	st.items.ReportSize = 1

	if err := st.handleGlobal(item{Tag: tagPop, Type: ItemGlobal}); err != nil {
		t.Fatalf("pop error = %v", err)
	}
	if st.items.UsagePage != 0x01 || st.items.ReportSize != 8 {
		t.Errorf("after pop: UsagePage=%#x ReportSize=%d, want 0x01/8", st.items.UsagePage, st.items.ReportSize)
	}
}

func TestGlobalPopEmptyStackWarnsAndContinues(t *testing.T) {
	st := newParserState(nil)
	if err := st.handleGlobal(item{Tag: tagPop, Type: ItemGlobal, Offset: 3}); err != nil {
		t.Fatalf("pop on empty stack returned error = %v, want nil", err)
	}
	if !st.sawWarning {
		t.Error("sawWarning = false, want true")
	}
}

func TestCollectionBeginEndLinksRestore(t *testing.T) {
	st := newParserState(nil)
	st.items.UsagePage = 0x01
	if err := st.usages.addUsage(0x01, 0x02); err != nil {
		t.Fatalf("addUsage() error = %v", err)
	}
	if err := st.beginCollection(CollectionApplication, 0); err != nil {
		t.Fatalf("beginCollection() error = %v", err)
	}
	if st.TopUsagePage != 0x01 || st.TopUsage != 0x02 {
		t.Errorf("TopUsagePage/TopUsage = %#x/%#x, want 0x01/0x02", st.TopUsagePage, st.TopUsage)
	}
	if st.items.LinkCollection != 0 {
		t.Errorf("LinkCollection = %d, want 0", st.items.LinkCollection)
	}

	st.items.UsagePage = 0x09
	if err := st.usages.addUsage(0x09, 0x01); err != nil {
		t.Fatalf("addUsage() error = %v", err)
	}
	if err := st.beginCollection(CollectionPhysical, 0); err != nil {
		t.Fatalf("beginCollection() error = %v", err)
	}
	if st.items.LinkCollection != 1 {
		t.Errorf("LinkCollection = %d, want 1", st.items.LinkCollection)
	}

	if err := st.endCollection(0); err != nil {
		t.Fatalf("endCollection() error = %v", err)
	}
	if st.items.LinkCollection != 0 || st.items.LinkUsagePage != 0x01 || st.items.LinkUsage != 0x02 {
		t.Errorf("after inner endCollection: link = (%d,%#x,%#x), want (0,0x01,0x02)",
			st.items.LinkCollection, st.items.LinkUsagePage, st.items.LinkUsage)
	}
	if len(st.collections) != 2 {
		t.Fatalf("len(collections) = %d, want 2", len(st.collections))
	}
	if st.collections[1].Parent != 0 || st.collections[1].ParentUsagePage != 0x01 {
		t.Errorf("collections[1] parent link = (%d,%#x), want (0,0x01)",
			st.collections[1].Parent, st.collections[1].ParentUsagePage)
	}
}

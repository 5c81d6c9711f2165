package rdesc

import "log"

// Parse walks a raw report descriptor and produces a PreparsedData,
// the internal parse_descriptor entry point from spec.md §6.1. A nil
// Allocator defaults to GCAllocator; a nil logger defaults to
// log.Default() and only ever receives non-fatal warnings: those from
// spec.md §7 (StackUnderflow, UnfinishedNesting) and the variable Main
// item whose report_count is below its usage count (layout.go).
//
// On error, no PreparsedData is returned and nothing the caller must
// free was allocated — ParserState and its stacks are local to this
// call and simply go out of scope.
func Parse(data []byte, alloc Allocator, logger *log.Logger) (*PreparsedData, error) {
	st := newParserState(logger)
	r := newItemReader(data)
	for {
		it, err := r.next()
		if err == errEOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := st.handleItem(it); err != nil {
			return nil, err
		}
	}
	if len(st.globalStack) != 0 || len(st.collectionStack) != 0 {
		st.warnf("descriptor ended with %d unpopped global item(s) and %d unclosed collection(s)",
			len(st.globalStack), len(st.collectionStack))
	}
	return st.build(alloc)
}

package heap

// Alloc is the heap's sole public allocation entry point (spec.md §4.1
// "alloc"). It never returns nil: if the available ratio has dropped
// below the configured pre-collection threshold (or CollectOnEveryAlloc
// is set), it runs a collection first; it then pops a cell from some
// block's free list, zeroes it, assigns class and tag, and returns it
// ready for the collaborator to populate via the variant-specific
// accessors in variant.go.
//
// Alloc is legal from any goroutine; only Collect is restricted to the
// designated mutator thread (spec.md §4.1 "Concurrency").
func (h *Heap) Alloc(class *Cell, tag VariantTag) *Cell {
	if h.cfg.CollectOnEveryAlloc {
		h.Collect()
	} else if h.AvailableRatio() < h.cfg.PreCollectRatio {
		h.Collect()
	}

	h.allocMu.Lock()
	cell := h.rawMalloc()
	h.allocMu.Unlock()

	cell.reset()
	cell.init(class, tag, newPayloadForTag(tag))
	return cell
}

// newPayloadForTag returns the zero-value payload appropriate to tag, so
// every live cell's payload is always non-nil and type-assertable to the
// variant's accessor type (variant.go).
func newPayloadForTag(tag VariantTag) payload {
	switch tag {
	case TagNil:
		return nilPayload{}
	case TagTrue:
		return truePayload{}
	case TagFalse:
		return falsePayload{}
	case TagInteger:
		return integerPayload{}
	case TagString:
		return stringPayload{}
	case TagSymbol:
		return symbolPayload{}
	case TagArray:
		return &arrayPayload{}
	case TagHash:
		return &hashPayload{}
	case TagRange:
		return &rangePayload{}
	case TagRegexp:
		return &regexpPayload{}
	case TagMatchData:
		return &matchDataPayload{}
	case TagIO:
		return ioPayload{}
	case TagProc:
		return &procPayload{}
	case TagThread:
		return &threadPayload{}
	case TagClass:
		return &classPayload{}
	case TagModule:
		return &modulePayload{}
	case TagException:
		return &exceptionPayload{}
	case TagEncoding:
		return &encodingPayload{}
	case TagOther:
		return otherPayload{}
	default:
		abort("alloc: unknown variant tag %d", tag)
		return nil
	}
}

package heap

// sweep walks every cell of every block. Marked cells are unmarked for
// the next cycle and left alone; unmarked, non-free, non-symbol cells
// are finalized (native resources released) and returned to their
// block's free list (spec.md §4.4). Symbol cells are exempt: they are
// interned and live for the process's lifetime regardless of
// reachability (spec.md §4.4 "Symbol exemption").
//
// Callers must hold h.allocMu for the duration (the free-list and
// cellsAvailable mutations it performs are the same ones Alloc touches).
func (h *Heap) sweep() {
	for block := h.blocks; block != nil; block = block.next {
		for i := range block.storage {
			cell := &block.storage[i]

			if cell.tag == TagFree {
				continue
			}
			if cell.marked {
				cell.marked = false
				continue
			}
			if cell.tag == TagSymbol {
				continue
			}

			finalize(cell)
			h.free(block, cell)
		}
	}
}

// free resets a cell to the free state and threads it onto block's free
// list, mirroring nat_gc_collect's sweep-time reclaim in the original
// source.
func (h *Heap) free(block *Block, cell *Cell) {
	cell.reset()
	cell.nextFree = block.freeList
	block.freeList = cell
	h.cellsAvailable++
}

// finalize releases every native resource a cell's variant owns, per
// the release table implied by spec.md §4.4 and the original source's
// object_dealloc-style type switch (e.g. onig_region_free/onig_free for
// regex state, spec.md §13). Resources are released before reset()
// drops the payload, since reset only clears Go-visible fields and
// never has a chance to see the payload again afterward.
func finalize(cell *Cell) {
	switch p := cell.payload.(type) {
	case stringPayload:
		release(p.CharBuffer)

	case *arrayPayload:
		release(p.Buffer)

	case *hashPayload:
		if p.keyList != nil {
			e := p.keyList
			for {
				release(e.entry)
				next := e.next
				e.next = nil
				if next == p.keyList {
					break
				}
				e = next
			}
		}
		release(p.Table)
		release(p.DefaultClosed)

	case *regexpPayload:
		release(p.Compiled)
		release(p.Source)

	case *matchDataPayload:
		release(p.Region)
		release(p.Captured)

	case *procPayload:
		release(p.Closure)

	case *classPayload:
		release(p.NameBuffer)
		release(p.MethodTable)
		release(p.IncludedModsBuf)

	case *modulePayload:
		release(p.NameBuffer)
		release(p.MethodTable)
		release(p.IncludedModsBuf)

	case *exceptionPayload:
		release(p.Message)
	}
}

func release(r NativeResource) {
	if r != nil {
		r.Release()
	}
}

package heap

// Collect runs one full mark-and-sweep cycle: gather roots and trace
// from them, sweep every block, then grow the heap by adding blocks
// until the available ratio reaches PostCollectRatio (spec.md §4,
// §6 "collect"). It is a silent no-op when called from any goroutine
// other than the one that called Init, or when the heap is disabled —
// the conservative stack scan would be scanning the wrong stack
// otherwise (spec.md §7, "silent no-op" error mode).
//
// Only one cycle runs at a time: collectMu guards the collecting flag,
// and a Collect that finds a cycle already in progress returns without
// collecting. allocMu is not held across the whole cycle: it is held
// while roots are gathered, released for tracing (other goroutines'
// Alloc calls may run concurrently while Collect is tracing, same as
// the rest of the time), and re-acquired for the sweep phase's
// free-list rebuild and the post-collection grow loop, since both
// mutate the same free lists and cellsAvailable Alloc touches.
func (h *Heap) Collect() {
	if !h.gcEnabled || !h.mutatorSet || !onMutatorThread(h.mutatorThread) {
		return
	}
	if h.cfg.Disabled {
		return
	}

	h.collectMu.Lock()
	if h.collecting {
		// Re-entrant call from within a finalizer or trace callback:
		// treat as a no-op rather than corrupt an in-progress cycle.
		h.collectMu.Unlock()
		return
	}
	h.collecting = true
	h.collectMu.Unlock()
	defer func() {
		h.collectMu.Lock()
		h.collecting = false
		h.collectMu.Unlock()
	}()

	h.allocMu.Lock()
	wl := newWorklist(int(h.cellsTotal-h.cellsAvailable) + 16)
	h.gatherRoots(wl)
	h.allocMu.Unlock()

	h.trace(wl)

	h.allocMu.Lock()
	h.sweep()
	for h.availableRatioLocked() < h.cfg.PostCollectRatio {
		h.allocateBlock()
	}
	h.allocMu.Unlock()

	h.stats.Collections++
}

// CollectAll unconditionally finalizes and frees every non-symbol,
// non-free cell in the heap, skipping the mark phase entirely. It is
// meant for process shutdown, where every cell is effectively
// unreachable regardless of what the stack or globals still point to
// (spec.md §13, "shutdown finalization").
func (h *Heap) CollectAll() {
	h.allocMu.Lock()
	defer h.allocMu.Unlock()

	for block := h.blocks; block != nil; block = block.next {
		for i := range block.storage {
			cell := &block.storage[i]
			if cell.tag == TagFree || cell.tag == TagSymbol {
				continue
			}
			finalize(cell)
			h.free(block, cell)
		}
	}
}

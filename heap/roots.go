package heap

import "github.com/nat-run/natheap/internal/collab"

// gatherRoots builds the tracer's initial worklist, in order, from the
// conservative stack scan, the pinned singletons, and the globals
// table. It does not walk an active environment chain: the heap holds
// no such chain, and environments are reached only as the inline or
// method closure environments of cells the tracer visits. Marking
// happens here too (push = mark-and-enqueue), so the tracer never has
// to re-check whether a root is already gray.
func (h *Heap) gatherRoots(wl *worklist) {
	h.scanConservative(currentStackPointer(), h.bottomOfStack, func(addr uintptr) {
		if !h.isHeapPtrLocked(addr) {
			return
		}
		cell := (*Cell)(ptrFromAddr(addr))
		h.pushRoot(cell, wl)
	})

	for _, singleton := range []*Cell{h.objectClass, h.integerClass, h.nilObj, h.trueObj, h.falseObj} {
		if singleton != nil {
			h.pushRoot(singleton, wl)
		}
	}

	if h.globals != nil {
		h.globals.Each(func(ref collab.CellRef) {
			h.pushRootRef(ref, wl)
		})
	}
}

// gatherEnv walks one environment chain (a cell's inline closure
// environment or a method's closure environment, as found by the
// tracer): every local variable slot, the frame's current exception,
// and recursively its outer frame. Grounded on the original source's
// nat_gc_gather_from_env.
func (h *Heap) gatherEnv(env collab.Environment, wl *worklist) {
	for env != nil {
		for _, v := range env.Vars() {
			h.pushRootRef(v, wl)
		}
		h.pushRootRef(env.Exception(), wl)
		env = env.Outer()
	}
}

// pushRootRef pushes a collab.CellRef that may be a tagged integer (in
// which case it is silently skipped, per invariant 7) or nil.
func (h *Heap) pushRootRef(ref collab.CellRef, wl *worklist) {
	if ref == nil || ref.IsTagged() {
		return
	}
	cell, ok := ref.(*Cell)
	if !ok {
		abort("root: collaborator returned a CellRef that is not *heap.Cell")
	}
	h.pushRoot(cell, wl)
}

// pushRoot validates and marks a root cell, aborting if it falls outside
// [minPtr, maxPtr] — the corruption check the original source's
// nat_gc_push_object performs before trusting a pointer (spec.md §4.2,
// §7).
func (h *Heap) pushRoot(cell *Cell, wl *worklist) {
	if cell == nil {
		return
	}
	addr := cellAddr(cell)
	if addr < cellAddr(h.minPtr) || addr > cellAddr(h.maxPtr) {
		abort("root: pointer %#x outside heap bounds [%#x, %#x]", addr, cellAddr(h.minPtr), cellAddr(h.maxPtr))
	}
	if cell.marked {
		return
	}
	cell.marked = true
	wl.push(cell)
}

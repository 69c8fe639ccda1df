package heap

import (
	"sync"

	"github.com/nat-run/natheap/internal/collab"
)

// Heap is the root structure a host runtime owns: the block list,
// address bounds, counters, the allocation mutex, the designated
// mutator thread identity, and the captured bottom-of-stack address
// (spec.md §3 "Heap", Design Notes "Globals as process-wide state").
// Multiple independent runtimes use multiple Heaps, never package-level
// globals.
type Heap struct {
	cfg Config

	allocMu sync.Mutex
	blocks  *Block
	minPtr  *Cell
	maxPtr  *Cell

	cellsTotal     uint64
	cellsAvailable uint64

	// collectMu guards collecting, so at most one Collect cycle runs at
	// a time, the way the allocation mutex guards the free lists. The
	// original source's enable flag is a plain bool racing with itself
	// under threads — flagged "FIXME: use a mutex" in spec.md §9 — this
	// is that fix. gcEnabled is not guarded by it: Init sets it once,
	// and Collect reads it before taking collectMu.
	collectMu sync.Mutex
	collecting bool
	gcEnabled  bool

	bottomOfStack uintptr
	mutatorThread threadID
	mutatorSet    bool

	// Pinned singletons (spec.md §4.2 item 3).
	objectClass  *Cell
	integerClass *Cell
	nilObj       *Cell
	trueObj      *Cell
	falseObj     *Cell

	globals collab.Globals

	stats Stats
}

// New constructs a Heap with the given options layered on
// DefaultConfig. It does not allocate any blocks or capture a mutator
// thread — call Init before the first Alloc.
func New(opts ...Option) (*Heap, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Heap{cfg: cfg}, nil
}

// Init captures the stack base and thread identity of the calling
// goroutine, which becomes the designated mutator thread permitted to
// run Collect (spec.md §6 "init"). Call it once, at startup, from that
// goroutine.
func (h *Heap) Init(bottomOfStack uintptr) {
	h.bottomOfStack = bottomOfStack
	h.mutatorThread = lockToCurrentThread()
	h.mutatorSet = true
	h.gcEnabled = true
}

// SetGlobals attaches the process-wide name->cell mapping the root
// enumerator walks (spec.md §4.2 item 4).
func (h *Heap) SetGlobals(g collab.Globals) { h.globals = g }

// SetPinnedSingletons attaches the always-rooted Object and Integer
// classes and the nil/true/false singleton values (spec.md §4.2 item 3).
func (h *Heap) SetPinnedSingletons(objectClass, integerClass, nilObj, trueObj, falseObj *Cell) {
	h.objectClass = objectClass
	h.integerClass = integerClass
	h.nilObj = nilObj
	h.trueObj = trueObj
	h.falseObj = falseObj
}

// CellsTotal returns the total number of cells across every block.
func (h *Heap) CellsTotal() uint64 {
	h.allocMu.Lock()
	defer h.allocMu.Unlock()
	return h.cellsTotal
}

// CellsAvailable returns the number of cells currently on some block's
// free list.
func (h *Heap) CellsAvailable() uint64 {
	h.allocMu.Lock()
	defer h.allocMu.Unlock()
	return h.cellsAvailable
}

// AvailableRatio returns cellsAvailable/cellsTotal (spec.md §6).
func (h *Heap) AvailableRatio() float64 {
	h.allocMu.Lock()
	defer h.allocMu.Unlock()
	return h.availableRatioLocked()
}

func (h *Heap) availableRatioLocked() float64 {
	if h.cellsTotal == 0 {
		return 0
	}
	return float64(h.cellsAvailable) / float64(h.cellsTotal)
}

// IsHeapPtr reports whether p is exactly the address of some cell in
// some block (spec.md §4.2 item 2). The range test against
// [minPtr, maxPtr] prunes quickly; the exact per-block offset check
// rejects interior or misaligned addresses.
func (h *Heap) IsHeapPtr(p uintptr) bool {
	h.allocMu.Lock()
	defer h.allocMu.Unlock()
	return h.isHeapPtrLocked(p)
}

func (h *Heap) isHeapPtrLocked(p uintptr) bool {
	if h.minPtr == nil || p < cellAddr(h.minPtr) || p > cellAddr(h.maxPtr) {
		return false
	}
	for block := h.blocks; block != nil; block = block.next {
		if len(block.storage) == 0 {
			continue
		}
		lo := cellAddr(&block.storage[0])
		hi := cellAddr(&block.storage[len(block.storage)-1])
		if p < lo || p > hi {
			continue
		}
		for i := range block.storage {
			if cellAddr(&block.storage[i]) == p {
				return true
			}
		}
	}
	return false
}

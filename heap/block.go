package heap

import "unsafe"

// Block is a contiguous array of exactly Config.BlockCells cells plus a link to the
// next block and the head of that block's own singly-linked free list
// (spec.md §3). Cells within a block never move; a cell's address is its
// identity for the program's lifetime.
type Block struct {
	next     *Block
	storage  []Cell
	freeList *Cell
}

// newBlockStorage allocates the fixed-size array of cells backing one
// block. Cell headers hold Go maps, interfaces, and pointers, so this is
// deliberately a plain Go slice rather than unsafe-cast foreign memory:
// it must stay inside the host Go runtime's normally-scanned heap (see
// nativebuf_unix.go for the one place this module does keep bytes
// outside that heap — pure native buffers with no Go pointers in them).
func newBlockStorage(n int) []Cell {
	return make([]Cell, n)
}

// cellAddr returns a cell's address as a uintptr, used for bounds
// checks and ordering. It never dereferences the result as a Go pointer
// outside of GC-safe cell arithmetic.
func cellAddr(c *Cell) uintptr {
	return uintptr(unsafe.Pointer(c))
}

// cellLess orders two cells by address, used to track [minPtr, maxPtr].
func cellLess(a, b *Cell) bool {
	return cellAddr(a) < cellAddr(b)
}

// allocateBlock creates one block, threads its cells into a fresh
// singly-linked free list (storage[0]->storage[1]->...->storage[n-1]->
// nil), prepends the block to the heap's block list, extends
// [minPtr, maxPtr] if needed, and adds len(storage) to cellsTotal and
// cellsAvailable. Grounded on the original source's
// nat_gc_alloc_heap_block (gc.c).
//
// Callers must hold h.allocMu.
func (h *Heap) allocateBlock() *Block {
	block := &Block{storage: newBlockStorage(h.cfg.BlockCells)}

	last := &block.storage[0]
	block.freeList = last
	for i := 1; i < len(block.storage); i++ {
		cell := &block.storage[i]
		last.nextFree = cell
		last = cell
	}
	last.nextFree = nil

	for i := range block.storage {
		block.storage[i].block = block
	}

	block.next = h.blocks
	h.blocks = block

	first := &block.storage[0]
	lastCell := &block.storage[len(block.storage)-1]
	if h.minPtr == nil || cellLess(first, h.minPtr) {
		h.minPtr = first
	}
	if h.maxPtr == nil || cellLess(h.maxPtr, lastCell) {
		h.maxPtr = lastCell
	}

	h.cellsAvailable += uint64(len(block.storage))
	h.cellsTotal += uint64(len(block.storage))

	return block
}

// rawMalloc walks blocks in list order and returns the first block's
// free-list head, popping it and decrementing cellsAvailable. If no
// block has a free cell, it allocates a new block and retries. The
// returned cell's contents are undefined; Alloc must zero and initialize
// the header. Grounded on nat_gc_malloc (gc.c), rewritten as an explicit
// loop instead of the original's tail recursion (spec.md §13).
//
// Callers must hold h.allocMu.
func (h *Heap) rawMalloc() *Cell {
	for {
		for block := h.blocks; block != nil; block = block.next {
			if cell := block.freeList; cell != nil {
				block.freeList = cell.nextFree
				h.cellsAvailable--
				return cell
			}
		}
		h.allocateBlock()
	}
}

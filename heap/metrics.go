package heap

import (
	"fmt"
	"unsafe"

	"github.com/inhies/go-bytesize"
)

// Stats is a point-in-time snapshot of heap occupancy, returned by
// Heap.Stats for diagnostics and by cmd/heapctl for operator-facing
// reporting. Grounded on the teacher's runtime/metrics stub pattern
// (a plain read-only snapshot struct rather than a live counters
// object collaborators could corrupt).
type Stats struct {
	Blocks         int
	CellsTotal     uint64
	CellsAvailable uint64
	BlockCells     int
	Collections    uint64
}

// AvailableRatio returns CellsAvailable/CellsTotal, or 0 if the heap has
// never allocated a block.
func (s Stats) AvailableRatio() float64 {
	if s.CellsTotal == 0 {
		return 0
	}
	return float64(s.CellsAvailable) / float64(s.CellsTotal)
}

// String renders a human-readable summary, formatting cell counts as
// approximate byte footprints via go-bytesize the way cmd/heapctl's
// "stats" command does on a terminal.
func (s Stats) String() string {
	cellBytes := float64(unsafe.Sizeof(Cell{}))
	total := bytesize.New(float64(s.CellsTotal) * cellBytes)
	avail := bytesize.New(float64(s.CellsAvailable) * cellBytes)
	return fmt.Sprintf(
		"blocks=%d cells=%s available=%s (%.1f%%) collections=%d",
		s.Blocks, total, avail, s.AvailableRatio()*100, s.Collections,
	)
}

// Stats returns a snapshot of the heap's current occupancy.
func (h *Heap) Stats() Stats {
	h.allocMu.Lock()
	defer h.allocMu.Unlock()

	blocks := 0
	for b := h.blocks; b != nil; b = b.next {
		blocks++
	}

	return Stats{
		Blocks:         blocks,
		CellsTotal:     h.cellsTotal,
		CellsAvailable: h.cellsAvailable,
		BlockCells:     h.cfg.BlockCells,
		Collections:    h.stats.Collections,
	}
}

package main

import (
	"fmt"

	"github.com/nat-run/natheap/heap"
)

// runSnapshot implements `heapctl snapshot [--bundle]`: records the
// tag and address of every named REPL global, writes a CRC-trailered
// snapshot file, and optionally bundles it with a manifest into a
// single .ar archive.
func runSnapshot(h *heap.Heap, globals *replGlobals, cfg fileConfig, args []string) error {
	bundle := false
	for _, a := range args {
		if a == "--bundle" {
			bundle = true
		}
	}

	var records []snapshotRecord
	for _, name := range globals.Names() {
		ref := globals.vars[name]
		cell, ok := ref.(*heap.Cell)
		if !ok {
			continue // tagged integers have no address to record
		}
		records = append(records, snapshotRecord{Addr: uint64(cell.Addr()), Tag: cell.Tag()})
	}

	stats := h.Stats()
	path, err := saveSnapshot(h, cfg.SnapshotDir, records)
	if err != nil {
		return err
	}
	fmt.Println("wrote", path)

	if bundle {
		bundlePath := path + ".ar"
		if err := bundleSnapshot(path, bundlePath, stats); err != nil {
			return err
		}
		fmt.Println("bundled", bundlePath)
	}

	for _, rec := range records {
		hexDump, err := dumpCellHex(rec.Addr, rec.Tag)
		if err != nil {
			return err
		}
		fmt.Print(hexDump)
	}
	return nil
}

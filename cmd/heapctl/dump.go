package main

import (
	"encoding/binary"
	"fmt"

	"github.com/marcinbor85/gohex"

	"github.com/nat-run/natheap/heap"
)

// dumpCellHex renders a cell record's raw bytes as Intel-HEX, the same
// firmware-image-adjacent formatting job the teacher uses gohex for
// when dumping compiled images to a programmer. Here it's repurposed
// for a single heap cell's tag and address, useful when comparing a
// snapshot byte-for-byte against a prior run.
func dumpCellHex(addr uint64, tag heap.VariantTag) (string, error) {
	buf := make([]byte, 9)
	binary.LittleEndian.PutUint64(buf[:8], addr)
	buf[8] = byte(tag)

	mem := gohex.NewMemory()
	if err := mem.AddBinary(0, buf); err != nil {
		return "", fmt.Errorf("heapctl: building hex record: %w", err)
	}
	return mem.DumpIntelHex()
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nat-run/natheap/heap"
	"github.com/nat-run/natheap/internal/wasmdriver"
)

// runStress implements `heapctl stress <module.wasm>`: loads a
// WASM-compiled synthetic mutator program and drives it against h,
// reporting how many alloc/collect host calls it made.
func runStress(h *heap.Heap, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: heapctl stress <module.wasm>")
	}

	module, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading wasm module: %w", err)
	}

	ops, err := wasmdriver.Run(context.Background(), h, module)
	if err != nil {
		return err
	}

	fmt.Printf("allocs=%d collects=%d\n", ops.Allocs, ops.Collects)
	fmt.Println(h.Stats().String())
	return nil
}

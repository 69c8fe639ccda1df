// Command heapctl is an operator-facing tool for driving a natheap
// heap outside of a hosted language runtime: an interactive REPL for
// allocating and collecting cells by hand, a snapshot command that
// writes a CRC-checked snapshot and prints a hex dump of each recorded
// cell for offline inspection, a stats command, and a stress command
// that runs a WASM mutator. It is not part of the heap package's public
// contract (spec.md §1) — the core GC algorithm has no CLI dependency
// of its own.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-colorable"

	"github.com/nat-run/natheap/heap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "heapctl:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := loadFileConfig("heapctl.yaml")
	if err != nil {
		return err
	}

	h, err := heap.New(cfg.heapOptions()...)
	if err != nil {
		return fmt.Errorf("constructing heap: %w", err)
	}
	h.Init(currentStackTop())

	globals := newReplGlobals()
	h.SetGlobals(globals)

	if len(args) == 0 {
		return newREPL(h, globals).run()
	}

	switch args[0] {
	case "stats":
		fmt.Fprintln(colorable.NewColorableStdout(), h.Stats().String())
		return nil

	case "snapshot":
		return runSnapshot(h, globals, cfg, args[1:])

	case "stress":
		return runStress(h, args[1:])

	default:
		return fmt.Errorf("unknown command %q (try: stats, snapshot, stress, or no args for the REPL)", args[0])
	}
}

// currentStackTop approximates the address of main's own frame, used as
// Init's bottomOfStack. heapctl is a single-goroutine CLI, so the
// goroutine calling main is always the designated mutator thread.
func currentStackTop() uintptr {
	var probe byte
	return uintptrOf(&probe)
}

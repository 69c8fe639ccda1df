// Package wasmdriver runs a small WASM-compiled synthetic mutator
// program against a heap as a sandboxed stress workload. The guest's
// alloc and collect host calls run on the goroutine that called Run,
// so when that is the heap's mutator goroutine (as in heapctl stress)
// its collect calls run real collections; the driver starts no thread
// of its own. It is a test/ops harness, not something evaluator code
// depends on.
package wasmdriver

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/nat-run/natheap/heap"
)

// Ops counts the host-function calls a synthetic mutator module made,
// so callers can assert the workload actually drove the heap rather
// than silently no-oping.
type Ops struct {
	Allocs   int
	Collects int
}

// Run instantiates module (raw WASM bytes compiled from a tiny
// alloc/collect-calling program) inside a wazero runtime, with two host
// functions imported under the "heap" module name: alloc(tag int32) and
// collect(). The guest program drives these in whatever sequence it was
// compiled with; Run blocks until it returns.
//
// Grounded on the teacher's own sandboxed-execution needs (tinygo
// compiles Go to WASM as one of its targets) generalized here to the
// opposite direction: running a WASM guest against a Go-hosted heap
// instead of compiling Go to WASM.
func Run(ctx context.Context, h *heap.Heap, module []byte) (Ops, error) {
	var ops Ops

	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	_, err := rt.NewHostModuleBuilder("heap").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, tag int32) uint64 {
			cell := h.Alloc(nil, heap.VariantTag(tag))
			ops.Allocs++
			return uint64(cell.Addr())
		}).
		Export("alloc").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context) {
			h.Collect()
			ops.Collects++
		}).
		Export("collect").
		Instantiate(ctx)
	if err != nil {
		return ops, fmt.Errorf("wasmdriver: building host module: %w", err)
	}

	compiled, err := rt.CompileModule(ctx, module)
	if err != nil {
		return ops, fmt.Errorf("wasmdriver: compiling guest module: %w", err)
	}

	modCfg := wazero.NewModuleConfig().WithStartFunctions("_start")
	instance, err := rt.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		return ops, fmt.Errorf("wasmdriver: instantiating guest module: %w", err)
	}
	defer instance.Close(ctx)

	return ops, nil
}

// callExported calls a function the guest module exports by name, for
// driving a specific guest function directly (e.g. "run_once"
// repeatedly) instead of relying on _start. Run does not use it.
func callExported(ctx context.Context, instance api.Module, name string, args ...uint64) ([]uint64, error) {
	fn := instance.ExportedFunction(name)
	if fn == nil {
		return nil, fmt.Errorf("wasmdriver: guest module has no exported function %q", name)
	}
	return fn.Call(ctx, args...)
}

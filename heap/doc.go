// Package heap implements a slab-allocated object heap and a conservative,
// stop-the-world, mark-and-sweep garbage collector for a dynamic-language
// runtime.
//
// Host programs (the evaluator, the built-in class library, the globals
// table) allocate every heap value exclusively through Alloc. The
// collector discovers roots by conservatively scanning the native call
// stack of the designated mutator goroutine plus a set of pinned
// singletons and the globals table (an active environment chain is not
// a root source; environments are reached only through the cells that
// hold them), then traces each discovered cell's outgoing references
// by variant, and
// finally sweeps every unmarked, non-exempt cell back onto its block's
// free list after running that variant's finalizer.
//
// This package does no generational, incremental, or concurrent
// collection, performs no compaction (cell addresses are stable for the
// life of the process), and builds no precise stack maps — the stack is
// always scanned conservatively.
package heap

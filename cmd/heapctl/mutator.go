package main

import (
	"sort"
	"sync"

	"github.com/nat-run/natheap/internal/collab"
)

// replGlobals is the REPL's own in-memory "globals table" collaborator:
// named slots an operator can `alloc` into and `drop` out of, used as
// the standing root set while driving a heap interactively. Grounded on
// spec.md §4.2 item 4 ("process-wide globals table") and wired as the
// collab.Globals implementation cmd/heapctl hands to heap.SetGlobals.
type replGlobals struct {
	mu   sync.Mutex
	vars map[string]collab.CellRef
}

func newReplGlobals() *replGlobals {
	return &replGlobals{vars: make(map[string]collab.CellRef)}
}

func (g *replGlobals) Set(name string, ref collab.CellRef) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.vars[name] = ref
}

func (g *replGlobals) Drop(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.vars, name)
}

func (g *replGlobals) Names() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	names := make([]string, 0, len(g.vars))
	for n := range g.vars {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (g *replGlobals) Each(fn func(collab.CellRef)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, ref := range g.vars {
		fn(ref)
	}
}

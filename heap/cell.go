package heap

import (
	"sync"

	"github.com/nat-run/natheap/internal/collab"
)

// Cell is a fixed-size storage unit holding exactly one object (spec.md
// §3). Its address is stable for the life of the process: cells never
// move, and blocks are never freed.
type Cell struct {
	// block is the owning block, so the sweeper can return this cell to
	// the right free list without a reverse lookup.
	block *Block

	// nextFree links this cell into its block's free list. Only
	// meaningful while tag == TagFree.
	nextFree *Cell

	tag    VariantTag
	marked bool

	class          *Cell
	owner          *Cell
	singletonClass *Cell

	// ivars, constants, and cvars are the shared, optional sub-tables
	// every cell carries room for, regardless of variant (spec.md §3).
	// constants and cvars are only ever populated for class/module
	// cells in practice, but the tracer and finalizer treat them
	// uniformly across variants per the spec.
	ivars     map[string]*Cell
	constants map[string]*Cell
	cvars     map[string]*Cell

	// env is the inline environment for values that close over
	// variables: proc cells, and (via Methods on class/module payloads)
	// method closures.
	env collab.Environment

	payload payload

	// mu is the per-cell lock collaborators use for value-level
	// mutation (spec.md §3, Design Notes (b)). Created lazily on first
	// use via Lock so that cells which are never mutated after
	// construction (most integers, symbols, nil/true/false) never pay
	// for a mutex.
	muOnce sync.Once
	mu     *sync.Mutex
}

// IsTagged always reports false for *Cell: a *Cell is by construction a
// heap pointer, never a tagged small integer. See collab.CellRef and
// TaggedInt.
func (*Cell) IsTagged() bool { return false }

// Addr returns the cell's address as a stable, comparable identity for
// diagnostics (snapshot records, hex dumps) — never dereferenced by
// callers outside this package.
func (c *Cell) Addr() uintptr { return cellAddr(c) }

// Tag returns the cell's current variant tag.
func (c *Cell) Tag() VariantTag { return c.tag }

// Class returns the cell's runtime class reference.
func (c *Cell) Class() *Cell { return c.class }

// Owner returns the cell's owner, or nil.
func (c *Cell) Owner() *Cell { return c.owner }

// SetOwner sets the cell's owner, a shared field the tracer always
// walks.
func (c *Cell) SetOwner(owner *Cell) { c.owner = owner }

// SingletonClass returns the cell's singleton class, or nil.
func (c *Cell) SingletonClass() *Cell { return c.singletonClass }

// SetSingletonClass attaches a singleton class to this cell.
func (c *Cell) SetSingletonClass(sc *Cell) { c.singletonClass = sc }

// Ivars returns the cell's instance-variable table, creating it on
// first use.
func (c *Cell) Ivars() map[string]*Cell {
	if c.ivars == nil {
		c.ivars = make(map[string]*Cell)
	}
	return c.ivars
}

// Constants returns the cell's constants table (classes/modules only in
// practice), creating it on first use.
func (c *Cell) Constants() map[string]*Cell {
	if c.constants == nil {
		c.constants = make(map[string]*Cell)
	}
	return c.constants
}

// Cvars returns the cell's class-variable table, creating it on first
// use.
func (c *Cell) Cvars() map[string]*Cell {
	if c.cvars == nil {
		c.cvars = make(map[string]*Cell)
	}
	return c.cvars
}

// Env returns the cell's inline environment, or nil.
func (c *Cell) Env() collab.Environment { return c.env }

// SetEnv attaches an inline closure environment to this cell.
func (c *Cell) SetEnv(env collab.Environment) { c.env = env }

// Lock acquires the cell's per-value mutation lock, creating it lazily.
// Mirrors the original source's per-object pthread_mutex_t, adapted to
// Design Notes (b)'s "lazy creation on first contention" suggestion.
func (c *Cell) Lock() {
	c.muOnce.Do(func() { c.mu = &sync.Mutex{} })
	c.mu.Lock()
}

// Unlock releases the cell's per-value mutation lock.
func (c *Cell) Unlock() {
	if c.mu == nil {
		panic("heap: Unlock of a cell that was never locked")
	}
	c.mu.Unlock()
}

func (c *Cell) reset() {
	c.tag = TagFree
	c.marked = false
	c.class = nil
	c.owner = nil
	c.singletonClass = nil
	c.ivars = nil
	c.constants = nil
	c.cvars = nil
	c.env = nil
	c.payload = nil
	c.muOnce = sync.Once{}
	c.mu = nil
}

func (c *Cell) init(class *Cell, tag VariantTag, p payload) {
	c.tag = tag
	c.marked = false
	c.class = class
	c.payload = p
}

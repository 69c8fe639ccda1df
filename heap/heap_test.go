package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat-run/natheap/internal/collab"
)

// fakeResource is a NativeResource whose Release is observable, used to
// check the finalizer's release table and its idempotence.
type fakeResource struct {
	released int
}

func (f *fakeResource) Release() { f.released++ }

// fakeGlobals is the test double for collab.Globals: a plain slice of
// refs, walked in order.
type fakeGlobals struct {
	refs []collab.CellRef
}

func (g *fakeGlobals) Each(fn func(collab.CellRef)) {
	for _, r := range g.refs {
		fn(r)
	}
}

// fakeEnv is the test double for collab.Environment.
type fakeEnv struct {
	vars  []collab.CellRef
	exc   collab.CellRef
	outer collab.Environment
}

func (e *fakeEnv) Vars() []collab.CellRef    { return e.vars }
func (e *fakeEnv) Exception() collab.CellRef { return e.exc }
func (e *fakeEnv) Outer() collab.Environment { return e.outer }

// newTestHeap builds a small, initialized heap suitable for exercising
// collection in a handful of cells instead of the default 200-cell
// blocks.
func newTestHeap(t *testing.T, opts ...Option) *Heap {
	t.Helper()
	all := append([]Option{WithBlockCells(8)}, opts...)
	h, err := New(all...)
	require.NoError(t, err)
	h.Init(currentStackPointer() + 1<<20)
	return h
}

func TestAllocateAndDrop(t *testing.T) {
	h := newTestHeap(t)

	cell := h.Alloc(nil, TagInteger)
	cell.SetIntegerValue(7)
	total := h.CellsTotal()
	assert.Equal(t, total-1, h.CellsAvailable())

	h.Collect()

	assert.Equal(t, total, h.CellsAvailable(), "unrooted cell should be swept")
}

func TestGlobalsKeepCellAlive(t *testing.T) {
	h := newTestHeap(t)

	cell := h.Alloc(nil, TagInteger)
	cell.SetIntegerValue(42)
	h.SetGlobals(&fakeGlobals{refs: []collab.CellRef{cell}})

	h.Collect()

	assert.Equal(t, TagInteger, cell.Tag())
	assert.Equal(t, int64(42), cell.IntegerValue())
}

func TestCycleIsCollected(t *testing.T) {
	h := newTestHeap(t)

	a := h.Alloc(nil, TagArray)
	b := h.Alloc(nil, TagArray)
	a.SetElements([]*Cell{b})
	b.SetElements([]*Cell{a})

	h.Collect()

	total := h.CellsTotal()
	assert.Equal(t, total, h.CellsAvailable(), "mutually-referential, unrooted cells must still be swept")
}

func TestGrowsUnderPressure(t *testing.T) {
	h := newTestHeap(t, WithPreCollectRatio(0.5), WithPostCollectRatio(0.75))
	live := &fakeGlobals{}
	h.SetGlobals(live)

	for i := 0; i < 100; i++ {
		c := h.Alloc(nil, TagInteger)
		c.SetIntegerValue(int64(i))
		live.refs = append(live.refs, c)
	}
	h.Collect()

	assert.GreaterOrEqual(t, h.AvailableRatio(), h.cfg.PostCollectRatio,
		"Collect must grow the heap until the ratio reaches PostCollectRatio")
}

func TestSymbolsSurviveUnreferenced(t *testing.T) {
	h := newTestHeap(t)

	sym := h.Alloc(nil, TagSymbol)
	sym.SetSymbolName("foo")

	h.Collect()
	h.Collect()

	assert.Equal(t, TagSymbol, sym.Tag(), "symbol cells are exempt from sweep")
	assert.Equal(t, "foo", sym.SymbolName())
}

func TestShutdownFinalizesEverything(t *testing.T) {
	h := newTestHeap(t)

	buf := &fakeResource{}
	s := h.Alloc(nil, TagString)
	s.SetStringBuffer(buf)
	h.SetGlobals(&fakeGlobals{refs: []collab.CellRef{s}})

	h.CollectAll()

	assert.Equal(t, 1, buf.released)
	assert.Equal(t, h.CellsTotal(), h.CellsAvailable())
}

func TestFinalizerReleasesHashRing(t *testing.T) {
	h := newTestHeap(t)

	table := &fakeResource{}
	wrapper1, wrapper2 := &fakeResource{}, &fakeResource{}

	hashCell := h.Alloc(nil, TagHash)
	hashCell.SetHashTable(table)
	k1, k2 := h.Alloc(nil, TagSymbol), h.Alloc(nil, TagSymbol)
	v1, v2 := h.Alloc(nil, TagInteger), h.Alloc(nil, TagInteger)
	hashCell.PutEntry(k1, v1, wrapper1)
	hashCell.PutEntry(k2, v2, wrapper2)

	h.CollectAll()

	assert.Equal(t, 1, table.released)
	assert.Equal(t, 1, wrapper1.released)
	assert.Equal(t, 1, wrapper2.released)
}

func TestFinalizerReleasesArrayBuffer(t *testing.T) {
	h := newTestHeap(t)

	buf := &fakeResource{}
	arr := h.Alloc(nil, TagArray)
	arr.SetArrayBuffer(buf)
	elem := h.Alloc(nil, TagInteger)
	arr.SetElements([]*Cell{elem})

	h.CollectAll()

	assert.Equal(t, 1, buf.released)
}

func TestFinalizerReleasesRegexpState(t *testing.T) {
	h := newTestHeap(t)

	compiled, source := &fakeResource{}, &fakeResource{}
	re := h.Alloc(nil, TagRegexp)
	re.SetRegexp(compiled, source)

	h.CollectAll()

	assert.Equal(t, 1, compiled.released)
	assert.Equal(t, 1, source.released)
}

func TestFinalizerReleasesMatchData(t *testing.T) {
	h := newTestHeap(t)

	region, captured := &fakeResource{}, &fakeResource{}
	md := h.Alloc(nil, TagMatchData)
	md.SetMatchData(region, captured)

	h.CollectAll()

	assert.Equal(t, 1, region.released)
	assert.Equal(t, 1, captured.released)
}

func TestFinalizerReleasesProcClosure(t *testing.T) {
	h := newTestHeap(t)

	closure := &fakeResource{}
	proc := h.Alloc(nil, TagProc)
	proc.SetProcClosure(&fakeEnv{}, closure)

	h.CollectAll()

	assert.Equal(t, 1, closure.released)
}

func TestFinalizerReleasesClassWithMethods(t *testing.T) {
	h := newTestHeap(t)

	nameBuf, methodTable, modsBuf := &fakeResource{}, &fakeResource{}, &fakeResource{}
	class := h.Alloc(nil, TagClass)
	class.SetClassName(nameBuf)
	class.SetMethods(map[string]*Method{
		"greet": {Name: "greet", Env: &fakeEnv{vars: []collab.CellRef{h.Alloc(nil, TagInteger)}}},
	}, methodTable)
	mod := h.Alloc(nil, TagModule)
	class.SetIncludedModules([]*Cell{mod}, modsBuf)

	h.CollectAll()

	assert.Equal(t, 1, nameBuf.released)
	assert.Equal(t, 1, methodTable.released)
	assert.Equal(t, 1, modsBuf.released)
}

func TestFinalizerReleasesModuleTables(t *testing.T) {
	h := newTestHeap(t)

	nameBuf, methodTable, modsBuf := &fakeResource{}, &fakeResource{}, &fakeResource{}
	mod := h.Alloc(nil, TagModule)
	mod.SetClassName(nameBuf)
	mod.SetMethods(map[string]*Method{"greet": {Name: "greet"}}, methodTable)
	mod.SetIncludedModules(nil, modsBuf)

	h.CollectAll()

	assert.Equal(t, 1, nameBuf.released)
	assert.Equal(t, 1, methodTable.released)
	assert.Equal(t, 1, modsBuf.released)
}

func TestFinalizerReleasesExceptionMessage(t *testing.T) {
	h := newTestHeap(t)

	message := &fakeResource{}
	exc := h.Alloc(nil, TagException)
	backtrace := h.Alloc(nil, TagArray)
	exc.SetException(backtrace, message)

	h.CollectAll()

	assert.Equal(t, 1, message.released)
}

func TestEnvChainKeepsVarsAlive(t *testing.T) {
	h := newTestHeap(t)

	val := h.Alloc(nil, TagInteger)
	val.SetIntegerValue(9)
	outerVal := h.Alloc(nil, TagInteger)
	outerVal.SetIntegerValue(10)

	outer := &fakeEnv{vars: []collab.CellRef{outerVal}}
	inner := &fakeEnv{vars: []collab.CellRef{val}, outer: outer}

	proc := h.Alloc(nil, TagProc)
	proc.SetProcClosure(inner, nil)
	h.SetGlobals(&fakeGlobals{refs: []collab.CellRef{proc}})

	h.Collect()

	assert.Equal(t, TagInteger, val.Tag())
	assert.Equal(t, TagInteger, outerVal.Tag())
}

func TestTaggedIntegersAreNeverTreatedAsCells(t *testing.T) {
	h := newTestHeap(t)
	h.SetGlobals(&fakeGlobals{refs: []collab.CellRef{collab.TaggedInt(123)}})

	assert.NotPanics(t, func() { h.Collect() })
}

func TestAddressStabilityAcrossCollections(t *testing.T) {
	h := newTestHeap(t)

	cell := h.Alloc(nil, TagInteger)
	cell.SetIntegerValue(1)
	h.SetGlobals(&fakeGlobals{refs: []collab.CellRef{cell}})
	addr := cellAddr(cell)

	for i := 0; i < 5; i++ {
		extra := h.Alloc(nil, TagInteger)
		_ = extra
		h.Collect()
	}

	assert.Equal(t, addr, cellAddr(cell))
}

func TestRootOutsideBoundsAborts(t *testing.T) {
	h := newTestHeap(t)
	h.Alloc(nil, TagInteger) // ensure minPtr/maxPtr are set

	var stray Cell
	assert.Panics(t, func() {
		h.pushRoot(&stray, newWorklist(1))
	})
}

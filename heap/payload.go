package heap

import "github.com/nat-run/natheap/internal/collab"

// NativeResource is a native-owned side resource bound to a cell's
// variant: a raw byte buffer, compiled regex state, a sub-hashmap, a
// method table entry. It exists outside the Go garbage collector's
// purview (as it would in the host language this design was modeled on,
// where these buffers are malloc'd directly), so the finalizer must
// release it explicitly exactly once. See spec.md §4.4.
type NativeResource interface {
	// Release tears down the resource. Implementations should be
	// idempotent defensively, but the finalizer contract guarantees it
	// is called at most once per cell per sweep.
	Release()
}

// hashEntry is one link of a hash's ordered key list: a circular
// singly-linked ring exactly mirroring the original source's NatHashKey
// list (gc.c's nat_destroy_hash_key_list walks a ring, not a
// null-terminated chain).
type hashEntry struct {
	key   *Cell
	val   *Cell
	entry NativeResource // the value wrapper the underlying hashmap allocated
	next  *hashEntry
}

// Method is one entry of a class or module's method table. Its closure
// environment (if the method is a Ruby-style implicit closure over
// defining-scope locals) is a root while the method table is reachable.
type Method struct {
	Name string
	Env  collab.Environment
}

// payload holds the variant-specific fields of a cell (spec.md §3's
// "variant-specific fields", dispatched on tag in trace.go and
// sweep.go). Each concrete type below corresponds to exactly one
// VariantTag; nilPayload/truePayload/falsePayload/otherPayload carry no
// fields because those variants have nothing beyond the cell's shared
// fields.
type payload interface {
	tag() VariantTag
}

type integerPayload struct{ Value int64 }

func (integerPayload) tag() VariantTag { return TagInteger }

type stringPayload struct{ CharBuffer NativeResource }

func (stringPayload) tag() VariantTag { return TagString }

type symbolPayload struct{ Name string }

func (symbolPayload) tag() VariantTag { return TagSymbol }

type arrayPayload struct {
	Elems  []*Cell
	Buffer NativeResource
}

func (*arrayPayload) tag() VariantTag { return TagArray }

type hashPayload struct {
	keyList       *hashEntry // ring; nil if empty
	Table         NativeResource
	DefaultValue  *Cell
	DefaultBlock  *Cell // the proc cell backing the default-value block, if any
	DefaultClosed NativeResource
}

func (*hashPayload) tag() VariantTag { return TagHash }

type rangePayload struct {
	Begin *Cell
	End   *Cell
}

func (*rangePayload) tag() VariantTag { return TagRange }

type regexpPayload struct {
	Compiled NativeResource
	Source   NativeResource
}

func (*regexpPayload) tag() VariantTag { return TagRegexp }

type matchDataPayload struct {
	Region   NativeResource
	Captured NativeResource
}

func (*matchDataPayload) tag() VariantTag { return TagMatchData }

type ioPayload struct{}

func (ioPayload) tag() VariantTag { return TagIO }

type procPayload struct {
	Closure NativeResource
}

func (*procPayload) tag() VariantTag { return TagProc }

type threadPayload struct{ Value *Cell }

func (*threadPayload) tag() VariantTag { return TagThread }

type classPayload struct {
	Superclass       *Cell // nil for modules
	IncludedModules  []*Cell
	Methods          map[string]*Method
	NameBuffer       NativeResource
	MethodTable      NativeResource
	IncludedModsBuf  NativeResource
}

func (*classPayload) tag() VariantTag { return TagClass }

type modulePayload struct {
	IncludedModules []*Cell
	Methods         map[string]*Method
	NameBuffer      NativeResource
	MethodTable     NativeResource
	IncludedModsBuf NativeResource
}

func (*modulePayload) tag() VariantTag { return TagModule }

type exceptionPayload struct {
	Backtrace *Cell
	Message   NativeResource
}

func (*exceptionPayload) tag() VariantTag { return TagException }

type encodingPayload struct{ Names *Cell }

func (*encodingPayload) tag() VariantTag { return TagEncoding }

type otherPayload struct{}

func (otherPayload) tag() VariantTag { return TagOther }

type nilPayload struct{}

func (nilPayload) tag() VariantTag { return TagNil }

type truePayload struct{}

func (truePayload) tag() VariantTag { return TagTrue }

type falsePayload struct{}

func (falsePayload) tag() VariantTag { return TagFalse }

package heap

import "github.com/nat-run/natheap/internal/collab"

// This file gives each variant a small set of typed accessors, per
// Design Notes' preference for "a tagged variant with per-arm accessors
// over a union of raw fields". Every accessor panics if called on a
// cell whose tag doesn't match — a cheap exhaustiveness check that
// catches a collaborator wiring the wrong variant at the call site
// instead of silently corrupting heap state.

func (c *Cell) mustTag(want VariantTag) {
	if c.tag != want {
		abort("variant accessor: expected tag %s, got %s", want, c.tag)
	}
}

// Integer

func (c *Cell) IntegerValue() int64 {
	c.mustTag(TagInteger)
	return c.payload.(integerPayload).Value
}

func (c *Cell) SetIntegerValue(v int64) {
	c.mustTag(TagInteger)
	c.payload = integerPayload{Value: v}
}

// String

func (c *Cell) StringBuffer() NativeResource {
	c.mustTag(TagString)
	return c.payload.(stringPayload).CharBuffer
}

func (c *Cell) SetStringBuffer(buf NativeResource) {
	c.mustTag(TagString)
	c.payload = stringPayload{CharBuffer: buf}
}

// Symbol

func (c *Cell) SymbolName() string {
	c.mustTag(TagSymbol)
	return c.payload.(symbolPayload).Name
}

func (c *Cell) SetSymbolName(name string) {
	c.mustTag(TagSymbol)
	c.payload = symbolPayload{Name: name}
}

// Array

func (c *Cell) arr() *arrayPayload {
	c.mustTag(TagArray)
	return c.payload.(*arrayPayload)
}

func (c *Cell) Elements() []*Cell { return c.arr().Elems }

func (c *Cell) SetElements(elems []*Cell) { c.arr().Elems = elems }

func (c *Cell) ArrayBuffer() NativeResource { return c.arr().Buffer }

func (c *Cell) SetArrayBuffer(buf NativeResource) { c.arr().Buffer = buf }

// Hash

func (c *Cell) hash() *hashPayload {
	c.mustTag(TagHash)
	return c.payload.(*hashPayload)
}

// PutEntry appends key/val (with its native value-wrapper resource) to
// the ordered key list, mirroring the original source's NatHashKey ring.
func (c *Cell) PutEntry(key, val *Cell, wrapper NativeResource) {
	h := c.hash()
	entry := &hashEntry{key: key, val: val, entry: wrapper}
	if h.keyList == nil {
		entry.next = entry
		h.keyList = entry
		return
	}
	// Insert just before the head to preserve insertion order when
	// walked starting from keyList (matches the original's do/while
	// ring walk starting at key_list and stopping when it cycles back).
	tail := h.keyList
	for tail.next != h.keyList {
		tail = tail.next
	}
	tail.next = entry
	entry.next = h.keyList
}

// Entries returns the hash's key/value pairs in insertion order.
func (c *Cell) Entries() [](struct{ Key, Val *Cell }) {
	h := c.hash()
	if h.keyList == nil {
		return nil
	}
	var out []struct{ Key, Val *Cell }
	e := h.keyList
	for {
		out = append(out, struct{ Key, Val *Cell }{e.key, e.val})
		e = e.next
		if e == h.keyList {
			break
		}
	}
	return out
}

func (c *Cell) HashTable() NativeResource { return c.hash().Table }

func (c *Cell) SetHashTable(r NativeResource) { c.hash().Table = r }

func (c *Cell) DefaultValue() *Cell { return c.hash().DefaultValue }

func (c *Cell) SetDefaultValue(v *Cell) { c.hash().DefaultValue = v }

func (c *Cell) DefaultBlock() *Cell { return c.hash().DefaultBlock }

// SetDefaultBlock attaches the hash's default-value block (a proc cell)
// and the native wrapper the underlying hashmap holds for it.
func (c *Cell) SetDefaultBlock(block *Cell, closure NativeResource) {
	h := c.hash()
	h.DefaultBlock = block
	h.DefaultClosed = closure
}

// Range

func (c *Cell) rng() *rangePayload {
	c.mustTag(TagRange)
	return c.payload.(*rangePayload)
}

func (c *Cell) RangeBegin() *Cell { return c.rng().Begin }
func (c *Cell) RangeEnd() *Cell   { return c.rng().End }

func (c *Cell) SetRange(begin, end *Cell) {
	r := c.rng()
	r.Begin, r.End = begin, end
}

// Regexp

func (c *Cell) re() *regexpPayload {
	c.mustTag(TagRegexp)
	return c.payload.(*regexpPayload)
}

func (c *Cell) SetRegexp(compiled, source NativeResource) {
	r := c.re()
	r.Compiled, r.Source = compiled, source
}

// MatchData

func (c *Cell) md() *matchDataPayload {
	c.mustTag(TagMatchData)
	return c.payload.(*matchDataPayload)
}

func (c *Cell) SetMatchData(region, captured NativeResource) {
	m := c.md()
	m.Region, m.Captured = region, captured
}

// Proc

func (c *Cell) pr() *procPayload {
	c.mustTag(TagProc)
	return c.payload.(*procPayload)
}

func (c *Cell) SetProcClosure(env collab.Environment, wrapper NativeResource) {
	c.env = env
	c.pr().Closure = wrapper
}

// Thread

func (c *Cell) th() *threadPayload {
	c.mustTag(TagThread)
	return c.payload.(*threadPayload)
}

func (c *Cell) ThreadValue() *Cell { return c.th().Value }

func (c *Cell) SetThreadValue(v *Cell) { c.th().Value = v }

// Class / Module share an interface so the accessors below can treat
// them uniformly for the fields they have in common. The tracer and
// sweeper switch on the concrete payload types instead.

type classLike interface {
	superclass() *Cell
	includedModules() []*Cell
	setIncludedModules([]*Cell)
	methods() map[string]*Method
	setMethods(map[string]*Method)
	nameBuffer() NativeResource
	setNameBuffer(NativeResource)
	methodTable() NativeResource
	setMethodTable(NativeResource)
	includedModsBuf() NativeResource
	setIncludedModsBuf(NativeResource)
}

func (p *classPayload) superclass() *Cell                      { return p.Superclass }
func (p *classPayload) includedModules() []*Cell                { return p.IncludedModules }
func (p *classPayload) setIncludedModules(m []*Cell)             { p.IncludedModules = m }
func (p *classPayload) methods() map[string]*Method              { return p.Methods }
func (p *classPayload) setMethods(m map[string]*Method)           { p.Methods = m }
func (p *classPayload) nameBuffer() NativeResource                { return p.NameBuffer }
func (p *classPayload) setNameBuffer(r NativeResource)            { p.NameBuffer = r }
func (p *classPayload) methodTable() NativeResource               { return p.MethodTable }
func (p *classPayload) setMethodTable(r NativeResource)           { p.MethodTable = r }
func (p *classPayload) includedModsBuf() NativeResource           { return p.IncludedModsBuf }
func (p *classPayload) setIncludedModsBuf(r NativeResource)       { p.IncludedModsBuf = r }

func (p *modulePayload) superclass() *Cell                     { return nil }
func (p *modulePayload) includedModules() []*Cell               { return p.IncludedModules }
func (p *modulePayload) setIncludedModules(m []*Cell)            { p.IncludedModules = m }
func (p *modulePayload) methods() map[string]*Method             { return p.Methods }
func (p *modulePayload) setMethods(m map[string]*Method)         { p.Methods = m }
func (p *modulePayload) nameBuffer() NativeResource               { return p.NameBuffer }
func (p *modulePayload) setNameBuffer(r NativeResource)          { p.NameBuffer = r }
func (p *modulePayload) methodTable() NativeResource              { return p.MethodTable }
func (p *modulePayload) setMethodTable(r NativeResource)         { p.MethodTable = r }
func (p *modulePayload) includedModsBuf() NativeResource          { return p.IncludedModsBuf }
func (p *modulePayload) setIncludedModsBuf(r NativeResource)     { p.IncludedModsBuf = r }

func (c *Cell) classLike() classLike {
	switch c.tag {
	case TagClass:
		return c.payload.(*classPayload)
	case TagModule:
		return c.payload.(*modulePayload)
	default:
		abort("variant accessor: expected class or module, got %s", c.tag)
		return nil
	}
}

func (c *Cell) Superclass() *Cell { return c.classLike().superclass() }

func (c *Cell) SetSuperclass(super *Cell) {
	c.mustTag(TagClass)
	c.payload.(*classPayload).Superclass = super
}

func (c *Cell) IncludedModules() []*Cell { return c.classLike().includedModules() }

func (c *Cell) SetIncludedModules(mods []*Cell, buf NativeResource) {
	cl := c.classLike()
	cl.setIncludedModules(mods)
	cl.setIncludedModsBuf(buf)
}

func (c *Cell) Methods() map[string]*Method { return c.classLike().methods() }

func (c *Cell) SetMethods(methods map[string]*Method, table NativeResource) {
	cl := c.classLike()
	cl.setMethods(methods)
	cl.setMethodTable(table)
}

func (c *Cell) SetClassName(buf NativeResource) { c.classLike().setNameBuffer(buf) }

// Exception

func (c *Cell) exc() *exceptionPayload {
	c.mustTag(TagException)
	return c.payload.(*exceptionPayload)
}

func (c *Cell) Backtrace() *Cell { return c.exc().Backtrace }

func (c *Cell) SetException(backtrace *Cell, message NativeResource) {
	e := c.exc()
	e.Backtrace, e.Message = backtrace, message
}

// Encoding

func (c *Cell) enc() *encodingPayload {
	c.mustTag(TagEncoding)
	return c.payload.(*encodingPayload)
}

func (c *Cell) EncodingNames() *Cell { return c.enc().Names }

func (c *Cell) SetEncodingNames(names *Cell) { c.enc().Names = names }

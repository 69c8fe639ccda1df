package heap

// trace drains wl, visiting every cell reachable from the roots already
// pushed into it. For each gray cell it pushes the fields every variant
// shares (class, owner, singleton class, ivars/constants/cvars, inline
// env) and then the fields specific to its tag (spec.md §4.3). Pushing
// marks as it goes (pushRoot), so a cell already black is never
// requeued and a cycle terminates naturally.
func (h *Heap) trace(wl *worklist) {
	for {
		cell, ok := wl.pop()
		if !ok {
			return
		}
		h.traceOne(cell, wl)
	}
}

func (h *Heap) traceOne(cell *Cell, wl *worklist) {
	h.pushRoot(cell.class, wl)
	h.pushRoot(cell.owner, wl)
	h.pushRoot(cell.singletonClass, wl)

	for _, v := range cell.ivars {
		h.pushRoot(v, wl)
	}
	for _, v := range cell.constants {
		h.pushRoot(v, wl)
	}
	for _, v := range cell.cvars {
		h.pushRoot(v, wl)
	}

	if cell.env != nil {
		h.gatherEnv(cell.env, wl)
	}

	switch cell.tag {
	case TagArray:
		for _, e := range cell.payload.(*arrayPayload).Elems {
			h.pushRoot(e, wl)
		}

	case TagHash:
		hp := cell.payload.(*hashPayload)
		if hp.keyList != nil {
			e := hp.keyList
			for {
				h.pushRoot(e.key, wl)
				h.pushRoot(e.val, wl)
				e = e.next
				if e == hp.keyList {
					break
				}
			}
		}
		h.pushRoot(hp.DefaultValue, wl)
		h.pushRoot(hp.DefaultBlock, wl)

	case TagRange:
		r := cell.payload.(*rangePayload)
		h.pushRoot(r.Begin, wl)
		h.pushRoot(r.End, wl)

	case TagProc:
		// Closure env already traced above via cell.env.

	case TagThread:
		h.pushRoot(cell.payload.(*threadPayload).Value, wl)

	case TagClass:
		cp := cell.payload.(*classPayload)
		h.pushRoot(cp.Superclass, wl)
		for _, m := range cp.IncludedModules {
			h.pushRoot(m, wl)
		}
		for _, method := range cp.Methods {
			if method.Env != nil {
				h.gatherEnv(method.Env, wl)
			}
		}

	case TagModule:
		mp := cell.payload.(*modulePayload)
		for _, m := range mp.IncludedModules {
			h.pushRoot(m, wl)
		}
		for _, method := range mp.Methods {
			if method.Env != nil {
				h.gatherEnv(method.Env, wl)
			}
		}

	case TagException:
		h.pushRoot(cell.payload.(*exceptionPayload).Backtrace, wl)

	case TagEncoding:
		h.pushRoot(cell.payload.(*encodingPayload).Names, wl)

	case TagString, TagSymbol, TagInteger, TagRegexp, TagMatchData,
		TagIO, TagNil, TagTrue, TagFalse, TagOther:
		// No cell-valued fields beyond the common ones traced above.
	}
}

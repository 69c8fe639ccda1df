package heap

import "unsafe"

// ptrFromAddr converts a word that scanConservative or isHeapPtrLocked
// has already verified to be a live cell's address back into a pointer.
// Isolated here so the only unsafe.Pointer round-trip of this kind in
// the package has one obvious home.
func ptrFromAddr(addr uintptr) unsafe.Pointer {
	return unsafe.Pointer(addr)
}

// currentStackPointer returns the address of a local variable in the
// caller's frame, used as a conservative approximation of "top of
// stack". Marked noinline so the compiler can't fold it away or inline
// it somewhere that would change what "top of stack" means.
//
// This implementation is conservative and relies on the Go compiler
// placing this frame below (at a higher address range walk start than)
// everything the caller wants scanned; it assumes a descending stack,
// exactly as the teacher's own gc_stack_raw.go documents: "this
// implementation... is not very portable." Go's goroutine stacks can
// also move on growth, which the pthread-based original never had to
// contend with; this module accepts that as a known limitation (see
// DESIGN.md) rather than attempting a moving-stack-safe conservative
// scan, which is out of scope for a stop-the-world, non-relocating
// design (spec.md §1 Non-goals).
//
//go:noinline
func currentStackPointer() uintptr {
	var probe byte
	return uintptr(unsafe.Pointer(&probe))
}

// scanConservative walks every pointer-sized, pointer-aligned word in
// [top, bottom] and calls visit with each word; visit decides whether
// it is a heap pointer (spec.md §4.2 item 1). The stack must grow
// downward: bottom > top. Reimplemented with pointer-width strides
// throughout — spec.md §9 flags the original C source's 4-byte stride
// as a latent 64-bit bug.
func (h *Heap) scanConservative(top, bottom uintptr, visit func(addr uintptr)) {
	if bottom < top {
		abort("unsupported platform: stack does not grow downward")
	}
	const width = unsafe.Sizeof(uintptr(0))
	top = (top + width - 1) &^ (width - 1)
	for p := top; p <= bottom; p += width {
		word := *(*uintptr)(unsafe.Pointer(p))
		visit(word)
	}
}

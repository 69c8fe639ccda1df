package collab

// TaggedInt is a small integer value that never lives on the heap
// (spec.md invariant 7: "tagged small integers are not heap cells; the
// tracer and root scanner must recognize and skip them"). Collaborators
// that box small integers without allocating a cell use this type in
// any CellRef-typed slot (environment variables, array elements,
// globals) instead of a *heap.Cell.
type TaggedInt int64

// IsTagged always reports true for TaggedInt.
func (TaggedInt) IsTagged() bool { return true }

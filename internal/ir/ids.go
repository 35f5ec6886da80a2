package ir

// NodeID identifies a node within its graph. IDs are assigned from a
// monotonic allocator, so creation order and ID order coincide; scans that
// follow ID order are deterministic but carry no other meaning.
type NodeID int64

// idAllocator hands out strictly increasing node IDs.
//
// Thread-safety: none. A graph is owned by exactly one compilation and
// mutated single-threaded; the allocator inherits that discipline.
type idAllocator struct {
	next int64
}

// Next returns the next ID and advances the allocator.
func (a *idAllocator) Next() NodeID {
	id := a.next
	a.next++
	return NodeID(id)
}

// Current returns the number of IDs handed out so far.
func (a *idAllocator) Current() int64 {
	return a.next
}

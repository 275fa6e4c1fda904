package domain

// firstNodeID is the first id handed out in a fresh session
const firstNodeID NodeID = 1

// IDAllocator hands out monotonically increasing node ids.
// It is not safe for concurrent use; the owning session serializes access.
type IDAllocator struct {
	next NodeID
}

// NewIDAllocator creates an allocator starting at the first session id
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: firstNodeID}
}

// Next returns a fresh id and advances the allocator
func (a *IDAllocator) Next() NodeID {
	id := a.next
	a.next++
	return id
}

// Peek returns the id the next call to Next will return
func (a *IDAllocator) Peek() NodeID {
	return a.next
}

// Reset rewinds the allocator for a new session
func (a *IDAllocator) Reset() {
	a.next = firstNodeID
}

// Observe moves the allocator past max so ids already present in a loaded
// graph are never handed out again. It never moves the allocator backwards.
func (a *IDAllocator) Observe(max NodeID) {
	if max+1 > a.next {
		a.next = max + 1
	}
}

package rhi

// NeedBarrier reports whether a transition from the current access to the target access must be emitted.
// A barrier is required whenever the two differ, or - even when they are equal - when both sides are a
// storage write, since two consecutive storage writes are a write-after-write hazard that still needs
// serialising (§4.9, testable property 4).
func NeedBarrier(from, to ResourceAccessType) bool {
	if to == AccessNone {
		panic("rhi: NeedBarrier called with AccessNone target")
	}
	if from != to {
		return true
	}
	return from.ContainsAny(AccessStorageResourceWrite) && to.ContainsAny(AccessStorageResourceWrite)
}

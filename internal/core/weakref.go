package core

// WeakRef yields its target while the target is reachable by other means
// and clears to nil once the collector proves it unreachable, firing
// callback exactly once at that point (spec.md §4.1 create_weak_ref).
type WeakRef struct {
	target   Obj
	callback func()
	cleared  bool
}

// Get returns the target, or nil if it has been collected.
func (w *WeakRef) Get() Obj {
	if w.cleared {
		return nil
	}
	return w.target
}

// Cleared reports whether the collector has already cleared this ref.
func (w *WeakRef) Cleared() bool {
	return w.cleared
}

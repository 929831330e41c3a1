package ui

// FocusID identifies one focusable location within a window. Ids are
// generational: a window never reuses one.
type FocusID uint64

type focusLife struct {
	refs int
}

// FocusHandle is a reference-counted claim on a FocusID. Once every handle
// to an id has been released, focus state referencing it reports unfocused
// rather than dangling.
type FocusHandle struct {
	id   FocusID
	life *focusLife
}

// ID returns the handle's focus id.
func (h FocusHandle) ID() FocusID {
	return h.id
}

// Clone adds a reference to the focus id.
func (h FocusHandle) Clone() FocusHandle {
	if h.life != nil {
		h.life.refs++
	}
	return h
}

// Release drops one reference.
func (h FocusHandle) Release() {
	if h.life != nil && h.life.refs > 0 {
		h.life.refs--
	}
}

func (h FocusHandle) alive() bool {
	return h.life != nil && h.life.refs > 0
}

// NewFocusHandle allocates a fresh focusable id for this window.
func (w *Window) NewFocusHandle() FocusHandle {
	w.nextFocusID++
	return FocusHandle{id: FocusID(w.nextFocusID), life: &focusLife{refs: 1}}
}

// IsFocused reports whether this handle holds the window's focus. A handle
// whose references are all released reports false even while the window's
// focus slot still names it; staleness is graceful, never a broken
// reference.
func (h FocusHandle) IsFocused(w *Window) bool {
	return h.alive() && w.focused.alive() && w.focused.id == h.id
}

// Focus moves the window's focus to the handle. The previously focused
// handle's observers are notified before the newly focused handle's,
// synchronously, exactly once each. Focusing a dead handle just blurs.
func (w *Window) Focus(h FocusHandle) {
	if w.focused.alive() && w.focused.id == h.id && h.alive() {
		return
	}
	old := w.focused
	if h.alive() {
		w.focused = h
	} else {
		w.focused = FocusHandle{}
	}
	if old.alive() {
		w.focusObservers.fire(old.id, false)
	}
	if w.focused.alive() {
		w.focusObservers.fire(w.focused.id, true)
	}
}

// Blur clears the window's focus, notifying the outgoing handle.
func (w *Window) Blur() {
	w.Focus(FocusHandle{})
}

// DisableFocus clears focus and stops the window from tracking it until the
// next Focus call.
func (w *Window) DisableFocus() {
	w.Blur()
}

// FocusedID returns the currently focused id, if a live handle holds it.
func (w *Window) FocusedID() (FocusID, bool) {
	if !w.focused.alive() {
		return 0, false
	}
	return w.focused.id, true
}

// ObserveFocus registers fn to run when the handle gains or loses focus.
func (w *Window) ObserveFocus(h FocusHandle, fn func(focused bool)) *Subscription {
	return w.focusObservers.add(h.id, fn)
}

type focusObserverEntry struct {
	fn      func(bool)
	removed bool
}

// focusObserverSet keeps per-focus-id callbacks in registration order.
type focusObserverSet struct {
	entries map[FocusID][]*focusObserverEntry
}

func newFocusObserverSet() *focusObserverSet {
	return &focusObserverSet{entries: make(map[FocusID][]*focusObserverEntry)}
}

func (s *focusObserverSet) add(id FocusID, fn func(bool)) *Subscription {
	e := &focusObserverEntry{fn: fn}
	s.entries[id] = append(s.entries[id], e)
	return &Subscription{cancel: func() { e.removed = true }}
}

func (s *focusObserverSet) fire(id FocusID, focused bool) {
	list := s.entries[id]
	snapshot := make([]*focusObserverEntry, len(list))
	copy(snapshot, list)
	for _, e := range snapshot {
		if !e.removed {
			e.fn(focused)
		}
	}
}

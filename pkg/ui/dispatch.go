package ui

import "github.com/go-verve/verve/pkg/keymap"

// SetKeymapMatcher installs the external keymap-matching algorithm.
func (w *Window) SetKeymapMatcher(m keymap.Matcher) {
	w.matcher = m
}

// WithKeyContext adds a key-context layer for the duration of fn. Layers
// accumulate in paint order, outermost first, and are published with the
// frame like the hitbox registry.
func (w *Window) WithKeyContext(ctx keymap.Context, fn func()) {
	w.buildingContexts = append(w.buildingContexts, ctx)
	fn()
}

// RegisterAction binds a handler to an action name for this window.
func (w *Window) RegisterAction(name string, fn func()) {
	w.actions[name] = append(w.actions[name], fn)
}

// DispatchKeystroke threads the most recent completed frame's context stack
// and the keystrokes typed so far through the matcher, then dispatches any
// matched action. It reports whether the input is still a pending prefix of
// a longer binding.
func (w *Window) DispatchKeystroke(ks keymap.Keystroke) (pending bool) {
	if w.matcher == nil {
		return false
	}
	w.pendingKeystrokes = append(w.pendingKeystrokes, ks)
	result := w.matcher.Match(w.frameContexts, w.pendingKeystrokes)
	if result.Pending {
		return true
	}
	w.pendingKeystrokes = w.pendingKeystrokes[:0]
	if result.Action != "" {
		w.dispatchAction(result.Action)
	}
	return false
}

func (w *Window) dispatchAction(name string) {
	handlers := w.actions[name]
	if len(handlers) == 0 {
		w.app.log.Debug("unhandled action", "action", name)
		return
	}
	for _, fn := range handlers {
		fn()
	}
}

package ui

import "github.com/go-verve/verve/pkg/geometry"

// HitboxID identifies one hitbox within one frame.
type HitboxID uint64

// Hitbox is a frame-scoped pointer target registered during prepaint, in
// paint order. Opaque hitboxes block hover propagation to hitboxes painted
// beneath them at the same point.
type Hitbox struct {
	ID     HitboxID
	Bounds geometry.Bounds
	Opaque bool
}

// InsertHitbox registers a hitbox for the frame being built. The window's
// current paint offset is applied, so elements pass bounds in their own
// coordinates. Hitboxes take effect when the frame completes.
func (w *Window) InsertHitbox(bounds geometry.Bounds, opaque bool) Hitbox {
	w.nextHitboxID++
	hitbox := Hitbox{
		ID:     HitboxID(w.nextHitboxID),
		Bounds: bounds.Translate(w.paintOffset),
		Opaque: opaque,
	}
	w.buildingHitboxes = append(w.buildingHitboxes, hitbox)
	return hitbox
}

// HitTest returns the hitboxes of the most recently completed frame that
// contain the point, topmost (last painted) first. The list is truncated
// after the first opaque hitbox, which blocks everything beneath it. Paint
// order is the sole tie-break; entries are never re-sorted.
func (w *Window) HitTest(p geometry.Point) []Hitbox {
	var hits []Hitbox
	for i := len(w.frameHitboxes) - 1; i >= 0; i-- {
		h := w.frameHitboxes[i]
		if !h.Bounds.Contains(p) {
			continue
		}
		hits = append(hits, h)
		if h.Opaque {
			break
		}
	}
	return hits
}

// TopHit resolves the pointer target at the point: the topmost opaque
// hitbox containing it, or the topmost hitbox overall when no opaque one
// does.
func (w *Window) TopHit(p geometry.Point) (Hitbox, bool) {
	hits := w.HitTest(p)
	if len(hits) == 0 {
		return Hitbox{}, false
	}
	for _, h := range hits {
		if h.Opaque {
			return h, true
		}
	}
	return hits[0], true
}

// UpdateMousePosition records the pointer position used by IsHovered.
func (w *Window) UpdateMousePosition(p geometry.Point) {
	w.mousePosition = p
}

// MousePosition returns the last recorded pointer position.
func (w *Window) MousePosition() geometry.Point {
	return w.mousePosition
}

// IsHovered reports whether the hitbox is under the pointer in the most
// recently completed frame. Hover reaches every non-opaque hitbox above the
// first opaque one; stale hitboxes from earlier frames are never consulted.
func (h Hitbox) IsHovered(w *Window) bool {
	for _, hit := range w.HitTest(w.mousePosition) {
		if hit.ID == h.ID {
			return true
		}
	}
	return false
}

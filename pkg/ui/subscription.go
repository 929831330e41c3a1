package ui

import "github.com/go-verve/verve/pkg/entity"

// Subscription is the cancellation token returned by every observer or
// event-listener registration. Cancel deregisters the callback exactly once;
// further calls are no-ops. Cancelling after the observed entity has been
// released is safe.
type Subscription struct {
	cancel    func()
	cancelled bool
}

// Cancel deregisters the subscription's callback.
func (s *Subscription) Cancel() {
	if s == nil || s.cancelled {
		return
	}
	s.cancelled = true
	if s.cancel != nil {
		s.cancel()
	}
}

type subscriberEntry struct {
	fn      func(payload any)
	removed bool
}

// subscriberSet keeps per-entity callback lists in registration order.
// Callbacks fire synchronously within the call that triggered them.
type subscriberSet struct {
	entries map[entity.ID][]*subscriberEntry
}

func newSubscriberSet() *subscriberSet {
	return &subscriberSet{entries: make(map[entity.ID][]*subscriberEntry)}
}

func (s *subscriberSet) add(id entity.ID, fn func(any)) *Subscription {
	e := &subscriberEntry{fn: fn}
	s.entries[id] = append(s.entries[id], e)
	return &Subscription{cancel: func() { e.removed = true }}
}

// fire invokes the id's callbacks in registration order. Callbacks
// registered during the walk do not fire until the next trigger.
func (s *subscriberSet) fire(id entity.ID, payload any) {
	list := s.entries[id]
	snapshot := make([]*subscriberEntry, len(list))
	copy(snapshot, list)
	for _, e := range snapshot {
		if !e.removed {
			e.fn(payload)
		}
	}
}

// drop discards every callback registered for id.
func (s *subscriberSet) drop(id entity.ID) {
	delete(s.entries, id)
}

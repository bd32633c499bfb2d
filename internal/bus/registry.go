package bus

import (
	"sync"

	"github.com/dshills/enginebus/internal/topic"
)

// entry is a single registration of a listener on a topic.
type entry struct {
	sub      *Subscription
	listener Listener
	identity any
}

// registry maps topics to their ordered listener entries.
// It is the bus's single lock; dispatch works on copies returned by snapshot.
type registry struct {
	mu      sync.Mutex
	entries map[topic.Topic][]*entry
	order   []topic.Topic
}

func newRegistry() *registry {
	return &registry{
		entries: make(map[topic.Topic][]*entry),
	}
}

// add appends e to the list for its topic, creating the topic if needed.
func (r *registry) add(e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := e.sub.topic
	if _, exists := r.entries[t]; !exists {
		r.order = append(r.order, t)
	}
	r.entries[t] = append(r.entries[t], e)
}

// removeFirst removes the first entry on t whose identity matches.
func (r *registry) removeFirst(t topic.Topic, identity any) *entry {
	if identity == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries[t] {
		if e.identity != nil && sameIdentity(e.identity, identity) {
			r.removeAt(t, i)
			return e
		}
	}
	return nil
}

// removeSubscription removes the entry belonging to sub.
func (r *registry) removeSubscription(sub *Subscription) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries[sub.topic] {
		if e.sub == sub {
			r.removeAt(sub.topic, i)
			return true
		}
	}
	return false
}

// removeAt deletes index i of t's list, preserving order, and prunes the
// topic when its list becomes empty. Callers hold mu.
func (r *registry) removeAt(t topic.Topic, i int) {
	list := r.entries[t]
	next := make([]*entry, 0, len(list)-1)
	next = append(next, list[:i]...)
	next = append(next, list[i+1:]...)

	if len(next) == 0 {
		r.dropTopic(t)
		return
	}
	r.entries[t] = next
}

// clear removes every entry for the given topics, or for all topics when
// none are given. It returns the removed entries.
func (r *registry) clear(topics ...topic.Topic) []*entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []*entry
	if len(topics) == 0 {
		for _, t := range r.order {
			removed = append(removed, r.entries[t]...)
		}
		r.entries = make(map[topic.Topic][]*entry)
		r.order = nil
		return removed
	}

	for _, t := range topics {
		removed = append(removed, r.entries[t]...)
		r.dropTopic(t)
	}
	return removed
}

// dropTopic deletes t from the map and the ordered key list. Callers hold mu.
func (r *registry) dropTopic(t topic.Topic) {
	if _, exists := r.entries[t]; !exists {
		return
	}
	delete(r.entries, t)
	for i, o := range r.order {
		if o == t {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
}

// snapshot returns a copy of t's entries. The copy is stable against
// concurrent or re-entrant modification.
func (r *registry) snapshot(t topic.Topic) []*entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.entries[t]
	if len(list) == 0 {
		return nil
	}
	result := make([]*entry, len(list))
	copy(result, list)
	return result
}

func (r *registry) count(t topic.Topic) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries[t])
}

func (r *registry) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, list := range r.entries {
		n += len(list)
	}
	return n
}

// topics returns topics with at least one entry, in first-registration order.
func (r *registry) topics() []topic.Topic {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.order) == 0 {
		return nil
	}
	result := make([]topic.Topic, len(r.order))
	copy(result, r.order)
	return result
}

package links

import "sync"

// Registry is the in-memory store of Link records. All reads and writes go
// through its methods; a single mutex guards the whole set. Records keep
// insertion order, which is the order queries return them in.
//
// The registry is volatile: its contents live exactly as long as the
// process. Callers that need links to survive a restart must re-create
// them.
type Registry struct {
	mu    sync.Mutex
	links []Link
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Len returns the number of stored links.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.links)
}

// Find returns copies of all links matching the predicate, in insertion
// order. A nil predicate matches everything.
func (r *Registry) Find(match func(Link) bool) []Link {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Link
	for _, l := range r.links {
		if match == nil || match(l) {
			out = append(out, l)
		}
	}
	return out
}

// FindByID returns the link with the given id, if present.
func (r *Registry) FindByID(id string) (Link, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.links {
		if l.ID == id {
			return l, true
		}
	}
	return Link{}, false
}

// FindByPair returns the link for the given (task, event) pair, if present.
func (r *Registry) FindByPair(taskID, eventID string) (Link, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.links {
		if l.TaskID == taskID && l.EventID == eventID {
			return l, true
		}
	}
	return Link{}, false
}

// Insert appends a link to the set. The caller is responsible for having
// verified pair uniqueness; InsertIfAbsent does both under one lock.
func (r *Registry) Insert(l Link) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links = append(r.links, l)
}

// InsertIfAbsent appends the link unless its (task, event) pair is already
// present. It reports whether the link was inserted. The check and the
// insert happen under the same lock, so concurrent creators cannot both
// succeed for the same pair.
func (r *Registry) InsertIfAbsent(l Link) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.links {
		if existing.TaskID == l.TaskID && existing.EventID == l.EventID {
			return false
		}
	}
	r.links = append(r.links, l)
	return true
}

// RemoveByID deletes the link with the given id and returns the removed
// record. The second return is false when no such link exists.
func (r *Registry) RemoveByID(id string) (Link, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range r.links {
		if l.ID == id {
			r.links = append(r.links[:i], r.links[i+1:]...)
			return l, true
		}
	}
	return Link{}, false
}

// RemoveByPair deletes the link for the given (task, event) pair and
// returns the removed record. The second return is false when the pair is
// not linked.
func (r *Registry) RemoveByPair(taskID, eventID string) (Link, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range r.links {
		if l.TaskID == taskID && l.EventID == eventID {
			r.links = append(r.links[:i], r.links[i+1:]...)
			return l, true
		}
	}
	return Link{}, false
}

// Replace applies update to a copy of the link with the given id and
// stores the result in place, preserving position. The update function
// must not change ID, TaskID, EventID, or CreatedAt; Replace restores
// those fields afterwards so the invariant holds regardless. The second
// return is false when no such link exists.
func (r *Registry) Replace(id string, update func(*Link)) (Link, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range r.links {
		if l.ID != id {
			continue
		}
		updated := l
		update(&updated)
		updated.ID = l.ID
		updated.TaskID = l.TaskID
		updated.EventID = l.EventID
		updated.CreatedAt = l.CreatedAt
		r.links[i] = updated
		return updated, true
	}
	return Link{}, false
}

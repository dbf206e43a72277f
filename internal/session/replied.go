package session

import "sync"

// RepliedSet is the in-memory set of post IDs an account has already replied
// to. It is seeded from storage at session start and consulted on every scan
// pass so the database is not hit per post.
type RepliedSet struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewRepliedSet wraps an initial ID set. A nil map is fine.
func NewRepliedSet(ids map[string]struct{}) *RepliedSet {
	if ids == nil {
		ids = make(map[string]struct{})
	}
	return &RepliedSet{ids: ids}
}

// Has reports whether the post was already replied to.
func (r *RepliedSet) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ids[id]
	return ok
}

// Add marks a post as replied.
func (r *RepliedSet) Add(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids[id] = struct{}{}
}

// Len returns the set size.
func (r *RepliedSet) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}

// internal/discovery/roster.go
package discovery

import "github.com/tamzrod/vrf-gateway/internal/status"

// Roster is the ordered set of unit addresses a coordinator tracks.
// Order is the scan order and is kept stable across rescans.
// The zero value is an empty roster. A Roster is not safe for
// concurrent use; the coordinator guards it with its cycle lock.
type Roster struct {
	order []status.Address
	index map[status.Address]int
}

// NewRoster builds a roster from addrs, dropping duplicates.
func NewRoster(addrs []status.Address) *Roster {
	r := &Roster{}
	for _, a := range addrs {
		r.Add(a)
	}
	return r
}

// Add appends a if it is not already present and reports whether it
// was added.
func (r *Roster) Add(a status.Address) bool {
	if r.index == nil {
		r.index = make(map[status.Address]int)
	}
	if _, ok := r.index[a]; ok {
		return false
	}
	r.index[a] = len(r.order)
	r.order = append(r.order, a)
	return true
}

// Remove drops a and reports whether it was present.
func (r *Roster) Remove(a status.Address) bool {
	i, ok := r.index[a]
	if !ok {
		return false
	}
	r.order = append(r.order[:i], r.order[i+1:]...)
	delete(r.index, a)
	for j := i; j < len(r.order); j++ {
		r.index[r.order[j]] = j
	}
	return true
}

func (r *Roster) Contains(a status.Address) bool {
	_, ok := r.index[a]
	return ok
}

func (r *Roster) Len() int { return len(r.order) }

// Addresses returns a copy of the roster in order.
func (r *Roster) Addresses() []status.Address {
	out := make([]status.Address, len(r.order))
	copy(out, r.order)
	return out
}

// Apply merges a fresh scan: new addresses are appended, missing
// ones removed. It returns what changed.
func (r *Roster) Apply(scanned []status.Address) (added, removed []status.Address) {
	added, removed = Diff(r.order, scanned)
	for _, a := range removed {
		r.Remove(a)
	}
	for _, a := range added {
		r.Add(a)
	}
	return added, removed
}

// Diff compares two scans. added keeps the order of next, removed
// keeps the order of prev.
func Diff(prev, next []status.Address) (added, removed []status.Address) {
	inPrev := make(map[status.Address]bool, len(prev))
	for _, a := range prev {
		inPrev[a] = true
	}
	inNext := make(map[status.Address]bool, len(next))
	for _, a := range next {
		if inNext[a] {
			continue
		}
		inNext[a] = true
		if !inPrev[a] {
			added = append(added, a)
		}
	}
	for _, a := range prev {
		if !inNext[a] {
			removed = append(removed, a)
		}
	}
	return added, removed
}

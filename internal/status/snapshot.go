// internal/status/snapshot.go
package status

import "time"

// Health summarizes one gateway.
type Health uint16

const (
	// HealthUnknown is the boot state, before setup succeeds.
	HealthUnknown Health = iota
	// HealthOK means every rostered unit answered the last cycle.
	HealthOK
	// HealthDegraded means some units did not answer.
	HealthDegraded
	// HealthError means no unit answered.
	HealthError
)

func (h Health) String() string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthDegraded:
		return "degraded"
	case HealthError:
		return "error"
	default:
		return "unknown"
	}
}

// HealthOf derives gateway health from unit counts.
func HealthOf(available, total int) Health {
	switch {
	case total == 0:
		return HealthUnknown
	case available == total:
		return HealthOK
	case available == 0:
		return HealthError
	default:
		return HealthDegraded
	}
}

// Snapshot is a read-only copy of the published unit states.
type Snapshot struct {
	At       time.Time
	Duration time.Duration
	Health   Health

	order []Address
	units map[Address]UnitStatus
}

// NewSnapshot copies units; order fixes iteration order.
func NewSnapshot(order []Address, units map[Address]UnitStatus) Snapshot {
	s := Snapshot{
		order: make([]Address, 0, len(order)),
		units: make(map[Address]UnitStatus, len(units)),
	}
	for _, a := range order {
		u, ok := units[a]
		if !ok {
			continue
		}
		s.order = append(s.order, a)
		s.units[a] = u
	}
	return s
}

// Get returns the status for a.
func (s Snapshot) Get(a Address) (UnitStatus, bool) {
	u, ok := s.units[a]
	return u, ok
}

// Addresses returns the keys in roster order.
func (s Snapshot) Addresses() []Address {
	out := make([]Address, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of units.
func (s Snapshot) Len() int { return len(s.order) }

// Available counts available units.
func (s Snapshot) Available() int {
	n := 0
	for _, u := range s.units {
		if u.Available {
			n++
		}
	}
	return n
}

// ByKey returns a map keyed by "system-index".
func (s Snapshot) ByKey() map[string]UnitStatus {
	out := make(map[string]UnitStatus, len(s.units))
	for a, u := range s.units {
		out[a.Key()] = u
	}
	return out
}

// internal/poller/types.go
package poller

import (
	"errors"
	"time"
)

var (
	// ErrNotReady is returned by Setup when the gateway yields no
	// usable units, and by cycle operations before Setup succeeded.
	// The caller may retry Setup later.
	ErrNotReady = errors.New("poller: gateway not ready")
	// ErrUnknownUnit is returned for commands on addresses outside
	// the roster.
	ErrUnknownUnit = errors.New("poller: unknown unit")
)

// State is the position of the coordinator inside a poll cycle.
type State uint8

const (
	StateIdle State = iota
	StateConnecting
	StateReadingIdentity
	StateReadingUnits
	StatePublished
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateReadingIdentity:
		return "reading_identity"
	case StateReadingUnits:
		return "reading_units"
	case StatePublished:
		return "published"
	default:
		return "idle"
	}
}

// Config is the minimal runtime config the coordinator needs.
type Config struct {
	Gateway  string
	Interval time.Duration
}

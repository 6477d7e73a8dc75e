// internal/poller/rescan.go
package poller

import (
	"fmt"

	"github.com/tamzrod/vrf-gateway/internal/discovery"
	"github.com/tamzrod/vrf-gateway/internal/status"
)

// Rescan re-runs the bus scan and reconciles the roster: new units are
// appended and seeded with an immediate read, vanished units are
// dropped from the roster and the snapshot. Each change is published
// on the event bus. It returns the newly added addresses.
//
// A scan that finds nothing is treated as a bus outage and leaves
// the roster untouched.
func (c *Coordinator) Rescan() ([]status.Address, error) {
	c.cycle.Lock()
	defer c.cycle.Unlock()

	if !c.Ready() {
		return nil, ErrNotReady
	}

	c.connect()
	found := c.adapter.ScanDevices(c.client)
	if len(found) == 0 {
		c.log.Warn().Msg("rescan found no units, keeping roster")
		return nil, fmt.Errorf("poller: %s: rescan found no units", c.cfg.Gateway)
	}

	c.mu.Lock()
	added, removed := c.roster.Apply(found)
	prev := c.units
	c.mu.Unlock()

	seeded := make(map[status.Address]status.UnitStatus, len(added))
	for _, a := range added {
		seeded[a] = c.readUnit(a, prev)
	}

	c.publishUnits(func(units map[status.Address]status.UnitStatus) {
		for _, a := range removed {
			delete(units, a)
		}
		for a, st := range seeded {
			units[a] = st
		}
	})

	for _, a := range added {
		c.bus.Publish(discovery.NewEvent(discovery.EventUnitAdded, c.cfg.Gateway, a))
	}
	for _, a := range removed {
		c.bus.Publish(discovery.NewEvent(discovery.EventUnitRemoved, c.cfg.Gateway, a))
	}

	if len(added) > 0 || len(removed) > 0 {
		c.log.Info().
			Int("added", len(added)).
			Int("removed", len(removed)).
			Int("units", len(found)).
			Msg("roster changed")
	}
	return added, nil
}

// internal/poller/commands.go
package poller

import (
	"fmt"
	"strings"

	"github.com/tamzrod/vrf-gateway/internal/codec"
	"github.com/tamzrod/vrf-gateway/internal/status"
)

// Every command writes, then re-reads just the target unit so the
// published status shows what the device actually accepted. Writes
// are never retried. The re-read happens even when the write failed.

// SetPower switches a unit on or off.
func (c *Coordinator) SetPower(a status.Address, on bool) error {
	return c.command(a, "power", func(status.UnitStatus) error {
		return c.adapter.WritePower(c.client, a, on)
	})
}

// SetMode writes an operating mode without touching power.
func (c *Coordinator) SetMode(a status.Address, m codec.Mode) error {
	code, ok := c.adapter.Codec().EncodeMode(m)
	if !ok {
		return fmt.Errorf("poller: %s: mode %q not supported by %s", c.cfg.Gateway, m, c.adapter.Name())
	}
	return c.command(a, "mode", func(status.UnitStatus) error {
		return c.adapter.WriteMode(c.client, a, code)
	})
}

// SetHVACMode takes a thermostat mode name. "off" powers the unit
// down; any other mode powers it up when it is not known to be on,
// then writes the mode.
func (c *Coordinator) SetHVACMode(a status.Address, mode string) error {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "off" {
		return c.command(a, "hvac_mode", func(status.UnitStatus) error {
			return c.adapter.WritePower(c.client, a, false)
		})
	}

	m, ok := codec.ParseMode(mode)
	if !ok {
		return fmt.Errorf("poller: %s: unknown hvac mode %q", c.cfg.Gateway, mode)
	}
	code, ok := c.adapter.Codec().EncodeMode(m)
	if !ok {
		return fmt.Errorf("poller: %s: mode %q not supported by %s", c.cfg.Gateway, m, c.adapter.Name())
	}

	return c.command(a, "hvac_mode", func(last status.UnitStatus) error {
		// an unavailable status is not a trustworthy "already on"
		if !last.Available || !last.Power {
			if err := c.adapter.WritePower(c.client, a, true); err != nil {
				return err
			}
		}
		return c.adapter.WriteMode(c.client, a, code)
	})
}

// SetTemperature writes a setpoint. It is clamped to the limits the
// gateway reports, when it reports any, and then to the adapter's
// own safe range.
func (c *Coordinator) SetTemperature(a status.Address, temp int) error {
	t := temp
	if lim := c.Identity().TempLimits; lim.Valid() {
		t = lim.Clamp(t)
	}
	return c.command(a, "temperature", func(status.UnitStatus) error {
		return c.adapter.WriteTemperature(c.client, a, t)
	})
}

// SetFan writes a fan speed.
func (c *Coordinator) SetFan(a status.Address, f codec.Fan) error {
	code, ok := c.adapter.Codec().EncodeFan(f)
	if !ok {
		return fmt.Errorf("poller: %s: fan speed %q not supported by %s", c.cfg.Gateway, f, c.adapter.Name())
	}
	return c.command(a, "fan", func(status.UnitStatus) error {
		return c.adapter.WriteFanSpeed(c.client, a, code)
	})
}

// SetSwing writes a swing setting.
func (c *Coordinator) SetSwing(a status.Address, s codec.Swing) error {
	code, ok := codec.EncodeSwing(s)
	if !ok {
		return fmt.Errorf("poller: %s: unknown swing %q", c.cfg.Gateway, s)
	}
	return c.command(a, "swing", func(status.UnitStatus) error {
		return c.adapter.WriteSwing(c.client, a, code)
	})
}

func (c *Coordinator) command(a status.Address, op string, write func(last status.UnitStatus) error) error {
	c.cycle.Lock()
	defer c.cycle.Unlock()

	if !c.Ready() {
		return ErrNotReady
	}

	c.mu.RLock()
	known := c.roster.Contains(a)
	last := c.units[a]
	c.mu.RUnlock()
	if !known {
		return fmt.Errorf("%w: %s unit %s", ErrUnknownUnit, c.cfg.Gateway, a.Key())
	}

	log := c.log.With().Str("unit", a.Key()).Str("op", op).Logger()

	err := write(last)
	c.metrics.command(c.cfg.Gateway, op, err)
	if err != nil {
		log.Warn().Err(err).Msg("command failed")
	} else {
		log.Info().Msg("command written")
	}

	c.reread(a)

	if err != nil {
		return fmt.Errorf("poller: %s %s on %s: %w", c.cfg.Gateway, op, a.Key(), err)
	}
	return nil
}

// reread refreshes one unit and republishes the snapshot. Caller
// holds the cycle lock.
func (c *Coordinator) reread(a status.Address) {
	c.mu.RLock()
	prev := c.units
	c.mu.RUnlock()

	st := c.readUnit(a, prev)
	c.publishUnits(func(units map[status.Address]status.UnitStatus) {
		units[a] = st
	})
}

// publishUnits applies change to a copy of the unit map and publishes
// a new snapshot for the current roster. The snapshot keeps the timing
// of the last full cycle. Caller holds the cycle lock.
func (c *Coordinator) publishUnits(change func(map[status.Address]status.UnitStatus)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	units := make(map[status.Address]status.UnitStatus, len(c.units)+1)
	for k, v := range c.units {
		units[k] = v
	}
	change(units)

	prevSnap := c.snap
	snap := status.NewSnapshot(c.roster.Addresses(), units)
	snap.At = prevSnap.At
	snap.Duration = prevSnap.Duration
	snap.Health = status.HealthOf(snap.Available(), snap.Len())

	c.units = units
	c.snap = snap
}

// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/vrf-gateway/internal/adapter"
	"github.com/tamzrod/vrf-gateway/internal/codec"
	"github.com/tamzrod/vrf-gateway/internal/discovery"
	"github.com/tamzrod/vrf-gateway/internal/status"
	"github.com/tamzrod/vrf-gateway/internal/transport"
)

// Coordinator owns one gateway: its roster, the last published
// snapshot and the gateway identity.
//
// Cycles, commands and rescans are serialized by one lock, so a rescan
// never mutates the roster under a running cycle. Readers only take
// the state lock and never wait for bus I/O.
type Coordinator struct {
	cfg     Config
	adapter adapter.Adapter
	client  transport.Client
	log     zerolog.Logger
	metrics *Metrics
	bus     *discovery.Bus
	now     func() time.Time

	cycle sync.Mutex

	mu       sync.RWMutex
	ready    bool
	state    State
	roster   *discovery.Roster
	units    map[status.Address]status.UnitStatus
	identity status.Identity
	snap     status.Snapshot
	lastDur  time.Duration
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithMetrics records cycle and command metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithBus publishes roster changes to b.
func WithBus(b *discovery.Bus) Option {
	return func(c *Coordinator) { c.bus = b }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// New creates a coordinator. It does no I/O; call Setup next.
func New(cfg Config, a adapter.Adapter, client transport.Client, log zerolog.Logger, opts ...Option) (*Coordinator, error) {
	if cfg.Gateway == "" {
		return nil, errors.New("poller: gateway id required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if a == nil || client == nil {
		return nil, errors.New("poller: adapter and client required")
	}

	c := &Coordinator{
		cfg:     cfg,
		adapter: a,
		client:  client,
		log:     log.With().Str("gateway", cfg.Gateway).Logger(),
		now:     time.Now,
		roster:  discovery.NewRoster(nil),
		units:   make(map[status.Address]status.UnitStatus),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Setup scans the bus and runs the first refresh. It fails with
// ErrNotReady when the scan finds nothing or no unit answers, and
// then publishes nothing.
func (c *Coordinator) Setup() error {
	c.cycle.Lock()
	defer c.cycle.Unlock()

	c.connect()
	found := c.adapter.ScanDevices(c.client)
	if len(found) == 0 {
		c.log.Error().Msg("setup: scan found no units")
		return fmt.Errorf("%w: %s: scan found no units", ErrNotReady, c.cfg.Gateway)
	}

	roster := discovery.NewRoster(found)
	units, snap := c.refresh(roster, map[status.Address]status.UnitStatus{})
	if snap.Available() == 0 {
		c.log.Error().Int("units", roster.Len()).Msg("setup: no unit answered")
		return fmt.Errorf("%w: %s: none of %d units answered", ErrNotReady, c.cfg.Gateway, roster.Len())
	}

	c.mu.Lock()
	c.roster = roster
	c.units = units
	c.snap = snap
	c.lastDur = snap.Duration
	c.ready = true
	c.mu.Unlock()

	for _, a := range roster.Addresses() {
		c.bus.Publish(discovery.NewEvent(discovery.EventUnitAdded, c.cfg.Gateway, a))
	}
	ev := c.log.Info().
		Int("units", roster.Len()).
		Int("available", snap.Available())
	if id := c.Identity(); id.Known() {
		ev = ev.Str("brand", id.BrandName)
	} else {
		ev = ev.Str("brand", "unknown")
	}
	ev.Msg("gateway ready")
	return nil
}

// PollOnce runs one full cycle and publishes its snapshot. Unit
// failures never fail the cycle.
func (c *Coordinator) PollOnce() (status.Snapshot, error) {
	c.cycle.Lock()
	defer c.cycle.Unlock()

	if !c.Ready() {
		return status.Snapshot{}, ErrNotReady
	}

	c.mu.RLock()
	roster, prev := c.roster, c.units
	c.mu.RUnlock()

	units, snap := c.refresh(roster, prev)

	c.mu.Lock()
	c.units = units
	c.snap = snap
	c.lastDur = snap.Duration
	c.mu.Unlock()

	c.log.Debug().
		Dur("took", snap.Duration).
		Int("available", snap.Available()).
		Int("units", snap.Len()).
		Str("health", snap.Health.String()).
		Msg("cycle published")
	return snap, nil
}

// refresh is the cycle body. prev is only read.
func (c *Coordinator) refresh(roster *discovery.Roster, prev map[status.Address]status.UnitStatus) (map[status.Address]status.UnitStatus, status.Snapshot) {
	start := c.now()

	c.setState(StateConnecting)
	c.connect()

	c.setState(StateReadingIdentity)
	c.readIdentity()

	c.setState(StateReadingUnits)
	order := roster.Addresses()
	units := make(map[status.Address]status.UnitStatus, len(order))
	for _, a := range order {
		units[a] = c.readUnit(a, prev)
	}

	snap := status.NewSnapshot(order, units)
	snap.At = c.now()
	snap.Duration = snap.At.Sub(start)
	snap.Health = status.HealthOf(snap.Available(), snap.Len())

	c.setState(StatePublished)
	c.metrics.observeCycle(c.cfg.Gateway, snap.Duration, snap.Available(), snap.Len())
	return units, snap
}

// connect is fire and forget: a dead link shows up as failed reads.
func (c *Coordinator) connect() {
	if err := c.client.Connect(); err != nil {
		c.log.Debug().Err(err).Msg("connect failed")
	}
}

// readIdentity keeps the last known identity when the read fails.
func (c *Coordinator) readIdentity() {
	id, err := c.adapter.ReadIdentity(c.client)
	if err != nil {
		c.log.Debug().Err(err).Msg("identity read failed, keeping last known")
		return
	}
	c.mu.Lock()
	c.identity = id
	c.mu.Unlock()
}

// readUnit reads one unit. A failed read carries the previous values
// forward marked unavailable.
func (c *Coordinator) readUnit(a status.Address, prev map[status.Address]status.UnitStatus) status.UnitStatus {
	start := c.now()
	st := c.adapter.ReadStatus(c.client, a)
	log := c.log.With().Str("unit", a.Key()).Logger()

	if !st.Available {
		c.metrics.unitFailed(c.cfg.Gateway, a.Key())
		log.Debug().Msg("unit did not answer")
		if last, ok := prev[a]; ok {
			return last.CarryForward()
		}
		return status.Unavailable()
	}

	st.UpdatedAt = c.now()
	c.checkCodes(log, st)
	log.Debug().Dur("took", st.UpdatedAt.Sub(start)).Bool("power", st.Power).Msg("unit read")
	return st
}

// checkCodes logs raw codes that decode only through a fallback.
func (c *Coordinator) checkCodes(log zerolog.Logger, st status.UnitStatus) {
	p := c.adapter.Codec()
	if m, ok := p.DecodeMode(st.ModeCode); !ok {
		log.Debug().Uint8("raw", st.ModeCode).Str("fallback", m.String()).Msg("unknown mode code")
	}
	if f, ok := p.DecodeFan(st.FanCode); !ok {
		log.Debug().Uint8("raw", st.FanCode).Str("fallback", f.String()).Msg("unknown fan code")
	}
	if sw, ok := codec.DecodeSwing(st.SwingCode); !ok {
		log.Debug().Uint8("raw", st.SwingCode).Str("fallback", sw.String()).Msg("unknown swing code")
	}
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// ---- read side ----

// Gateway returns the gateway id.
func (c *Coordinator) Gateway() string { return c.cfg.Gateway }

// Adapter returns the gateway's adapter.
func (c *Coordinator) Adapter() adapter.Adapter { return c.adapter }

// Ready reports whether Setup succeeded.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Status returns the published status of one unit.
func (c *Coordinator) Status(a status.Address) (status.UnitStatus, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.Get(a)
}

// Snapshot returns the last published snapshot.
func (c *Coordinator) Snapshot() status.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Identity returns the last known gateway identity.
func (c *Coordinator) Identity() status.Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

// Roster returns the tracked addresses in poll order.
func (c *Coordinator) Roster() []status.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roster.Addresses()
}

// State returns the current cycle state.
func (c *Coordinator) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// LastDuration is the wall-clock time of the last full cycle.
func (c *Coordinator) LastDuration() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastDur
}

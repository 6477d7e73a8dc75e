// internal/poller/builder.go
package poller

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tamzrod/vrf-gateway/internal/adapter"
	cfg "github.com/tamzrod/vrf-gateway/internal/config"
	"github.com/tamzrod/vrf-gateway/internal/transport"
)

// LinkConfig maps a gateway transport section onto a link config.
func LinkConfig(t cfg.TransportConfig) transport.LinkConfig {
	lc := transport.LinkConfig{
		Kind:    transport.Kind(t.Kind),
		Timeout: t.Timeout(),
	}
	switch lc.Kind {
	case transport.KindSerial:
		lc.Device = t.Port
		lc.BaudRate = t.BaudRate
		lc.DataBits = t.ByteSize
		lc.StopBits = t.StopBits
		lc.Parity = t.Parity
	case transport.KindTCP:
		lc.Host = t.Host
		lc.Port = t.TCPPort
	}
	return lc
}

// Build constructs a Coordinator for one gateway and acquires its
// shared link from reg. Gateways on the same port or host share one
// link. The returned closer releases the link.
// Build does not touch the bus beyond the first best-effort connect;
// call Setup (or SetupLoop) next.
func Build(g cfg.GatewayConfig, reg *transport.Registry, log zerolog.Logger, opts ...Option) (*Coordinator, func() error, error) {
	a, err := adapter.New(g.Adapter, log.With().Str("gateway", g.ID).Logger())
	if err != nil {
		return nil, nil, fmt.Errorf("gateway %q: %w", g.ID, err)
	}

	link, err := reg.Acquire(LinkConfig(g.Transport))
	if err != nil {
		return nil, nil, fmt.Errorf("gateway %q: %w", g.ID, err)
	}
	closer := func() error { return reg.Release(link) }

	c, err := New(
		Config{
			Gateway:  g.ID,
			Interval: g.Poll.Interval(),
		},
		a,
		link.Session(g.SlaveID),
		log,
		opts...,
	)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}

	return c, closer, nil
}

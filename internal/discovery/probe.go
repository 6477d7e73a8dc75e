// internal/discovery/probe.go
package discovery

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tamzrod/vrf-gateway/internal/adapter"
	"github.com/tamzrod/vrf-gateway/internal/status"
	"github.com/tamzrod/vrf-gateway/internal/transport"
)

// DefaultSlaveFrom and DefaultSlaveTo bound the default probe sweep.
const (
	DefaultSlaveFrom uint8 = 1
	DefaultSlaveTo   uint8 = 10
)

// SessionFunc returns the client for one slave id on a shared link.
type SessionFunc func(slave uint8) transport.Client

// Found is one gateway that answered a probe.
type Found struct {
	Slave    uint8
	Kind     adapter.Kind
	Identity status.Identity
}

func (f Found) String() string {
	return fmt.Sprintf("slave %d: %s (%s)", f.Slave, f.Kind, f.Identity.BrandName)
}

// Probe sweeps slave ids from..to on one link. Each slave is asked for
// its identity by every adapter kind in adapter.Kinds order; the first
// kind that answers wins. Slaves that answer none are skipped.
func Probe(ctx context.Context, sessions SessionFunc, from, to uint8, log zerolog.Logger) ([]Found, error) {
	if from == 0 || to < from {
		return nil, fmt.Errorf("discovery: invalid slave range %d..%d", from, to)
	}

	adapters := make([]adapter.Adapter, 0, len(adapter.Kinds))
	for _, k := range adapter.Kinds {
		a, err := adapter.New(string(k), log)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}

	var found []Found
	for slave := int(from); slave <= int(to); slave++ {
		if err := ctx.Err(); err != nil {
			return found, err
		}

		c := sessions(uint8(slave))
		if err := c.Connect(); err != nil {
			log.Debug().Err(err).Int("slave", slave).Msg("probe connect failed")
			continue
		}

		for _, a := range adapters {
			id, err := a.ReadIdentity(c)
			if err != nil {
				log.Debug().Err(err).Int("slave", slave).Str("kind", string(a.Kind())).Msg("no identity")
				continue
			}
			f := Found{Slave: uint8(slave), Kind: a.Kind(), Identity: id}
			log.Info().Int("slave", slave).Str("kind", string(f.Kind)).Str("brand", id.BrandName).Msg("gateway found")
			found = append(found, f)
			break
		}
	}
	return found, nil
}

// cmd/vrfgw/probe.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/tamzrod/vrf-gateway/internal/adapter"
	"github.com/tamzrod/vrf-gateway/internal/config"
	"github.com/tamzrod/vrf-gateway/internal/discovery"
	"github.com/tamzrod/vrf-gateway/internal/poller"
	"github.com/tamzrod/vrf-gateway/internal/transport"
	tmodbus "github.com/tamzrod/vrf-gateway/internal/transport/modbus"
)

// probe sweeps the configured slave range on every distinct link and
// prints what answered.
func probe(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	log := newLogger(cfg.VRF.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	links := transport.NewRegistry(tmodbus.Dial, log)
	seen := make(map[string]bool)

	for _, g := range cfg.VRF.Gateways {
		lc := poller.LinkConfig(g.Transport)
		if seen[lc.Key()] {
			continue
		}
		seen[lc.Key()] = true

		link, err := links.Acquire(lc)
		if err != nil {
			return err
		}

		sessions := func(slave uint8) transport.Client { return link.Session(slave) }
		found, err := discovery.Probe(ctx, sessions, cfg.VRF.Probe.SlaveFrom, cfg.VRF.Probe.SlaveTo, log)
		_ = links.Release(link)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d gateway(s)\n", lc.Key(), len(found))
		for _, f := range found {
			fmt.Printf("  %s\n", f)
		}
	}
	return nil
}

// action runs one optional gateway-level operation.
func action(path, gatewayID, op string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	log := newLogger(cfg.VRF.Log)

	var gw *config.GatewayConfig
	for i := range cfg.VRF.Gateways {
		if cfg.VRF.Gateways[i].ID == gatewayID {
			gw = &cfg.VRF.Gateways[i]
			break
		}
	}
	if gw == nil {
		return fmt.Errorf("gateway %q not in config", gatewayID)
	}

	a, err := adapter.New(gw.Adapter, log)
	if err != nil {
		return err
	}

	links := transport.NewRegistry(tmodbus.Dial, log)
	link, err := links.Acquire(poller.LinkConfig(gw.Transport))
	if err != nil {
		return err
	}
	defer links.Release(link)
	c := link.Session(gw.SlaveID)

	switch {
	case op == "restart":
		err = a.Restart(c)
	case op == "factory-reset":
		err = a.FactoryReset(c)
	case op == "sync-time":
		err = a.SetSystemTime(c, time.Now())
	case strings.HasPrefix(op, "brand="):
		code, perr := strconv.ParseUint(strings.TrimPrefix(op, "brand="), 0, 8)
		if perr != nil {
			return fmt.Errorf("brand code: %w", perr)
		}
		err = a.WriteBrandCode(c, uint8(code))
	default:
		return fmt.Errorf("unknown op %q", op)
	}
	if err != nil {
		return err
	}

	log.Info().Str("gateway", gw.ID).Str("op", op).Msg("done")
	return nil
}

// cmd/vrfgw/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tamzrod/vrf-gateway/internal/config"
	"github.com/tamzrod/vrf-gateway/internal/discovery"
	"github.com/tamzrod/vrf-gateway/internal/poller"
	"github.com/tamzrod/vrf-gateway/internal/transport"
	tmodbus "github.com/tamzrod/vrf-gateway/internal/transport/modbus"
)

const usage = `usage:
  vrfgw <config.yaml>                         run all gateways
  vrfgw probe <config.yaml>                   find gateways on every configured link
  vrfgw action <config.yaml> <gateway> <op>   op: restart | factory-reset | sync-time | brand=<code>
  vrfgw set <config.yaml> <gateway> <unit> <field>=<value>
                                              field: power | mode | temp | fan | swing`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "probe":
		if len(os.Args) != 3 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		err = probe(os.Args[2])
	case "action":
		if len(os.Args) != 5 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		err = action(os.Args[2], os.Args[3], os.Args[4])
	case "set":
		if len(os.Args) != 6 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		err = set(os.Args[2], os.Args[3], os.Args[4], os.Args[5])
	default:
		err = run(os.Args[1])
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "vrfgw: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger from the log section.
func newLogger(c config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if c.Format == "json" {
		log = zerolog.New(os.Stderr)
	} else {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return log.Level(level).With().Timestamp().Logger()
}

type gateway struct {
	c     *poller.Coordinator
	retry time.Duration
}

// eventCapacity leaves room for every gateway to announce a full
// roster at once during setup.
func eventCapacity(gs []gateway) int {
	n := 0
	for _, g := range gs {
		n += g.c.Adapter().MaxUnits()
	}
	return n
}

func run(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	log := newLogger(cfg.VRF.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Metrics
	// --------------------

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := poller.NewMetrics(reg)

	var srv *http.Server
	if cfg.VRF.Metrics.Listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv = &http.Server{
			Addr:              cfg.VRF.Metrics.Listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info().Str("listen", srv.Addr).Msg("metrics listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	// --------------------
	// Build per-gateway coordinators
	// --------------------

	links := transport.NewRegistry(tmodbus.Dial, log)
	bus := discovery.NewBus()

	var gateways []gateway
	for _, g := range cfg.VRF.Gateways {
		c, closeLink, err := poller.Build(g, links, log, poller.WithMetrics(metrics), poller.WithBus(bus))
		if err != nil {
			return err
		}
		defer closeLink()
		gateways = append(gateways, gateway{c: c, retry: g.Poll.SetupRetry()})
	}

	// --------------------
	// Roster events
	// --------------------

	events := make(chan discovery.Event, eventCapacity(gateways))
	bus.Subscribe(events)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				log.Info().
					Str("event", string(ev.Kind)).
					Str("id", ev.ID.String()).
					Str("gateway", ev.Gateway).
					Str("unit", ev.Address.Key()).
					Msg("roster event")
			}
		}
	}()

	var wg sync.WaitGroup
	for _, g := range gateways {
		wg.Add(1)
		go func(g gateway) {
			defer wg.Done()
			if err := g.c.SetupLoop(ctx, g.retry); err != nil {
				return
			}
			g.c.Run(ctx, nil)
		}(g)
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	// an in-flight cycle runs to completion
	wg.Wait()
	if n := bus.Dropped(); n > 0 {
		log.Warn().Uint64("dropped", n).Msg("roster events dropped")
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return nil
}

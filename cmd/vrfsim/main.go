// cmd/vrfsim/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/vrf-gateway/internal/adapter"
	"github.com/tamzrod/vrf-gateway/internal/codec"
	"github.com/tamzrod/vrf-gateway/internal/simulator"
	"github.com/tamzrod/vrf-gateway/internal/status"
)

func main() {
	listen := flag.String("listen", "127.0.0.1:5502", "Modbus TCP listen address")
	kind := flag.String("kind", "solo", "gateway family: solo | light | pro")
	units := flag.Int("units", 4, "indoor units to seed (light, pro)")
	brand := flag.Uint("brand", 1, "brand code reported in the identity block")
	slave := flag.Uint("slave", 1, "unit id the gateway answers on")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if *slave == 0 || *slave > 247 {
		log.Fatal().Uint("slave", *slave).Msg("slave must be 1..247")
	}
	if *brand > 0xFF {
		log.Fatal().Uint("brand", *brand).Msg("brand must fit one byte")
	}

	bank, err := seed(*kind, uint8(*brand), uint8(*slave), *units)
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}

	srv, err := simulator.NewServer(simulator.Config{Listen: *listen}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("server")
	}
	srv.Attach(uint8(*slave), bank)

	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("start")
	}
	log.Info().
		Str("listen", *listen).
		Str("kind", *kind).
		Uint("slave", *slave).
		Int("units", *units).
		Msg("simulator running")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	_ = srv.Stop()
	log.Info().Msg("stopped")
}

// seed fills a bank with n units spread over the family's address space.
func seed(kind string, brand, slave uint8, n int) (*simulator.Bank, error) {
	if n < 1 {
		return nil, fmt.Errorf("units must be at least 1, got %d", n)
	}

	a, err := adapter.New(kind, zerolog.Nop())
	if err != nil {
		return nil, err
	}
	cool, _ := a.Codec().EncodeMode(codec.ModeCool)
	unit := func(i int) simulator.Unit {
		return simulator.Unit{
			Power:  i%2 == 0,
			Mode:   cool,
			Target: 22 + i%4,
			Room:   24 + i%3,
			Fan:    1,
		}
	}

	switch kind {
	case "solo":
		return simulator.SoloGateway(brand, unit(0)), nil

	case "light":
		if limit := adapter.LightSystems * adapter.LightUnitsPerSystem; n > limit {
			return nil, fmt.Errorf("light holds at most %d units, got %d", limit, n)
		}
		units := make(map[status.Address]simulator.Unit, n)
		for i := 0; i < n; i++ {
			u := unit(i)
			u.Fan = 0x04
			addr := status.Address{
				System: uint8(i / adapter.LightUnitsPerSystem),
				Index:  uint8(i % adapter.LightUnitsPerSystem),
			}
			units[addr] = u
		}
		return simulator.LightGateway(brand, units), nil

	case "pro":
		if n > adapter.ProMaxUnits {
			return nil, fmt.Errorf("pro holds at most %d units, got %d", adapter.ProMaxUnits, n)
		}
		units := make(map[uint8]simulator.Unit, n)
		for i := 0; i < n; i++ {
			u := unit(i)
			u.Humidity = 45
			u.Runtime = 60 * i
			units[uint8(i)] = u
		}
		return simulator.ProGateway(brand, slave, units), nil
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

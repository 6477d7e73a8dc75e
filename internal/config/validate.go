// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
)

var knownAdapters = map[string]bool{
	"solo":  true,
	"light": true,
	"pro":   true,
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if len(cfg.VRF.Gateways) == 0 {
		return errors.New("vrf.gateways: at least one gateway required")
	}

	ids := make(map[string]bool)
	// key = link | slave
	owners := make(map[string]string)

	for i, g := range cfg.VRF.Gateways {
		if g.ID == "" {
			return fmt.Errorf("gateway #%d: id is required", i)
		}
		if ids[g.ID] {
			return fmt.Errorf("gateway %q: duplicate id", g.ID)
		}
		ids[g.ID] = true

		if !knownAdapters[g.Adapter] {
			return fmt.Errorf("gateway %q: unknown adapter %q (want solo, light or pro)", g.ID, g.Adapter)
		}
		if g.SlaveID < 1 || g.SlaveID > 247 {
			return fmt.Errorf("gateway %q: slave_id %d out of range 1..247", g.ID, g.SlaveID)
		}

		if err := validateTransport(g.Transport); err != nil {
			return fmt.Errorf("gateway %q: %w", g.ID, err)
		}

		if g.Poll.IntervalMs < 0 || g.Poll.SetupRetryMs < 0 {
			return fmt.Errorf("gateway %q: poll intervals must not be negative", g.ID)
		}

		key := fmt.Sprintf("%s|%d", linkKey(g.Transport), g.SlaveID)
		if prev, exists := owners[key]; exists {
			return fmt.Errorf(
				"slave collision: link=%s slave_id=%d used by gateways %q and %q",
				linkKey(g.Transport),
				g.SlaveID,
				prev,
				g.ID,
			)
		}
		owners[key] = g.ID
	}

	switch cfg.VRF.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("vrf.log.format %q: want json or console", cfg.VRF.Log.Format)
	}

	p := cfg.VRF.Probe
	if p.SlaveTo != 0 && p.SlaveFrom > p.SlaveTo {
		return fmt.Errorf("vrf.probe: slave_from %d is above slave_to %d", p.SlaveFrom, p.SlaveTo)
	}
	if p.SlaveTo > 247 {
		return fmt.Errorf("vrf.probe: slave_to %d out of range 1..247", p.SlaveTo)
	}

	return nil
}

func validateTransport(t TransportConfig) error {
	switch t.Kind {
	case "serial":
		if t.Port == "" {
			return errors.New("transport: serial requires port")
		}
		switch t.Parity {
		case "", "N", "E", "O":
		default:
			return fmt.Errorf("transport: parity %q: want N, E or O", t.Parity)
		}
		if t.BaudRate < 0 || t.StopBits < 0 || t.ByteSize < 0 {
			return errors.New("transport: serial settings must not be negative")
		}
		if t.StopBits > 2 {
			return fmt.Errorf("transport: stopbits %d: want 1 or 2", t.StopBits)
		}
		if t.ByteSize != 0 && (t.ByteSize < 5 || t.ByteSize > 8) {
			return fmt.Errorf("transport: bytesize %d: want 5..8", t.ByteSize)
		}
	case "tcp":
		if t.Host == "" {
			return errors.New("transport: tcp requires host")
		}
		if t.TCPPort < 0 || t.TCPPort > 65535 {
			return fmt.Errorf("transport: tcp_port %d out of range", t.TCPPort)
		}
	default:
		return fmt.Errorf("transport: unknown kind %q (want serial or tcp)", t.Kind)
	}

	if t.TimeoutMs < 0 {
		return errors.New("transport: timeout_ms must not be negative")
	}
	return nil
}

// linkKey identifies the physical link a transport config points at,
// with the tcp port defaulted the same way Normalize does.
func linkKey(t TransportConfig) string {
	if t.Kind == "tcp" {
		port := t.TCPPort
		if port == 0 {
			port = DefaultTCPPort
		}
		return fmt.Sprintf("tcp::%s:%d", t.Host, port)
	}
	return "serial::" + t.Port
}

// internal/config/normalize.go
package config

import "time"

// Defaults applied by Normalize.
const (
	DefaultBaudRate     = 9600
	DefaultParity       = "E"
	DefaultStopBits     = 1
	DefaultByteSize     = 8
	DefaultTCPPort      = 502
	DefaultTimeoutMs    = 3000
	DefaultIntervalMs   = 2000
	DefaultSetupRetryMs = 30000

	DefaultSlaveFrom uint8 = 1
	DefaultSlaveTo   uint8 = 10

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	for gi := range cfg.VRF.Gateways {
		g := &cfg.VRF.Gateways[gi]
		t := &g.Transport

		switch t.Kind {
		case "serial":
			setDefault(&t.BaudRate, DefaultBaudRate)
			setDefault(&t.StopBits, DefaultStopBits)
			setDefault(&t.ByteSize, DefaultByteSize)
			if t.Parity == "" {
				t.Parity = DefaultParity
			}
		case "tcp":
			setDefault(&t.TCPPort, DefaultTCPPort)
		}
		setDefault(&t.TimeoutMs, DefaultTimeoutMs)

		setDefault(&g.Poll.IntervalMs, DefaultIntervalMs)
		setDefault(&g.Poll.SetupRetryMs, DefaultSetupRetryMs)
	}

	if cfg.VRF.Probe.SlaveFrom == 0 {
		cfg.VRF.Probe.SlaveFrom = DefaultSlaveFrom
	}
	if cfg.VRF.Probe.SlaveTo == 0 {
		cfg.VRF.Probe.SlaveTo = DefaultSlaveTo
	}

	if cfg.VRF.Log.Level == "" {
		cfg.VRF.Log.Level = DefaultLogLevel
	}
	if cfg.VRF.Log.Format == "" {
		cfg.VRF.Log.Format = DefaultLogFormat
	}
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

// Interval returns the poll interval.
func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalMs) * time.Millisecond
}

// SetupRetry returns the wait between setup attempts.
func (p PollConfig) SetupRetry() time.Duration {
	return time.Duration(p.SetupRetryMs) * time.Millisecond
}

// Timeout returns the per-request transport timeout.
func (t TransportConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutMs) * time.Millisecond
}

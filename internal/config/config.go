// internal/config/config.go
package config

type Config struct {
	VRF VRFConfig `yaml:"vrf"`
}

type VRFConfig struct {
	Gateways []GatewayConfig `yaml:"gateways"`
	Metrics  MetricsConfig   `yaml:"metrics"`
	Log      LogConfig       `yaml:"log"`
	Probe    ProbeConfig     `yaml:"probe"`
}

// ---- GATEWAY ----

type GatewayConfig struct {
	ID        string          `yaml:"id"`
	Adapter   string          `yaml:"adapter"` // solo | light | pro
	SlaveID   uint8           `yaml:"slave_id"`
	Transport TransportConfig `yaml:"transport"`
	Poll      PollConfig      `yaml:"poll"`
}

// ---- TRANSPORT ----

type TransportConfig struct {
	Kind string `yaml:"kind"` // serial | tcp

	// serial
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baudrate"`
	Parity   string `yaml:"parity"` // N | E | O
	StopBits int    `yaml:"stopbits"`
	ByteSize int    `yaml:"bytesize"`

	// tcp
	Host    string `yaml:"host"`
	TCPPort int    `yaml:"tcp_port"`

	TimeoutMs int `yaml:"timeout_ms"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs   int `yaml:"interval_ms"`
	SetupRetryMs int `yaml:"setup_retry_ms"`
}

// ---- AMBIENT ----

type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty disables /metrics
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | console
}

type ProbeConfig struct {
	SlaveFrom uint8 `yaml:"slave_from"`
	SlaveTo   uint8 `yaml:"slave_to"`
}

// internal/transport/types.go
package transport

import (
	"fmt"
	"strings"
	"time"
)

// Client is the register contract the adapters depend on.
// Implementations never retry; retry policy belongs to the caller.
type Client interface {
	Connect() error
	ReadHoldingRegisters(addr, count uint16) ([]uint16, error)
	WriteRegister(addr, value uint16) error
	WriteRegisters(addr uint16, values []uint16) error
}

// Conn is raw access to one physical link. The slave id is chosen per
// call. Conn implementations are not safe for concurrent use; Link
// serializes them.
type Conn interface {
	Connect() error
	Close() error
	ReadHoldingRegisters(slave uint8, addr, count uint16) ([]byte, error)
	WriteSingleRegister(slave uint8, addr, value uint16) error
	WriteMultipleRegisters(slave uint8, addr uint16, values []byte) error
}

// DialFunc builds a Conn for a link config. It must not block on I/O.
type DialFunc func(cfg LinkConfig) (Conn, error)

// Kind selects the physical transport.
type Kind string

const (
	KindSerial Kind = "serial"
	KindTCP    Kind = "tcp"
)

// LinkConfig describes one physical link.
type LinkConfig struct {
	Kind Kind

	// serial
	Device   string
	BaudRate int
	DataBits int
	StopBits int
	Parity   string

	// tcp
	Host string
	Port int

	Timeout time.Duration
}

// Key identifies the physical link: two configs with the same key
// share one Link.
func (c LinkConfig) Key() string {
	switch c.Kind {
	case KindSerial:
		return fmt.Sprintf("serial::%s", strings.TrimSpace(c.Device))
	default:
		return fmt.Sprintf("tcp::%s:%d", strings.TrimSpace(c.Host), c.Port)
	}
}

// Address is the dial address for the underlying library.
func (c LinkConfig) Address() string {
	if c.Kind == KindSerial {
		return c.Device
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

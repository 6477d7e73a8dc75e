// internal/transport/modbus/conn.go
package modbus

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/vrf-gateway/internal/transport"
)

// DefaultTimeout is the per-request timeout when none is configured.
const DefaultTimeout = 3 * time.Second

// handler is what both goburrow client handlers provide.
type handler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// Conn is a transport.Conn over goburrow/modbus, serial RTU or TCP.
// It mutates the handler's SlaveId per request; transport.Link
// serializes calls.
type Conn struct {
	handler  handler
	setSlave func(uint8)
	client   modbus.Client
}

// Dial builds a Conn for cfg. It does not open the line; goburrow
// connects lazily and Link calls Connect on first use.
func Dial(cfg transport.LinkConfig) (transport.Conn, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	switch cfg.Kind {
	case transport.KindSerial:
		if cfg.Device == "" {
			return nil, errors.New("modbus conn: serial device required")
		}
		h := modbus.NewRTUClientHandler(cfg.Device)
		h.BaudRate = cfg.BaudRate
		h.DataBits = cfg.DataBits
		h.StopBits = cfg.StopBits
		h.Parity = cfg.Parity
		h.Timeout = timeout
		return &Conn{
			handler:  h,
			setSlave: func(id uint8) { h.SlaveId = id },
			client:   modbus.NewClient(h),
		}, nil

	case transport.KindTCP:
		if cfg.Host == "" {
			return nil, errors.New("modbus conn: tcp host required")
		}
		h := modbus.NewTCPClientHandler(cfg.Address())
		h.Timeout = timeout
		return &Conn{
			handler:  h,
			setSlave: func(id uint8) { h.SlaveId = id },
			client:   modbus.NewClient(h),
		}, nil

	default:
		return nil, fmt.Errorf("modbus conn: unsupported transport kind %q", cfg.Kind)
	}
}

func (c *Conn) Connect() error {
	return c.handler.Connect()
}

func (c *Conn) Close() error {
	return c.handler.Close()
}

func (c *Conn) ReadHoldingRegisters(slave uint8, addr, count uint16) ([]byte, error) {
	c.setSlave(slave)
	b, err := c.client.ReadHoldingRegisters(addr, count)
	if err != nil {
		return nil, translate(err)
	}
	return b, nil
}

func (c *Conn) WriteSingleRegister(slave uint8, addr, value uint16) error {
	c.setSlave(slave)
	_, err := c.client.WriteSingleRegister(addr, value)
	return translate(err)
}

func (c *Conn) WriteMultipleRegisters(slave uint8, addr uint16, values []byte) error {
	c.setSlave(slave)
	qty := uint16(len(values) / 2)
	_, err := c.client.WriteMultipleRegisters(addr, qty, values)
	return translate(err)
}

// translate maps goburrow errors onto the transport taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var mbErr *modbus.ModbusError
	if errors.As(err, &mbErr) {
		return &transport.ExceptionError{
			Function:  mbErr.FunctionCode,
			Exception: mbErr.ExceptionCode,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", transport.ErrTimeout, err)
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return fmt.Errorf("%w: %v", transport.ErrTimeout, err)
	}

	return err
}
